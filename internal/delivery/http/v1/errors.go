package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var (
	errInvalidRequestBody      = errors.New("invalid request body")
	errInvalidTodoID           = errors.New("todo id must be an integer")
	errMandatoryCookieNotFound = errors.New("mandatory cookie not found")
)

type apiError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Fields  []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	body := gin.H{"error": err.Message}
	if len(err.Fields) > 0 {
		body["fields"] = err.Fields
	}
	c.AbortWithStatusJSON(err.Code, body)
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

func newUnprocessableEntityError(message string) apiError {
	return newAPIError(http.StatusUnprocessableEntity, message)
}

// newValidationError lists every failed rule of err. Errors
// that aren't validator.ValidationErrors keep only the message.
func newValidationError(message string, err error) apiError {
	apiErr := newUnprocessableEntityError(message)

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		apiErr.Fields = make([]fieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			apiErr.Fields = append(apiErr.Fields, fieldError{
				Field: strings.ToLower(fe.Field()),
				Rule:  fe.Tag(),
				Param: fe.Param(),
			})
		}
	}
	return apiErr
}
