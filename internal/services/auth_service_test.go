package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-todo-api/internal/storage/sqlite"
)

var testHashParams = &argon2id.Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func newTestAuthService(t *testing.T, refreshTTL time.Duration) (AuthService, SessionService) {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "auth.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	auth := NewAuthService(zerolog.Nop(), store.Users(), store.Sessions(), AuthConfig{
		HashParams:      testHashParams,
		Issuer:          "test",
		SigningKey:      []byte("secret"),
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: refreshTTL,
	})
	return auth, NewSessionService(zerolog.Nop(), store.Sessions())
}

var testLogin = LoginParams{
	Email:       "jane@example.com",
	Password:    "correct horse",
	Fingerprint: "fingerprint",
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	auth, sessions := newTestAuthService(t, time.Hour)

	registered, err := auth.Register(ctx, testLogin)
	require.NoError(t, err)
	assert.NotEmpty(t, registered.UserID)
	assert.NotEmpty(t, registered.RefreshToken)

	claims, err := auth.ParseJWTToken(registered.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.SessionID, claims.Subject)
	assert.Equal(t, "test", claims.Issuer)

	loggedIn, err := auth.Login(ctx, testLogin)
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, loggedIn.UserID)
	assert.NotEqual(t, registered.SessionID, loggedIn.SessionID)

	_, err = sessions.GetSessionByID(ctx, registered.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound, "login must replace older sessions")

	session, err := sessions.GetSessionByID(ctx, loggedIn.SessionID)
	require.NoError(t, err)
	assert.Equal(t, testLogin.Fingerprint, session.Fingerprint)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuthService(t, time.Hour)

	_, err := auth.Register(ctx, testLogin)
	require.NoError(t, err)

	_, err = auth.Register(ctx, testLogin)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuthService(t, time.Hour)

	_, err := auth.Login(ctx, testLogin)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = auth.Register(ctx, testLogin)
	require.NoError(t, err)

	wrong := testLogin
	wrong.Password = "wrong password"
	_, err = auth.Login(ctx, wrong)
	assert.ErrorIs(t, err, ErrUserPasswordMismatch)
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuthService(t, time.Hour)

	registered, err := auth.Register(ctx, testLogin)
	require.NoError(t, err)

	refreshed, err := auth.Refresh(ctx, RefreshParams{
		RefreshToken: registered.RefreshToken,
		Fingerprint:  testLogin.Fingerprint,
	})
	require.NoError(t, err)
	assert.Equal(t, registered.SessionID, refreshed.SessionID)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	_, err = auth.Refresh(ctx, RefreshParams{
		RefreshToken: registered.RefreshToken,
		Fingerprint:  testLogin.Fingerprint,
	})
	assert.ErrorIs(t, err, ErrSessionNotFound, "old refresh token must be rotated out")

	_, err = auth.Refresh(ctx, RefreshParams{
		RefreshToken: refreshed.RefreshToken,
		Fingerprint:  "another device",
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAuthService_RefreshExpired(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuthService(t, -time.Minute)

	registered, err := auth.Register(ctx, testLogin)
	require.NoError(t, err)

	_, err = auth.Refresh(ctx, RefreshParams{
		RefreshToken: registered.RefreshToken,
		Fingerprint:  testLogin.Fingerprint,
	})
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	auth, sessions := newTestAuthService(t, time.Hour)

	registered, err := auth.Register(ctx, testLogin)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, registered.UserID))

	_, err = sessions.GetSessionByID(ctx, registered.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAuthService_ParseJWTToken(t *testing.T) {
	auth, _ := newTestAuthService(t, time.Hour)

	sign := func(key string, claims jwt.RegisteredClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		require.NoError(t, err)
		return token
	}
	now := time.Now()

	_, err := auth.ParseJWTToken(sign("secret", jwt.RegisteredClaims{
		Issuer:    "test",
		IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
	}))
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = auth.ParseJWTToken(sign("other key", jwt.RegisteredClaims{
		Issuer:    "test",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}))
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = auth.ParseJWTToken(sign("secret", jwt.RegisteredClaims{
		Issuer:   "test",
		IssuedAt: jwt.NewNumericDate(now),
	}))
	assert.Error(t, err, "tokens without exp must be rejected")

	_, err = auth.ParseJWTToken("not a token")
	assert.Error(t, err)
}
