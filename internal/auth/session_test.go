package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/studybuddy/backend/internal/config"
)

func testManager() *Manager {
	return NewManager(config.AuthConfig{JWTSecret: "test-secret", SessionDays: 7})
}

func TestSessionRoundTrip(t *testing.T) {
	m := testManager()
	in := Session{UserID: uuid.New(), Email: "a@b.com", Name: "Alice"}

	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, in))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	require.Equal(t, "session", cookie.Name)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	out, err := m.Verify(cookie.Value)
	require.NoError(t, err)
	require.Equal(t, in, *out)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := testManager()
	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, Session{UserID: uuid.New()}))
	token := rec.Result().Cookies()[0].Value

	_, err := m.Verify(token + "x")
	require.Error(t, err)

	_, err = m.Verify("not a token")
	require.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := testManager()
	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, Session{UserID: uuid.New()}))
	token := rec.Result().Cookies()[0].Value

	other := NewManager(config.AuthConfig{JWTSecret: "different", SessionDays: 7})
	_, err := other.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := testManager()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	require.NoError(t, err)

	_, err = m.Verify(token)
	require.Error(t, err)
}

func TestClearExpiresCookie(t *testing.T) {
	m := testManager()
	rec := httptest.NewRecorder()
	m.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "session", cookies[0].Name)
	require.Equal(t, -1, cookies[0].MaxAge)
	require.Empty(t, cookies[0].Value)
}
