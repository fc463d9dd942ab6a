package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthedHandler(t *testing.T) (*TokenService, http.Handler, *uuid.UUID) {
	t.Helper()

	tokens := newTestTokenService(t)
	mw := NewMiddleware(tokens)

	var gotUserID uuid.UUID
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		require.True(t, ok)
		gotUserID = userID
		w.WriteHeader(http.StatusOK)
	}))

	return tokens, handler, &gotUserID
}

func TestRequireAuth_BearerToken(t *testing.T) {
	t.Parallel()

	tokens, handler, gotUserID := newAuthedHandler(t)
	userID := uuid.New()

	tok, err := tokens.CreateAccessToken(userID, "alice@example.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, *gotUserID)
}

func TestRequireAuth_CookieFallback(t *testing.T) {
	t.Parallel()

	tokens, handler, gotUserID := newAuthedHandler(t)
	userID := uuid.New()

	tok, err := tokens.CreateAccessToken(userID, "alice@example.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: tok})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, *gotUserID)
}

func TestRequireAuth_MissingCredentials(t *testing.T) {
	t.Parallel()

	_, handler, _ := newAuthedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	t.Parallel()

	_, handler, _ := newAuthedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "NotBearer token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	tokens, handler, _ := newAuthedHandler(t)

	tok, err := tokens.CreateAccessToken(uuid.New(), "alice@example.com", -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestRequireAuth_RefreshTokenRejected(t *testing.T) {
	t.Parallel()

	tokens, handler, _ := newAuthedHandler(t)

	tok, err := tokens.CreateRefreshToken(uuid.New(), "alice@example.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
