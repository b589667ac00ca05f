package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetUserFromContext(r)
		require.NotNil(t, claims, "claims must be injected for authorized requests")
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_ValidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, err := tm.Generate(1, "user@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	Middleware(tm)(protectedHandler(t)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddleware_MissingHeader(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	req := httptest.NewRequest("GET", "/api/users", nil)
	w := httptest.NewRecorder()

	Middleware(tm)(protectedHandler(t)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	for _, header := range []string{"Bearer", "Basic abc", "bearer token"} {
		req := httptest.NewRequest("GET", "/api/users", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()

		Middleware(tm)(protectedHandler(t)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	expired := NewTokenManager(testSecret, -time.Minute)
	token, err := expired.Generate(1, "user@example.com")
	require.NoError(t, err)

	tm := NewTokenManager(testSecret, time.Hour)
	req := httptest.NewRequest("GET", "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	Middleware(tm)(protectedHandler(t)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
