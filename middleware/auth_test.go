package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"baequest_server/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthedRouter(t *testing.T) (*mux.Router, *string) {
	t.Helper()
	var seenUserID string
	r := mux.NewRouter()
	r.Use(middleware.Auth(testSecret))
	r.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		seenUserID = middleware.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return r, &seenUserID
}

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthAcceptsValidCookie(t *testing.T) {
	router, seenUserID := newAuthedRouter(t)

	token := signToken(t, jwt.MapClaims{
		"_id": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u1", *seenUserID)
}

func TestAuthRejectsMissingCookie(t *testing.T) {
	router, _ := newAuthedRouter(t)

	req := httptest.NewRequest("GET", "/protected", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	router, _ := newAuthedRouter(t)

	token := signToken(t, jwt.MapClaims{"_id": "u1"}, "other-secret")
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	router, _ := newAuthedRouter(t)

	token := signToken(t, jwt.MapClaims{
		"_id": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, testSecret)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthRejectsTokenWithoutUserID(t *testing.T) {
	router, _ := newAuthedRouter(t)

	token := signToken(t, jwt.MapClaims{"sub": "u1"}, testSecret)
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
