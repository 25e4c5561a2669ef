package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/studybuddy-csulb/studybuddy-api/api"
	"github.com/studybuddy-csulb/studybuddy-api/config"
	"github.com/studybuddy-csulb/studybuddy-api/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func testAuth() api.Auth {
	return api.Auth{Config: config.Config{
		JWTSecret:           testSecret,
		AllowedEmailDomains: []string{"@csulb.edu"},
	}}
}

func TestMiddlewareAuthenticates(t *testing.T) {
	var got models.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := api.PrincipalFromContext(r.Context())
		assert.True(t, ok)
		got = principal
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/groups", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.MapClaims{
		"sub":   "user-1",
		"email": "Student@CSULB.edu",
	}))

	rr := httptest.NewRecorder()
	testAuth().Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "student@csulb.edu", got.Email)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	})

	req := httptest.NewRequest("GET", "/api/v1/groups", nil)
	rr := httptest.NewRecorder()
	testAuth().Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, `{"error": "unauthorized"}`, rr.Body.String())
}

func TestMiddlewareRejectsBadSignature(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	})

	req := httptest.NewRequest("GET", "/api/v1/groups", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong-secret", jwt.MapClaims{
		"sub":   "user-1",
		"email": "student@csulb.edu",
	}))

	rr := httptest.NewRecorder()
	testAuth().Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMiddlewareRejectsMissingSub(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	})

	req := httptest.NewRequest("GET", "/api/v1/groups", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.MapClaims{
		"email": "student@csulb.edu",
	}))

	rr := httptest.NewRecorder()
	testAuth().Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMiddlewareEnforcesEmailDomain(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	})

	req := httptest.NewRequest("GET", "/api/v1/groups", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.MapClaims{
		"sub":   "user-1",
		"email": "someone@gmail.com",
	}))

	rr := httptest.NewRecorder()
	testAuth().Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestMiddlewareNoDomainListAllowsAnyEmail(t *testing.T) {
	auth := api.Auth{Config: config.Config{JWTSecret: testSecret}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/groups", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.MapClaims{
		"sub":   "user-1",
		"email": "someone@gmail.com",
	}))

	rr := httptest.NewRecorder()
	auth.Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
