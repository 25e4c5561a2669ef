package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studybuddy-csulb/studybuddy-api/config"
	"github.com/studybuddy-csulb/studybuddy-api/models"
)

type principalContextKey struct{}

// Auth verifies bearer tokens on incoming requests and stashes the caller
// identity in the request context for the handlers.
type Auth struct {
	Config config.Config
}

// Middleware adds bearer token authentication around accessing the routes
func (a Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		requestID := uuid.New().String()

		principal, err := a.verify(r)
		if err != nil {
			zap.S().Errorw("unauthorized",
				"url", r.URL,
				"requestID", requestID,
				"error", err)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}

		if !a.emailAllowed(principal.Email) {
			zap.S().Warnw("email domain not allowed",
				"url", r.URL,
				"requestID", requestID,
				"email", principal.Email)
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": "email domain not allowed"}`))
			return
		}

		zap.S().Debugw("authenticated",
			"requestID", requestID,
			"userID", principal.UserID)

		ctx := context.WithValue(r.Context(), principalContextKey{}, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// verify parses and validates the bearer token and extracts the caller identity
func (a Auth) verify(r *http.Request) (models.Principal, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return models.Principal{}, errors.New("missing bearer token")
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(a.Config.JWTSecret), nil
	})
	if err != nil {
		return models.Principal{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Principal{}, errors.New("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return models.Principal{}, errors.New("token missing sub claim")
	}
	email, _ := claims["email"].(string)

	return models.Principal{
		UserID: sub,
		Email:  strings.ToLower(email),
	}, nil
}

func (a Auth) emailAllowed(email string) bool {
	if len(a.Config.AllowedEmailDomains) == 0 {
		return true
	}
	for _, domain := range a.Config.AllowedEmailDomains {
		if strings.HasSuffix(email, domain) {
			return true
		}
	}
	return false
}

// PrincipalFromContext returns the caller identity stored by the auth middleware
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(models.Principal)
	return principal, ok
}

// WithPrincipal returns a context carrying the given caller identity, used by
// handler tests to inject an authenticated caller without the middleware.
func WithPrincipal(ctx context.Context, principal models.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principal)
}
