package handlers

import (
	"errors"
	"net/http"

	"github.com/studybuddy-csulb/studybuddy-api/api"
	"github.com/studybuddy-csulb/studybuddy-api/config"
	"github.com/studybuddy-csulb/studybuddy-api/groups"
	"github.com/studybuddy-csulb/studybuddy-api/models"
	"github.com/studybuddy-csulb/studybuddy-api/schedule"
)

// statusForError maps typed engine failures onto HTTP status codes. Anything
// untyped is a bug surfaced as a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, schedule.ErrMalformedTime),
		errors.Is(err, groups.ErrAlreadyInGroup),
		errors.Is(err, groups.ErrInvalidInvite):
		return http.StatusBadRequest
	case errors.Is(err, groups.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, groups.ErrNotFound),
		errors.Is(err, groups.ErrOwnerNotFound),
		errors.Is(err, groups.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, groups.ErrScheduleConflict):
		return http.StatusConflict
	case errors.Is(err, groups.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// caller pulls the authenticated principal out of the request context. The
// auth middleware guarantees it is present on every protected route.
func caller(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing authenticated caller", http.StatusUnauthorized, w, errors.New("no principal in request context"))
		return models.Principal{}, false
	}
	return principal, true
}
