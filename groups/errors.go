package groups

import (
	"errors"
	"fmt"

	"github.com/studybuddy-csulb/studybuddy-api/schedule"
)

// Typed failures surfaced by the engine. Handlers map these onto HTTP status
// codes; nothing below ever commits a partial write.
var (
	ErrNotFound         = errors.New("study group not found")
	ErrOwnerNotFound    = errors.New("study group owner not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrForbidden        = errors.New("caller is not allowed to perform this action")
	ErrScheduleConflict = errors.New("time overlap exists with joined study groups")
	ErrAlreadyInGroup   = errors.New("user is already a member or owner of this study group")
	ErrInvalidInvite    = errors.New("users cannot invite themselves")
	ErrStoreUnavailable = errors.New("store unavailable")
)

var typedErrs = []error{
	ErrNotFound,
	ErrOwnerNotFound,
	ErrUserNotFound,
	ErrForbidden,
	ErrScheduleConflict,
	ErrAlreadyInGroup,
	ErrInvalidInvite,
	schedule.ErrMalformedTime,
}

// wrapStoreErr keeps typed engine errors intact and classifies everything
// else (exhausted transaction retries, session failures, network errors) as a
// store availability failure. A wrapped error means the operation was not
// applied.
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	for _, typed := range typedErrs {
		if errors.Is(err, typed) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
