package schedule

import (
	"github.com/studybuddy-csulb/studybuddy-api/models"
)

// HasConflict reports whether the candidate window overlaps any of the
// windows the user already holds. Pure function of its inputs.
func HasConflict(existing []Window, candidate Window) bool {
	for _, w := range existing {
		if Overlaps(w, candidate) {
			return true
		}
	}
	return false
}

// FromProjections derives the windows a user currently holds from the
// joinedStudyGroups projection map inside their document. The group with id
// exclude is skipped, so re-checking a group against itself never conflicts.
func FromProjections(joined map[string]models.JoinedStudyGroup, exclude string) ([]Window, error) {
	windows := make([]Window, 0, len(joined))
	for id, g := range joined {
		if id == exclude {
			continue
		}
		w, err := NewWindow(g.Date, g.StartTime, g.EndTime)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, nil
}
