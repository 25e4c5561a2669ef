package schedule

import (
	"errors"
	"fmt"
	"time"

	// carry zone data so campus-time conversion works on scratch containers
	_ "time/tzdata"
)

// ErrMalformedTime is returned when a date or time literal cannot be parsed
// as YYYY-MM-DD / HH:MM.
var ErrMalformedTime = errors.New("malformed date or time")

const defaultCampusZone = "America/Los_Angeles"

var campusLoc = mustLoadZone(defaultCampusZone)

func mustLoadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load campus time zone %q: %v", name, err))
	}
	return loc
}

// SetCampusZone overrides the campus time zone, normally from config at
// startup. Windows are always compared as UTC instants afterwards.
func SetCampusZone(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	campusLoc = loc
	return nil
}

// Window is a half-open interval [Start, End) on a specific calendar day,
// held as zone-independent UTC instants.
type Window struct {
	Start time.Time
	End   time.Time
}

// ToInstant interprets a (YYYY-MM-DD, HH:MM) wall-clock pair in the campus
// time zone and converts it to a UTC instant.
func ToInstant(date, hhmm string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, campusLoc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", ErrMalformedTime, date, hhmm)
	}
	return t.UTC(), nil
}

// NewWindow builds a Window from a date and a start/end time pair.
func NewWindow(date, startTime, endTime string) (Window, error) {
	start, err := ToInstant(date, startTime)
	if err != nil {
		return Window{}, err
	}
	end, err := ToInstant(date, endTime)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: end}, nil
}

// Overlaps reports whether two windows intersect. Boundaries are half-open,
// so a window ending exactly when another starts does not overlap it.
func Overlaps(a, b Window) bool {
	return a.End.After(b.Start) && b.End.After(a.Start)
}
