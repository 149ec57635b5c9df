package datetime

import (
	"errors"
	"fmt"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

var ErrInvalidFormat = errors.New("invalid date/time format")

// Encode returns the canonical representation consumed by the calendar view.
func Encode(t time.Time, allDay bool) string {
	if t.IsZero() {
		return ""
	}
	if allDay {
		return t.Format(DateLayout)
	}
	return t.Format(DateTimeLayout)
}

// Decode parses both canonical layouts in the local location.
// The returned flag reports whether the value had no time component.
func Decode(s string) (time.Time, bool, error) {
	switch len(s) {
	case len(DateLayout):
		t, err := time.ParseInLocation(DateLayout, s, time.Local)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("%q: %w", s, ErrInvalidFormat)
		}
		return t, true, nil
	case len(DateTimeLayout):
		t, err := time.ParseInLocation(DateTimeLayout, s, time.Local)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("%q: %w", s, ErrInvalidFormat)
		}
		return t, false, nil
	default:
		return time.Time{}, false, fmt.Errorf("%q: %w", s, ErrInvalidFormat)
	}
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay is the last millisecond of the calendar day of t.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func TruncateToMinute(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}
