package storage

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/lomoval/otus-golang/calendar/internal/datetime"
	"github.com/lomoval/otus-golang/calendar/internal/validator"
)

// Palette holds the colours assigned to events created without one.
var Palette = []string{
	"#4285F4", // blue
	"#34A853", // green
	"#FBBC05", // yellow
	"#EA4335", // red
	"#8E24AA", // purple
	"#009688", // teal
	"#FF9800", // orange
	"#607D8B", // blue grey
}

// Draft is an event supplied by a caller before persisting. ID, Description
// and Color may be empty.
type Draft struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Start       string `json:"start" validate:"required|regexp:^\\d{4}-\\d{2}-\\d{2}( \\d{2}:\\d{2})?$"`
	End         string `json:"end" validate:"regexp:^(\\d{4}-\\d{2}-\\d{2}( \\d{2}:\\d{2})?)?$"`
	AllDay      bool   `json:"allDay,omitempty"`
	Color       string `json:"color,omitempty"`
}

// Event is a persisted calendar event. Start and End use the canonical
// layouts of the datetime package.
type Event struct {
	ID          string `json:"id" db:"id" validate:"required"`
	Title       string `json:"title" db:"title" validate:"required"`
	Description string `json:"description,omitempty" db:"description"`
	Start       string `json:"start" db:"start_at" validate:"regexp:^\\d{4}-\\d{2}-\\d{2}( \\d{2}:\\d{2})?$"`
	End         string `json:"end" db:"end_at" validate:"regexp:^\\d{4}-\\d{2}-\\d{2}( \\d{2}:\\d{2})?$"`
	AllDay      bool   `json:"allDay,omitempty" db:"all_day"`
	Color       string `json:"color,omitempty" db:"color"`
}

// Validate checks the tags and the period of a draft. An empty End means
// the event ends at Start.
func (d Draft) Validate() error {
	if err := validator.Validate(d); err != nil {
		return fmt.Errorf("%v: %w", err, ErrIncorrectEvent)
	}
	end := d.End
	if end == "" {
		end = d.Start
	}
	return checkPeriod(d.Start, end, d.AllDay)
}

// Validate checks the tags and the period of an event.
func (e Event) Validate() error {
	if err := validator.Validate(e); err != nil {
		return fmt.Errorf("%v: %w", err, ErrIncorrectEvent)
	}
	return checkPeriod(e.Start, e.End, e.AllDay)
}

// checkPeriod requires real dates in the layout matching allDay and
// start <= end.
func checkPeriod(start, end string, allDay bool) error {
	from, err := decodePoint(start, allDay)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	to, err := decodePoint(end, allDay)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if to.Before(from) {
		return fmt.Errorf("end %q is before start %q: %w", end, start, ErrIncorrectEvent)
	}
	return nil
}

func decodePoint(s string, allDay bool) (time.Time, error) {
	t, dateOnly, err := datetime.Decode(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%v: %w", err, ErrIncorrectEvent)
	}
	if dateOnly != allDay {
		return time.Time{}, fmt.Errorf("%q does not match allDay=%t: %w", s, allDay, ErrIncorrectEvent)
	}
	return t, nil
}

// Draft returns the event as a draft keeping its ID and colour.
func (e Event) Draft() Draft {
	return Draft(e)
}

// Complete converts a draft into a persisted event. It is the single place
// where missing IDs and colours get assigned; Storage.Create implementations
// must go through it.
func Complete(d Draft, nextID func() string, pickColor func() string) Event {
	e := Event{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Start:       d.Start,
		End:         d.End,
		AllDay:      d.AllDay,
		Color:       d.Color,
	}
	if e.ID == "" {
		e.ID = nextID()
	}
	if e.Color == "" {
		e.Color = pickColor()
	}
	if e.End == "" {
		e.End = e.Start
	}
	return e
}

var (
	rndMu sync.Mutex
	rnd   = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec
)

func RandomColor() string {
	rndMu.Lock()
	defer rndMu.Unlock()
	return Palette[rnd.Intn(len(Palette))]
}

func InPalette(color string) bool {
	for _, c := range Palette {
		if c == color {
			return true
		}
	}
	return false
}
