package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lomoval/otus-golang/calendar/internal/bridge"
	"github.com/lomoval/otus-golang/calendar/internal/datetime"
	"github.com/lomoval/otus-golang/calendar/internal/storage"
	"github.com/lomoval/otus-golang/calendar/internal/validator"
	log "github.com/sirupsen/logrus"
)

const DefaultDuration = time.Hour

var (
	ErrValidation      = errors.New("event is not valid")
	ErrStoreFailure    = errors.New("store failed")
	ErrSubmitPending   = errors.New("submit is in progress")
	ErrSubmitDiscarded = errors.New("form was closed while submitting")
	ErrClosed          = errors.New("form is closed")
)

type Store interface {
	Create(ctx context.Context, d storage.Draft) (storage.Event, error)
	Update(ctx context.Context, e storage.Event) (storage.Event, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Controller is the event editing form. It is safe for concurrent use.
//
// Only Submit talks to the store and the bridge. A form closed while a submit
// is in flight drops the late store response. Bridge implementations must not
// call back into the controller.
type Controller struct {
	mu          sync.Mutex
	state       State
	store       Store
	view        bridge.Bridge
	clicks      bridge.Subscriber
	unsubscribe func()
	pending     bool
	generation  uint64
}

// New creates a closed form. clicks may be nil when outside clicks are not
// delivered.
func New(store Store, view bridge.Bridge, clicks bridge.Subscriber) *Controller {
	return &Controller{state: closed(), store: store, view: view, clicks: clicks}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OpenForNewTimedSlot starts creating an event of DefaultDuration at t.
func (c *Controller) OpenForNewTimedSlot(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending {
		return ErrSubmitPending
	}
	c.open(creating(Fields{Start: t, End: t.Add(DefaultDuration)}))
	return nil
}

// OpenForNewAllDaySlot starts creating an all-day event on the day of t.
func (c *Controller) OpenForNewAllDaySlot(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending {
		return ErrSubmitPending
	}
	day := datetime.StartOfDay(t)
	c.open(creating(Fields{Start: day, End: day, AllDay: true}))
	return nil
}

func (c *Controller) OpenForEdit(e storage.Event) error {
	start, _, err := datetime.Decode(e.Start)
	if err != nil {
		return fmt.Errorf("event %q start: %w", e.ID, err)
	}
	end := start
	if e.End != "" {
		if end, _, err = datetime.Decode(e.End); err != nil {
			return fmt.Errorf("event %q end: %w", e.ID, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending {
		return ErrSubmitPending
	}
	c.open(editing(e.ID, e.Color, Fields{
		Title:       e.Title,
		Description: e.Description,
		Start:       start,
		End:         end,
		AllDay:      e.AllDay,
	}))
	return nil
}

// DoubleClickOnDateTime handles the view's timed slot signal.
func (c *Controller) DoubleClickOnDateTime(s string) error {
	t, allDay, err := datetime.Decode(s)
	if err != nil {
		return err
	}
	if allDay {
		return fmt.Errorf("%q has no time: %w", s, datetime.ErrInvalidFormat)
	}
	return c.OpenForNewTimedSlot(t)
}

// DoubleClickOnDate handles the view's day cell signal.
func (c *Controller) DoubleClickOnDate(s string) error {
	t, allDay, err := datetime.Decode(s)
	if err != nil {
		return err
	}
	if !allDay {
		return fmt.Errorf("%q is not a date: %w", s, datetime.ErrInvalidFormat)
	}
	return c.OpenForNewAllDaySlot(t)
}

func (c *Controller) SetTitle(title string) error {
	return c.edit(func(f *Fields) {
		f.Title = title
	})
}

func (c *Controller) SetDescription(description string) error {
	return c.edit(func(f *Fields) {
		f.Description = description
	})
}

// SetAllDay collapses the range to the whole day of the start when turned on.
// Turning it off keeps the dates.
func (c *Controller) SetAllDay(allDay bool) error {
	return c.edit(func(f *Fields) {
		f.AllDay = allDay
		if allDay {
			normalizeDay(f)
		}
	})
}

// SetStart moves the start. An end that is not after the new start is
// replaced by start + DefaultDuration.
func (c *Controller) SetStart(start time.Time) error {
	return c.edit(func(f *Fields) {
		f.Start = start
		if f.End.IsZero() || !f.End.After(f.Start) {
			f.End = f.Start.Add(DefaultDuration)
		}
		if f.AllDay {
			normalizeDay(f)
		}
	})
}

// SetEnd replaces the end as is, even when it precedes the start.
func (c *Controller) SetEnd(end time.Time) error {
	return c.edit(func(f *Fields) {
		f.End = end
	})
}

// Submit saves the form through the store and hands the saved event to the
// bridge. An invalid form is left untouched and nothing is called. On a store
// failure the form stays open with its fields.
func (c *Controller) Submit(ctx context.Context) (storage.Event, error) {
	c.mu.Lock()
	if !c.state.IsOpen() {
		c.mu.Unlock()
		return storage.Event{}, ErrClosed
	}
	if c.pending {
		c.mu.Unlock()
		return storage.Event{}, ErrSubmitPending
	}
	draft := c.draft()
	if err := validateDraft(draft); err != nil {
		c.mu.Unlock()
		return storage.Event{}, err
	}
	state := c.state
	generation := c.generation
	c.pending = true
	c.mu.Unlock()

	var (
		saved storage.Event
		err   error
	)
	if state.mode == ModeEditing {
		saved, err = c.store.Update(ctx, storage.Event{
			ID:          state.editingID,
			Title:       draft.Title,
			Description: draft.Description,
			Start:       draft.Start,
			End:         draft.End,
			AllDay:      draft.AllDay,
			Color:       state.color,
		})
	} else {
		saved, err = c.store.Create(ctx, draft)
	}

	logger := log.WithField("mode", state.mode.String()).WithField("title", draft.Title)
	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		logger.WithField("id", saved.ID).WithField("error", err).Warn("dropping store response of closed form")
		if err == nil && state.mode == ModeCreating {
			c.rollback(ctx, saved.ID, logger)
		}
		return storage.Event{}, ErrSubmitDiscarded
	}
	defer c.mu.Unlock()
	c.pending = false
	if err != nil {
		logger.Errorf("failed to save event: %v", err)
		return storage.Event{}, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	if state.mode == ModeEditing {
		c.view.Update(saved)
	} else {
		c.view.Add(saved)
	}
	logger.WithField("id", saved.ID).Info("event saved")
	c.close()
	return saved, nil
}

// rollback removes an event created by a form that was closed before the
// store answered. An edit that lands after close stays stored.
func (c *Controller) rollback(ctx context.Context, id string, logger *log.Entry) {
	if _, err := c.store.Delete(ctx, id); err != nil {
		logger.WithField("id", id).Errorf("failed to remove discarded event: %v", err)
	}
}

// Cancel closes the form without saving. It is a no-op for a closed form.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.IsOpen() {
		return
	}
	if c.pending {
		log.WithField("mode", c.state.mode.String()).Debug("form closed while submitting")
	}
	c.close()
}

func (c *Controller) edit(apply func(f *Fields)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.IsOpen() {
		return ErrClosed
	}
	if c.pending {
		return ErrSubmitPending
	}
	apply(&c.state.fields)
	return nil
}

func (c *Controller) open(s State) {
	c.state = s
	if c.unsubscribe == nil && c.clicks != nil {
		c.unsubscribe = c.clicks.Subscribe(c.Cancel)
	}
}

func (c *Controller) close() {
	c.state = closed()
	c.pending = false
	c.generation++
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *Controller) draft() storage.Draft {
	f := c.state.fields
	d := storage.Draft{
		Title:       f.Title,
		Description: f.Description,
		Start:       datetime.Encode(f.Start, f.AllDay),
		End:         datetime.Encode(f.End, f.AllDay),
		AllDay:      f.AllDay,
	}
	if d.End == "" {
		d.End = d.Start
	}
	return d
}

func validateDraft(d storage.Draft) error {
	if err := validator.Validate(d); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func normalizeDay(f *Fields) {
	if f.Start.IsZero() {
		return
	}
	f.End = datetime.EndOfDay(f.Start)
	f.Start = datetime.StartOfDay(f.Start)
}
