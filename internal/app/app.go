package app

import (
	"context"
	"fmt"

	"github.com/lomoval/otus-golang/calendar/internal/bridge"
	"github.com/lomoval/otus-golang/calendar/internal/form"
	"github.com/lomoval/otus-golang/calendar/internal/storage"
	log "github.com/sirupsen/logrus"
)

type App struct {
	Storage storage.Storage
	View    *bridge.View
	Clicks  *bridge.Clicks
	Form    *form.Controller
	targets bridge.Multi
}

// New wires the form to the storage. Saved events reach the view and every
// extra bridge.
func New(storage storage.Storage, bridges ...bridge.Bridge) *App {
	view := bridge.NewView()
	clicks := bridge.NewClicks()
	targets := append(bridge.Multi{view}, bridges...)
	return &App{
		Storage: storage,
		View:    view,
		Clicks:  clicks,
		Form:    form.New(storage, targets, clicks),
		targets: targets,
	}
}

// Load fills the view with the stored events.
func (a *App) Load(ctx context.Context) error {
	events, err := a.Storage.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	for _, e := range events {
		a.View.Add(e)
	}
	log.WithField("count", len(events)).Info("events loaded")
	return nil
}

func (a *App) Events() []storage.Event {
	return a.View.Events()
}

func (a *App) Event(id string) (storage.Event, error) {
	e, ok := a.View.Get(id)
	if !ok {
		return storage.Event{}, fmt.Errorf("event %q: %w", id, storage.ErrNotFoundEvent)
	}
	return e, nil
}

func (a *App) CreateEvent(ctx context.Context, d storage.Draft) (storage.Event, error) {
	e, err := a.Storage.Create(ctx, d)
	if err != nil {
		return storage.Event{}, err
	}
	a.targets.Add(e)
	return e, nil
}

// UpdateEvent replaces a stored event. An empty colour keeps the colour of
// the displayed event or gets a palette one.
func (a *App) UpdateEvent(ctx context.Context, e storage.Event) (storage.Event, error) {
	if e.Color == "" {
		if prev, ok := a.View.Get(e.ID); ok && prev.Color != "" {
			e.Color = prev.Color
		} else {
			e.Color = storage.RandomColor()
		}
	}
	e, err := a.Storage.Update(ctx, e)
	if err != nil {
		return storage.Event{}, err
	}
	a.targets.Update(e)
	return e, nil
}

func (a *App) DeleteEvent(ctx context.Context, id string) (bool, error) {
	ok, err := a.Storage.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	a.View.Remove(id)
	return ok, nil
}

// EditEvent opens the form for a displayed event.
func (a *App) EditEvent(id string) error {
	e, err := a.Event(id)
	if err != nil {
		return err
	}
	return a.Form.OpenForEdit(e)
}
