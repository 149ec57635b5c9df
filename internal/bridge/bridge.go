package bridge

import (
	"github.com/lomoval/otus-golang/calendar/internal/storage"
)

// Bridge receives committed events for display. Calls are fire-and-forget.
type Bridge interface {
	Add(e storage.Event)
	Update(e storage.Event)
}

// Subscriber delivers outside clicks of an open form.
type Subscriber interface {
	Subscribe(handler func()) (unsubscribe func())
}

type Multi []Bridge

func (m Multi) Add(e storage.Event) {
	for _, b := range m {
		b.Add(e)
	}
}

func (m Multi) Update(e storage.Event) {
	for _, b := range m {
		b.Update(e)
	}
}
