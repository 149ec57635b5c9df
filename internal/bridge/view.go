package bridge

import (
	"sync"

	"github.com/lomoval/otus-golang/calendar/internal/storage"
)

// View is the in-process list of events shown by the calendar.
type View struct {
	mu     sync.RWMutex
	events []storage.Event
}

func NewView() *View {
	return &View{}
}

func (v *View) Add(e storage.Event) {
	v.put(e)
}

func (v *View) Update(e storage.Event) {
	v.put(e)
}

func (v *View) Remove(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	i := v.indexOf(id)
	if i < 0 {
		return false
	}
	v.events = append(v.events[:i], v.events[i+1:]...)
	return true
}

func (v *View) Get(id string) (storage.Event, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	i := v.indexOf(id)
	if i < 0 {
		return storage.Event{}, false
	}
	return v.events[i], true
}

func (v *View) Events() []storage.Event {
	v.mu.RLock()
	defer v.mu.RUnlock()
	events := make([]storage.Event, len(v.events))
	copy(events, v.events)
	return events
}

func (v *View) put(e storage.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i := v.indexOf(e.ID); i >= 0 {
		v.events[i] = e
		return
	}
	v.events = append(v.events, e)
}

func (v *View) indexOf(id string) int {
	for i, e := range v.events {
		if e.ID == id {
			return i
		}
	}
	return -1
}
