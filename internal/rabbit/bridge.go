package rabbit

import (
	"github.com/lomoval/otus-golang/calendar/internal/storage"
	log "github.com/sirupsen/logrus"
)

const (
	KindAdd    = "add"
	KindUpdate = "update"
)

// Message is published for every event committed to the calendar view.
type Message struct {
	Kind  string        `json:"kind"`
	Event storage.Event `json:"event"`
}

type Publisher interface {
	Publish(m Message) error
}

// Bridge forwards committed events to the queue. Failures are only logged.
type Bridge struct {
	publisher Publisher
}

func NewBridge(publisher Publisher) *Bridge {
	return &Bridge{publisher: publisher}
}

func (b *Bridge) Add(e storage.Event) {
	b.publish(Message{Kind: KindAdd, Event: e})
}

func (b *Bridge) Update(e storage.Event) {
	b.publish(Message{Kind: KindUpdate, Event: e})
}

func (b *Bridge) publish(m Message) {
	if err := b.publisher.Publish(m); err != nil {
		log.WithField("id", m.Event.ID).WithField("kind", m.Kind).Errorf("failed to publish event: %v", err)
		return
	}
	log.WithField("id", m.Event.ID).WithField("kind", m.Kind).Debug("event published")
}
