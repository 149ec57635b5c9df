package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

var ErrNotConnected = errors.New("view queue is not connected")

type Config struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Queue    string
}

// ViewQueue carries committed calendar events between the service and the
// consumers that mirror the calendar view.
type ViewQueue struct {
	url     string
	name    string
	conn    *amqp.Connection
	channel *amqp.Channel
}

func New(config Config) *ViewQueue {
	return &ViewQueue{
		url:  fmt.Sprintf("amqp://%s:%s@%s:%d/", config.User, config.Password, config.Host, config.Port),
		name: config.Queue,
	}
}

// Connect dials the broker and declares the durable view queue.
func (q *ViewQueue) Connect() error {
	conn, err := amqp.Dial(q.url)
	if err != nil {
		return fmt.Errorf("failed to dial rabbit: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}
	if _, err := channel.QueueDeclare(q.name, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to declare queue %q: %w", q.name, err)
	}
	q.conn, q.channel = conn, channel
	return nil
}

func (q *ViewQueue) Close() error {
	if q.conn == nil {
		return nil
	}
	err := q.conn.Close()
	q.conn, q.channel = nil, nil
	return err
}

// Publish sends a persistent JSON message to the view queue.
func (q *ViewQueue) Publish(m Message) error {
	if q.channel == nil {
		return ErrNotConnected
	}
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal message for event %q: %w", m.Event.ID, err)
	}
	return q.channel.Publish("", q.name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Consume passes every decoded message to handle until ctx is done or the
// channel closes. Undecodable deliveries are logged and skipped.
func (q *ViewQueue) Consume(ctx context.Context, handle func(Message)) error {
	if q.channel == nil {
		return ErrNotConnected
	}
	deliveries, err := q.channel.Consume(q.name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %q: %w", q.name, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			m, err := DecodeMessage(d.Body)
			if err != nil {
				log.WithField("queue", q.name).Errorf("skipping message: %v", err)
				continue
			}
			handle(m)
		}
	}
}

// DecodeMessage parses a view queue body. A message without a known kind or
// an event ID is rejected.
func DecodeMessage(body []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(body, &m); err != nil {
		return Message{}, fmt.Errorf("failed to parse message: %w", err)
	}
	if m.Kind != KindAdd && m.Kind != KindUpdate {
		return Message{}, fmt.Errorf("unknown message kind %q", m.Kind)
	}
	if m.Event.ID == "" {
		return Message{}, errors.New("message has no event id")
	}
	return m, nil
}
