package memorystorage

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lomoval/otus-golang/calendar/internal/storage"
)

const (
	IDStrategyTimestamp = "timestamp"
	IDStrategyUUID      = "uuid"

	DefaultLatency = 300 * time.Millisecond
)

type Config struct {
	Latency    time.Duration
	IDStrategy string
	Seed       bool
}

// Storage keeps events in process memory and delays every call to imitate
// a remote store.
type Storage struct {
	mu      sync.RWMutex
	data    map[string]storage.Event
	order   []string
	latency time.Duration
	nextID  func() string
	color   func() string
	lastID  int64
}

func New(config Config) (*Storage, error) {
	s := &Storage{
		data:    make(map[string]storage.Event),
		latency: config.Latency,
		color:   storage.RandomColor,
	}
	switch config.IDStrategy {
	case "", IDStrategyTimestamp:
		s.nextID = s.timestampID
	case IDStrategyUUID:
		s.nextID = func() string { return uuid.New().String() }
	default:
		return nil, fmt.Errorf("unknown id strategy %q", config.IDStrategy)
	}
	if config.Seed {
		for _, e := range SampleEvents(time.Now()) {
			s.put(e)
		}
	}
	return s, nil
}

func (s *Storage) Connect(_ context.Context) error {
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	return nil
}

func (s *Storage) FetchAll(ctx context.Context) ([]storage.Event, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]storage.Event, 0, len(s.order))
	for _, id := range s.order {
		events = append(events, s.data[id])
	}
	return events, nil
}

func (s *Storage) Create(ctx context.Context, d storage.Draft) (storage.Event, error) {
	if err := s.wait(ctx); err != nil {
		return storage.Event{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := storage.Complete(d, s.nextID, s.color)
	s.put(e)
	return e, nil
}

// Update acknowledges the record. Unknown IDs are stored as new events.
func (s *Storage) Update(ctx context.Context, e storage.Event) (storage.Event, error) {
	if err := s.wait(ctx); err != nil {
		return storage.Event{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(e)
	return e, nil
}

func (s *Storage) Delete(ctx context.Context, id string) (bool, error) {
	if err := s.wait(ctx); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return true, nil
	}
	delete(s.data, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *Storage) put(e storage.Event) {
	if _, ok := s.data[e.ID]; !ok {
		s.order = append(s.order, e.ID)
	}
	s.data[e.ID] = e
}

func (s *Storage) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// timestampID returns the current time in nanoseconds, bumped when the clock
// has not moved since the previous call. Callers hold s.mu.
func (s *Storage) timestampID() string {
	id := time.Now().UnixNano()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}
