package storage

import (
	"context"
	"errors"
)

var (
	ErrConnectionFailed = errors.New("failed to connect")
	ErrNotFoundEvent    = errors.New("event not found")
	ErrIncorrectEvent   = errors.New("incorrect event")
)

// Storage is the event store. Create is the only Draft -> Event conversion;
// Update replaces the whole record and Delete is idempotent.
type Storage interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
	FetchAll(ctx context.Context) ([]Event, error)
	Create(ctx context.Context, d Draft) (Event, error)
	Update(ctx context.Context, e Event) (Event, error)
	Delete(ctx context.Context, id string) (bool, error)
}
