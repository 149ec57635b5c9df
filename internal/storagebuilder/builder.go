package storagebuilder

import (
	"context"
	"fmt"
	"time"

	"github.com/lomoval/otus-golang/calendar/internal/storage"
	memorystorage "github.com/lomoval/otus-golang/calendar/internal/storage/memory"
	sqlstorage "github.com/lomoval/otus-golang/calendar/internal/storage/sql"
)

const (
	TypeMemory = "memory"
	TypeSQL    = "sql"
)

type Config struct {
	StorageType string
	Latency     time.Duration
	IDStrategy  string
	Seed        bool
	Database    sqlstorage.Config
}

func New(config Config) (storage.Storage, error) {
	switch config.StorageType {
	case TypeMemory:
		s, err := memorystorage.New(memorystorage.Config{
			Latency:    config.Latency,
			IDStrategy: config.IDStrategy,
			Seed:       config.Seed,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case TypeSQL:
		s := sqlstorage.New(config.Database)
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := s.Connect(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database %s %d: %w", config.Database.Host, config.Database.Port, err)
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage type %s", config.StorageType)
	}
}
