package sqlstorage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/lomoval/otus-golang/calendar/internal/storage"
	"github.com/lomoval/otus-golang/calendar/internal/validator"
	log "github.com/sirupsen/logrus"
)

const schema = `CREATE TABLE IF NOT EXISTS events (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	start_at    TEXT NOT NULL,
	end_at      TEXT NOT NULL,
	all_day     BOOLEAN NOT NULL DEFAULT FALSE,
	color       TEXT NOT NULL,
	seq         BIGSERIAL
)`

type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

type Storage struct {
	host     string
	port     int
	database string
	username string
	password string
	db       *sqlx.DB
}

func New(config Config) *Storage {
	return &Storage{
		host:     config.Host,
		port:     config.Port,
		database: config.Database,
		username: config.Username,
		password: config.Password,
	}
}

func (s *Storage) Connect(ctx context.Context) error {
	db, err := sqlx.ConnectContext(
		ctx,
		"postgres",
		fmt.Sprintf(
			"sslmode=disable host=%s port=%d dbname=%s user=%s password=%s",
			s.host, s.port, s.database, s.username, s.password),
	)
	if err != nil {
		log.Errorf("failed to connect: %v", err)
		return storage.ErrConnectionFailed
	}
	s.db = db
	return nil
}

// Migrate creates the events table when it does not exist.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

func (s *Storage) FetchAll(ctx context.Context) ([]storage.Event, error) {
	events := make([]storage.Event, 0)
	err := s.db.SelectContext(
		ctx,
		&events,
		"SELECT id, title, description, start_at, end_at, all_day, color FROM events ORDER BY seq",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return events, nil
}

func (s *Storage) Create(ctx context.Context, d storage.Draft) (storage.Event, error) {
	if err := validator.Validate(d); err != nil {
		return storage.Event{}, fmt.Errorf("%v: %w", err, storage.ErrIncorrectEvent)
	}
	e := storage.Complete(d, func() string { return uuid.New().String() }, storage.RandomColor)
	_, err := s.db.NamedExecContext(
		ctx,
		"INSERT INTO events(id, title, description, start_at, end_at, all_day, color) "+
			"VALUES(:id, :title, :description, :start_at, :end_at, :all_day, :color)",
		e,
	)
	if err != nil {
		return storage.Event{}, fmt.Errorf("failed to create event: %w", err)
	}
	return e, nil
}

// Update replaces the whole record; unknown IDs are inserted.
func (s *Storage) Update(ctx context.Context, e storage.Event) (storage.Event, error) {
	if err := validator.Validate(e); err != nil {
		return storage.Event{}, fmt.Errorf("%v: %w", err, storage.ErrIncorrectEvent)
	}
	_, err := s.db.NamedExecContext(
		ctx,
		"INSERT INTO events(id, title, description, start_at, end_at, all_day, color) "+
			"VALUES(:id, :title, :description, :start_at, :end_at, :all_day, :color) "+
			"ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, description=EXCLUDED.description, "+
			"start_at=EXCLUDED.start_at, end_at=EXCLUDED.end_at, all_day=EXCLUDED.all_day, color=EXCLUDED.color",
		e,
	)
	if err != nil {
		return storage.Event{}, fmt.Errorf("failed to update event with id %q: %w", e.ID, err)
	}
	return e, nil
}

func (s *Storage) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id=$1", id); err != nil {
		return false, fmt.Errorf("failed to remove event with id %q: %w", id, err)
	}
	return true, nil
}
