//go:build sql
// +build sql

package sqlstorage_test

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lomoval/otus-golang/calendar/internal/storage"
	sqlstorage "github.com/lomoval/otus-golang/calendar/internal/storage/sql"
	"github.com/stretchr/testify/require"
)

var (
	host     = "127.0.0.1"
	port     = 5532
	database = "testing"
	username = "postgres"
	password = "pas"
)

func TestMain(m *testing.M) {
	pgHost := os.Getenv("POSTGRES_HOST")
	pgPort := os.Getenv("POSTGRES_PORT")
	if pgHost != "" {
		host = pgHost
	}
	if pgPort != "" {
		port, _ = strconv.Atoi(pgPort)
	}

	os.Exit(m.Run())
}

func TestStorage(t *testing.T) {
	t.Run("create event", func(t *testing.T) {
		s := createStorage(t)
		ctx := context.Background()

		e, err := s.Create(ctx, storage.Draft{Title: "X", Start: "2024-03-01 10:00", End: "2024-03-01 10:00"})
		require.NoError(t, err)
		require.NotEmpty(t, e.ID)
		require.True(t, storage.InPalette(e.Color))

		events, err := s.FetchAll(ctx)
		require.NoError(t, err)
		require.Equal(t, []storage.Event{e}, events)
	})

	t.Run("update event", func(t *testing.T) {
		s := createStorage(t)
		ctx := context.Background()

		e, err := s.Create(ctx, storage.Draft{Title: "X", Start: "2024-03-01 10:00", End: "2024-03-01 11:00"})
		require.NoError(t, err)

		e.Title = "updated title"
		e.Description = "updated description"
		e.Start = "2024-03-02"
		e.End = "2024-03-03"
		e.AllDay = true
		updated, err := s.Update(ctx, e)
		require.NoError(t, err)
		require.Equal(t, e, updated)

		events, err := s.FetchAll(ctx)
		require.NoError(t, err)
		require.Equal(t, []storage.Event{e}, events)
	})

	t.Run("update not exist event", func(t *testing.T) {
		s := createStorage(t)
		e := storage.Event{ID: "___not_exists___", Title: "X", Start: "2024-03-01", End: "2024-03-01", Color: "#4285F4"}

		updated, err := s.Update(context.Background(), e)
		require.NoError(t, err)
		require.Equal(t, e, updated)
	})

	t.Run("delete event", func(t *testing.T) {
		s := createStorage(t)
		ctx := context.Background()

		e, err := s.Create(ctx, storage.Draft{Title: "X", Start: "2024-03-01 10:00"})
		require.NoError(t, err)

		ok, err := s.Delete(ctx, e.ID)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = s.Delete(ctx, e.ID)
		require.NoError(t, err)
		require.True(t, ok)

		events, err := s.FetchAll(ctx)
		require.NoError(t, err)
		require.Empty(t, events)
	})

	t.Run("list order", func(t *testing.T) {
		s := createStorage(t)
		ctx := context.Background()

		var ids []string
		for i := 0; i < 10; i++ {
			e, err := s.Create(ctx, storage.Draft{Title: fmt.Sprintf("e%d", i), Start: "2024-03-01 10:00"})
			require.NoError(t, err)
			ids = append(ids, e.ID)
		}

		events, err := s.FetchAll(ctx)
		require.NoError(t, err)
		require.Len(t, events, 10)
		for i, e := range events {
			require.Equal(t, ids[i], e.ID)
		}
	})
}

func TestStorageNegativeCases(t *testing.T) {
	t.Run("create with same id", func(t *testing.T) {
		s := createStorage(t)
		d := storage.Draft{ID: "same", Title: "X", Start: "2024-03-01 10:00"}

		_, err := s.Create(context.Background(), d)
		require.NoError(t, err)
		_, err = s.Create(context.Background(), d)
		require.Error(t, err)
	})

	t.Run("incorrect draft", func(t *testing.T) {
		s := createStorage(t)

		_, err := s.Create(context.Background(), storage.Draft{Title: "X", Start: "01.03.2024"})
		require.ErrorIs(t, err, storage.ErrIncorrectEvent)
	})

	t.Run("connection failed", func(t *testing.T) {
		s := sqlstorage.New(sqlstorage.Config{Host: host, Port: 1, Database: database})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		require.ErrorIs(t, s.Connect(ctx), storage.ErrConnectionFailed)
	})
}

func cleanupDB() error {
	db, err := sqlx.Connect(
		"postgres",
		fmt.Sprintf("sslmode=disable host=%s port=%d dbname=%s user=%s password=%s", host, port, database, username, password),
	)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("TRUNCATE TABLE events")
	return err
}

func createStorage(t *testing.T) *sqlstorage.Storage {
	t.Helper()
	s := sqlstorage.New(sqlstorage.Config{
		Host:     host,
		Port:     port,
		Database: database,
		Username: username,
		Password: password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Connect(ctx))
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, cleanupDB())
	t.Cleanup(func() {
		require.NoError(t, cleanupDB())
		require.NoError(t, s.Close(context.Background()))
	})
	return s
}
