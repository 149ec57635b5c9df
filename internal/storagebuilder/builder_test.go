package storagebuilder

import (
	"context"
	"testing"

	memorystorage "github.com/lomoval/otus-golang/calendar/internal/storage/memory"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s, err := New(Config{StorageType: TypeMemory, Seed: true})
	require.NoError(t, err)
	require.IsType(t, &memorystorage.Storage{}, s)

	events, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, events)

	_, err = New(Config{StorageType: TypeMemory, IDStrategy: "sequence"})
	require.Error(t, err)

	_, err = New(Config{StorageType: "redis"})
	require.Error(t, err)
}
