package main

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"

	"github.com/lomoval/otus-golang/calendar/internal/app"
	internalgrpc "github.com/lomoval/otus-golang/calendar/internal/server/grpc"
	memorystorage "github.com/lomoval/otus-golang/calendar/internal/storage/memory"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

func startServer(t *testing.T) (*app.App, grpc.DialOption) {
	t.Helper()
	s, err := memorystorage.New(memorystorage.Config{})
	require.NoError(t, err)
	a := app.New(s)

	lsn := bufconn.Listen(1024 * 1024)
	srv := internalgrpc.NewServer(internalgrpc.Config{Host: "127.0.0.1"}, a)
	go func() {
		_ = srv.Serve(lsn)
	}()
	t.Cleanup(func() {
		require.NoError(t, srv.Stop(context.Background()))
	})
	return a, grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lsn.DialContext(ctx)
	})
}

func run(t *testing.T, dial grpc.DialOption, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCmd(dial)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--addr", "bufnet"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	a, dial := startServer(t)

	out, err := run(t, dial, "list")
	require.NoError(t, err)
	require.Equal(t, "No events found.\n", out)

	out, err = run(t, dial, "create", "--title", "Standup", "--start", "2024-03-01 10:00", "--color", "#34A853")
	require.NoError(t, err)
	require.Contains(t, out, "2024-03-01 10:00 - 2024-03-01 10:00  Standup #34A853")

	events := a.Events()
	require.Len(t, events, 1)
	require.Equal(t, "Standup", events[0].Title)

	out, err = run(t, dial, "list")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, events[0].ID))

	out, err = run(t, dial, "delete", events[0].ID)
	require.NoError(t, err)
	require.Equal(t, "Deleted "+events[0].ID+"\n", out)
	require.Empty(t, a.Events())
}

func TestCommandsNegativeCases(t *testing.T) {
	_, dial := startServer(t)

	_, err := run(t, dial, "create", "--title", "X", "--start", "tomorrow")
	require.Error(t, err)

	_, err = run(t, dial, "create", "--start", "2024-03-01")
	require.Error(t, err)

	_, err = run(t, dial, "delete")
	require.Error(t, err)
}
