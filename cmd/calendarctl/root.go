package main

import (
	"context"
	"time"

	internalgrpc "github.com/lomoval/otus-golang/calendar/internal/server/grpc"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

type options struct {
	addr        string
	timeout     time.Duration
	dialOptions []grpc.DialOption
}

func newRootCmd(dialOptions ...grpc.DialOption) *cobra.Command {
	opts := &options{dialOptions: dialOptions}
	rootCmd := &cobra.Command{
		Use:           "calendarctl",
		Short:         "Manage calendar events over the gRPC API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.addr, "addr", "127.0.0.1:50051", "Calendar gRPC address")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "Request timeout")

	rootCmd.AddCommand(newListCmd(opts), newCreateCmd(opts), newDeleteCmd(opts))
	return rootCmd
}

func (o *options) withClient(ctx context.Context, f func(context.Context, *internalgrpc.Client) error) error {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	client, err := internalgrpc.Dial(ctx, o.addr, o.dialOptions...)
	if err != nil {
		return err
	}
	defer client.Close()
	return f(ctx, client)
}
