package main

import (
	"context"
	"fmt"
	"io"

	internalgrpc "github.com/lomoval/otus-golang/calendar/internal/server/grpc"
	"github.com/lomoval/otus-golang/calendar/internal/storage"
	"github.com/spf13/cobra"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd.Context(), func(ctx context.Context, c *internalgrpc.Client) error {
				events, err := c.ListEvents(ctx)
				if err != nil {
					return fmt.Errorf("failed to list events: %w", err)
				}
				if len(events) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No events found.")
					return nil
				}
				for _, e := range events {
					printEvent(cmd.OutOrStdout(), e)
				}
				return nil
			})
		},
	}
}

func newCreateCmd(opts *options) *cobra.Command {
	d := storage.Draft{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd.Context(), func(ctx context.Context, c *internalgrpc.Client) error {
				e, err := c.CreateEvent(ctx, d)
				if err != nil {
					return fmt.Errorf("failed to create event: %w", err)
				}
				printEvent(cmd.OutOrStdout(), e)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&d.Title, "title", "", "Event title")
	cmd.Flags().StringVar(&d.Description, "description", "", "Event description")
	cmd.Flags().StringVar(&d.Start, "start", "", `Start, "2006-01-02" or "2006-01-02 15:04"`)
	cmd.Flags().StringVar(&d.End, "end", "", "End, same layouts as start")
	cmd.Flags().BoolVar(&d.AllDay, "all-day", false, "All-day event")
	cmd.Flags().StringVar(&d.Color, "color", "", "Colour, random from the palette when empty")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd.Context(), func(ctx context.Context, c *internalgrpc.Client) error {
				if _, err := c.DeleteEvent(ctx, args[0]); err != nil {
					return fmt.Errorf("failed to delete event %q: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func printEvent(w io.Writer, e storage.Event) {
	period := e.Start + " - " + e.End
	if e.AllDay {
		period = "All day " + period
	}
	fmt.Fprintf(w, "%s  %s  %s %s\n", e.ID, period, e.Title, e.Color)
}
