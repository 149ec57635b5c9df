package internalgrpc

import (
	"context"

	"github.com/lomoval/otus-golang/calendar/internal/storage"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type Client struct {
	conn *grpc.ClientConn
}

func Dial(ctx context.Context, addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}, opts...)
	conn, err := grpc.DialContext(ctx, addr, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) ListEvents(ctx context.Context) ([]storage.Event, error) {
	out := new(ListEventsResponse)
	if err := c.conn.Invoke(ctx, fullMethod("ListEvents"), &ListEventsRequest{}, out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

func (c *Client) CreateEvent(ctx context.Context, d storage.Draft) (storage.Event, error) {
	out := new(EventResponse)
	if err := c.conn.Invoke(ctx, fullMethod("CreateEvent"), &CreateEventRequest{Event: &d}, out); err != nil {
		return storage.Event{}, err
	}
	return out.Event, nil
}

func (c *Client) UpdateEvent(ctx context.Context, e storage.Event) (storage.Event, error) {
	out := new(EventResponse)
	if err := c.conn.Invoke(ctx, fullMethod("UpdateEvent"), &UpdateEventRequest{Event: &e}, out); err != nil {
		return storage.Event{}, err
	}
	return out.Event, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) (bool, error) {
	out := new(DeleteEventResponse)
	if err := c.conn.Invoke(ctx, fullMethod("DeleteEvent"), &DeleteEventRequest{ID: id}, out); err != nil {
		return false, err
	}
	return out.Deleted, nil
}
