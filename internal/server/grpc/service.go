package internalgrpc

import (
	"context"
	"encoding/json"

	"github.com/lomoval/otus-golang/calendar/internal/storage"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName is the content subtype of the calendar service messages.
const CodecName = "json"

const serviceName = "calendar.Events"

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type (
	ListEventsRequest  struct{}
	ListEventsResponse struct {
		Events []storage.Event `json:"events"`
	}
	CreateEventRequest struct {
		Event *storage.Draft `json:"event"`
	}
	UpdateEventRequest struct {
		Event *storage.Event `json:"event"`
	}
	EventResponse struct {
		Event storage.Event `json:"event"`
	}
	DeleteEventRequest struct {
		ID string `json:"id"`
	}
	DeleteEventResponse struct {
		Deleted bool `json:"deleted"`
	}
)

type EventsServer interface {
	ListEvents(ctx context.Context, r *ListEventsRequest) (*ListEventsResponse, error)
	CreateEvent(ctx context.Context, r *CreateEventRequest) (*EventResponse, error)
	UpdateEvent(ctx context.Context, r *UpdateEventRequest) (*EventResponse, error)
	DeleteEvent(ctx context.Context, r *DeleteEventRequest) (*DeleteEventResponse, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*EventsServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("ListEvents", EventsServer.ListEvents),
		unaryMethod("CreateEvent", EventsServer.CreateEvent),
		unaryMethod("UpdateEvent", EventsServer.UpdateEvent),
		unaryMethod("DeleteEvent", EventsServer.DeleteEvent),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "calendar",
}

func RegisterEventsServer(s *grpc.Server, srv EventsServer) {
	s.RegisterService(&serviceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + serviceName + "/" + name
}

func unaryMethod[Req, Resp any](
	name string,
	call func(EventsServer, context.Context, *Req) (*Resp, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(
			srv interface{},
			ctx context.Context,
			dec func(interface{}) error,
			interceptor grpc.UnaryServerInterceptor,
		) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(EventsServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(EventsServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
