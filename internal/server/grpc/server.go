package internalgrpc

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/lomoval/otus-golang/calendar/internal/app"
	"github.com/lomoval/otus-golang/calendar/internal/storage"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	errEventNotProvided    = "event is not provided"
	errInternalServerError = "internal server error"
	errEventNotFound       = "event not found"
	errIDNotProvided       = "id is not provided"
)

type Config struct {
	Host string
	Port int
}

type Server struct {
	grpcServer *grpc.Server
	app        *app.App
	addr       string
}

func NewServer(config Config, app *app.App) *Server {
	s := &Server{app: app, addr: net.JoinHostPort(config.Host, strconv.Itoa(config.Port))}
	s.grpcServer = grpc.NewServer(grpc.UnaryInterceptor(loggingHandler))
	RegisterEventsServer(s.grpcServer, s)
	return s
}

func (s *Server) Start(_ context.Context) error {
	lsn, err := net.Listen("tcp", s.addr)
	if err != nil {
		log.Errorf("failed to listen grpc endpoint: %v", err)
		return err
	}
	return s.Serve(lsn)
}

func (s *Server) Serve(lsn net.Listener) error {
	log.Printf("starting grpc server on %s", lsn.Addr())
	return s.grpcServer.Serve(lsn)
}

func (s *Server) Stop(_ context.Context) error {
	s.grpcServer.GracefulStop()
	return nil
}

func (s *Server) ListEvents(_ context.Context, _ *ListEventsRequest) (*ListEventsResponse, error) {
	return &ListEventsResponse{Events: s.app.Events()}, nil
}

func (s *Server) CreateEvent(ctx context.Context, r *CreateEventRequest) (*EventResponse, error) {
	if r.Event == nil {
		return nil, status.Errorf(codes.InvalidArgument, errEventNotProvided)
	}
	if err := r.Event.Validate(); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	e, err := s.app.CreateEvent(ctx, *r.Event)
	if err != nil {
		return nil, toStatus(err)
	}
	return &EventResponse{Event: e}, nil
}

func (s *Server) UpdateEvent(ctx context.Context, r *UpdateEventRequest) (*EventResponse, error) {
	if r.Event == nil {
		return nil, status.Errorf(codes.InvalidArgument, errEventNotProvided)
	}
	if err := r.Event.Validate(); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	e, err := s.app.UpdateEvent(ctx, *r.Event)
	if err != nil {
		return nil, toStatus(err)
	}
	return &EventResponse{Event: e}, nil
}

func (s *Server) DeleteEvent(ctx context.Context, r *DeleteEventRequest) (*DeleteEventResponse, error) {
	if r.ID == "" {
		return nil, status.Errorf(codes.InvalidArgument, errIDNotProvided)
	}
	ok, err := s.app.DeleteEvent(ctx, r.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &DeleteEventResponse{Deleted: ok}, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, storage.ErrIncorrectEvent):
		return status.Errorf(codes.InvalidArgument, "%v", err)
	case errors.Is(err, storage.ErrNotFoundEvent):
		return status.Errorf(codes.NotFound, errEventNotFound)
	case errors.Is(err, storage.ErrConnectionFailed):
		return status.Errorf(codes.Unavailable, "%v", err)
	default:
		log.Errorf("request failed: %v", err)
		return status.Errorf(codes.Internal, errInternalServerError)
	}
}

func loggingHandler(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	log.WithField("method", info.FullMethod).WithField("code", status.Code(err).String()).
		WithField("latency", time.Since(start)).
		Info("grpc request processed")
	return resp, err
}
