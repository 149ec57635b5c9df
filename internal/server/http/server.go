package internalhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/lomoval/otus-golang/calendar/internal/app"
	"github.com/lomoval/otus-golang/calendar/internal/datetime"
	"github.com/lomoval/otus-golang/calendar/internal/form"
	"github.com/lomoval/otus-golang/calendar/internal/ical"
	"github.com/lomoval/otus-golang/calendar/internal/storage"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Host string
	Port int
}

type Server struct {
	srv  *http.Server
	app  *app.App
	addr string
}

type errorResponse struct {
	Error string `json:"error"`
}

type slotRequest struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

type formPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AllDay      *bool   `json:"allDay"`
	Start       *string `json:"start"`
	End         *string `json:"end"`
}

func NewServer(config Config, app *app.App) *Server {
	addr := net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	return &Server{
		app:  app,
		addr: addr,
		srv:  &http.Server{Addr: addr, ReadHeaderTimeout: 10 * time.Second},
	}
}

func (s *Server) Start(_ context.Context) error {
	s.srv.Handler = s.Handler()

	log.Printf("starting http server on %s", s.addr)
	err := s.srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	mux := runtime.NewServeMux()
	handle := func(method, path string, h runtime.HandlerFunc) {
		if err := mux.HandlePath(method, path, h); err != nil {
			panic(fmt.Sprintf("failed to register %s %s: %v", method, path, err))
		}
	}

	handle(http.MethodGet, "/events", s.listEvents)
	handle(http.MethodPost, "/events", s.createEvent)
	handle(http.MethodPut, "/events/{id}", s.updateEvent)
	handle(http.MethodDelete, "/events/{id}", s.deleteEvent)
	handle(http.MethodGet, "/ical", s.exportEvents)

	handle(http.MethodGet, "/form", s.getForm)
	handle(http.MethodPatch, "/form", s.patchForm)
	handle(http.MethodPost, "/form/datetime", s.openTimedSlot)
	handle(http.MethodPost, "/form/date", s.openAllDaySlot)
	handle(http.MethodPost, "/form/edit/{id}", s.openForEdit)
	handle(http.MethodPost, "/form/submit", s.submitForm)
	handle(http.MethodPost, "/form/cancel", s.cancelForm)
	handle(http.MethodPost, "/form/outside-click", s.outsideClick)

	return loggingMiddleware(mux)
}

func (s *Server) listEvents(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	writeJSON(w, http.StatusOK, s.app.Events())
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var d storage.Draft
	if !decode(w, r, &d) {
		return
	}
	if err := d.Validate(); err != nil {
		writeError(w, err)
		return
	}
	e, err := s.app.CreateEvent(r.Context(), d)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var e storage.Event
	if !decode(w, r, &e) {
		return
	}
	e.ID = params["id"]
	if err := e.Validate(); err != nil {
		writeError(w, err)
		return
	}
	e, err := s.app.UpdateEvent(r.Context(), e)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request, params map[string]string) {
	ok, err := s.app.DeleteEvent(r.Context(), params["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": ok})
}

func (s *Server) exportEvents(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	var buf bytes.Buffer
	if err := ical.Export(&buf, s.app.Events(), time.Now()); err != nil {
		log.Errorf("failed to export events: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Errorf("failed to write calendar: %v", err)
	}
}

func (s *Server) getForm(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	writeJSON(w, http.StatusOK, s.app.Form.Snapshot())
}

func (s *Server) patchForm(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var p formPatch
	if !decode(w, r, &p) {
		return
	}
	if err := s.applyPatch(p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Form.Snapshot())
}

func (s *Server) applyPatch(p formPatch) error {
	f := s.app.Form
	if p.Title != nil {
		if err := f.SetTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := f.SetDescription(*p.Description); err != nil {
			return err
		}
	}
	if p.AllDay != nil {
		if err := f.SetAllDay(*p.AllDay); err != nil {
			return err
		}
	}
	if p.Start != nil {
		t, _, err := datetime.Decode(*p.Start)
		if err != nil {
			return err
		}
		if err := f.SetStart(t); err != nil {
			return err
		}
	}
	if p.End != nil {
		t, _, err := datetime.Decode(*p.End)
		if err != nil {
			return err
		}
		if err := f.SetEnd(t); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) openTimedSlot(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req slotRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.app.Form.DoubleClickOnDateTime(req.DateTime); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Form.Snapshot())
}

func (s *Server) openAllDaySlot(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req slotRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.app.Form.DoubleClickOnDate(req.Date); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Form.Snapshot())
}

func (s *Server) openForEdit(w http.ResponseWriter, _ *http.Request, params map[string]string) {
	if err := s.app.EditEvent(params["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.app.Form.Snapshot())
}

func (s *Server) submitForm(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	e, err := s.app.Form.Submit(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) cancelForm(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	s.app.Form.Cancel()
	writeJSON(w, http.StatusOK, s.app.Form.Snapshot())
}

func (s *Server) outsideClick(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	s.app.Clicks.Click()
	writeJSON(w, http.StatusOK, s.app.Form.Snapshot())
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "incorrect request body"})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, form.ErrValidation),
		errors.Is(err, datetime.ErrInvalidFormat),
		errors.Is(err, storage.ErrIncorrectEvent):
		code = http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFoundEvent):
		code = http.StatusNotFound
	case errors.Is(err, form.ErrSubmitPending),
		errors.Is(err, form.ErrSubmitDiscarded),
		errors.Is(err, form.ErrClosed):
		code = http.StatusConflict
	case errors.Is(err, form.ErrStoreFailure):
		code = http.StatusBadGateway
	}
	if code == http.StatusInternalServerError {
		log.Errorf("request failed: %v", err)
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to write response: %v", err)
	}
}

func getIP(req *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return "", fmt.Errorf("userip: %q is not IP:port", req.RemoteAddr)
	}

	if parsed := net.ParseIP(ip); parsed == nil {
		return "", fmt.Errorf("userip: %q is not IP:port", req.RemoteAddr)
	}
	return ip, nil
}
