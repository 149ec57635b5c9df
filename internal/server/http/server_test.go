package internalhttp

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lomoval/otus-golang/calendar/internal/app"
	"github.com/lomoval/otus-golang/calendar/internal/form"
	"github.com/lomoval/otus-golang/calendar/internal/storage"
	memorystorage "github.com/lomoval/otus-golang/calendar/internal/storage/memory"
	"github.com/stretchr/testify/require"
)

func createServer(t *testing.T) (*httptest.Server, *app.App) {
	t.Helper()
	s, err := memorystorage.New(memorystorage.Config{})
	require.NoError(t, err)
	a := app.New(s)
	srv := httptest.NewServer(NewServer(Config{Host: "127.0.0.1", Port: 0}, a).Handler())
	t.Cleanup(srv.Close)
	return srv, a
}

func call(t *testing.T, srv *httptest.Server, method, path, body string, out interface{}) int {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestFormFlow(t *testing.T) {
	srv, a := createServer(t)

	var snapshot form.Snapshot
	code := call(t, srv, http.MethodPost, "/form/datetime", `{"dateTime":"2024-03-01 10:00"}`, &snapshot)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "creating", snapshot.Mode)
	require.Equal(t, "2024-03-01 11:00", snapshot.End)

	var errResp errorResponse
	code = call(t, srv, http.MethodPost, "/form/submit", "", &errResp)
	require.Equal(t, http.StatusBadRequest, code)
	require.NotEmpty(t, errResp.Error)

	code = call(t, srv, http.MethodPatch, "/form", `{"title":"Standup","start":"2024-03-01 12:00"}`, &snapshot)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Standup", snapshot.Title)
	require.Equal(t, "2024-03-01 13:00", snapshot.End)
	require.True(t, snapshot.CanSubmit)

	var saved storage.Event
	code = call(t, srv, http.MethodPost, "/form/submit", "", &saved)
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, saved.ID)
	require.Equal(t, "2024-03-01 12:00", saved.Start)

	var events []storage.Event
	code = call(t, srv, http.MethodGet, "/events", "", &events)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []storage.Event{saved}, events)
	require.Equal(t, events, a.Events())

	code = call(t, srv, http.MethodPost, "/form/edit/"+saved.ID, "", &snapshot)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "editing", snapshot.Mode)
	require.Equal(t, saved.ID, snapshot.EditingID)

	code = call(t, srv, http.MethodPatch, "/form", `{"allDay":true}`, &snapshot)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "2024-03-01", snapshot.Start)
	require.Equal(t, "2024-03-01", snapshot.End)

	code = call(t, srv, http.MethodPost, "/form/cancel", "", &snapshot)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "closed", snapshot.Mode)
}

func TestFormErrors(t *testing.T) {
	srv, _ := createServer(t)
	var errResp errorResponse

	require.Equal(t, http.StatusConflict, call(t, srv, http.MethodPatch, "/form", `{"title":"X"}`, &errResp))
	require.Equal(t, http.StatusConflict, call(t, srv, http.MethodPost, "/form/submit", "", &errResp))
	require.Equal(t, http.StatusBadRequest,
		call(t, srv, http.MethodPost, "/form/date", `{"date":"2024-03-01 10:00"}`, &errResp))
	require.Equal(t, http.StatusBadRequest, call(t, srv, http.MethodPost, "/form/date", `{`, &errResp))
	require.Equal(t, http.StatusNotFound, call(t, srv, http.MethodPost, "/form/edit/404", "", &errResp))

	var snapshot form.Snapshot
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/form/date", `{"date":"2024-03-01"}`, &snapshot))
	require.Equal(t, http.StatusBadRequest, call(t, srv, http.MethodPatch, "/form", `{"start":"soon"}`, &errResp))

	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/form/outside-click", "", &snapshot))
	require.Equal(t, "closed", snapshot.Mode)
}

func TestEvents(t *testing.T) {
	srv, _ := createServer(t)

	var created storage.Event
	code := call(t, srv, http.MethodPost, "/events",
		`{"title":"X","start":"2024-03-01","end":"2024-03-02","allDay":true}`, &created)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, created.ID)
	require.NotEmpty(t, created.Color)

	var errResp errorResponse
	code = call(t, srv, http.MethodPost, "/events", `{"title":"X","start":"2024-03-01T10:00"}`, &errResp)
	require.Equal(t, http.StatusBadRequest, code)

	var updated storage.Event
	code = call(t, srv, http.MethodPut, "/events/"+created.ID,
		`{"title":"Y","start":"2024-03-01","end":"2024-03-01","allDay":true,"color":"#34A853"}`, &updated)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "Y", updated.Title)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/ical", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body.String(), "BEGIN:VEVENT")
	require.Contains(t, body.String(), "SUMMARY:Y")

	var deleted map[string]bool
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodDelete, "/events/"+created.ID, "", &deleted))
	require.True(t, deleted["deleted"])
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodDelete, "/events/nonexistent", "", &deleted))
	require.True(t, deleted["deleted"])

	var events []storage.Event
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/events", "", &events))
	require.Empty(t, events)
}

func TestEventsRejectBrokenRecords(t *testing.T) {
	srv, a := createServer(t)

	var created storage.Event
	code := call(t, srv, http.MethodPost, "/events", `{"title":"X","start":"2024-03-01 10:00"}`, &created)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, created.Start, created.End)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{
			name:   "impossible date",
			method: http.MethodPost,
			path:   "/events",
			body:   `{"title":"X","start":"2024-13-45 99:99"}`,
		},
		{
			name:   "date on timed create",
			method: http.MethodPost,
			path:   "/events",
			body:   `{"title":"X","start":"2024-03-01"}`,
		},
		{
			name:   "time on all-day create",
			method: http.MethodPost,
			path:   "/events",
			body:   `{"title":"X","start":"2024-03-01 10:00","allDay":true}`,
		},
		{
			name:   "untitled update",
			method: http.MethodPut,
			path:   "/events/" + created.ID,
			body:   `{"title":"","start":"2024-03-01 10:00","end":"2024-03-01 11:00"}`,
		},
		{
			name:   "end before start on update",
			method: http.MethodPut,
			path:   "/events/" + created.ID,
			body:   `{"title":"X","start":"2024-03-01 10:00","end":"2024-03-01 09:00"}`,
		},
		{
			name:   "impossible date on update",
			method: http.MethodPut,
			path:   "/events/" + created.ID,
			body:   `{"title":"X","start":"2024-02-30 10:00","end":"2024-02-30 11:00"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var errResp errorResponse
			require.Equal(t, http.StatusBadRequest, call(t, srv, tt.method, tt.path, tt.body, &errResp))
			require.NotEmpty(t, errResp.Error)
			require.Equal(t, []storage.Event{created}, a.Events())
		})
	}

	var updated storage.Event
	code = call(t, srv, http.MethodPut, "/events/"+created.ID,
		`{"title":"Y","start":"2024-03-01 10:00","end":"2024-03-01 12:00"}`, &updated)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, created.Color, updated.Color)
	require.Equal(t, []storage.Event{updated}, a.Events())
}

func TestExportFailure(t *testing.T) {
	srv, a := createServer(t)
	a.View.Add(storage.Event{ID: "broken", Title: "X", Start: "2024-13-45 99:99", End: "2024-13-45 99:99"})

	var errResp errorResponse
	require.Equal(t, http.StatusInternalServerError, call(t, srv, http.MethodGet, "/ical", "", &errResp))
	require.Contains(t, errResp.Error, "broken")
}
