package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusconnect/internal/delivery/http/controllers"
	"campusconnect/internal/domain"

	"github.com/stretchr/testify/assert"
)

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (string, error) {
	if token == "good" {
		return "u1", nil
	}
	return "", errors.New("invalid token")
}

type stubEvents struct{ domain.EventService }

func (stubEvents) ListEvents(context.Context) ([]*domain.Event, error) {
	return []*domain.Event{}, nil
}

func (stubEvents) GetEventsByIDs(context.Context, []string) ([]*domain.Event, error) {
	return []*domain.Event{}, nil
}

func (stubEvents) GetEvent(context.Context, string) (*domain.EventDetails, error) {
	return nil, domain.ErrNotFound
}

func (stubEvents) DeleteEvent(context.Context, string, string) error { return nil }

type stubAttendees struct{ domain.AttendeeService }

func (stubAttendees) ListRegistrations(context.Context, string) ([]*domain.Registration, error) {
	return []*domain.Registration{}, nil
}

type stubPinger struct{}

func (stubPinger) PingContext(context.Context) error { return nil }

func TestNewRouter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := NewRouter(Controllers{
		Event:     controllers.NewEventController(logger, stubEvents{}),
		Attendee:  controllers.NewAttendeeController(logger, stubAttendees{}),
		Assistant: controllers.NewAssistantController(logger, nil),
		Auth:      controllers.NewAuthController(logger, nil),
		Health:    controllers.NewHealthController(logger, stubPinger{}),
	}, stubVerifier{}, logger)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"public list", http.MethodGet, "/events", "", http.StatusOK},
		{"batch is not an event id", http.MethodGet, "/events/batch?ids=a", "", http.StatusOK},
		{"unknown event", http.MethodGet, "/events/6f1c2a9e-4b7d-4e10-9a51-0c3d2b8e7f11", "", http.StatusNotFound},
		{"delete needs token", http.MethodDelete, "/events/6f1c2a9e-4b7d-4e10-9a51-0c3d2b8e7f11", "", http.StatusUnauthorized},
		{"delete with token", http.MethodDelete, "/events/6f1c2a9e-4b7d-4e10-9a51-0c3d2b8e7f11", "good", http.StatusOK},
		{"registrations reject bad token", http.MethodGet, "/me/registrations", "bad", http.StatusUnauthorized},
		{"registrations with token", http.MethodGet, "/me/registrations", "good", http.StatusOK},
		{"caption needs token", http.MethodPost, "/ai/caption", "", http.StatusUnauthorized},
		{"health", http.MethodGet, "/healthz", "", http.StatusOK},
		{"wrong method", http.MethodPut, "/events", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()

			mux.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}
