package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"campusconnect/internal/delivery/http/controllers"
	"campusconnect/internal/delivery/http/middleware"
	"campusconnect/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Event     *controllers.EventController
	Attendee  *controllers.AttendeeController
	Assistant *controllers.AssistantController
	Auth      *controllers.AuthController
	Health    *controllers.HealthController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Events
	mux.HandleFunc("GET /events", c.Event.ListEvents)
	mux.HandleFunc("GET /events/batch", c.Event.GetEventsBatch)
	mux.HandleFunc("GET /events/summary", c.Event.Summary)
	mux.HandleFunc("GET /events/{eventID}", c.Event.GetEvent)
	mux.HandleFunc("POST /events", auth(c.Event.CreateEvent))
	mux.HandleFunc("PATCH /events/{eventID}", auth(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Event.DeleteEvent))
	mux.HandleFunc("POST /events/{eventID}/poster", auth(c.Event.UploadPoster))

	// Registrations
	mux.HandleFunc("POST /events/register", auth(c.Attendee.Register))
	mux.HandleFunc("GET /events/{eventID}/registration", auth(c.Attendee.RegistrationStatus))
	mux.HandleFunc("GET /me/registrations", auth(c.Attendee.ListMyRegistrations))
	mux.HandleFunc("GET /me/events", auth(c.Attendee.ListMyEvents))

	// AI
	mux.HandleFunc("GET /me/recommendations", auth(c.Assistant.Recommendations))
	mux.HandleFunc("POST /ai/caption", auth(c.Assistant.SuggestCaption))

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("GET /auth/me", auth(c.Auth.Me))

	mux.HandleFunc("GET /healthz", c.Health.Healthz)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
