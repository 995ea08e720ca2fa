package controllers

import (
	"log/slog"
	"net/http"

	"campusconnect/internal/delivery/http/helpers"
	"campusconnect/internal/domain"
)

type AttendeeController struct {
	Logger  *slog.Logger
	Service domain.AttendeeService
}

func NewAttendeeController(logger *slog.Logger, svc domain.AttendeeService) *AttendeeController {
	return &AttendeeController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterRequest is the request body for POST /events/register.
// userUid, when set, must be the caller. Empty name and email fall back to the caller's profile.
type RegisterRequest struct {
	EventID   string `json:"eventId" validate:"required"`
	UserUID   string `json:"userUid"`
	UserName  string `json:"userName" validate:"max=200"`
	UserEmail string `json:"userEmail" validate:"omitempty,email"`
}

// RegistrationResponse is the success response envelope for POST /events/register (200 or 201).
type RegistrationResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// RegistrationStatus is the body returned by GET /events/{eventID}/registration.
type RegistrationStatus struct {
	Registered bool `json:"registered"`
}

// RegistrationListResponse is the success response envelope for GET /me/registrations.
type RegistrationListResponse struct {
	Data  []*domain.Registration `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// MyEventsResponse is the success response envelope for GET /me/events.
type MyEventsResponse struct {
	Data  []*domain.RegistrationWithEvent `json:"data"`
	Error *helpers.APIError               `json:"error"`
}

// Register godoc
// @Summary Register the current user for an event
// @Description Idempotent: returns 201 when a new registration is created, 200 with the existing registration otherwise. A confirmation email is sent on first registration.
// @Tags attendee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.RegisterRequest true "Event to register for"
// @Success 200 {object} controllers.RegistrationResponse "Already registered"
// @Success 201 {object} controllers.RegistrationResponse "New registration created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (userUid is not the caller)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/register [post]
func (c *AttendeeController) Register(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, created, err := c.Service.Register(r.Context(), domain.RegistrationInput{
		EventID:   req.EventID,
		CallerUID: userID,
		UserUID:   req.UserUID,
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	if created {
		helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// RegistrationStatus godoc
// @Summary Check whether the current user is registered
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data.registered"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registration [get]
func (c *AttendeeController) RegistrationStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	registered, err := c.Service.IsRegistered(r.Context(), eventID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RegistrationStatus{Registered: registered})
}

// ListMyRegistrations godoc
// @Summary List the current user's registrations
// @Description Newest first.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.RegistrationListResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/registrations [get]
func (c *AttendeeController) ListMyRegistrations(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	regs, err := c.Service.ListRegistrations(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// ListMyEvents godoc
// @Summary List the events the current user registered for
// @Description Each entry pairs the registration with its event.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MyEventsResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/events [get]
func (c *AttendeeController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	list, err := c.Service.ListMyEvents(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}
