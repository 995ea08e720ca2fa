package controllers

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"campusconnect/internal/delivery/http/helpers"
	"campusconnect/internal/delivery/http/middleware"
	"campusconnect/internal/domain"
)

const maxBatchIDs = 100

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"required,max=5000"`
	Date        *time.Time `json:"date" validate:"required"`
	Department  string     `json:"department" validate:"max=100"`
	Tags        []string   `json:"tags" validate:"max=20,dive,max=50"`
	PosterURL   string     `json:"posterUrl" validate:"omitempty,http_url"`
	// CreatedBy, when set, must be the authenticated user.
	CreatedBy   string     `json:"createdBy"`
}

// Validate implements helpers.Validator. Whitespace-only text counts as missing.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Title != "" && strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.Description != "" && strings.TrimSpace(c.Description) == "" {
		errs = append(errs, "description is required")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}. All fields optional; omitted fields are unchanged.
type UpdateEventRequest struct {
	Title       *string    `json:"title" validate:"omitnil,max=200"`
	Description *string    `json:"description" validate:"omitnil,max=5000"`
	Date        *time.Time `json:"date"`
	Department  *string    `json:"department" validate:"omitnil,max=100"`
	Tags        *[]string  `json:"tags" validate:"omitnil,max=20,dive,max=50"`
	PosterURL   *string    `json:"posterUrl" validate:"omitnil,omitempty,http_url"`
}

// Validate implements helpers.Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Description != nil && strings.TrimSpace(*u.Description) == "" {
		errs = append(errs, "description cannot be empty")
	}
	return errs
}

func (u UpdateEventRequest) toDomain() domain.EventUpdate {
	return domain.EventUpdate{
		Title:       u.Title,
		Description: u.Description,
		Date:        u.Date,
		Department:  u.Department,
		Tags:        u.Tags,
		PosterURL:   u.PosterURL,
	}
}

// PosterForm describes the "poster" part of a multipart upload.
type PosterForm struct {
	ContentType string `form:"contentType" validate:"required,supported_image"`
	Size        int64  `form:"size" validate:"min=1,max=5242880"`
}

// EventResponse is the success response envelope for endpoints returning one event.
type EventResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventList is the body of list endpoints.
type EventList struct {
	Events []*domain.Event `json:"events"`
}

// EventListResponse is the success response envelope for GET /events.
type EventListResponse struct {
	Data  EventList         `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventDetailsResponse is the success response envelope for GET /events/{eventID}.
type EventDetailsResponse struct {
	Data  *domain.EventDetails `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// EventSummaryResponse is the success response envelope for GET /events/summary.
type EventSummaryResponse struct {
	Data  *domain.EventSummary `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// DeleteEventResponse is the body returned by DELETE /events/{eventID}.
type DeleteEventResponse struct {
	Deleted bool `json:"deleted"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// eventIDFromPath returns the {eventID} path value. Ids that are not UUIDs cannot
// exist, so they are answered with 404.
func eventIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return "", false
	}
	if _, err := uuid.Parse(eventID); err != nil {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		return "", false
	}
	return eventID, true
}

func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok || userID == "" {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Creates a campus event. Tags default to an empty list and posterUrl to a placeholder image. The authenticated user is recorded as the creator; a createdBy naming anyone else is rejected.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if req.CreatedBy != "" && req.CreatedBy != userID {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "createdBy must be the authenticated user")
		return
	}
	event := domain.NewEvent(req.Title, req.Description, req.Date.UTC(), req.Department, req.Tags, req.PosterURL, userID)
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListEvents godoc
// @Summary List all events
// @Description Returns every event ordered by date, earliest first.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.EventListResponse "data.events contains the events"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventList{Events: events})
}

// GetEventsBatch godoc
// @Summary Get several events by id
// @Description Returns the events whose ids are listed in the comma-separated ids parameter. Unknown ids are skipped.
// @Tags events
// @Produce json
// @Param ids query string true "Comma-separated event ids"
// @Success 200 {object} controllers.EventListResponse "data.events contains the found events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/batch [get]
func (c *EventController) GetEventsBatch(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, v := range r.URL.Query()["ids"] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) > maxBatchIDs {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "too many ids")
		return
	}
	events, err := c.Service.GetEventsByIDs(r.Context(), ids)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventList{Events: events})
}

// Summary godoc
// @Summary Event counts by department
// @Description Returns the total number of events and a per-department breakdown sorted by department name.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.EventSummaryResponse "data contains the summary"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/summary [get]
func (c *EventController) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.Service.Summary(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the event and the users registered for it.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventDetailsResponse "data contains event and registrants"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	details, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, details)
}

// UpdateEvent godoc
// @Summary Update event details
// @Description Overwrites the fields present in the body. Only the creator or an administrator can update.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.EventResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, userID, req.toDomain())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and all of its registrations. Only the creator or an administrator can delete.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data.deleted is true"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID, userID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Deleted: true})
}

// UploadPoster godoc
// @Summary Upload an event poster
// @Description Stores a JPEG, PNG, GIF or WebP image (max 5 MiB) and sets it as the event's posterUrl. Only the creator or an administrator can upload.
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param poster formData file true "Poster image"
// @Success 200 {object} controllers.EventResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/poster [post]
func (c *EventController) UploadPoster(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxPosterSize+(1<<20))
	if err := r.ParseMultipartForm(domain.MaxPosterSize); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form or poster too large")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("poster")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "poster file is required")
		return
	}
	defer file.Close()

	contentType, err := sniffContentType(file)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unreadable poster file")
		return
	}
	form := PosterForm{ContentType: contentType, Size: header.Size}
	if !helpers.ValidateStruct(w, &form) {
		return
	}

	event, err := c.Service.UploadPoster(r.Context(), eventID, userID, &domain.PosterUpload{
		Filename:    header.Filename,
		ContentType: form.ContentType,
		Size:        form.Size,
		Body:        file,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// sniffContentType detects the file type from its first 512 bytes and rewinds
// the file. The part's declared Content-Type is ignored.
func sniffContentType(file io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
