package controllers

import (
	"log/slog"
	"net/http"

	"campusconnect/internal/delivery/http/helpers"
	"campusconnect/internal/domain"
)

// CaptionRequest is the request body for POST /ai/caption.
type CaptionRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=5000"`
	Department  string `json:"department" validate:"max=100"`
}

// CaptionResult is the body returned by POST /ai/caption.
type CaptionResult struct {
	Caption string `json:"caption"`
}

type AssistantController struct {
	Logger  *slog.Logger
	Service domain.AssistantService
}

func NewAssistantController(logger *slog.Logger, svc domain.AssistantService) *AssistantController {
	return &AssistantController{
		Logger:  logger,
		Service: svc,
	}
}

// SuggestCaption godoc
// @Summary Generate a promotional caption
// @Description Asks the generative-AI service for a one-line social caption with hashtags.
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CaptionRequest true "Event details"
// @Success 200 {object} helpers.APIResponse "data.caption"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /ai/caption [post]
func (c *AssistantController) SuggestCaption(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerID(w, r); !ok {
		return
	}
	var req CaptionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caption, err := c.Service.SuggestCaption(r.Context(), domain.CaptionRequest{
		Title:       req.Title,
		Description: req.Description,
		Department:  req.Department,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CaptionResult{Caption: caption})
}

// Recommendations godoc
// @Summary Recommend events
// @Description Recommends catalogue events similar to the ones the current user registered for. Empty when the user has no registrations.
// @Tags ai
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventListResponse "data.events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/recommendations [get]
func (c *AssistantController) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	events, err := c.Service.RecommendEvents(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventList{Events: events})
}
