package domain

import "context"

// CaptionRequest describes the event a caption is generated for.
type CaptionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Department  string `json:"department"`
}

// ContentGenerator is the port to an external generative-AI service.
// Each call is a single prompt with no orchestration of its own.
type ContentGenerator interface {
	SuggestCaption(ctx context.Context, req CaptionRequest) (string, error)
	// RecommendTitles returns event titles similar to the ones the user registered for.
	RecommendTitles(ctx context.Context, registeredTitles []string) ([]string, error)
}

// AssistantService exposes the AI-backed helpers to the HTTP layer.
type AssistantService interface {
	SuggestCaption(ctx context.Context, req CaptionRequest) (string, error)
	RecommendEvents(ctx context.Context, userUID string) ([]*Event, error)
}
