package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/template"

	"google.golang.org/genai"

	"campusconnect/internal/domain"
)

var captionPrompt = template.Must(template.New("caption").Parse(
	`You are a university event marketing expert. Generate a short, catchy, and exciting one-line social media caption to promote a campus event.

Event Details:
- Title: {{.Title}}
- Description: {{.Description}}
{{- if .Department}}
- Department: {{.Department}}
{{- end}}

The caption must be energetic, include a call to action (like "Don't miss out!" or "See you there!") and add 2-3 relevant hashtags.`))

var recommendPrompt = template.Must(template.New("recommend").Parse(
	`Suggest 2-3 similar upcoming events for a student who registered for the following events:
{{range .}}
- {{.}}
{{- end}}

Answer with event titles only.`))

var captionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"caption": {Type: genai.TypeString},
	},
	Required: []string{"caption"},
}

var recommendSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recommendedEvents": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"recommendedEvents"},
}

// Config configures the Gemini API client.
type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the SDK's default endpoint.
	BaseURL string
}

type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiGenerator struct {
	models modelsAPI
	model  string
}

// NewGenerator returns a ContentGenerator backed by the Gemini API.
// With no API key the returned generator reports domain.ErrUnavailable.
func NewGenerator(ctx context.Context, cfg Config, httpClient *http.Client) (domain.ContentGenerator, error) {
	if cfg.APIKey == "" {
		return disabledGenerator{}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &geminiGenerator{models: client.Models, model: cfg.Model}, nil
}

func (g *geminiGenerator) SuggestCaption(ctx context.Context, req domain.CaptionRequest) (string, error) {
	prompt, err := render(captionPrompt, req)
	if err != nil {
		return "", err
	}
	var out struct {
		Caption string `json:"caption"`
	}
	if err := g.generate(ctx, prompt, captionSchema, &out); err != nil {
		return "", err
	}
	caption := strings.TrimSpace(out.Caption)
	if caption == "" {
		return "", fmt.Errorf("genai returned an empty caption")
	}
	return caption, nil
}

func (g *geminiGenerator) RecommendTitles(ctx context.Context, registeredTitles []string) ([]string, error) {
	prompt, err := render(recommendPrompt, registeredTitles)
	if err != nil {
		return nil, err
	}
	var out struct {
		RecommendedEvents []string `json:"recommendedEvents"`
	}
	if err := g.generate(ctx, prompt, recommendSchema, &out); err != nil {
		return nil, err
	}
	if out.RecommendedEvents == nil {
		return []string{}, nil
	}
	return out.RecommendedEvents, nil
}

// generate asks for JSON matching schema and decodes the response text into out.
func (g *geminiGenerator) generate(ctx context.Context, prompt string, schema *genai.Schema, out any) error {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return fmt.Errorf("failed to call genai: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return fmt.Errorf("genai response has no text")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("failed to decode genai output: %w", err)
	}
	return nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return buf.String(), nil
}

type disabledGenerator struct{}

func (disabledGenerator) SuggestCaption(context.Context, domain.CaptionRequest) (string, error) {
	return "", fmt.Errorf("%w: genai is not configured", domain.ErrUnavailable)
}

func (disabledGenerator) RecommendTitles(context.Context, []string) ([]string, error) {
	return nil, fmt.Errorf("%w: genai is not configured", domain.ErrUnavailable)
}
