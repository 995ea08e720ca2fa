package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campusconnect/internal/domain"
)

type assistantService struct {
	generator        domain.ContentGenerator
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	contextTimeout   time.Duration
}

// NewAssistantService wires the content generator to the event catalogue.
func NewAssistantService(generator domain.ContentGenerator, eventRepo domain.EventRepository, registrationRepo domain.RegistrationRepository, timeout time.Duration) domain.AssistantService {
	return &assistantService{
		generator:        generator,
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		contextTimeout:   timeout,
	}
}

func (s *assistantService) SuggestCaption(ctx context.Context, req domain.CaptionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Department = strings.TrimSpace(req.Department)
	if req.Title == "" || req.Description == "" {
		return "", fmt.Errorf("%w: title and description are required", domain.ErrInvalidInput)
	}
	return s.generator.SuggestCaption(ctx, req)
}

// RecommendEvents asks the generator for titles similar to the user's registrations and
// returns the catalogue events carrying those titles that the user has not registered for.
func (s *assistantService) RecommendEvents(ctx context.Context, userUID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrationRepo.ListByUserUID(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if len(regs) == 0 {
		return []*domain.Event{}, nil
	}

	registered := make(map[string]struct{}, len(regs))
	ids := make([]string, 0, len(regs))
	for _, reg := range regs {
		registered[reg.EventID] = struct{}{}
		ids = append(ids, reg.EventID)
	}
	registeredEvents, err := s.eventRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get registered events: %w", err)
	}
	if len(registeredEvents) == 0 {
		return []*domain.Event{}, nil
	}
	titles := make([]string, 0, len(registeredEvents))
	for _, e := range registeredEvents {
		titles = append(titles, e.Title)
	}

	recommended, err := s.generator.RecommendTitles(ctx, titles)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]struct{}, len(recommended))
	for _, t := range recommended {
		wanted[normalizeTitle(t)] = struct{}{}
	}

	all, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	result := make([]*domain.Event, 0)
	for _, e := range all {
		if _, ok := registered[e.ID]; ok {
			continue
		}
		if _, ok := wanted[normalizeTitle(e.Title)]; ok {
			result = append(result, e)
		}
	}
	return result, nil
}

func normalizeTitle(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
