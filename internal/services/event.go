package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"campusconnect/internal/domain"
)

const unspecifiedDepartment = "Unspecified"

// posterExtensions maps accepted poster content types to object key extensions.
var posterExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type eventService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	userRepo         domain.UserRepository
	storage          domain.ObjectStorage
	contextTimeout   time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	userRepo domain.UserRepository,
	storage domain.ObjectStorage,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		storage:          storage,
		contextTimeout:   timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event.Title = strings.TrimSpace(event.Title)
	event.Description = strings.TrimSpace(event.Description)
	event.Department = strings.TrimSpace(event.Department)
	if event.Title == "" || event.Description == "" || event.Date.IsZero() {
		return fmt.Errorf("%w: missing fields", domain.ErrInvalidInput)
	}
	if event.CreatedBy == "" {
		return fmt.Errorf("%w: event creator is required", domain.ErrInvalidInput)
	}
	if event.Tags == nil {
		event.Tags = []string{}
	}
	if strings.TrimSpace(event.PosterURL) == "" {
		event.PosterURL = domain.DefaultPosterURL
	}

	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	registrants, err := s.registrationRepo.ListByEventID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list registrants: %w", err)
	}
	if registrants == nil {
		registrants = []*domain.Registration{}
	}
	return &domain.EventDetails{Event: event, Registrants: registrants}, nil
}

// GetEventsByIDs skips ids that are malformed or unknown.
func (s *eventService) GetEventsByIDs(ctx context.Context, ids []string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	seen := make(map[string]struct{}, len(ids))
	valid := make([]string, 0, len(ids))
	for _, raw := range ids {
		parsed, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		id := parsed.String()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		valid = append(valid, id)
	}
	if len(valid) == 0 {
		return []*domain.Event{}, nil
	}
	events, err := s.eventRepo.GetByIDs(ctx, valid)
	if err != nil {
		return nil, fmt.Errorf("get events by ids: %w", err)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id, callerID string, update domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := normalizeUpdate(&update); err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, id, callerID); err != nil {
		return nil, err
	}
	updated, err := s.eventRepo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func normalizeUpdate(u *domain.EventUpdate) error {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}
	u.Title = trim(u.Title)
	u.Description = trim(u.Description)
	u.Department = trim(u.Department)
	if u.Title != nil && *u.Title == "" {
		return fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
	}
	if u.Description != nil && *u.Description == "" {
		return fmt.Errorf("%w: description cannot be empty", domain.ErrInvalidInput)
	}
	if u.Date != nil && u.Date.IsZero() {
		return fmt.Errorf("%w: date cannot be empty", domain.ErrInvalidInput)
	}
	if u.Tags != nil && *u.Tags == nil {
		empty := []string{}
		u.Tags = &empty
	}
	if u.PosterURL != nil && strings.TrimSpace(*u.PosterURL) == "" {
		def := domain.DefaultPosterURL
		u.PosterURL = &def
	}
	return nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.authorize(ctx, id, callerID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) UploadPoster(ctx context.Context, id, callerID string, poster *domain.PosterUpload) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if poster == nil || poster.Body == nil {
		return nil, fmt.Errorf("%w: poster file is required", domain.ErrInvalidInput)
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(poster.ContentType, ";")[0]))
	ext, ok := posterExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported poster type %q", domain.ErrInvalidInput, poster.ContentType)
	}
	if poster.Size > domain.MaxPosterSize {
		return nil, fmt.Errorf("%w: poster exceeds %d bytes", domain.ErrInvalidInput, domain.MaxPosterSize)
	}
	if _, err := s.authorize(ctx, id, callerID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("posters/%s/%s%s", id, uuid.NewString(), ext)
	url, err := s.storage.Put(ctx, key, contentType, poster.Size, poster.Body)
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("store poster: %w", err)
	}
	updated, err := s.eventRepo.Update(ctx, id, domain.EventUpdate{PosterURL: &url})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update poster url: %w", err)
	}
	return updated, nil
}

func (s *eventService) Summary(ctx context.Context) (*domain.EventSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return summarize(events), nil
}

func summarize(events []*domain.Event) *domain.EventSummary {
	counts := make(map[string]int)
	for _, e := range events {
		dept := strings.TrimSpace(e.Department)
		if dept == "" {
			dept = unspecifiedDepartment
		}
		counts[dept]++
	}
	departments := make([]domain.DepartmentCount, 0, len(counts))
	for name, total := range counts {
		departments = append(departments, domain.DepartmentCount{Name: name, Total: total})
	}
	sort.Slice(departments, func(i, j int) bool { return departments[i].Name < departments[j].Name })
	return &domain.EventSummary{TotalEvents: len(events), Departments: departments}
}

// authorize loads the event and allows its creator or an administrator.
func (s *eventService) authorize(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if callerID != "" && event.CreatedBy == callerID {
		return event, nil
	}
	caller, err := s.userRepo.GetByUID(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("get caller: %w", err)
	}
	if !caller.IsAdmin {
		return nil, domain.ErrForbidden
	}
	return event, nil
}
