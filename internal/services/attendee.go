package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"campusconnect/internal/domain"
)

type attendeeService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	userRepo         domain.UserRepository
	emailService     domain.EmailService
	logger           *slog.Logger
	contextTimeout   time.Duration
}

// NewAttendeeService creates an AttendeeService with the given repositories.
// emailService may be nil, in which case no confirmation is sent.
func NewAttendeeService(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AttendeeService {
	return &attendeeService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		emailService:     emailService,
		logger:           logger,
		contextTimeout:   timeout,
	}
}

func (s *attendeeService) Register(ctx context.Context, in domain.RegistrationInput) (*domain.Registration, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	in.EventID = strings.TrimSpace(in.EventID)
	if in.EventID == "" {
		return nil, false, fmt.Errorf("%w: eventId is required", domain.ErrInvalidInput)
	}
	if in.CallerUID == "" {
		return nil, false, domain.ErrUnauthorized
	}
	if in.UserUID != "" && in.UserUID != in.CallerUID {
		return nil, false, domain.ErrForbidden
	}

	event, err := s.eventRepo.GetByID(ctx, in.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get event: %w", err)
	}

	name, email := strings.TrimSpace(in.UserName), strings.TrimSpace(in.UserEmail)
	if name == "" || email == "" {
		user, err := s.userRepo.GetByUID(ctx, in.CallerUID)
		switch {
		case err == nil:
			if name == "" {
				name = user.Name
			}
			if email == "" {
				email = user.Email
			}
		case errors.Is(err, domain.ErrUserNotFound):
		default:
			return nil, false, fmt.Errorf("get user: %w", err)
		}
	}

	reg := domain.NewRegistration(event.ID, in.CallerUID, name, email, time.Now().UTC())
	created, err := s.registrationRepo.Create(ctx, reg)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("create registration: %w", err)
	}
	if created {
		s.sendConfirmation(ctx, event, reg)
	}
	return reg, created, nil
}

// sendConfirmation emails the attendee; failures are logged only.
func (s *attendeeService) sendConfirmation(ctx context.Context, event *domain.Event, reg *domain.Registration) {
	if s.emailService == nil || reg.UserEmail == "" {
		return
	}
	data := &domain.RegistrationEmailData{
		Email:      reg.UserEmail,
		Name:       reg.UserName,
		EventTitle: event.Title,
		EventDate:  event.Date.UTC().Format("Jan 2, 2006 15:04 MST"),
		Department: event.Department,
	}
	if err := s.emailService.SendRegistrationConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "registration confirmation not sent",
			"event_id", event.ID, "user_uid", reg.UserUID, "err", err)
	}
}

func (s *attendeeService) IsRegistered(ctx context.Context, eventID, userUID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ok, err := s.registrationRepo.Exists(ctx, eventID, userUID)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return ok, nil
}

func (s *attendeeService) ListRegistrations(ctx context.Context, userUID string) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrationRepo.ListByUserUID(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

func (s *attendeeService) ListMyEvents(ctx context.Context, userUID string) ([]*domain.RegistrationWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrationRepo.ListByUserUID(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if len(regs) == 0 {
		return []*domain.RegistrationWithEvent{}, nil
	}

	ids := make([]string, 0, len(regs))
	for _, reg := range regs {
		ids = append(ids, reg.EventID)
	}
	events, err := s.eventRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get registered events: %w", err)
	}
	eventsByID := make(map[string]*domain.Event, len(events))
	for _, e := range events {
		eventsByID[e.ID] = e
	}

	result := make([]*domain.RegistrationWithEvent, 0, len(regs))
	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			continue
		}
		result = append(result, &domain.RegistrationWithEvent{Registration: reg, Event: ev})
	}
	return result, nil
}
