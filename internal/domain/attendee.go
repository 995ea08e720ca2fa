package domain

import (
	"context"
	"time"
)

// Registration records that a user intends to attend an event.
// swagger:model Registration
type Registration struct {
	ID           string    `json:"id"`
	EventID      string    `json:"eventId"`
	UserUID      string    `json:"userUid"`
	UserName     string    `json:"userName"`
	UserEmail    string    `json:"userEmail"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// NewRegistration creates a new Registration. ID is typically set by the repository on create.
func NewRegistration(eventID, userUID, userName, userEmail string, registeredAt time.Time) *Registration {
	return &Registration{
		EventID:      eventID,
		UserUID:      userUID,
		UserName:     userName,
		UserEmail:    userEmail,
		RegisteredAt: registeredAt,
	}
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	// Create inserts reg unless the (event, user) pair is already registered.
	// created is false when a row already existed; reg is then filled from that row.
	Create(ctx context.Context, reg *Registration) (created bool, err error)
	Exists(ctx context.Context, eventID, userUID string) (bool, error)
	ListByUserUID(ctx context.Context, userUID string) ([]*Registration, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Registration, error)
}

// RegistrationWithEvent bundles a registration with its related event.
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// RegistrationInput is what a caller supplies when registering. Empty name or email
// fall back to the caller's profile. A non-empty UserUID must match CallerUID.
type RegistrationInput struct {
	EventID   string
	CallerUID string
	UserUID   string
	UserName  string
	UserEmail string
}

// AttendeeService defines attendee-facing operations such as event registration.
type AttendeeService interface {
	// Register registers the user for the event. created is true if a new registration was created, false if already registered.
	Register(ctx context.Context, in RegistrationInput) (reg *Registration, created bool, err error)
	IsRegistered(ctx context.Context, eventID, userUID string) (bool, error)
	ListRegistrations(ctx context.Context, userUID string) ([]*Registration, error)
	ListMyEvents(ctx context.Context, userUID string) ([]*RegistrationWithEvent, error)
}
