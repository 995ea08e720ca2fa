package domain

import (
	"context"
	"time"
)

// DefaultPosterURL is used when an event is created without a poster image.
const DefaultPosterURL = "https://placehold.co/600x400.png"

// Event represents a campus event
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Department  string    `json:"department"`
	Tags        []string  `json:"tags"`
	PosterURL   string    `json:"posterUrl"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(title, description string, date time.Time, department string, tags []string, posterURL, createdBy string) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Date:        date,
		Department:  department,
		Tags:        tags,
		PosterURL:   posterURL,
		CreatedBy:   createdBy,
	}
}

// EventUpdate carries the fields a client submitted for an update. Nil fields are left unchanged.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *time.Time
	Department  *string
	Tags        *[]string
	PosterURL   *string
}

// Empty reports whether no field is set.
func (u EventUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Date == nil &&
		u.Department == nil && u.Tags == nil && u.PosterURL == nil
}

// EventDetails bundles an event with the users registered for it.
type EventDetails struct {
	Event       *Event          `json:"event"`
	Registrants []*Registration `json:"registrants"`
}

// DepartmentCount is the number of events organised by one department.
type DepartmentCount struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// EventSummary aggregates the event list for the summary page.
type EventSummary struct {
	TotalEvents int               `json:"totalEvents"`
	Departments []DepartmentCount `json:"departments"`
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	List(ctx context.Context) ([]*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Event, error)
	Update(ctx context.Context, id string, update EventUpdate) (*Event, error)
	// Delete removes the event and its registrations atomically.
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for the event catalogue.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	ListEvents(ctx context.Context) ([]*Event, error)
	GetEvent(ctx context.Context, id string) (*EventDetails, error)
	GetEventsByIDs(ctx context.Context, ids []string) ([]*Event, error)
	UpdateEvent(ctx context.Context, id, callerID string, update EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, id, callerID string) error
	UploadPoster(ctx context.Context, id, callerID string, poster *PosterUpload) (*Event, error)
	Summary(ctx context.Context) (*EventSummary, error)
}
