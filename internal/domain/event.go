package domain

import (
	"context"
	"time"
)

// Event statuses.
const (
	EventStatusActive    = "active"
	EventStatusCompleted = "completed"
)

// Event represents a meeting-coordination event. The candidate window is a
// pair of inclusive calendar dates ("2006-01-02") and a half-open hour range
// [StartHour, EndHour). The window is immutable after creation.
// swagger:model Event
type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	StartHour       int       `json:"start_hour"`
	EndHour         int       `json:"end_hour"`
	OwnerID         string    `json:"owner_id"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(title, description string, durationMinutes int, startDate, endDate string, startHour, endHour int, ownerID string, createdAt time.Time) *Event {
	return &Event{
		Title:           title,
		Description:     description,
		DurationMinutes: durationMinutes,
		StartDate:       startDate,
		EndDate:         endDate,
		StartHour:       startHour,
		EndHour:         endHour,
		OwnerID:         ownerID,
		Status:          EventStatusActive,
		CreatedAt:       createdAt,
	}
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	Delete(ctx context.Context, id string) error
	// DeleteEndedBefore removes events whose window ended before the cutoff
	// date. Participants and responses go with them via cascade.
	DeleteEndedBefore(ctx context.Context, cutoffDate string) (int64, error)
}

// EventService defines the business logic for coordinating events.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	// GetEvent returns the event together with its full candidate slot list.
	GetEvent(ctx context.Context, eventID string) (*Event, []string, error)
	ListEventsByOwner(ctx context.Context, ownerID string) ([]*Event, error)
	DeleteEvent(ctx context.Context, eventID, ownerID string) error
	// SendInvitations emails a participation link for the event to each
	// address. Returns the number sent and the addresses that failed.
	SendInvitations(ctx context.Context, eventID, ownerID string, emails []string) (int, []string, error)
}
