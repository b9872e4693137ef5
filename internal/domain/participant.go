package domain

import (
	"context"
	"time"
)

// Participant represents one respondent for an event. IdentityKey is the
// stable external identity (authenticated user ID or email); there is at
// most one participant per (event, identity key).
// swagger:model Participant
type Participant struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	DisplayName string    `json:"display_name"`
	IdentityKey string    `json:"identity_key"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewParticipant returns a new Participant. ID is typically set by the repository on create.
func NewParticipant(eventID, displayName, identityKey string, submittedAt time.Time) *Participant {
	return &Participant{
		EventID:     eventID,
		DisplayName: displayName,
		IdentityKey: identityKey,
		SubmittedAt: submittedAt,
	}
}

// SlotResponse is one participant's answer for one candidate slot. The rows
// for a participant always form the complete set of slots they answered at
// their last submission.
// swagger:model SlotResponse
type SlotResponse struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	ParticipantID string    `json:"participant_id"`
	SlotID        string    `json:"slot_id"`
	Available     bool      `json:"available"`
	CreatedAt     time.Time `json:"created_at"`
}

// SlotAnswer is one (slot, available) pair of a submission, before it is
// bound to a participant row.
type SlotAnswer struct {
	SlotID    string
	Available bool
}

// ParticipantRepository defines storage operations for participants and
// their slot responses.
type ParticipantRepository interface {
	// SubmitResponses reconciles one participant's full response set inside
	// a single serializable transaction: the participant row is created or
	// updated on (event_id, identity_key), all previous responses are
	// deleted, and the given answers are inserted in order. Resubmitting
	// identical answers yields identical stored state. An empty answer set
	// is valid and leaves the participant with zero responses.
	SubmitResponses(ctx context.Context, eventID, identityKey, displayName string, answers []SlotAnswer) (*Participant, []*SlotResponse, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Participant, error)
	GetByEventAndIdentity(ctx context.Context, eventID, identityKey string) (*Participant, error)
}

// ResponseRepository defines read access to stored slot responses.
type ResponseRepository interface {
	// ListByEventID returns all responses for the event in submission order
	// (created_at, then id) so aggregation output is deterministic.
	ListByEventID(ctx context.Context, eventID string) ([]*SlotResponse, error)
	ListByParticipantID(ctx context.Context, participantID string) ([]*SlotResponse, error)
}
