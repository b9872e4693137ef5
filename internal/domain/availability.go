package domain

import (
	"context"
	"time"
)

// SlotStats is the per-slot rollup of all participants' responses.
// Participant ID lists preserve response order.
// swagger:model SlotStats
type SlotStats struct {
	SlotID                    string   `json:"slot_id"`
	AvailableCount            int      `json:"available_count"`
	UnavailableCount          int      `json:"unavailable_count"`
	TotalResponses            int      `json:"total_responses"`
	AvailableParticipantIDs   []string `json:"available_participant_ids"`
	UnavailableParticipantIDs []string `json:"unavailable_participant_ids"`
}

// AggregationResult bundles the per-slot stats with the participant count
// they were computed against. Slots nobody answered are absent from Slots.
// swagger:model AggregationResult
type AggregationResult struct {
	ParticipantCount int                   `json:"participant_count"`
	Slots            map[string]*SlotStats `json:"slots"`
}

// Recommendation is one ranked candidate slot.
// swagger:model Recommendation
type Recommendation struct {
	SlotID         string  `json:"slot_id"`
	AvailableCount int     `json:"available_count"`
	Ratio          float64 `json:"ratio"`
}

// SubmissionResult is the outcome of one availability submission.
// Degraded is true when busy intervals could not be fetched and every slot
// was marked unavailable; the user is invited to correct manually.
type SubmissionResult struct {
	Participant *Participant    `json:"participant"`
	Responses   []*SlotResponse `json:"responses"`
	Degraded    bool            `json:"degraded"`
}

// ParticipantSummary is a participant together with their response stats.
// swagger:model ParticipantSummary
type ParticipantSummary struct {
	Participant      *Participant `json:"participant"`
	TotalSlots       int          `json:"total_slots"`
	AvailableSlots   int          `json:"available_slots"`
	AvailabilityRate int          `json:"availability_rate"`
}

// AggregationCache is a read-through cache for aggregation results, keyed
// by event ID and invalidated whenever a submission commits. It is owned by
// the service layer; the aggregation code itself never touches it.
type AggregationCache interface {
	Get(ctx context.Context, eventID string) (*AggregationResult, bool, error)
	Set(ctx context.Context, eventID string, result *AggregationResult, ttl time.Duration) error
	Invalidate(ctx context.Context, eventID string) error
}

// AvailabilityService defines submission, aggregation, and recommendation
// operations.
type AvailabilityService interface {
	Submit(ctx context.Context, eventID, identityKey, displayName string, answers map[string]bool) (*SubmissionResult, error)
	// ImportFromCalendar derives the answers from the participant's busy
	// intervals and submits them. On calendar failure it fails closed: all
	// slots false, Degraded set.
	ImportFromCalendar(ctx context.Context, eventID, identityKey, displayName, feedURL string) (*SubmissionResult, error)
	GetAggregation(ctx context.Context, eventID string) (*AggregationResult, error)
	GetRecommendations(ctx context.Context, eventID string, k int) ([]Recommendation, error)
	ListParticipants(ctx context.Context, eventID string) ([]*ParticipantSummary, error)
}
