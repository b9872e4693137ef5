package timeslot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotpoll/internal/domain"
)

func participant(id string) *domain.Participant {
	return &domain.Participant{ID: id, EventID: "ev-1"}
}

func response(participantID, slotID string, available bool) *domain.SlotResponse {
	return &domain.SlotResponse{
		EventID:       "ev-1",
		ParticipantID: participantID,
		SlotID:        slotID,
		Available:     available,
	}
}

func TestAggregate(t *testing.T) {
	participants := []*domain.Participant{participant("p1"), participant("p2"), participant("p3")}
	responses := []*domain.SlotResponse{
		response("p1", "2024-01-01-09:00", true),
		response("p1", "2024-01-01-10:00", true),
		response("p2", "2024-01-01-09:00", true),
		response("p2", "2024-01-01-10:00", false),
		response("p3", "2024-01-01-09:00", false),
	}

	got := Aggregate(participants, responses)

	assert.Equal(t, 3, got.ParticipantCount)
	require.Len(t, got.Slots, 2)

	nine := got.Slots["2024-01-01-09:00"]
	require.NotNil(t, nine)
	assert.Equal(t, 2, nine.AvailableCount)
	assert.Equal(t, 1, nine.UnavailableCount)
	assert.Equal(t, 3, nine.TotalResponses)
	assert.Equal(t, []string{"p1", "p2"}, nine.AvailableParticipantIDs)
	assert.Equal(t, []string{"p3"}, nine.UnavailableParticipantIDs)

	ten := got.Slots["2024-01-01-10:00"]
	require.NotNil(t, ten)
	assert.Equal(t, 1, ten.AvailableCount)
	assert.Equal(t, 1, ten.UnavailableCount)
	assert.Equal(t, 2, ten.TotalResponses)
}

func TestAggregate_UnansweredSlotsAbsent(t *testing.T) {
	participants := []*domain.Participant{participant("p1")}
	responses := []*domain.SlotResponse{response("p1", "2024-01-01-09:00", true)}

	got := Aggregate(participants, responses)

	require.Len(t, got.Slots, 1)
	assert.Nil(t, got.Slots["2024-01-01-10:00"])
}

func TestAggregate_CountsNeverExceedParticipants(t *testing.T) {
	participants := []*domain.Participant{participant("p1"), participant("p2")}
	responses := []*domain.SlotResponse{
		response("p1", "2024-01-01-09:00", true),
		response("p2", "2024-01-01-09:00", false),
	}

	got := Aggregate(participants, responses)
	for _, stats := range got.Slots {
		assert.LessOrEqual(t, stats.AvailableCount+stats.UnavailableCount, got.ParticipantCount)
	}
	// Equality holds when every participant answered the slot.
	assert.Equal(t, got.ParticipantCount, got.Slots["2024-01-01-09:00"].TotalResponses)
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(nil, nil)
	assert.Equal(t, 0, got.ParticipantCount)
	assert.Empty(t, got.Slots)
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 0.0, Ratio(3, 0))
	assert.Equal(t, 0.5, Ratio(1, 2))
	assert.Equal(t, 1.0, Ratio(4, 4))
}
