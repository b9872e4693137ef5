package timeslot

import "slotpoll/internal/domain"

// Aggregate rolls up all responses for an event into per-slot statistics.
// Slots nobody answered are absent from the result; participant ID lists
// keep the order responses were submitted in. Pure function of its inputs.
func Aggregate(participants []*domain.Participant, responses []*domain.SlotResponse) *domain.AggregationResult {
	result := &domain.AggregationResult{
		ParticipantCount: len(participants),
		Slots:            make(map[string]*domain.SlotStats),
	}
	for _, r := range responses {
		stats, ok := result.Slots[r.SlotID]
		if !ok {
			stats = &domain.SlotStats{
				SlotID:                    r.SlotID,
				AvailableParticipantIDs:   []string{},
				UnavailableParticipantIDs: []string{},
			}
			result.Slots[r.SlotID] = stats
		}
		stats.TotalResponses++
		if r.Available {
			stats.AvailableCount++
			stats.AvailableParticipantIDs = append(stats.AvailableParticipantIDs, r.ParticipantID)
		} else {
			stats.UnavailableCount++
			stats.UnavailableParticipantIDs = append(stats.UnavailableParticipantIDs, r.ParticipantID)
		}
	}
	return result
}

// Ratio returns availableCount / participantCount, defined as 0 when there
// are no participants.
func Ratio(availableCount, participantCount int) float64 {
	if participantCount == 0 {
		return 0
	}
	return float64(availableCount) / float64(participantCount)
}
