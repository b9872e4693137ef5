package timeslot

import (
	"sort"

	"slotpoll/internal/domain"
)

// DefaultRecommendations is the recommendation list size when the caller
// does not ask for a specific K.
const DefaultRecommendations = 5

// Rank selects the top-K recommended slots from an aggregation: slots with
// at least one available participant, ordered by available count
// descending, then availability ratio descending, then slot ID ascending.
// The final criterion makes the ordering fully deterministic, which is what
// allows the result to sit behind a read-through cache.
func Rank(result *domain.AggregationResult, k int) []domain.Recommendation {
	if k <= 0 {
		k = DefaultRecommendations
	}
	recs := []domain.Recommendation{}
	if result == nil || result.ParticipantCount == 0 {
		return recs
	}
	for _, stats := range result.Slots {
		if stats.AvailableCount == 0 {
			continue
		}
		recs = append(recs, domain.Recommendation{
			SlotID:         stats.SlotID,
			AvailableCount: stats.AvailableCount,
			Ratio:          Ratio(stats.AvailableCount, result.ParticipantCount),
		})
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].AvailableCount != recs[j].AvailableCount {
			return recs[i].AvailableCount > recs[j].AvailableCount
		}
		if recs[i].Ratio != recs[j].Ratio {
			return recs[i].Ratio > recs[j].Ratio
		}
		return recs[i].SlotID < recs[j].SlotID
	})
	if len(recs) > k {
		recs = recs[:k]
	}
	return recs
}
