package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"slotpoll/internal/domain"
	"slotpoll/internal/metrics"
	"slotpoll/internal/timeslot"
)

type availabilityService struct {
	eventRepo       domain.EventRepository
	participantRepo domain.ParticipantRepository
	responseRepo    domain.ResponseRepository
	calendar        domain.CalendarSource
	cache           domain.AggregationCache
	cacheTTL        time.Duration
	contextTimeout  time.Duration
	logger          *slog.Logger
}

func NewAvailabilityService(eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	responseRepo domain.ResponseRepository,
	calendar domain.CalendarSource,
	cache domain.AggregationCache,
	cacheTTL time.Duration,
	timeout time.Duration,
	logger *slog.Logger,
) domain.AvailabilityService {
	return &availabilityService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		responseRepo:    responseRepo,
		calendar:        calendar,
		cache:           cache,
		cacheTTL:        cacheTTL,
		contextTimeout:  timeout,
		logger:          logger,
	}
}

func (s *availabilityService) Submit(ctx context.Context, eventID, identityKey, displayName string, answers map[string]bool) (*domain.SubmissionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	_, slots, err := s.eventAndSlots(ctx, eventID)
	if err != nil {
		return nil, err
	}

	result, err := s.submit(ctx, eventID, slots, identityKey, displayName, answers)
	if err != nil {
		return nil, err
	}
	metrics.SubmissionsTotal.WithLabelValues("manual").Inc()
	return result, nil
}

func (s *availabilityService) ImportFromCalendar(ctx context.Context, eventID, identityKey, displayName, feedURL string) (*domain.SubmissionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(feedURL) == "" {
		return nil, fmt.Errorf("%w: feed URL is required", domain.ErrValidation)
	}
	event, slots, err := s.eventAndSlots(ctx, eventID)
	if err != nil {
		return nil, err
	}

	from, err := time.ParseInLocation(timeslot.DateLayout, event.StartDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %q", domain.ErrValidation, event.StartDate)
	}
	to, err := time.ParseInLocation(timeslot.DateLayout, event.EndDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date %q", domain.ErrValidation, event.EndDate)
	}
	to = to.AddDate(0, 0, 1)

	degraded := false
	var answers map[string]bool
	busy, err := s.calendar.GetBusyIntervals(ctx, feedURL, from, to)
	if err != nil {
		// Fail closed. The participant reviews and corrects by hand.
		s.logger.Warn("calendar fetch failed, marking all slots unavailable",
			"event_id", eventID, "error", err)
		metrics.DegradedImportsTotal.Inc()
		answers = timeslot.AllUnavailable(slots)
		degraded = true
	} else {
		answers, err = timeslot.Resolve(slots, event.DurationMinutes, busy)
		if err != nil {
			return nil, fmt.Errorf("resolve conflicts: %w", err)
		}
	}

	result, err := s.submit(ctx, eventID, slots, identityKey, displayName, answers)
	if err != nil {
		return nil, err
	}
	result.Degraded = degraded
	metrics.SubmissionsTotal.WithLabelValues("calendar").Inc()
	return result, nil
}

// submit validates the answers against the event's candidate slots and
// persists them as the participant's new full response set. Answers are
// written in slot ID order so repeated submissions produce identical rows.
func (s *availabilityService) submit(ctx context.Context, eventID string, slots []string, identityKey, displayName string, answers map[string]bool) (*domain.SubmissionResult, error) {
	identityKey = strings.TrimSpace(strings.ToLower(identityKey))
	if identityKey == "" {
		return nil, fmt.Errorf("%w: identity key is required", domain.ErrValidation)
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, fmt.Errorf("%w: display name is required", domain.ErrValidation)
	}

	valid := make(map[string]struct{}, len(slots))
	for _, id := range slots {
		valid[id] = struct{}{}
	}
	ordered := make([]domain.SlotAnswer, 0, len(answers))
	for slotID, available := range answers {
		if _, ok := valid[slotID]; !ok {
			return nil, fmt.Errorf("%w: slot %q is not a candidate for this event", domain.ErrValidation, slotID)
		}
		ordered = append(ordered, domain.SlotAnswer{SlotID: slotID, Available: available})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].SlotID < ordered[j].SlotID })

	participant, responses, err := s.participantRepo.SubmitResponses(ctx, eventID, identityKey, displayName, ordered)
	if err != nil {
		return nil, fmt.Errorf("submit responses: %w", err)
	}

	if err := s.cache.Invalidate(ctx, eventID); err != nil {
		s.logger.Warn("aggregation cache invalidation failed", "event_id", eventID, "error", err)
	}

	return &domain.SubmissionResult{
		Participant: participant,
		Responses:   responses,
	}, nil
}

func (s *availabilityService) GetAggregation(ctx context.Context, eventID string) (*domain.AggregationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if cached, ok, err := s.cache.Get(ctx, eventID); err != nil {
		s.logger.Warn("aggregation cache read failed", "event_id", eventID, "error", err)
	} else if ok {
		metrics.AggregationCacheHits.Inc()
		return cached, nil
	}
	metrics.AggregationCacheMisses.Inc()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	participants, err := s.participantRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	responses, err := s.responseRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	result := timeslot.Aggregate(participants, responses)
	if err := s.cache.Set(ctx, eventID, result, s.cacheTTL); err != nil {
		s.logger.Warn("aggregation cache write failed", "event_id", eventID, "error", err)
	}
	return result, nil
}

func (s *availabilityService) GetRecommendations(ctx context.Context, eventID string, k int) ([]domain.Recommendation, error) {
	result, err := s.GetAggregation(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return timeslot.Rank(result, k), nil
}

func (s *availabilityService) ListParticipants(ctx context.Context, eventID string) ([]*domain.ParticipantSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	_, slots, err := s.eventAndSlots(ctx, eventID)
	if err != nil {
		return nil, err
	}
	participants, err := s.participantRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	summaries := make([]*domain.ParticipantSummary, 0, len(participants))
	for _, p := range participants {
		responses, err := s.responseRepo.ListByParticipantID(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("list responses for participant %s: %w", p.ID, err)
		}
		available := 0
		for _, r := range responses {
			if r.Available {
				available++
			}
		}
		rate := 0
		if len(slots) > 0 {
			rate = available * 100 / len(slots)
		}
		summaries = append(summaries, &domain.ParticipantSummary{
			Participant:      p,
			TotalSlots:       len(slots),
			AvailableSlots:   available,
			AvailabilityRate: rate,
		})
	}
	return summaries, nil
}

func (s *availabilityService) eventAndSlots(ctx context.Context, eventID string) (*domain.Event, []string, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	slots, err := timeslot.GenerateForEvent(event)
	if err != nil {
		return nil, nil, fmt.Errorf("generate slots: %w", err)
	}
	return event, slots, nil
}
