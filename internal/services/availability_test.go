package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"slotpoll/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type availabilityFixture struct {
	svc    domain.AvailabilityService
	events *fakeEventRepo
	store  *availabilityStore
	cal    *fakeCalendarSource
	cache  *fakeCache
}

func newAvailabilityFixture(t *testing.T) *availabilityFixture {
	t.Helper()
	events := newFakeEventRepo()
	store := newAvailabilityStore()
	cal := &fakeCalendarSource{}
	cache := newFakeCache()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewAvailabilityService(events,
		&fakeParticipantRepo{s: store},
		&fakeResponseRepo{s: store},
		cal, cache, time.Minute, testTimeout, logger)
	return &availabilityFixture{svc: svc, events: events, store: store, cal: cal, cache: cache}
}

func (f *availabilityFixture) createEvent(t *testing.T) *domain.Event {
	t.Helper()
	e := validEvent("user-1")
	require.NoError(t, f.events.Create(context.Background(), e))
	return e
}

func TestAvailabilityService_SubmitAndAggregate(t *testing.T) {
	ctx := context.Background()
	f := newAvailabilityFixture(t)
	e := f.createEvent(t)

	_, err := f.svc.Submit(ctx, e.ID, "p1@example.com", "P1", map[string]bool{
		"2024-01-01-09:00": true,
		"2024-01-01-10:00": true,
	})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, e.ID, "p2@example.com", "P2", map[string]bool{
		"2024-01-01-09:00": true,
		"2024-01-01-10:00": false,
	})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, e.ID, "p3@example.com", "P3", map[string]bool{
		"2024-01-01-09:00": false,
	})
	require.NoError(t, err)

	agg, err := f.svc.GetAggregation(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, agg.ParticipantCount)

	nine := agg.Slots["2024-01-01-09:00"]
	require.NotNil(t, nine)
	assert.Equal(t, 2, nine.AvailableCount)
	assert.Equal(t, 1, nine.UnavailableCount)
	assert.Equal(t, 3, nine.TotalResponses)

	recs, err := f.svc.GetRecommendations(ctx, e.ID, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "2024-01-01-09:00", recs[0].SlotID)
	assert.Equal(t, 2, recs[0].AvailableCount)
}

func TestAvailabilityService_Submit_Validation(t *testing.T) {
	ctx := context.Background()
	f := newAvailabilityFixture(t)
	e := f.createEvent(t)

	tests := []struct {
		name        string
		eventID     string
		identityKey string
		displayName string
		answers     map[string]bool
		wantErr     error
	}{
		{
			name:    "unknown event",
			eventID: "ev-missing", identityKey: "p@example.com", displayName: "P",
			answers: map[string]bool{"2024-01-01-09:00": true},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "slot outside candidate window",
			eventID: e.ID, identityKey: "p@example.com", displayName: "P",
			answers: map[string]bool{"2024-01-01-23:00": true},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing identity key",
			eventID: e.ID, identityKey: "  ", displayName: "P",
			answers: map[string]bool{"2024-01-01-09:00": true},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing display name",
			eventID: e.ID, identityKey: "p@example.com", displayName: "",
			answers: map[string]bool{"2024-01-01-09:00": true},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Submit(ctx, tt.eventID, tt.identityKey, tt.displayName, tt.answers)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.store.participants)
}

func TestAvailabilityService_Resubmit_ReplacesAnswers(t *testing.T) {
	ctx := context.Background()
	f := newAvailabilityFixture(t)
	e := f.createEvent(t)

	first, err := f.svc.Submit(ctx, e.ID, "P1@Example.com", "P1", map[string]bool{
		"2024-01-01-09:00": true,
	})
	require.NoError(t, err)

	second, err := f.svc.Submit(ctx, e.ID, "p1@example.com", "P1 renamed", map[string]bool{
		"2024-01-01-09:00": false,
		"2024-01-01-10:00": true,
	})
	require.NoError(t, err)

	// Same identity, same participant; the identity key is case-insensitive.
	assert.Equal(t, first.Participant.ID, second.Participant.ID)
	assert.Equal(t, "P1 renamed", second.Participant.DisplayName)

	agg, err := f.svc.GetAggregation(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, agg.ParticipantCount)
	assert.Equal(t, 0, agg.Slots["2024-01-01-09:00"].AvailableCount)
	assert.Equal(t, 1, agg.Slots["2024-01-01-09:00"].UnavailableCount)
	assert.Equal(t, 1, agg.Slots["2024-01-01-10:00"].AvailableCount)

	assert.Equal(t, 2, f.cache.invalidations)
}

func TestAvailabilityService_ImportFromCalendar(t *testing.T) {
	ctx := context.Background()

	t.Run("busy intervals become unavailable slots", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		e := f.createEvent(t)
		f.cal.busy = []domain.BusyInterval{
			{
				Start: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
				End:   time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			},
		}

		result, err := f.svc.ImportFromCalendar(ctx, e.ID, "p1@example.com", "P1", "https://cal.example.com/feed.ics")
		require.NoError(t, err)
		assert.False(t, result.Degraded)
		require.Len(t, result.Responses, 4)

		bySlot := map[string]bool{}
		for _, r := range result.Responses {
			bySlot[r.SlotID] = r.Available
		}
		assert.False(t, bySlot["2024-01-01-09:00"])
		assert.True(t, bySlot["2024-01-01-10:00"])
		assert.True(t, bySlot["2024-01-02-09:00"])
		assert.True(t, bySlot["2024-01-02-10:00"])
	})

	t.Run("feed failure fails closed", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		e := f.createEvent(t)
		f.cal.err = fmt.Errorf("feed unreachable")

		result, err := f.svc.ImportFromCalendar(ctx, e.ID, "p1@example.com", "P1", "https://cal.example.com/feed.ics")
		require.NoError(t, err)
		assert.True(t, result.Degraded)
		require.Len(t, result.Responses, 4)
		for _, r := range result.Responses {
			assert.False(t, r.Available)
		}
	})

	t.Run("missing feed URL", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		e := f.createEvent(t)

		_, err := f.svc.ImportFromCalendar(ctx, e.ID, "p1@example.com", "P1", "  ")
		require.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestAvailabilityService_GetAggregation_Cached(t *testing.T) {
	ctx := context.Background()
	f := newAvailabilityFixture(t)
	e := f.createEvent(t)

	_, err := f.svc.Submit(ctx, e.ID, "p1@example.com", "P1", map[string]bool{
		"2024-01-01-09:00": true,
	})
	require.NoError(t, err)

	first, err := f.svc.GetAggregation(ctx, e.ID)
	require.NoError(t, err)

	// A write that bypasses the service would not invalidate; the cached
	// result must be served as-is.
	f.store.responses = nil
	second, err := f.svc.GetAggregation(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Cache read failures fall back to recomputing.
	f.cache.getErr = fmt.Errorf("cache down")
	third, err := f.svc.GetAggregation(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, third.Slots)
}

func TestAvailabilityService_ListParticipants(t *testing.T) {
	ctx := context.Background()
	f := newAvailabilityFixture(t)
	e := f.createEvent(t)

	_, err := f.svc.Submit(ctx, e.ID, "p1@example.com", "P1", map[string]bool{
		"2024-01-01-09:00": true,
		"2024-01-01-10:00": true,
		"2024-01-02-09:00": false,
	})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, e.ID, "p2@example.com", "P2", map[string]bool{
		"2024-01-01-09:00": false,
	})
	require.NoError(t, err)

	summaries, err := f.svc.ListParticipants(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "P1", summaries[0].Participant.DisplayName)
	assert.Equal(t, 4, summaries[0].TotalSlots)
	assert.Equal(t, 2, summaries[0].AvailableSlots)
	assert.Equal(t, 50, summaries[0].AvailabilityRate)

	assert.Equal(t, 0, summaries[1].AvailableSlots)
	assert.Equal(t, 0, summaries[1].AvailabilityRate)
}
