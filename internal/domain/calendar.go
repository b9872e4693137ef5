package domain

import (
	"context"
	"time"
)

// BusyInterval is an externally sourced time range during which a
// participant is occupied. It is ephemeral and never persisted.
type BusyInterval struct {
	Start     time.Time
	End       time.Time
	Cancelled bool
	AllDay    bool
}

// CalendarSource fetches busy intervals for a participant from an external
// calendar feed. Implementations must apply their own timeout; on failure
// the caller fails closed and marks every candidate slot unavailable.
type CalendarSource interface {
	GetBusyIntervals(ctx context.Context, feedURL string, from, to time.Time) ([]BusyInterval, error)
}
