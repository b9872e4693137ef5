// Package jobs schedules the background maintenance work, currently the
// retention cleanup that purges ended events.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"slotpoll/internal/domain"
	"slotpoll/internal/metrics"
)

// CleanupJob deletes events whose window ended more than the retention
// period ago. Participants and responses are removed with them by cascade.
type CleanupJob struct {
	eventRepo domain.EventRepository
	retention time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

func NewCleanupJob(eventRepo domain.EventRepository, retention time.Duration, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		eventRepo: eventRepo,
		retention: retention,
		timeout:   time.Minute,
		logger:    logger,
	}
}

// Run executes one cleanup pass.
func (j *CleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	cutoff := time.Now().UTC().Add(-j.retention).Format("2006-01-02")
	purged, err := j.eventRepo.DeleteEndedBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("event cleanup failed", "cutoff", cutoff, "err", err)
		return
	}
	if purged > 0 {
		metrics.EventsPurgedTotal.Add(float64(purged))
		j.logger.Info("purged ended events", "cutoff", cutoff, "count", purged)
	}
}

// Schedule registers the job on a new cron scheduler, runs it once at
// startup, and starts the scheduler. The returned cron can be stopped on
// shutdown.
func Schedule(job *CleanupJob, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddJob("@daily", job); err != nil {
		return nil, err
	}
	go job.Run()
	c.Start()
	logger.Info("cleanup job scheduled", "schedule", "@daily")
	return c, nil
}
