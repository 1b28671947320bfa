package state

import (
	"context"
	"log/slog"
	"time"
)

// SweepJob periodically removes expired conversation state. It implements
// cron.Job.
type SweepJob struct {
	store    Store
	schedule string
	logger   *slog.Logger
}

// NewSweepJob creates a sweep job on the given cron schedule.
func NewSweepJob(store Store, schedule string, logger *slog.Logger) *SweepJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &SweepJob{store: store, schedule: schedule, logger: logger}
}

// Name implements cron.Job.
func (j *SweepJob) Name() string { return "state-sweep" }

// Schedule implements cron.Job.
func (j *SweepJob) Schedule() string { return j.schedule }

// Run implements cron.Job.
func (j *SweepJob) Run(ctx context.Context) error {
	removed, err := j.store.Sweep(ctx, time.Now())
	if err != nil {
		return err
	}
	if removed > 0 {
		j.logger.Debug("expired user states removed", "count", removed)
	}
	return nil
}
