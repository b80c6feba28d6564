package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Sweeper removes expired entries from a store and reports how many were
// dropped. The in-process location cache implements it; stores with native
// TTL expiry (Redis) do not need sweeping and never reach this job.
type Sweeper interface {
	Sweep() int
}

// LocationSweepJob periodically evicts expired pings from the live location
// cache so an offline servicer's last position does not linger past its TTL
// for jobs nobody is currently watching.
type LocationSweepJob struct {
	sweeper Sweeper
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewLocationSweepJob creates a job that sweeps the location cache every
// 30 seconds.
func NewLocationSweepJob(sweeper Sweeper, logger *slog.Logger) *LocationSweepJob {
	return &LocationSweepJob{
		sweeper: sweeper,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "location_sweep_job"),
	}
}

// Start begins the sweep schedule.
func (j *LocationSweepJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		if removed := j.sweeper.Sweep(); removed > 0 {
			j.logger.Info("Swept expired location pings", "removed", removed)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Location sweep job started (running every 30 seconds)")
	return nil
}

// Stop stops the sweep job.
func (j *LocationSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Location sweep job stopped")
}
