package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates the scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	locationSweepJob *LocationSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(sweeper Sweeper, logger *slog.Logger) *JobManager {
	return &JobManager{
		locationSweepJob: NewLocationSweepJob(sweeper, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.locationSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start location sweep job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.locationSweepJob.Stop()
}
