// Package ports defines the contracts between the application core and
// infrastructure: repositories, the unit of work, the live location cache and
// the outbound notification channels. Adapters implement these; the core only
// ever sees the interfaces.
package ports

import (
	"context"

	"curbside/internal/core/domain/model/job"
	"curbside/internal/core/domain/model/kernel"
)

// JobRepository defines the persistence contract for job aggregates.
//
// Update performs a conditional write keyed on the aggregate's version: when
// the stored version no longer matches, the job was mutated concurrently and
// the call returns a conflict error instead of overwriting. This is what
// makes two servicers racing for the same claim resolve to exactly one
// winner.
type JobRepository interface {
	// Add persists a new job aggregate.
	Add(ctx context.Context, aggregate *job.Job) error

	// Update persists changes to an existing job using a version-checked
	// conditional write. Returns errs.ErrConflict when the check fails.
	Update(ctx context.Context, aggregate *job.Job) error

	// Get retrieves a job by id, including its status history.
	Get(ctx context.Context, id kernel.UUID) (*job.Job, error)

	// GetBatch retrieves several jobs at once, in the order requested.
	// Returns errs.ErrObjectNotFound if any id is absent.
	GetBatch(ctx context.Context, ids []kernel.UUID) ([]*job.Job, error)
}
