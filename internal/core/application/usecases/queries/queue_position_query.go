// Package queries contains read-only operations in the CQRS architecture.
// Queries never mutate state: the queue position is recomputed from the
// aggregates on every call, and route listings read projections straight off
// the database.
package queries

import (
	"errors"

	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/pkg/errs"
	"curbside/internal/pkg/guard"
)

// ErrQueuePositionQueryIsNotConstructed is returned when the query was not
// created via its constructor.
var ErrQueuePositionQueryIsNotConstructed = errors.New(
	"QueuePositionQuery must be created via NewQueuePositionQuery constructor",
)

// QueuePositionQuery asks "where is my job in the servicer's line right
// now?".
type QueuePositionQuery struct {
	jobID kernel.UUID

	guard guard.ConstructorGuard
}

// NewQueuePositionQuery creates a queue position query for a job.
func NewQueuePositionQuery(jobID kernel.UUID) (QueuePositionQuery, error) {
	if err := jobID.Validate(); err != nil {
		return QueuePositionQuery{}, errs.NewValueIsRequiredErrorWithCause("jobId", err)
	}

	return QueuePositionQuery{
		jobID: jobID,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q QueuePositionQuery) Validate() error {
	return q.guard.Validate(ErrQueuePositionQueryIsNotConstructed)
}

// JobID returns the job being asked about.
func (q QueuePositionQuery) JobID() kernel.UUID {
	return q.jobID
}

// QueuePositionQueryResponse is the customer-facing queue view. Position and
// Total describe the waiting line behind the stop currently being served;
// Location is present only when this job is next.
type QueuePositionQueryResponse struct {
	JobID       kernel.UUID
	State       string
	Position    int
	Total       int
	IsNext      bool
	JobStatus   string
	RouteStatus string
	Location    *QueueLocationResponse
}

// QueueLocationResponse is the last known servicer position attached to a
// queue view.
type QueueLocationResponse struct {
	Latitude   float64
	Longitude  float64
	Heading    float64
	Speed      float64
	RecordedAt string
}
