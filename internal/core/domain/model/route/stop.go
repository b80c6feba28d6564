package route

import (
	"errors"

	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/pkg/errs"
	"curbside/internal/pkg/guard"
)

// ErrStopIsNotConstructed is returned when a Stop was not created through
// NewStop or RestoreStop.
var ErrStopIsNotConstructed = errors.New("Stop must be created via NewStop or RestoreStop")

// Stop is one entry of a route's ordered worklist: a reference to a job plus
// its fixed position and per-route progress. Stops are created pending, are
// never reordered, and are only mutated through their owning Route.
type Stop struct {
	jobID    kernel.UUID
	position int
	status   StopStatus
	guard    guard.ConstructorGuard
}

// NewStop creates a pending stop for a job at a position.
func NewStop(jobID kernel.UUID, position int) (Stop, error) {
	if err := jobID.Validate(); err != nil {
		return Stop{}, err
	}
	if position < 0 {
		return Stop{}, errs.NewValueIsInvalidError("position")
	}

	return Stop{
		jobID:    jobID,
		position: position,
		status:   StopPending,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// RestoreStop reconstructs a stop from persistence.
func RestoreStop(jobID kernel.UUID, position int, status StopStatus) (Stop, error) {
	if err := jobID.Validate(); err != nil {
		return Stop{}, err
	}
	if position < 0 {
		return Stop{}, errs.NewValueIsInvalidError("position")
	}
	if err := status.Validate(); err != nil {
		return Stop{}, err
	}

	return Stop{
		jobID:    jobID,
		position: position,
		status:   status,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// JobID returns the job the stop refers to.
func (s Stop) JobID() kernel.UUID { return s.jobID }

// Position returns the stop's fixed 0-based position on the route.
func (s Stop) Position() int { return s.position }

// Status returns the stop's per-route progress.
func (s Stop) Status() StopStatus { return s.status }

// IsResolved reports whether the stop is completed or skipped.
func (s Stop) IsResolved() bool { return s.status.IsResolved() }

// Validate ensures the stop was created through a constructor.
func (s Stop) Validate() error {
	return s.guard.Validate(ErrStopIsNotConstructed)
}
