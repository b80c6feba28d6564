package route

import (
	"fmt"

	"curbside/internal/pkg/errs"
)

// Status represents the lifecycle state of a route.
//
// State transitions:
//
//	planned ──> in_progress ──> completed
//
// A route starts planned when the servicer batches claimed jobs for a day,
// moves to in_progress on start, and completes when its last stop resolves.
// Completed is final; routes are immutable afterward.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Planned means the route exists but execution has not started.
	Planned

	// InProgress means the servicer is driving the route.
	InProgress

	// Completed means every stop has been resolved.
	Completed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Planned:    "planned",
		InProgress: "in_progress",
		Completed:  "completed",
	}
}

// IsActive reports whether the route still occupies its (servicer, date)
// slot. At most one active route may exist per servicer per day.
func (s Status) IsActive() bool {
	return s == Planned || s == InProgress
}

// String returns the wire-level name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Completed {
		return errs.NewValueIsInvalidErrorWithCause("routeStatus",
			fmt.Errorf("%d is not a valid route status", s))
	}
	return nil
}

// StopStatus is a stop's per-route progress view. It mirrors, but is
// distinct from, the underlying job's own status: skipping a stop is a
// route-level decision that leaves the job untouched.
type StopStatus int

const (
	// StopUnknown represents an invalid or undefined stop status.
	StopUnknown StopStatus = iota

	// StopPending means the stop is waiting its turn.
	StopPending

	// StopEnRoute means this is the stop being driven to right now.
	StopEnRoute

	// StopArrived means the servicer is at this stop's curb.
	StopArrived

	// StopCompleted means the stop's work is done.
	StopCompleted

	// StopSkipped means the route moved past this stop without doing it.
	StopSkipped
)

func getStopStatusStrings() map[StopStatus]string {
	return map[StopStatus]string{
		StopUnknown:   "unknown",
		StopPending:   "pending",
		StopEnRoute:   "en_route",
		StopArrived:   "arrived",
		StopCompleted: "completed",
		StopSkipped:   "skipped",
	}
}

// IsResolved reports whether the stop no longer takes part in the queue.
func (s StopStatus) IsResolved() bool {
	return s == StopCompleted || s == StopSkipped
}

// IsInFlight reports whether the stop is actively being worked. The route
// invariant allows at most one in-flight stop: the one at currentIndex.
func (s StopStatus) IsInFlight() bool {
	return s == StopEnRoute || s == StopArrived
}

// String returns the wire-level name of the stop status.
func (s StopStatus) String() string {
	if str, ok := getStopStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate rejects StopUnknown and out-of-range values.
func (s StopStatus) Validate() error {
	if s <= StopUnknown || s > StopSkipped {
		return errs.NewValueIsInvalidErrorWithCause("stopStatus",
			fmt.Errorf("%d is not a valid stop status", s))
	}
	return nil
}
