package job

import (
	"errors"
	"fmt"

	"curbside/internal/pkg/errs"
)

// Status represents the lifecycle state of a job. It implements a fixed
// state machine; every mutation of a job's status must pass CanTransitionTo
// before being applied.
//
// State transitions:
//
//	pending ──> confirmed ──> en_route ──> arrived ──> in_progress ──> completed
//	   │            │            │                          │
//	   └────────────┴────────────┴──> cancelled             └──> no_show
//
// completed, cancelled and no_show are terminal: they have no outgoing
// transitions.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status: the job is visible to servicers but
	// not yet claimed.
	Pending

	// Confirmed means a servicer has claimed the job.
	Confirmed

	// EnRoute means the servicer is driving toward the job's location.
	EnRoute

	// Arrived means the servicer is at the curb.
	Arrived

	// InProgress means the service work has started.
	InProgress

	// Completed is terminal: the work is done and the job was paid.
	Completed

	// Cancelled is terminal: the customer or servicer called the job off
	// before work started.
	Cancelled

	// NoShow is terminal: the customer never appeared.
	NoShow
)

// ErrInvalidTransition classifies every illegal state machine move.
var ErrInvalidTransition = errors.New("status transition is not allowed")

// InvalidTransitionError reports an attempted move absent from the
// transition table. It is a business error, not a transient one: callers
// must not retry the same mutation.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// NewInvalidTransitionError creates an InvalidTransitionError for the
// attempted move.
func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// Code returns the stable machine code for state machine violations.
func (e *InvalidTransitionError) Code() string { return "invalid_transition" }

// transitions is the fixed adjacency table of the job state machine.
// Terminal statuses are intentionally absent as keys.
func transitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:    {Confirmed, Cancelled},
		Confirmed:  {EnRoute, Cancelled},
		EnRoute:    {Arrived, Cancelled},
		Arrived:    {InProgress},
		InProgress: {Completed, NoShow},
	}
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Confirmed:  "confirmed",
		EnRoute:    "en_route",
		Arrived:    "arrived",
		InProgress: "in_progress",
		Completed:  "completed",
		Cancelled:  "cancelled",
		NoShow:     "no_show",
	}
}

// CanTransitionTo is a pure lookup against the adjacency table. It has no
// side effects and no knowledge of routes.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo validates the move and returns the target status, or an
// InvalidTransitionError leaving the receiver untouched.
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return Unknown, NewInvalidTransitionError(s, target)
	}
	return target, nil
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled || s == NoShow
}

// String returns the wire-level name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// StatusFromString parses a wire-level status name.
func StatusFromString(value string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == value {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid job status", value))
}

// Validate rejects Unknown and any value outside the defined status set.
func (s Status) Validate() error {
	if s <= Unknown || s > NoShow {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid job status", s))
	}
	return nil
}
