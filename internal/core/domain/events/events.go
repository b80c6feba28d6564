// Package events defines the domain events raised by the job and route
// aggregates. Aggregates accumulate events while a command mutates them;
// handlers pull the events after a successful commit and hand them to the
// eventing dispatcher. Events raised by an aggregate whose transaction rolls
// back are discarded with it, so side effects never outrun the store.
package events

import (
	"time"

	"curbside/internal/core/domain/model/kernel"
)

// DomainEvent is the marker interface for everything an aggregate can raise.
// JobID addresses the broadcast channel: realtime delivery is always scoped
// to the parties interested in one job.
type DomainEvent interface {
	EventName() string
	AffectedJobID() kernel.UUID
}

// JobClaimed is raised when a servicer takes ownership of a pending job.
type JobClaimed struct {
	JobID      kernel.UUID
	CustomerID kernel.UUID
	ServicerID kernel.UUID
	At         time.Time
}

// EventName implements DomainEvent.
func (e JobClaimed) EventName() string { return "job:claimed" }

// AffectedJobID implements DomainEvent.
func (e JobClaimed) AffectedJobID() kernel.UUID { return e.JobID }

// JobStatusChanged is raised on every job lifecycle transition.
type JobStatusChanged struct {
	JobID      kernel.UUID
	CustomerID kernel.UUID
	Status     string
	At         time.Time
}

// EventName implements DomainEvent.
func (e JobStatusChanged) EventName() string { return "status:update" }

// AffectedJobID implements DomainEvent.
func (e JobStatusChanged) AffectedJobID() kernel.UUID { return e.JobID }

// QueuePositionChanged is raised for every unresolved stop when a route
// advances, so waiting customers see their place in line move.
type QueuePositionChanged struct {
	JobID    kernel.UUID
	Position int
	Total    int
	At       time.Time
}

// EventName implements DomainEvent.
func (e QueuePositionChanged) EventName() string { return "queue:position" }

// AffectedJobID implements DomainEvent.
func (e QueuePositionChanged) AffectedJobID() kernel.UUID { return e.JobID }

// LocationUpdated is raised when a servicer's ping is accepted. For
// route-tagged pings the event targets only the job at the current stop;
// customers further down the line never receive raw GPS.
type LocationUpdated struct {
	JobID kernel.UUID
	Ping  kernel.LocationPing
}

// EventName implements DomainEvent.
func (e LocationUpdated) EventName() string { return "location:update" }

// AffectedJobID implements DomainEvent.
func (e LocationUpdated) AffectedJobID() kernel.UUID { return e.JobID }
