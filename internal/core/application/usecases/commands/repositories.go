// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, persistence, then post-commit event dispatch.
package commands

import (
	"context"
	"time"

	"curbside/internal/core/domain/events"
	"curbside/internal/core/ports"
)

// Clock supplies the current time to handlers. Commands with time-based
// preconditions (claim grace period, night-before rule) take it as a
// dependency so tests can pin the moment.
type Clock func() time.Time

// EventDispatcher receives the domain events pulled off aggregates after a
// successful commit. Dispatch is fire and forget: the state change is
// already durable, so delivery failures are logged downstream, never
// returned here.
type EventDispatcher interface {
	Dispatch(ctx context.Context, evts ...events.DomainEvent)
}

// Unit of Work interfaces provide transaction management for command
// handlers. These abstractions ensure data consistency across aggregate
// boundaries.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// JobRepoFactory provides access to the job repository within a transaction.
	JobRepoFactory interface {
		JobRepository() ports.JobRepository
	}

	// RouteRepoFactory provides access to the route repository within a transaction.
	RouteRepoFactory interface {
		RouteRepository() ports.RouteRepository
	}

	// JobUoW manages transactions for job-only operations, such as a claim.
	JobUoW interface {
		TxManager
		JobRepoFactory
	}

	// JobUoWFactory creates new job unit of work instances.
	JobUoWFactory interface {
		Create() JobUoW
	}

	// UoW manages transactions across job and route aggregates. Every
	// route-advancing command moves the route and its jobs inside one
	// transaction, so a stop advance and the matching job transition
	// commit or roll back together.
	UoW interface {
		TxManager
		JobRepoFactory
		RouteRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
