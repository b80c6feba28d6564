package ports

import (
	"context"

	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/core/domain/model/route"
)

// RouteRepository defines the persistence contract for route aggregates.
//
// Like JobRepository, Update is a version-checked conditional write: two
// concurrent advances of the same route resolve to one winner and one
// conflict, which serializes stop progression per route without in-process
// locks.
type RouteRepository interface {
	// Add persists a new route aggregate with its stops.
	Add(ctx context.Context, aggregate *route.Route) error

	// Update persists changes to an existing route using a version-checked
	// conditional write. Returns errs.ErrConflict when the check fails.
	Update(ctx context.Context, aggregate *route.Route) error

	// Get retrieves a route by id with its stops in position order.
	Get(ctx context.Context, id kernel.UUID) (*route.Route, error)

	// GetActiveByServicer retrieves the servicer's planned or in-progress
	// route for a date, if one exists. At most one can exist at a time.
	GetActiveByServicer(ctx context.Context, servicerID kernel.UUID, date kernel.ServiceDate) (*route.Route, error)
}
