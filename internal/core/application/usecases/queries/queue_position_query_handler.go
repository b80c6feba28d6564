package queries

import (
	"context"
	"errors"
	"time"

	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/core/domain/model/route"
	"curbside/internal/core/domain/services"
	"curbside/internal/core/ports"
	"curbside/internal/pkg/errs"
)

// QueuePositionQueryHandler answers queue position queries by loading the
// job, its route if any, and the live location cache for unrouted jobs, then
// delegating the derivation to the domain calculator. Nothing is cached or
// persisted; a stale position cannot exist because none is ever stored.
type QueuePositionQueryHandler struct {
	jobs       ports.JobRepository
	routes     ports.RouteRepository
	cache      ports.LocationCache
	calculator services.QueueCalculator
}

// NewQueuePositionQueryHandler creates a handler for queue position queries.
func NewQueuePositionQueryHandler(
	jobs ports.JobRepository,
	routes ports.RouteRepository,
	cache ports.LocationCache,
) QueuePositionQueryHandler {
	return QueuePositionQueryHandler{
		jobs:       jobs,
		routes:     routes,
		cache:      cache,
		calculator: services.NewQueueCalculator(),
	}
}

// Handle executes the queue position query.
func (h QueuePositionQueryHandler) Handle(ctx context.Context, query QueuePositionQuery) (QueuePositionQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return QueuePositionQueryResponse{}, err
	}

	aggregate, err := h.jobs.Get(ctx, query.JobID())
	if err != nil {
		return QueuePositionQueryResponse{}, err
	}

	var routeAggregate *route.Route
	if routeID := aggregate.Route(); routeID != nil {
		routeAggregate, err = h.routes.Get(ctx, *routeID)
		if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
			return QueuePositionQueryResponse{}, err
		}
	}

	var cachedPing *kernel.LocationPing
	if aggregate.Route() == nil {
		cachedPing, err = h.cache.Get(ctx, aggregate.ID())
		if err != nil {
			return QueuePositionQueryResponse{}, err
		}
	}

	view, err := h.calculator.Derive(aggregate, routeAggregate, cachedPing)
	if err != nil {
		return QueuePositionQueryResponse{}, err
	}

	response := QueuePositionQueryResponse{
		JobID:       view.JobID,
		State:       view.State.String(),
		Position:    view.Position,
		Total:       view.Total,
		IsNext:      view.IsNext,
		JobStatus:   aggregate.Status().String(),
		RouteStatus: view.RouteStatus,
	}

	if view.Location != nil {
		response.Location = &QueueLocationResponse{
			Latitude:   view.Location.Point().Latitude(),
			Longitude:  view.Location.Point().Longitude(),
			Heading:    view.Location.Heading(),
			Speed:      view.Location.Speed(),
			RecordedAt: view.Location.RecordedAt().Format(time.RFC3339),
		}
	}

	return response, nil
}
