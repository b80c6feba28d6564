package commands

import (
	"context"
	"errors"
	"time"

	"curbside/internal/core/domain/events"
	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/core/domain/model/route"
	"curbside/internal/pkg/errs"
)

// CompleteJobCommandHandler moves a job's status outside the formal route
// flow: completion, cancellation or no-show, as well as progress updates for
// jobs worked without a route. When a terminal status lands on a routed job
// the route view is re-synchronized in the same transaction: the job's stop
// resolves (skipped for cancellations and no-shows), and when it happens to
// be the current stop the route advances exactly as a stop completion would.
type CompleteJobCommandHandler struct {
	uowFactory UoWFactory
	dispatcher EventDispatcher
	clock      Clock
}

// NewCompleteJobCommandHandler creates a handler for direct job completions.
func NewCompleteJobCommandHandler(uowFactory UoWFactory, dispatcher EventDispatcher, clock Clock) CompleteJobCommandHandler {
	return CompleteJobCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		clock:      clock,
	}
}

// Handle processes the direct completion command.
func (h CompleteJobCommandHandler) Handle(ctx context.Context, command CompleteJobCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	now := h.clock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()

	aggregate, err := jobRepo.Get(ctx, command.JobID())
	if err != nil {
		return err
	}
	if !aggregate.IsAssignedTo(command.ServicerID()) {
		return errs.NewForbiddenError("job", command.ServicerID().String())
	}

	if err = applyDirectStatus(aggregate, command.Status(), command.ServicerID(), now); err != nil {
		return err
	}

	if err = jobRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	evts := aggregate.PullEvents()

	resolution, resolved := stopResolutionFor(command.Status())
	if resolved && aggregate.Route() != nil {
		routeEvents, syncErr := h.syncRoute(ctx, uow, *aggregate.Route(), command, resolution, now)
		if syncErr != nil {
			return syncErr
		}
		evts = collectEvents(evts, routeEvents)
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.dispatcher.Dispatch(ctx, evts...)
	return nil
}

func (h CompleteJobCommandHandler) syncRoute(
	ctx context.Context,
	uow UoW,
	routeID kernel.UUID,
	command CompleteJobCommand,
	resolution route.StopStatus,
	now time.Time,
) ([]events.DomainEvent, error) {
	routeRepo := uow.RouteRepository()

	routeAggregate, err := routeRepo.Get(ctx, routeID)
	if err != nil {
		return nil, err
	}

	nextJobID, err := routeAggregate.SyncJobResolution(command.JobID(), resolution, now)
	if err != nil {
		// A route that already moved past this stop has nothing to sync.
		if errors.Is(err, route.ErrStopAlreadyResolved) || errors.Is(err, route.ErrRouteNotInProgress) {
			return nil, nil
		}
		return nil, err
	}

	if err = routeRepo.Update(ctx, routeAggregate); err != nil {
		return nil, err
	}

	nextEvents, err := promoteNextJob(ctx, uow.JobRepository(), nextJobID, command.ServicerID(), now)
	if err != nil {
		return nil, err
	}

	return collectEvents(routeAggregate.PullEvents(), nextEvents), nil
}
