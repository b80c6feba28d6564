package commands

import (
	"context"

	"curbside/internal/pkg/errs"
)

// CompleteStopCommandHandler finishes the current stop: the stop's job is
// completed (payment gate included), the route pointer advances, the next
// job goes en_route and every waiting customer's queue position shifts. All
// of it commits in one transaction; the route's version-checked write keeps
// two concurrent completions from both advancing the pointer.
type CompleteStopCommandHandler struct {
	uowFactory UoWFactory
	dispatcher EventDispatcher
	clock      Clock
}

// NewCompleteStopCommandHandler creates a handler for stop completions.
func NewCompleteStopCommandHandler(uowFactory UoWFactory, dispatcher EventDispatcher, clock Clock) CompleteStopCommandHandler {
	return CompleteStopCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		clock:      clock,
	}
}

// Handle processes the stop completion command.
func (h CompleteStopCommandHandler) Handle(ctx context.Context, command CompleteStopCommand) error {
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
	routeRepo := uow.RouteRepository()

	aggregate, err := routeRepo.Get(ctx, command.RouteID())
	if err != nil {
		return err
	}
	if !aggregate.IsOwnedBy(command.ServicerID()) {
		return errs.NewForbiddenError("route", command.ServicerID().String())
	}

	current, ok := aggregate.CurrentStop()
	if !ok {
		return errs.NewObjectNotFoundError("currentStop", command.RouteID().String())
	}

	currentJob, err := jobRepo.Get(ctx, current.JobID())
	if err != nil {
		return err
	}
	if err = completeJobSteps(currentJob, command.ServicerID(), now); err != nil {
		return err
	}

	nextJobID, err := aggregate.CompleteCurrentStop(now)
	if err != nil {
		return err
	}

	if err = jobRepo.Update(ctx, currentJob); err != nil {
		return err
	}
	if err = routeRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	nextEvents, err := promoteNextJob(ctx, jobRepo, nextJobID, command.ServicerID(), now)
	if err != nil {
		return err
	}

	evts := collectEvents(currentJob.PullEvents(), aggregate.PullEvents(), nextEvents)

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.dispatcher.Dispatch(ctx, evts...)
	return nil
}
