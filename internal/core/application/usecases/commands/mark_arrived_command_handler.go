package commands

import (
	"context"

	"curbside/internal/core/domain/model/job"
	"curbside/internal/pkg/errs"
)

// MarkArrivedCommandHandler flips the current stop and its job from
// en_route to arrived. The customer sees "your servicer is here".
type MarkArrivedCommandHandler struct {
	uowFactory UoWFactory
	dispatcher EventDispatcher
	clock      Clock
}

// NewMarkArrivedCommandHandler creates a handler for arrival announcements.
func NewMarkArrivedCommandHandler(uowFactory UoWFactory, dispatcher EventDispatcher, clock Clock) MarkArrivedCommandHandler {
	return MarkArrivedCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		clock:      clock,
	}
}

// Handle processes the arrival command.
func (h MarkArrivedCommandHandler) Handle(ctx context.Context, command MarkArrivedCommand) error {
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
	if err = currentJob.ChangeStatus(job.Arrived, command.ServicerID(), now); err != nil {
		return err
	}

	if err = aggregate.MarkArrived(); err != nil {
		return err
	}

	if err = jobRepo.Update(ctx, currentJob); err != nil {
		return err
	}
	if err = routeRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	evts := collectEvents(currentJob.PullEvents(), aggregate.PullEvents())

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.dispatcher.Dispatch(ctx, evts...)
	return nil
}
