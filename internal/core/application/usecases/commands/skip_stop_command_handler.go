package commands

import (
	"context"

	"curbside/internal/pkg/errs"
)

// SkipStopCommandHandler resolves the current stop as skipped and advances
// the route. The skipped job is deliberately left untouched so it can still
// be completed directly or rescheduled later.
type SkipStopCommandHandler struct {
	uowFactory UoWFactory
	dispatcher EventDispatcher
	clock      Clock
}

// NewSkipStopCommandHandler creates a handler for stop skips.
func NewSkipStopCommandHandler(uowFactory UoWFactory, dispatcher EventDispatcher, clock Clock) SkipStopCommandHandler {
	return SkipStopCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		clock:      clock,
	}
}

// Handle processes the skip command.
func (h SkipStopCommandHandler) Handle(ctx context.Context, command SkipStopCommand) error {
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

	nextJobID, err := aggregate.SkipCurrentStop(now)
	if err != nil {
		return err
	}

	if err = routeRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	nextEvents, err := promoteNextJob(ctx, jobRepo, nextJobID, command.ServicerID(), now)
	if err != nil {
		return err
	}

	evts := collectEvents(aggregate.PullEvents(), nextEvents)

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.dispatcher.Dispatch(ctx, evts...)
	return nil
}
