package commands

import (
	"context"

	"curbside/internal/core/domain/model/job"
	"curbside/internal/pkg/errs"
)

// StartRouteCommandHandler begins route execution: the route moves to
// in_progress, its first stop and that stop's job both become en_route, and
// every waiting customer receives their initial queue position.
type StartRouteCommandHandler struct {
	uowFactory UoWFactory
	dispatcher EventDispatcher
	clock      Clock
}

// NewStartRouteCommandHandler creates a handler for route start operations.
func NewStartRouteCommandHandler(uowFactory UoWFactory, dispatcher EventDispatcher, clock Clock) StartRouteCommandHandler {
	return StartRouteCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		clock:      clock,
	}
}

// Handle processes the start command. The first job's transition runs before
// the route mutates, so an illegal job state rejects the start without
// touching the route.
func (h StartRouteCommandHandler) Handle(ctx context.Context, command StartRouteCommand) error {
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

	firstJob, err := jobRepo.Get(ctx, aggregate.JobIDs()[0])
	if err != nil {
		return err
	}
	if err = firstJob.ChangeStatus(job.EnRoute, command.ServicerID(), now); err != nil {
		return err
	}

	if err = aggregate.Start(now); err != nil {
		return err
	}

	if err = jobRepo.Update(ctx, firstJob); err != nil {
		return err
	}
	if err = routeRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	evts := append(firstJob.PullEvents(), aggregate.PullEvents()...)

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.dispatcher.Dispatch(ctx, evts...)
	return nil
}
