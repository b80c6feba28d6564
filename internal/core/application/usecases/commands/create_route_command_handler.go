package commands

import (
	"context"
	"errors"

	"curbside/internal/core/domain/model/route"
	"curbside/internal/pkg/errs"
)

var (
	// ErrActiveRouteExists is returned when the servicer already has a
	// planned or in-progress route for the requested day.
	ErrActiveRouteExists = errors.New("servicer already has an active route for this date")

	// ErrJobDateMismatch is returned when a batched job is not scheduled
	// for the route's service day.
	ErrJobDateMismatch = errors.New("job is not scheduled for the route date")
)

// CreateRouteCommandHandler batches a servicer's claimed jobs into a planned
// route. The route and every job's route reference are written in one
// transaction, so a job is never left pointing at a route that was not
// created.
type CreateRouteCommandHandler struct {
	uowFactory UoWFactory
}

// NewCreateRouteCommandHandler creates a handler for route creation.
func NewCreateRouteCommandHandler(uowFactory UoWFactory) CreateRouteCommandHandler {
	return CreateRouteCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the route creation command. Every batched job must be
// confirmed, owned by the requesting servicer, scheduled for the route's
// day, and not already on another route; one bad job rejects the whole
// batch.
func (h CreateRouteCommandHandler) Handle(ctx context.Context, command CreateRouteCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()
	routeRepo := uow.RouteRepository()

	_, err := routeRepo.GetActiveByServicer(ctx, command.ServicerID(), command.Date())
	if err == nil {
		return ErrActiveRouteExists
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	jobs, err := jobRepo.GetBatch(ctx, command.JobIDs())
	if err != nil {
		return err
	}

	for order, aggregate := range jobs {
		if !aggregate.IsAssignedTo(command.ServicerID()) {
			return errs.NewForbiddenError("job", aggregate.ID().String())
		}
		if !aggregate.ScheduledDate().IsEqual(command.Date()) {
			return ErrJobDateMismatch
		}
		if err = aggregate.AssignToRoute(command.RouteID(), order); err != nil {
			return err
		}
	}

	aggregate, err := route.NewRoute(command.RouteID(), command.ServicerID(), command.Date(), command.JobIDs())
	if err != nil {
		return err
	}

	if err = routeRepo.Add(ctx, aggregate); err != nil {
		return err
	}

	for _, jobAggregate := range jobs {
		if err = jobRepo.Update(ctx, jobAggregate); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
