package commands

import (
	"context"

	"curbside/internal/core/domain/events"
	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/core/ports"
	"curbside/internal/pkg/errs"
)

// ReportLocationCommandHandler ingests servicer GPS pings.
//
// Route-tagged pings persist lastLocation on the route and broadcast only to
// the customer of the current stop. Bare-job pings land in the live location
// cache and broadcast to that job's customer; they are best effort and never
// touch the durable store.
type ReportLocationCommandHandler struct {
	uowFactory UoWFactory
	cache      ports.LocationCache
	dispatcher EventDispatcher
	clock      Clock
}

// NewReportLocationCommandHandler creates a handler for location reports.
func NewReportLocationCommandHandler(
	uowFactory UoWFactory,
	cache ports.LocationCache,
	dispatcher EventDispatcher,
	clock Clock,
) ReportLocationCommandHandler {
	return ReportLocationCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
		dispatcher: dispatcher,
		clock:      clock,
	}
}

// Handle processes the ping.
func (h ReportLocationCommandHandler) Handle(ctx context.Context, command ReportLocationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	ping, err := kernel.NewLocationPing(
		command.Point(),
		command.Heading(),
		command.Speed(),
		command.ServicerID(),
		h.clock(),
	)
	if err != nil {
		return err
	}

	if command.RouteID() != nil {
		return h.handleRoutePing(ctx, command, ping)
	}
	return h.handleJobPing(ctx, command, ping)
}

func (h ReportLocationCommandHandler) handleRoutePing(ctx context.Context, command ReportLocationCommand, ping kernel.LocationPing) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routeRepo := uow.RouteRepository()

	aggregate, err := routeRepo.Get(ctx, *command.RouteID())
	if err != nil {
		return err
	}

	if err = aggregate.RecordLocation(ping); err != nil {
		return err
	}

	if err = routeRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	evts := aggregate.PullEvents()

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.dispatcher.Dispatch(ctx, evts...)
	return nil
}

func (h ReportLocationCommandHandler) handleJobPing(ctx context.Context, command ReportLocationCommand, ping kernel.LocationPing) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.JobRepository().Get(ctx, *command.JobID())
	if err != nil {
		return err
	}
	if !aggregate.IsAssignedTo(command.ServicerID()) {
		return errs.NewForbiddenError("job", command.ServicerID().String())
	}

	if err = h.cache.Put(ctx, aggregate.ID(), ping); err != nil {
		return err
	}

	h.dispatcher.Dispatch(ctx, events.LocationUpdated{JobID: aggregate.ID(), Ping: ping})
	return nil
}
