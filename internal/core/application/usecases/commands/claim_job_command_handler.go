package commands

import (
	"context"
	"errors"

	"curbside/internal/core/domain/model/job"
	"curbside/internal/pkg/errs"
)

// ClaimJobCommandHandler executes the atomic claim: first servicer wins,
// everyone else gets a definitive rejection.
//
// The race is resolved in two layers. The domain check rejects jobs that are
// already assigned; the repository's version-checked write catches the
// narrower race where two claims read the same pending job concurrently.
// A conflict on that write means somebody else's claim landed first, so it
// surfaces as job.ErrJobTaken rather than a retryable conflict.
type ClaimJobCommandHandler struct {
	uowFactory JobUoWFactory
	dispatcher EventDispatcher
	clock      Clock
}

// NewClaimJobCommandHandler creates a handler for job claim operations.
func NewClaimJobCommandHandler(uowFactory JobUoWFactory, dispatcher EventDispatcher, clock Clock) ClaimJobCommandHandler {
	return ClaimJobCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		clock:      clock,
	}
}

// Handle processes the claim command. Timing preconditions (grace period,
// night-before rule) are evaluated against the handler clock; their errors
// carry the earliest legal claim time so callers can schedule a retry.
func (h ClaimJobCommandHandler) Handle(ctx context.Context, command ClaimJobCommand) error {
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

	aggregate, err := jobRepo.Get(ctx, command.JobID())
	if err != nil {
		return err
	}

	if err = aggregate.ClaimBy(command.ServicerID(), h.clock()); err != nil {
		return err
	}

	if err = jobRepo.Update(ctx, aggregate); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return job.ErrJobTaken
		}
		return err
	}

	evts := aggregate.PullEvents()

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.dispatcher.Dispatch(ctx, evts...)
	return nil
}
