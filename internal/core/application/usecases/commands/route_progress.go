package commands

import (
	"context"
	"time"

	"curbside/internal/core/domain/events"
	"curbside/internal/core/domain/model/job"
	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/core/domain/model/route"
	"curbside/internal/core/ports"
)

// completeJobSteps drives a job to completed. A job still in arrived passes
// through in_progress first, so the audit history records both legal steps
// even when the servicer taps "done" straight from the curb. The payment
// gate fires inside the completed transition.
func completeJobSteps(aggregate *job.Job, actor kernel.UUID, at time.Time) error {
	if aggregate.Status() == job.Arrived {
		if err := aggregate.ChangeStatus(job.InProgress, actor, at); err != nil {
			return err
		}
	}
	return aggregate.ChangeStatus(job.Completed, actor, at)
}

// applyDirectStatus drives a job to the requested status off the route flow.
// Completing keeps the arrived pass-through of completeJobSteps; every other
// target is a single machine step, so an illegal request surfaces as an
// InvalidTransitionError.
func applyDirectStatus(aggregate *job.Job, target job.Status, actor kernel.UUID, at time.Time) error {
	if target == job.Completed {
		return completeJobSteps(aggregate, actor, at)
	}
	return aggregate.ChangeStatus(target, actor, at)
}

// stopResolutionFor maps a terminal job status to the route-view resolution
// of its stop: a completed job completes the stop, a cancelled or no-show
// job skips it. Non-terminal statuses resolve nothing.
func stopResolutionFor(target job.Status) (route.StopStatus, bool) {
	switch target {
	case job.Completed:
		return route.StopCompleted, true
	case job.Cancelled, job.NoShow:
		return route.StopSkipped, true
	default:
		return route.StopUnknown, false
	}
}

// promoteNextJob moves the job behind a freshly advanced stop to en_route
// and persists it, returning the events it raised. A nil id means the route
// just finished and there is nothing to promote.
func promoteNextJob(
	ctx context.Context,
	jobRepo ports.JobRepository,
	nextJobID *kernel.UUID,
	actor kernel.UUID,
	at time.Time,
) ([]events.DomainEvent, error) {
	if nextJobID == nil {
		return nil, nil
	}

	next, err := jobRepo.Get(ctx, *nextJobID)
	if err != nil {
		return nil, err
	}

	if err = next.ChangeStatus(job.EnRoute, actor, at); err != nil {
		return nil, err
	}

	if err = jobRepo.Update(ctx, next); err != nil {
		return nil, err
	}

	return next.PullEvents(), nil
}

// collectEvents gathers the event buffers of several aggregates into one
// dispatch batch, preserving order.
func collectEvents(groups ...[]events.DomainEvent) []events.DomainEvent {
	var all []events.DomainEvent
	for _, group := range groups {
		all = append(all, group...)
	}
	return all
}
