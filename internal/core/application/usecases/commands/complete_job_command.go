package commands

import (
	"errors"

	"curbside/internal/core/domain/model/job"
	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/pkg/errs"
	"curbside/internal/pkg/guard"
)

// ErrCompleteJobCommandIsNotConstructed is returned when the command was not
// created via its constructor.
var ErrCompleteJobCommandIsNotConstructed = errors.New(
	"CompleteJobCommand must be created via NewCompleteJobCommand constructor",
)

// CompleteJobCommand represents a servicer moving a job's status directly,
// off the formal route flow: ad-hoc work, wrapping up a stop that was
// skipped earlier, or resolving a job as cancelled or no_show. The target
// status must still be a legal move in the job state machine.
type CompleteJobCommand struct { //nolint:recvcheck //using for validation
	jobID      kernel.UUID
	servicerID kernel.UUID
	status     job.Status

	guard guard.ConstructorGuard
}

// NewCompleteJobCommand creates a direct status update request for a job.
func NewCompleteJobCommand(jobID, servicerID kernel.UUID, status job.Status) (CompleteJobCommand, error) {
	command := CompleteJobCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setJobID(jobID),
		command.setServicerID(servicerID),
		command.setStatus(status),
	); err != nil {
		return CompleteJobCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteJobCommand) Validate() error {
	return c.guard.Validate(ErrCompleteJobCommandIsNotConstructed)
}

// JobID returns the job being completed.
func (c CompleteJobCommand) JobID() kernel.UUID {
	return c.jobID
}

// ServicerID returns the requesting servicer.
func (c CompleteJobCommand) ServicerID() kernel.UUID {
	return c.servicerID
}

// Status returns the requested target status.
func (c CompleteJobCommand) Status() job.Status {
	return c.status
}

func (c *CompleteJobCommand) setJobID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("jobId", err)
	}

	c.jobID = id
	return nil
}

func (c *CompleteJobCommand) setServicerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("servicerId", err)
	}

	c.servicerID = id
	return nil
}

func (c *CompleteJobCommand) setStatus(status job.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}
