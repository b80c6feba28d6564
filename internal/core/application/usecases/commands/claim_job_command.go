package commands

import (
	"errors"

	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/pkg/errs"
	"curbside/internal/pkg/guard"
)

// ErrClaimJobCommandIsNotConstructed is returned when the command was not
// created via its constructor.
var ErrClaimJobCommandIsNotConstructed = errors.New(
	"ClaimJobCommand must be created via NewClaimJobCommand constructor",
)

// ClaimJobCommand represents a servicer's request to take ownership of a
// pending job.
type ClaimJobCommand struct { //nolint:recvcheck //using for validation
	jobID      kernel.UUID
	servicerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewClaimJobCommand creates a claim request for a job by a servicer.
func NewClaimJobCommand(jobID, servicerID kernel.UUID) (ClaimJobCommand, error) {
	command := ClaimJobCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setJobID(jobID),
		command.setServicerID(servicerID),
	); err != nil {
		return ClaimJobCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ClaimJobCommand) Validate() error {
	return c.guard.Validate(ErrClaimJobCommandIsNotConstructed)
}

// JobID returns the job being claimed.
func (c ClaimJobCommand) JobID() kernel.UUID {
	return c.jobID
}

// ServicerID returns the claiming servicer.
func (c ClaimJobCommand) ServicerID() kernel.UUID {
	return c.servicerID
}

func (c *ClaimJobCommand) setJobID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("jobId", err)
	}

	c.jobID = id
	return nil
}

func (c *ClaimJobCommand) setServicerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("servicerId", err)
	}

	c.servicerID = id
	return nil
}
