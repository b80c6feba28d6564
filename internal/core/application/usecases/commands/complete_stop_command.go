package commands

import (
	"errors"

	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/pkg/errs"
	"curbside/internal/pkg/guard"
)

// ErrCompleteStopCommandIsNotConstructed is returned when the command was
// not created via its constructor.
var ErrCompleteStopCommandIsNotConstructed = errors.New(
	"CompleteStopCommand must be created via NewCompleteStopCommand constructor",
)

// CompleteStopCommand represents a servicer finishing the work at the
// current stop of their route.
type CompleteStopCommand struct { //nolint:recvcheck //using for validation
	routeID    kernel.UUID
	servicerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCompleteStopCommand creates a completion request for a route's current
// stop.
func NewCompleteStopCommand(routeID, servicerID kernel.UUID) (CompleteStopCommand, error) {
	command := CompleteStopCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setRouteID(routeID),
		command.setServicerID(servicerID),
	); err != nil {
		return CompleteStopCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteStopCommand) Validate() error {
	return c.guard.Validate(ErrCompleteStopCommandIsNotConstructed)
}

// RouteID returns the route being advanced.
func (c CompleteStopCommand) RouteID() kernel.UUID {
	return c.routeID
}

// ServicerID returns the requesting servicer.
func (c CompleteStopCommand) ServicerID() kernel.UUID {
	return c.servicerID
}

func (c *CompleteStopCommand) setRouteID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("routeId", err)
	}

	c.routeID = id
	return nil
}

func (c *CompleteStopCommand) setServicerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("servicerId", err)
	}

	c.servicerID = id
	return nil
}
