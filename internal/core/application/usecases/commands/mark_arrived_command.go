package commands

import (
	"errors"

	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/pkg/errs"
	"curbside/internal/pkg/guard"
)

// ErrMarkArrivedCommandIsNotConstructed is returned when the command was not
// created via its constructor.
var ErrMarkArrivedCommandIsNotConstructed = errors.New(
	"MarkArrivedCommand must be created via NewMarkArrivedCommand constructor",
)

// MarkArrivedCommand represents a servicer announcing arrival at the current
// stop's curb.
type MarkArrivedCommand struct { //nolint:recvcheck //using for validation
	routeID    kernel.UUID
	servicerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkArrivedCommand creates an arrival announcement for a route's
// current stop.
func NewMarkArrivedCommand(routeID, servicerID kernel.UUID) (MarkArrivedCommand, error) {
	command := MarkArrivedCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setRouteID(routeID),
		command.setServicerID(servicerID),
	); err != nil {
		return MarkArrivedCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkArrivedCommand) Validate() error {
	return c.guard.Validate(ErrMarkArrivedCommandIsNotConstructed)
}

// RouteID returns the route whose current stop was reached.
func (c MarkArrivedCommand) RouteID() kernel.UUID {
	return c.routeID
}

// ServicerID returns the requesting servicer.
func (c MarkArrivedCommand) ServicerID() kernel.UUID {
	return c.servicerID
}

func (c *MarkArrivedCommand) setRouteID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("routeId", err)
	}

	c.routeID = id
	return nil
}

func (c *MarkArrivedCommand) setServicerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("servicerId", err)
	}

	c.servicerID = id
	return nil
}
