package commands

import (
	"errors"

	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/pkg/errs"
	"curbside/internal/pkg/guard"
)

// ErrSkipStopCommandIsNotConstructed is returned when the command was not
// created via its constructor.
var ErrSkipStopCommandIsNotConstructed = errors.New(
	"SkipStopCommand must be created via NewSkipStopCommand constructor",
)

// SkipStopCommand represents a servicer moving past the current stop without
// doing it, for example when the customer is unreachable. The underlying job
// keeps its status; only the route view changes.
type SkipStopCommand struct { //nolint:recvcheck //using for validation
	routeID    kernel.UUID
	servicerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewSkipStopCommand creates a skip request for a route's current stop.
func NewSkipStopCommand(routeID, servicerID kernel.UUID) (SkipStopCommand, error) {
	command := SkipStopCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setRouteID(routeID),
		command.setServicerID(servicerID),
	); err != nil {
		return SkipStopCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c SkipStopCommand) Validate() error {
	return c.guard.Validate(ErrSkipStopCommandIsNotConstructed)
}

// RouteID returns the route being advanced.
func (c SkipStopCommand) RouteID() kernel.UUID {
	return c.routeID
}

// ServicerID returns the requesting servicer.
func (c SkipStopCommand) ServicerID() kernel.UUID {
	return c.servicerID
}

func (c *SkipStopCommand) setRouteID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("routeId", err)
	}

	c.routeID = id
	return nil
}

func (c *SkipStopCommand) setServicerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("servicerId", err)
	}

	c.servicerID = id
	return nil
}
