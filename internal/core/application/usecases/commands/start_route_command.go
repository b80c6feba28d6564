package commands

import (
	"errors"

	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/pkg/errs"
	"curbside/internal/pkg/guard"
)

// ErrStartRouteCommandIsNotConstructed is returned when the command was not
// created via its constructor.
var ErrStartRouteCommandIsNotConstructed = errors.New(
	"StartRouteCommand must be created via NewStartRouteCommand constructor",
)

// StartRouteCommand represents a servicer's request to begin driving their
// planned route.
type StartRouteCommand struct { //nolint:recvcheck //using for validation
	routeID    kernel.UUID
	servicerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartRouteCommand creates a start request for a route by its servicer.
func NewStartRouteCommand(routeID, servicerID kernel.UUID) (StartRouteCommand, error) {
	command := StartRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setRouteID(routeID),
		command.setServicerID(servicerID),
	); err != nil {
		return StartRouteCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c StartRouteCommand) Validate() error {
	return c.guard.Validate(ErrStartRouteCommandIsNotConstructed)
}

// RouteID returns the route to start.
func (c StartRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}

// ServicerID returns the requesting servicer.
func (c StartRouteCommand) ServicerID() kernel.UUID {
	return c.servicerID
}

func (c *StartRouteCommand) setRouteID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("routeId", err)
	}

	c.routeID = id
	return nil
}

func (c *StartRouteCommand) setServicerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("servicerId", err)
	}

	c.servicerID = id
	return nil
}
