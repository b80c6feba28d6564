package commands

import (
	"errors"

	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/pkg/errs"
	"curbside/internal/pkg/guard"
)

// ErrCreateRouteCommandIsNotConstructed is returned when the command was not
// created via its constructor.
var ErrCreateRouteCommandIsNotConstructed = errors.New(
	"CreateRouteCommand must be created via NewCreateRouteCommand constructor",
)

// CreateRouteCommand represents a servicer's request to batch their claimed
// jobs into an ordered route for one service day. The stop order is exactly
// the order of the submitted job ids.
type CreateRouteCommand struct { //nolint:recvcheck //using for validation
	routeID    kernel.UUID
	servicerID kernel.UUID
	date       kernel.ServiceDate
	jobIDs     []kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateRouteCommand creates a route creation request. Automatically
// generates a unique id for the new route.
func NewCreateRouteCommand(servicerID kernel.UUID, date kernel.ServiceDate, jobIDs []kernel.UUID) (CreateRouteCommand, error) {
	command := CreateRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setRouteID(kernel.NewUUID()),
		command.setServicerID(servicerID),
		command.setDate(date),
		command.setJobIDs(jobIDs),
	); err != nil {
		return CreateRouteCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateRouteCommand) Validate() error {
	return c.guard.Validate(ErrCreateRouteCommandIsNotConstructed)
}

// RouteID returns the id generated for the new route.
func (c CreateRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}

// ServicerID returns the servicer building the route.
func (c CreateRouteCommand) ServicerID() kernel.UUID {
	return c.servicerID
}

// Date returns the service day the route is for.
func (c CreateRouteCommand) Date() kernel.ServiceDate {
	return c.date
}

// JobIDs returns the job ids in submitted stop order.
func (c CreateRouteCommand) JobIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(c.jobIDs))
	copy(ids, c.jobIDs)
	return ids
}

func (c *CreateRouteCommand) setRouteID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.routeID = id
	return nil
}

func (c *CreateRouteCommand) setServicerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("servicerId", err)
	}

	c.servicerID = id
	return nil
}

func (c *CreateRouteCommand) setDate(date kernel.ServiceDate) error {
	if err := date.Validate(); err != nil {
		return err
	}

	c.date = date
	return nil
}

func (c *CreateRouteCommand) setJobIDs(jobIDs []kernel.UUID) error {
	if len(jobIDs) == 0 {
		return errs.NewValueIsRequiredError("jobIds")
	}
	for _, id := range jobIDs {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("jobIds", err)
		}
	}

	c.jobIDs = make([]kernel.UUID, len(jobIDs))
	copy(c.jobIDs, jobIDs)
	return nil
}
