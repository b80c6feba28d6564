package commands

import (
	"errors"

	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/pkg/errs"
	"curbside/internal/pkg/guard"
)

var (
	// ErrReportLocationCommandIsNotConstructed is returned when the command
	// was not created via its constructor.
	ErrReportLocationCommandIsNotConstructed = errors.New(
		"ReportLocationCommand must be created via NewReportLocationCommand constructor",
	)

	// ErrLocationTargetIsAmbiguous is returned unless exactly one of route
	// id and job id tags the ping.
	ErrLocationTargetIsAmbiguous = errors.New("ping must reference exactly one of routeId or jobId")
)

// ReportLocationCommand represents a servicer device's GPS ping. A ping is
// tagged with the route being driven, or with a bare job id when the
// servicer works outside a formal route.
type ReportLocationCommand struct { //nolint:recvcheck //using for validation
	servicerID kernel.UUID
	routeID    *kernel.UUID
	jobID      *kernel.UUID
	point      kernel.GeoPoint
	heading    float64
	speed      float64

	guard guard.ConstructorGuard
}

// NewReportLocationCommand creates a location report. Exactly one of routeID
// and jobID must be set.
func NewReportLocationCommand(
	servicerID kernel.UUID,
	routeID, jobID *kernel.UUID,
	point kernel.GeoPoint,
	heading, speed float64,
) (ReportLocationCommand, error) {
	command := ReportLocationCommand{
		heading: heading,
		speed:   speed,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setServicerID(servicerID),
		command.setTarget(routeID, jobID),
		command.setPoint(point),
	); err != nil {
		return ReportLocationCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportLocationCommandIsNotConstructed)
}

// ServicerID returns the reporting servicer.
func (c ReportLocationCommand) ServicerID() kernel.UUID {
	return c.servicerID
}

// RouteID returns the tagged route, or nil for a bare-job ping.
func (c ReportLocationCommand) RouteID() *kernel.UUID {
	return c.routeID
}

// JobID returns the tagged job, or nil for a route ping.
func (c ReportLocationCommand) JobID() *kernel.UUID {
	return c.jobID
}

// Point returns the reported coordinates.
func (c ReportLocationCommand) Point() kernel.GeoPoint {
	return c.point
}

// Heading returns the reported heading in degrees.
func (c ReportLocationCommand) Heading() float64 {
	return c.heading
}

// Speed returns the reported speed.
func (c ReportLocationCommand) Speed() float64 {
	return c.speed
}

func (c *ReportLocationCommand) setServicerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("servicerId", err)
	}

	c.servicerID = id
	return nil
}

func (c *ReportLocationCommand) setTarget(routeID, jobID *kernel.UUID) error {
	if (routeID == nil) == (jobID == nil) {
		return ErrLocationTargetIsAmbiguous
	}
	if routeID != nil {
		if err := routeID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("routeId", err)
		}
		c.routeID = routeID
	}
	if jobID != nil {
		if err := jobID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("jobId", err)
		}
		c.jobID = jobID
	}
	return nil
}

func (c *ReportLocationCommand) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	c.point = point
	return nil
}
