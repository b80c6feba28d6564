package queries

import (
	"errors"

	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/pkg/errs"
	"curbside/internal/pkg/guard"
)

// ErrGetActiveRouteQueryIsNotConstructed is returned when the query was not
// created via its constructor.
var ErrGetActiveRouteQueryIsNotConstructed = errors.New(
	"GetActiveRouteQuery must be created via NewGetActiveRouteQuery constructor",
)

// GetActiveRouteQuery retrieves a servicer's planned or in-progress route
// for a service day, with its stops in driving order. Servicer apps call it
// on launch to restore the day's worklist.
type GetActiveRouteQuery struct {
	servicerID kernel.UUID
	date       kernel.ServiceDate

	guard guard.ConstructorGuard
}

// NewGetActiveRouteQuery creates an active route lookup.
func NewGetActiveRouteQuery(servicerID kernel.UUID, date kernel.ServiceDate) (GetActiveRouteQuery, error) {
	if err := servicerID.Validate(); err != nil {
		return GetActiveRouteQuery{}, errs.NewValueIsRequiredErrorWithCause("servicerId", err)
	}
	if err := date.Validate(); err != nil {
		return GetActiveRouteQuery{}, err
	}

	return GetActiveRouteQuery{
		servicerID: servicerID,
		date:       date,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetActiveRouteQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveRouteQueryIsNotConstructed)
}

// ServicerID returns the servicer whose route is requested.
func (q GetActiveRouteQuery) ServicerID() kernel.UUID {
	return q.servicerID
}

// Date returns the service day of interest.
func (q GetActiveRouteQuery) Date() kernel.ServiceDate {
	return q.date
}

// GetActiveRouteQueryResponse is the servicer-facing view of their active
// route.
type GetActiveRouteQueryResponse struct {
	RouteID      kernel.UUID
	Status       string
	CurrentIndex int
	Stops        []ActiveRouteStopResponse
}

// ActiveRouteStopResponse is one stop of the active route view.
type ActiveRouteStopResponse struct {
	JobID    kernel.UUID
	Position int
	Status   string
}
