package queries

import (
	"context"

	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/core/domain/model/route"
	"curbside/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveRouteQueryHandler reads the active route projection straight off
// the database, bypassing the aggregate. At most one active route can exist
// per servicer per day, which the write side enforces.
type GetActiveRouteQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveRouteQueryHandler creates a handler for active route queries.
func NewGetActiveRouteQueryHandler(db *gorm.DB) GetActiveRouteQueryHandler {
	return GetActiveRouteQueryHandler{db: db}
}

// Handle executes the active route query. Returns errs.ErrObjectNotFound
// when the servicer has no active route for the day.
func (h GetActiveRouteQueryHandler) Handle(
	ctx context.Context,
	query GetActiveRouteQuery,
) (GetActiveRouteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetActiveRouteQueryResponse{}, err
	}

	var response GetActiveRouteQueryResponse

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			current_index
		FROM routes
		WHERE servicer_id = ?
		  AND service_date = ?
		  AND status IN (?, ?)
	`, query.ServicerID().Bytes(), query.Date().Time(), int(route.Planned), int(route.InProgress)).Row()

	var id uuid.UUID
	var status, currentIndex int
	if err := row.Scan(&id, &status, &currentIndex); err != nil {
		return GetActiveRouteQueryResponse{}, errs.NewObjectNotFoundErrorWithCause(
			"activeRoute", query.ServicerID().String(), err)
	}

	routeID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetActiveRouteQueryResponse{}, err
	}

	response.RouteID = routeID
	response.Status = route.Status(status).String()
	response.CurrentIndex = currentIndex

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			job_id,
			position,
			status
		FROM route_stops
		WHERE route_id = ?
		ORDER BY position
	`, id).Rows()
	if err != nil {
		return GetActiveRouteQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var jobID uuid.UUID
		var position, stopStatus int

		if err = rows.Scan(&jobID, &position, &stopStatus); err != nil {
			return GetActiveRouteQueryResponse{}, err
		}

		stopJobID, idErr := kernel.UUIDFromBytes(jobID[:])
		if idErr != nil {
			return GetActiveRouteQueryResponse{}, idErr
		}

		response.Stops = append(response.Stops, ActiveRouteStopResponse{
			JobID:    stopJobID,
			Position: position,
			Status:   route.StopStatus(stopStatus).String(),
		})
	}

	if err = rows.Err(); err != nil {
		return GetActiveRouteQueryResponse{}, err
	}

	return response, nil
}
