// Package routerepo persists route aggregates with GORM.
package routerepo

import (
	"context"
	"errors"

	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/core/domain/model/route"
	"curbside/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// aggregateTracker registers aggregates touched by repository writes with
// the owning unit of work.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormRouteRepository stores route aggregates in the routes and route_stops
// tables.
//
// Update is a conditional write keyed on the aggregate's version, bumped on
// success. Zero rows affected means another writer advanced the route in
// the meantime and the caller gets a conflict, which serializes stop
// progression per route without in-process locks.
type GormRouteRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormRouteRepository creates a repository over the given connection or
// transaction.
func NewGormRouteRepository(db *gorm.DB, tracker aggregateTracker) *GormRouteRepository {
	return &GormRouteRepository{db: db, tracker: tracker}
}

// Add persists a new route with its stops.
func (r *GormRouteRepository) Add(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update persists changes to an existing route using a version-checked
// conditional write, then syncs stop statuses. Returns errs.ErrConflict when
// the version check fails, before any stop is touched.
func (r *GormRouteRepository) Update(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&RouteDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Updates(map[string]any{
			"current_index":    dto.CurrentIndex,
			"status":           dto.Status,
			"last_latitude":    dto.LastLatitude,
			"last_longitude":   dto.LastLongitude,
			"last_heading":     dto.LastHeading,
			"last_speed":       dto.LastSpeed,
			"last_recorded_at": dto.LastRecordedAt,
			"started_at":       dto.StartedAt,
			"completed_at":     dto.CompletedAt,
			"version":          aggregate.Version() + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("route", aggregate.ID().String())
	}

	// Stops are fixed at creation; only their status moves. Upserting on
	// (route_id, position) rewrites exactly those statuses.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "route_id"}, {Name: "position"}},
			DoUpdates: clause.AssignmentColumns([]string{"status"}),
		}).
		Create(&dto.Stops).Error
	if err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a route by id with its stops in position order. Returns
// errs.ErrObjectNotFound when no such route exists.
func (r *GormRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.Route, error) {
	var dto RouteDTO

	err := r.db.WithContext(ctx).
		Preload("Stops", orderByPosition).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("route", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByServicer retrieves the servicer's planned or in-progress route
// for a date. The create-route flow guarantees at most one exists. Returns
// errs.ErrObjectNotFound when the servicer has no active route for the day.
func (r *GormRouteRepository) GetActiveByServicer(
	ctx context.Context,
	servicerID kernel.UUID,
	date kernel.ServiceDate,
) (*route.Route, error) {
	var dto RouteDTO

	err := r.db.WithContext(ctx).
		Preload("Stops", orderByPosition).
		Where("servicer_id = ? AND service_date = ? AND status IN ?",
			servicerID.Bytes(), date.Time(), []int{int(route.Planned), int(route.InProgress)}).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("activeRoute", servicerID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}
