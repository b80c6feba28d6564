// Package jobrepo persists job aggregates with GORM.
package jobrepo

import (
	"context"
	"errors"

	"curbside/internal/core/domain/model/job"
	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// aggregateTracker registers aggregates touched by repository writes with
// the owning unit of work.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormJobRepository stores job aggregates in the jobs and job_status_changes
// tables.
//
// Update is a conditional write keyed on the aggregate's version: the UPDATE
// only matches the row if the stored version equals the version the
// aggregate was loaded with, and bumps it on success. Zero rows affected
// means a concurrent writer got there first, which is how two servicers
// racing for one claim resolve to a single winner.
type GormJobRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormJobRepository creates a repository over the given connection or
// transaction.
func NewGormJobRepository(db *gorm.DB, tracker aggregateTracker) *GormJobRepository {
	return &GormJobRepository{db: db, tracker: tracker}
}

// Add persists a new job with its audit log.
func (r *GormJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
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

// Update persists changes to an existing job using a version-checked
// conditional write, and appends any new audit log entries. Returns
// errs.ErrConflict when the version check fails.
func (r *GormJobRepository) Update(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&JobDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Updates(map[string]any{
			"servicer_id":    dto.ServicerID,
			"route_id":       dto.RouteID,
			"route_order":    dto.RouteOrder,
			"scheduled_date": dto.ScheduledDate,
			"time_window":    dto.TimeWindow,
			"status":         dto.Status,
			"payment_status": dto.PaymentStatus,
			"version":        aggregate.Version() + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("job", aggregate.ID().String())
	}

	// The audit log is append-only and entries are keyed by sequence, so
	// re-inserting the whole history only lands the new tail.
	if len(dto.History) > 0 {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&dto.History).Error
		if err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a job by id with its audit log in order. Returns
// errs.ErrObjectNotFound when no such job exists.
func (r *GormJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	var dto JobDTO

	err := r.db.WithContext(ctx).
		Preload("History", orderBySeq).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("job", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetBatch retrieves several jobs at once, returned in the requested order.
// Returns errs.ErrObjectNotFound naming the first absent id.
func (r *GormJobRepository) GetBatch(ctx context.Context, ids []kernel.UUID) ([]*job.Job, error) {
	rawIDs := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		rawIDs[i] = id.Bytes()
	}

	var dtos []JobDTO
	err := r.db.WithContext(ctx).
		Preload("History", orderBySeq).
		Find(&dtos, "id IN ?", rawIDs).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]JobDTO, len(dtos))
	for _, dto := range dtos {
		byID[dto.ID] = dto
	}

	aggregates := make([]*job.Job, 0, len(ids))
	for _, id := range ids {
		dto, ok := byID[id.Bytes()]
		if !ok {
			return nil, errs.NewObjectNotFoundError("job", id.String())
		}

		aggregate, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		aggregates = append(aggregates, aggregate)
	}

	return aggregates, nil
}

func orderBySeq(db *gorm.DB) *gorm.DB {
	return db.Order("seq")
}
