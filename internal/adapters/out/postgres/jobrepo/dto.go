package jobrepo

import (
	"time"

	"curbside/internal/core/domain/model/job"
	"curbside/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// JobDTO is the persistence shape of a job aggregate. Enum fields are stored
// as their integer values; the audit log lives in its own table keyed by
// (job_id, seq) so entries are append-only and replayable in order.
type JobDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;index"`
	ServicerID    *uuid.UUID `gorm:"type:uuid;index"`
	RouteID       *uuid.UUID `gorm:"type:uuid;index"`
	RouteOrder    *int
	ScheduledDate time.Time `gorm:"index"`
	TimeWindow    int
	Status        int `gorm:"index"`
	PaymentStatus int
	CreatedAt     time.Time
	Version       int64
	History       []StatusChangeDTO `gorm:"foreignKey:JobID;references:ID"`
}

// TableName overrides the default table name.
func (JobDTO) TableName() string {
	return "jobs"
}

// StatusChangeDTO is one persisted audit log entry.
type StatusChangeDTO struct {
	JobID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq    int       `gorm:"primaryKey"`
	Status int
	Actor  uuid.UUID `gorm:"type:uuid"`
	At     time.Time
}

// TableName overrides the default table name.
func (StatusChangeDTO) TableName() string {
	return "job_status_changes"
}

func fromDomain(aggregate *job.Job) JobDTO {
	dto := JobDTO{
		ID:            aggregate.ID().Bytes(),
		CustomerID:    aggregate.CustomerID().Bytes(),
		ServicerID:    optionalID(aggregate.Servicer()),
		RouteID:       optionalID(aggregate.Route()),
		RouteOrder:    aggregate.RouteOrder(),
		ScheduledDate: aggregate.ScheduledDate().Time(),
		TimeWindow:    int(aggregate.TimeWindow()),
		Status:        int(aggregate.Status()),
		PaymentStatus: int(aggregate.PaymentStatus()),
		CreatedAt:     aggregate.CreatedAt(),
		Version:       aggregate.Version(),
	}

	for seq, change := range aggregate.History() {
		dto.History = append(dto.History, StatusChangeDTO{
			JobID:  dto.ID,
			Seq:    seq,
			Status: int(change.Status()),
			Actor:  change.Actor().Bytes(),
			At:     change.At(),
		})
	}

	return dto
}

func toDomain(dto JobDTO) (*job.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	servicerID, err := optionalDomainID(dto.ServicerID)
	if err != nil {
		return nil, err
	}
	routeID, err := optionalDomainID(dto.RouteID)
	if err != nil {
		return nil, err
	}

	history := make([]job.StatusChange, 0, len(dto.History))
	for _, change := range dto.History {
		actor, actorErr := kernel.UUIDFromBytes(change.Actor[:])
		if actorErr != nil {
			return nil, actorErr
		}
		history = append(history, job.NewStatusChange(job.Status(change.Status), change.At, actor))
	}

	return job.RestoreJob(
		id,
		customerID,
		servicerID,
		routeID,
		dto.RouteOrder,
		kernel.ServiceDateFromTime(dto.ScheduledDate),
		job.TimeWindow(dto.TimeWindow),
		job.Status(dto.Status),
		job.PaymentStatus(dto.PaymentStatus),
		dto.CreatedAt,
		history,
		dto.Version,
	)
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalDomainID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
