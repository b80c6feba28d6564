package routerepo

import (
	"time"

	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/core/domain/model/route"

	"github.com/google/uuid"
)

// RouteDTO is the persistence shape of a route aggregate. The last known
// location is flattened into nullable columns that are set or cleared as one
// group; stops live in their own table keyed by (route_id, position).
type RouteDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ServicerID     uuid.UUID `gorm:"type:uuid;index:idx_routes_servicer_date"`
	ServiceDate    time.Time `gorm:"index:idx_routes_servicer_date"`
	CurrentIndex   int
	Status         int `gorm:"index"`
	LastLatitude   *float64
	LastLongitude  *float64
	LastHeading    *float64
	LastSpeed      *float64
	LastRecordedAt *time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	Version        int64
	Stops          []StopDTO `gorm:"foreignKey:RouteID;references:ID"`
}

// TableName overrides the default table name.
func (RouteDTO) TableName() string {
	return "routes"
}

// StopDTO is one persisted stop of a route's worklist.
type StopDTO struct {
	RouteID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position int       `gorm:"primaryKey"`
	JobID    uuid.UUID `gorm:"type:uuid;index"`
	Status   int
}

// TableName overrides the default table name.
func (StopDTO) TableName() string {
	return "route_stops"
}

func fromDomain(aggregate *route.Route) RouteDTO {
	dto := RouteDTO{
		ID:           aggregate.ID().Bytes(),
		ServicerID:   aggregate.ServicerID().Bytes(),
		ServiceDate:  aggregate.Date().Time(),
		CurrentIndex: aggregate.CurrentIndex(),
		Status:       int(aggregate.Status()),
		StartedAt:    aggregate.StartedAt(),
		CompletedAt:  aggregate.CompletedAt(),
		Version:      aggregate.Version(),
	}

	if ping := aggregate.LastLocation(); ping != nil {
		lat := ping.Point().Latitude()
		lng := ping.Point().Longitude()
		heading := ping.Heading()
		speed := ping.Speed()
		recordedAt := ping.RecordedAt()

		dto.LastLatitude = &lat
		dto.LastLongitude = &lng
		dto.LastHeading = &heading
		dto.LastSpeed = &speed
		dto.LastRecordedAt = &recordedAt
	}

	for _, stop := range aggregate.Stops() {
		dto.Stops = append(dto.Stops, StopDTO{
			RouteID:  dto.ID,
			Position: stop.Position(),
			JobID:    stop.JobID().Bytes(),
			Status:   int(stop.Status()),
		})
	}

	return dto
}

func toDomain(dto RouteDTO) (*route.Route, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	servicerID, err := kernel.UUIDFromBytes(dto.ServicerID[:])
	if err != nil {
		return nil, err
	}

	stops := make([]route.Stop, 0, len(dto.Stops))
	for _, stopDTO := range dto.Stops {
		jobID, jobErr := kernel.UUIDFromBytes(stopDTO.JobID[:])
		if jobErr != nil {
			return nil, jobErr
		}

		stop, stopErr := route.RestoreStop(jobID, stopDTO.Position, route.StopStatus(stopDTO.Status))
		if stopErr != nil {
			return nil, stopErr
		}
		stops = append(stops, stop)
	}

	lastLocation, err := lastLocationFromDTO(dto, servicerID)
	if err != nil {
		return nil, err
	}

	return route.RestoreRoute(
		id,
		servicerID,
		kernel.ServiceDateFromTime(dto.ServiceDate),
		stops,
		dto.CurrentIndex,
		route.Status(dto.Status),
		lastLocation,
		dto.StartedAt,
		dto.CompletedAt,
		dto.Version,
	)
}

func lastLocationFromDTO(dto RouteDTO, servicerID kernel.UUID) (*kernel.LocationPing, error) {
	if dto.LastRecordedAt == nil {
		return nil, nil
	}

	point, err := kernel.NewGeoPoint(*dto.LastLatitude, *dto.LastLongitude)
	if err != nil {
		return nil, err
	}

	ping, err := kernel.NewLocationPing(point, *dto.LastHeading, *dto.LastSpeed, servicerID, *dto.LastRecordedAt)
	if err != nil {
		return nil, err
	}

	return &ping, nil
}
