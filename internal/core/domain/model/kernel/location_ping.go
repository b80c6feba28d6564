package kernel

import (
	"time"

	"curbside/internal/pkg/errs"
	"curbside/internal/pkg/guard"
)

// Heading and speed bounds for a ping. Heading is compass degrees; speed is
// meters per second and merely has to be non-negative.
const (
	HeadingMin = 0.0
	HeadingMax = 360.0
)

// ErrLocationPingIsNotConstructed is returned when using a LocationPing that
// was not created via NewLocationPing.
var ErrLocationPingIsNotConstructed = errs.NewValueIsRequiredError(
	"LocationPing must be created via NewLocationPing constructor")

// LocationPing is a servicer's ephemeral GPS report. Pings are never durably
// persisted on their own: they live in the live-location cache or as a
// route's last known location, superseded by newer pings and expired by TTL.
type LocationPing struct { //nolint:recvcheck //using for validation
	point      GeoPoint
	heading    float64
	speed      float64
	servicerID UUID
	recordedAt time.Time
	guard      guard.ConstructorGuard
}

// NewLocationPing creates a validated ping reported by a servicer at a moment
// in time.
func NewLocationPing(point GeoPoint, heading, speed float64, servicerID UUID, recordedAt time.Time) (LocationPing, error) {
	if err := point.Validate(); err != nil {
		return LocationPing{}, err
	}
	if err := servicerID.Validate(); err != nil {
		return LocationPing{}, err
	}
	if heading < HeadingMin || heading > HeadingMax {
		return LocationPing{}, errs.NewValueIsOutOfRangeError("heading", heading, HeadingMin, HeadingMax)
	}
	if speed < 0 {
		return LocationPing{}, errs.NewValueIsInvalidError("speed")
	}
	if recordedAt.IsZero() {
		return LocationPing{}, errs.NewValueIsRequiredError("recordedAt")
	}

	return LocationPing{
		point:      point,
		heading:    heading,
		speed:      speed,
		servicerID: servicerID,
		recordedAt: recordedAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Point returns the reported coordinates.
func (p LocationPing) Point() GeoPoint {
	return p.point
}

// Heading returns the compass heading in degrees.
func (p LocationPing) Heading() float64 {
	return p.heading
}

// Speed returns the reported speed in meters per second.
func (p LocationPing) Speed() float64 {
	return p.speed
}

// ServicerID returns the reporting servicer.
func (p LocationPing) ServicerID() UUID {
	return p.servicerID
}

// RecordedAt returns the moment the ping was taken.
func (p LocationPing) RecordedAt() time.Time {
	return p.recordedAt
}

// OlderThan reports whether the ping has outlived ttl as of now. Used by
// caches for read-time expiry.
func (p LocationPing) OlderThan(ttl time.Duration, now time.Time) bool {
	return now.Sub(p.recordedAt) > ttl
}

// Validate returns ErrLocationPingIsNotConstructed for the zero value.
func (p LocationPing) Validate() error {
	return p.guard.Validate(ErrLocationPingIsNotConstructed)
}
