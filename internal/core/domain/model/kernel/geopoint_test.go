package kernel_test

import (
	"testing"
	"time"

	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("accepts_valid_coordinates", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(40.7484, -73.9857)

		require.NoError(t, err)
		assert.InDelta(t, 40.7484, point.Latitude(), 0.000001)
		assert.InDelta(t, -73.9857, point.Longitude(), 0.000001)
		require.NoError(t, point.Validate())
	})

	t.Run("accepts_boundary_values", func(t *testing.T) {
		for _, coords := range [][2]float64{
			{kernel.LatitudeMin, kernel.LongitudeMin},
			{kernel.LatitudeMax, kernel.LongitudeMax},
			{0, 0},
		} {
			_, err := kernel.NewGeoPoint(coords[0], coords[1])
			require.NoError(t, err)
		}
	})

	t.Run("rejects_latitude_out_of_range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(91, 0)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("rejects_longitude_out_of_range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(0, -181)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestGeoPoint_Validate(t *testing.T) {
	t.Run("zero_value_is_invalid", func(t *testing.T) {
		var point kernel.GeoPoint
		require.Error(t, point.Validate())
	})
}

func TestNewLocationPing(t *testing.T) {
	point, err := kernel.NewGeoPoint(40.7484, -73.9857)
	require.NoError(t, err)
	servicerID := kernel.NewUUID()
	now := time.Now()

	t.Run("creates_valid_ping", func(t *testing.T) {
		ping, pingErr := kernel.NewLocationPing(point, 180, 12.5, servicerID, now)

		require.NoError(t, pingErr)
		assert.True(t, ping.Point().IsEqual(point))
		assert.InDelta(t, 180.0, ping.Heading(), 0.000001)
		assert.InDelta(t, 12.5, ping.Speed(), 0.000001)
		assert.True(t, ping.ServicerID().IsEqual(servicerID))
		assert.Equal(t, now, ping.RecordedAt())
	})

	t.Run("rejects_unconstructed_point", func(t *testing.T) {
		_, pingErr := kernel.NewLocationPing(kernel.GeoPoint{}, 0, 0, servicerID, now)
		require.Error(t, pingErr)
	})

	t.Run("rejects_heading_out_of_range", func(t *testing.T) {
		_, pingErr := kernel.NewLocationPing(point, 450, 0, servicerID, now)
		require.ErrorIs(t, pingErr, errs.ErrValueIsOutOfRange)
	})

	t.Run("rejects_negative_speed", func(t *testing.T) {
		_, pingErr := kernel.NewLocationPing(point, 0, -1, servicerID, now)
		require.ErrorIs(t, pingErr, errs.ErrValueIsInvalid)
	})

	t.Run("rejects_missing_servicer", func(t *testing.T) {
		_, pingErr := kernel.NewLocationPing(point, 0, 0, kernel.UUID{}, now)
		require.Error(t, pingErr)
	})
}

func TestLocationPing_OlderThan(t *testing.T) {
	point, err := kernel.NewGeoPoint(1, 1)
	require.NoError(t, err)
	recorded := time.Now()
	ping, err := kernel.NewLocationPing(point, 0, 0, kernel.NewUUID(), recorded)
	require.NoError(t, err)

	assert.False(t, ping.OlderThan(5*time.Minute, recorded.Add(4*time.Minute)))
	assert.False(t, ping.OlderThan(5*time.Minute, recorded.Add(5*time.Minute)))
	assert.True(t, ping.OlderThan(5*time.Minute, recorded.Add(5*time.Minute+time.Second)))
}

func TestServiceDate(t *testing.T) {
	t.Run("from_time_truncates_to_utc_midnight", func(t *testing.T) {
		instant := time.Date(2025, time.March, 14, 17, 45, 12, 0, time.UTC)
		date := kernel.ServiceDateFromTime(instant)

		assert.Equal(t, time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC), date.Time())
		assert.Equal(t, "2025-03-14", date.String())
	})

	t.Run("add_days_crosses_month_boundary", func(t *testing.T) {
		date := kernel.NewServiceDate(2025, time.January, 31)
		assert.Equal(t, "2025-02-01", date.AddDays(1).String())
		assert.Equal(t, "2025-01-30", date.AddDays(-1).String())
	})

	t.Run("ordering", func(t *testing.T) {
		earlier := kernel.NewServiceDate(2025, time.June, 1)
		later := kernel.NewServiceDate(2025, time.June, 2)

		assert.True(t, earlier.Before(later))
		assert.True(t, later.After(earlier))
		assert.True(t, earlier.IsEqual(kernel.NewServiceDate(2025, time.June, 1)))
	})

	t.Run("zero_value_is_invalid", func(t *testing.T) {
		var date kernel.ServiceDate
		require.ErrorIs(t, date.Validate(), kernel.ErrServiceDateIsNotConstructed)
	})
}
