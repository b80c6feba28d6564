package services_test

import (
	"testing"
	"time"

	"curbside/internal/core/domain/model/job"
	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/core/domain/model/route"
	"curbside/internal/core/domain/services"
	"curbside/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreJob(t *testing.T, status job.Status, routeID *kernel.UUID) *job.Job {
	t.Helper()

	var servicerID *kernel.UUID
	if status != job.Pending {
		id := kernel.NewUUID()
		servicerID = &id
	}

	j, err := job.RestoreJob(
		kernel.NewUUID(),
		kernel.NewUUID(),
		servicerID,
		routeID,
		nil,
		kernel.NewServiceDate(2025, time.June, 2),
		job.SameDay,
		status,
		job.PaymentPaid,
		time.Now(),
		nil,
		1,
	)
	require.NoError(t, err)
	return j
}

func routeForJobs(t *testing.T, jobIDs ...kernel.UUID) *route.Route {
	t.Helper()

	r, err := route.NewRoute(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewServiceDate(2025, time.June, 2),
		jobIDs,
	)
	require.NoError(t, err)
	return r
}

func TestQueueCalculator_Derive(t *testing.T) {
	calculator := services.NewQueueCalculator()
	now := time.Now()

	t.Run("unrouted_idle_job_is_not_in_a_route", func(t *testing.T) {
		j := restoreJob(t, job.Confirmed, nil)

		view, err := calculator.Derive(j, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, services.NotInRoute, view.State)
		assert.False(t, view.IsNext)
		assert.Zero(t, view.Position)
	})

	t.Run("unrouted_en_route_job_is_next_with_cached_ping", func(t *testing.T) {
		j := restoreJob(t, job.EnRoute, nil)

		point, err := kernel.NewGeoPoint(40.7, -74.0)
		require.NoError(t, err)
		ping, err := kernel.NewLocationPing(point, 0, 0, kernel.NewUUID(), now)
		require.NoError(t, err)

		view, err := calculator.Derive(j, nil, &ping)

		require.NoError(t, err)
		assert.Equal(t, services.Next, view.State)
		assert.True(t, view.IsNext)
		require.NotNil(t, view.Location)
	})

	t.Run("routed_job_with_missing_route_is_not_found", func(t *testing.T) {
		routeID := kernel.NewUUID()
		j := restoreJob(t, job.Confirmed, &routeID)

		_, err := calculator.Derive(j, nil, nil)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("planned_route_yields_no_position", func(t *testing.T) {
		r := routeForJobs(t, kernel.NewUUID(), kernel.NewUUID())
		routeID := r.ID()
		j := restoreJob(t, job.Confirmed, &routeID)

		view, err := calculator.Derive(j, r, nil)

		require.NoError(t, err)
		assert.Equal(t, services.RouteInactive, view.State)
		assert.Equal(t, "planned", view.RouteStatus)
		assert.Zero(t, view.Position)
	})

	t.Run("current_stop_is_next_and_carries_route_location", func(t *testing.T) {
		jobID := kernel.NewUUID()
		r := routeForJobs(t, jobID, kernel.NewUUID())
		require.NoError(t, r.Start(now))

		point, err := kernel.NewGeoPoint(40.7, -74.0)
		require.NoError(t, err)
		ping, err := kernel.NewLocationPing(point, 0, 0, r.ServicerID(), now)
		require.NoError(t, err)
		require.NoError(t, r.RecordLocation(ping))

		routeID := r.ID()
		j, err := job.RestoreJob(jobID, kernel.NewUUID(), nil, &routeID, nil,
			kernel.NewServiceDate(2025, time.June, 2), job.SameDay,
			job.EnRoute, job.PaymentPaid, now, nil, 1)
		require.NoError(t, err)

		view, err := calculator.Derive(j, r, nil)

		require.NoError(t, err)
		assert.Equal(t, services.Next, view.State)
		assert.True(t, view.IsNext)
		require.NotNil(t, view.Location)
	})

	t.Run("waiting_stops_count_only_the_line_behind_the_current_one", func(t *testing.T) {
		jobA, jobB, jobC := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
		r := routeForJobs(t, jobA, jobB, jobC)
		require.NoError(t, r.Start(now))
		routeID := r.ID()

		viewFor := func(jobID kernel.UUID) services.QueueView {
			j, err := job.RestoreJob(jobID, kernel.NewUUID(), nil, &routeID, nil,
				kernel.NewServiceDate(2025, time.June, 2), job.SameDay,
				job.Confirmed, job.PaymentPaid, now, nil, 1)
			require.NoError(t, err)

			view, err := calculator.Derive(j, r, nil)
			require.NoError(t, err)
			return view
		}

		second := viewFor(jobB)
		assert.Equal(t, services.Waiting, second.State)
		assert.Equal(t, 1, second.Position)
		assert.Equal(t, 2, second.Total)
		assert.Nil(t, second.Location)

		third := viewFor(jobC)
		assert.Equal(t, 2, third.Position)
		assert.Equal(t, 2, third.Total)
	})

	t.Run("resolved_stop_reports_done", func(t *testing.T) {
		jobID := kernel.NewUUID()
		r := routeForJobs(t, jobID, kernel.NewUUID())
		require.NoError(t, r.Start(now))
		_, err := r.CompleteCurrentStop(now)
		require.NoError(t, err)

		routeID := r.ID()
		j, err := job.RestoreJob(jobID, kernel.NewUUID(), nil, &routeID, nil,
			kernel.NewServiceDate(2025, time.June, 2), job.SameDay,
			job.Completed, job.PaymentPaid, now, nil, 1)
		require.NoError(t, err)

		view, err := calculator.Derive(j, r, nil)

		require.NoError(t, err)
		assert.Equal(t, services.Done, view.State)
		assert.Zero(t, view.Position)
		assert.False(t, view.IsNext)
	})
}
