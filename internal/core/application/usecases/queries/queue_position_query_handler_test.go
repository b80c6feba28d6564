package queries_test

import (
	"context"
	"testing"
	"time"

	"curbside/internal/core/application/usecases/queries"
	"curbside/internal/core/domain/model/job"
	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/core/domain/model/route"
	"curbside/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockJobRepository struct{ mock.Mock }

func (m *MockJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockJobRepository) Update(ctx context.Context, aggregate *job.Job) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *MockJobRepository) GetBatch(ctx context.Context, ids []kernel.UUID) ([]*job.Job, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*job.Job), args.Error(1)
}

type MockRouteRepository struct{ mock.Mock }

func (m *MockRouteRepository) Add(ctx context.Context, aggregate *route.Route) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockRouteRepository) Update(ctx context.Context, aggregate *route.Route) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*route.Route), args.Error(1)
}

func (m *MockRouteRepository) GetActiveByServicer(ctx context.Context, servicerID kernel.UUID, date kernel.ServiceDate) (*route.Route, error) {
	args := m.Called(ctx, servicerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*route.Route), args.Error(1)
}

type MockLocationCache struct{ mock.Mock }

func (m *MockLocationCache) Put(ctx context.Context, jobID kernel.UUID, ping kernel.LocationPing) error {
	args := m.Called(ctx, jobID, ping)
	return args.Error(0)
}

func (m *MockLocationCache) Get(ctx context.Context, jobID kernel.UUID) (*kernel.LocationPing, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*kernel.LocationPing), args.Error(1)
}

func (m *MockLocationCache) Evict(ctx context.Context, jobID kernel.UUID) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

func TestQueuePositionQueryHandler_Handle_WaitingOnRoute(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	date := kernel.ServiceDateFromTime(now)
	servicerID := kernel.NewUUID()

	firstJobID := kernel.NewUUID()
	waitingJobID := kernel.NewUUID()

	routeAggregate, err := route.NewRoute(kernel.NewUUID(), servicerID, date,
		[]kernel.UUID{firstJobID, waitingJobID, kernel.NewUUID()})
	require.NoError(t, err)
	require.NoError(t, routeAggregate.Start(now))

	routeID := routeAggregate.ID()
	order := 1
	waitingJob, err := job.RestoreJob(
		waitingJobID, kernel.NewUUID(), &servicerID, &routeID, &order,
		date, job.SameDay, job.Confirmed, job.PaymentPaid,
		now.Add(-time.Hour), nil, 1,
	)
	require.NoError(t, err)

	jobs := new(MockJobRepository)
	routes := new(MockRouteRepository)
	cache := new(MockLocationCache)

	jobs.On("Get", ctx, waitingJobID).Return(waitingJob, nil).Once()
	routes.On("Get", ctx, routeID).Return(routeAggregate, nil).Once()

	handler := queries.NewQueuePositionQueryHandler(jobs, routes, cache)

	query, err := queries.NewQueuePositionQuery(waitingJobID)
	require.NoError(t, err)

	response, err := handler.Handle(ctx, query)

	require.NoError(t, err)
	assert.Equal(t, "waiting", response.State)
	assert.Equal(t, 1, response.Position)
	assert.Equal(t, 2, response.Total)
	assert.False(t, response.IsNext)
	assert.Nil(t, response.Location)

	// The cache is only consulted for unrouted jobs.
	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestQueuePositionQueryHandler_Handle_UnroutedJobUsesCache(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	date := kernel.ServiceDateFromTime(now)
	servicerID := kernel.NewUUID()

	jobID := kernel.NewUUID()
	aggregate, err := job.RestoreJob(
		jobID, kernel.NewUUID(), &servicerID, nil, nil,
		date, job.SameDay, job.EnRoute, job.PaymentPaid,
		now.Add(-time.Hour), nil, 1,
	)
	require.NoError(t, err)

	point, err := kernel.NewGeoPoint(40.7128, -74.006)
	require.NoError(t, err)
	ping, err := kernel.NewLocationPing(point, 45, 6, servicerID, now.Add(-time.Minute))
	require.NoError(t, err)

	jobs := new(MockJobRepository)
	routes := new(MockRouteRepository)
	cache := new(MockLocationCache)

	jobs.On("Get", ctx, jobID).Return(aggregate, nil).Once()
	cache.On("Get", ctx, jobID).Return(&ping, nil).Once()

	handler := queries.NewQueuePositionQueryHandler(jobs, routes, cache)

	query, err := queries.NewQueuePositionQuery(jobID)
	require.NoError(t, err)

	response, err := handler.Handle(ctx, query)

	require.NoError(t, err)
	assert.Equal(t, "next", response.State)
	assert.True(t, response.IsNext)
	require.NotNil(t, response.Location)
	assert.InDelta(t, 40.7128, response.Location.Latitude, 1e-9)
	assert.Equal(t, "en_route", response.JobStatus)
}

func TestQueuePositionQueryHandler_Handle_ExpiredCacheEntryYieldsNoLocation(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	date := kernel.ServiceDateFromTime(now)
	servicerID := kernel.NewUUID()

	jobID := kernel.NewUUID()
	aggregate, err := job.RestoreJob(
		jobID, kernel.NewUUID(), &servicerID, nil, nil,
		date, job.SameDay, job.Arrived, job.PaymentPaid,
		now.Add(-time.Hour), nil, 1,
	)
	require.NoError(t, err)

	jobs := new(MockJobRepository)
	routes := new(MockRouteRepository)
	cache := new(MockLocationCache)

	jobs.On("Get", ctx, jobID).Return(aggregate, nil).Once()
	cache.On("Get", ctx, jobID).Return(nil, nil).Once()

	handler := queries.NewQueuePositionQueryHandler(jobs, routes, cache)

	query, err := queries.NewQueuePositionQuery(jobID)
	require.NoError(t, err)

	response, err := handler.Handle(ctx, query)

	require.NoError(t, err)
	assert.True(t, response.IsNext)
	assert.Nil(t, response.Location)
}

func TestQueuePositionQueryHandler_Handle_JobNotFound(t *testing.T) {
	ctx := t.Context()
	jobID := kernel.NewUUID()

	jobs := new(MockJobRepository)
	jobs.On("Get", ctx, jobID).Return(nil, errs.NewObjectNotFoundError("job", jobID.String())).Once()

	handler := queries.NewQueuePositionQueryHandler(jobs, new(MockRouteRepository), new(MockLocationCache))

	query, err := queries.NewQueuePositionQuery(jobID)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, query)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
