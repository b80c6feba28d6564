package commands_test

import (
	"context"
	"time"

	"curbside/internal/core/application/usecases/commands"
	"curbside/internal/core/domain/events"
	"curbside/internal/core/domain/model/job"
	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/core/domain/model/route"
	"curbside/internal/core/ports"

	"github.com/stretchr/testify/mock"
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

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) JobRepository() ports.JobRepository {
	args := m.Called()
	return args.Get(0).(ports.JobRepository)
}

func (m *MockUoW) RouteRepository() ports.RouteRepository {
	args := m.Called()
	return args.Get(0).(ports.RouteRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockJobUoWFactory struct{ mock.Mock }

func (m *MockJobUoWFactory) Create() commands.JobUoW {
	args := m.Called()
	return args.Get(0).(commands.JobUoW)
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

// RecordingDispatcher captures dispatched events so tests can assert on the
// post-commit fan-out without a full eventing stack.
type RecordingDispatcher struct {
	Events []events.DomainEvent
}

func (d *RecordingDispatcher) Dispatch(_ context.Context, evts ...events.DomainEvent) {
	d.Events = append(d.Events, evts...)
}

func fixedClock(at time.Time) commands.Clock {
	return func() time.Time { return at }
}

func pendingJob(id, customerID kernel.UUID, date kernel.ServiceDate, window job.TimeWindow) *job.Job {
	aggregate, err := job.NewJob(id, customerID, date, window, time.Now())
	if err != nil {
		panic(err)
	}
	return aggregate
}

func claimableJob(id kernel.UUID, date kernel.ServiceDate, createdAt time.Time) *job.Job {
	aggregate, err := job.RestoreJob(
		id,
		kernel.NewUUID(),
		nil,
		nil,
		nil,
		date,
		job.SameDay,
		job.Pending,
		job.PaymentPaid,
		createdAt,
		nil,
		1,
	)
	if err != nil {
		panic(err)
	}
	return aggregate
}

func confirmedJob(id, servicerID kernel.UUID, date kernel.ServiceDate) *job.Job {
	aggregate, err := job.RestoreJob(
		id,
		kernel.NewUUID(),
		&servicerID,
		nil,
		nil,
		date,
		job.SameDay,
		job.Confirmed,
		job.PaymentPaid,
		time.Now(),
		nil,
		1,
	)
	if err != nil {
		panic(err)
	}
	return aggregate
}

func routedJob(id, servicerID, routeID kernel.UUID, order int, status job.Status, date kernel.ServiceDate) *job.Job {
	aggregate, err := job.RestoreJob(
		id,
		kernel.NewUUID(),
		&servicerID,
		&routeID,
		&order,
		date,
		job.SameDay,
		status,
		job.PaymentPaid,
		time.Now(),
		nil,
		1,
	)
	if err != nil {
		panic(err)
	}
	return aggregate
}

func plannedRoute(servicerID kernel.UUID, date kernel.ServiceDate, jobIDs ...kernel.UUID) *route.Route {
	aggregate, err := route.NewRoute(kernel.NewUUID(), servicerID, date, jobIDs)
	if err != nil {
		panic(err)
	}
	return aggregate
}

func startedRoute(servicerID kernel.UUID, date kernel.ServiceDate, at time.Time, jobIDs ...kernel.UUID) *route.Route {
	aggregate := plannedRoute(servicerID, date, jobIDs...)
	if err := aggregate.Start(at); err != nil {
		panic(err)
	}
	aggregate.PullEvents()
	return aggregate
}
