package commands_test

import (
	"testing"
	"time"

	"curbside/internal/core/application/usecases/commands"
	"curbside/internal/core/domain/model/job"
	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/core/domain/model/route"
	"curbside/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCompleteJobCommandHandler_Handle_UnroutedJob(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2025, time.June, 2, 11, 0, 0, 0, time.UTC)
	date := kernel.ServiceDateFromTime(now)
	servicerID := kernel.NewUUID()

	jobID := kernel.NewUUID()
	aggregate, err := job.RestoreJob(
		jobID, kernel.NewUUID(), &servicerID, nil, nil,
		date, job.SameDay, job.InProgress, job.PaymentPaid,
		now.Add(-time.Hour), nil, 1,
	)
	require.NoError(t, err)

	cmd, err := commands.NewCompleteJobCommand(jobID, servicerID, job.Completed)
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("Get", ctx, jobID).Return(aggregate, nil).Once(),
		jobRepo.On("Update", ctx, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	dispatcher := &RecordingDispatcher{}
	handler := commands.NewCompleteJobCommandHandler(factory, dispatcher, fixedClock(now))

	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, job.Completed, aggregate.Status())
	require.Len(t, dispatcher.Events, 1)

	jobRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCompleteJobCommandHandler_Handle_RoutedCurrentStopAdvancesRoute(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2025, time.June, 2, 11, 0, 0, 0, time.UTC)
	date := kernel.ServiceDateFromTime(now)
	servicerID := kernel.NewUUID()

	currentJobID := kernel.NewUUID()
	nextJobID := kernel.NewUUID()
	routeAggregate := startedRoute(servicerID, date, now.Add(-time.Hour), currentJobID, nextJobID)

	currentJob := routedJob(currentJobID, servicerID, routeAggregate.ID(), 0, job.Arrived, date)
	nextJob := routedJob(nextJobID, servicerID, routeAggregate.ID(), 1, job.Confirmed, date)

	cmd, err := commands.NewCompleteJobCommand(currentJobID, servicerID, job.Completed)
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	routeRepo := new(MockRouteRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("Get", ctx, currentJobID).Return(currentJob, nil).Once(),
		jobRepo.On("Update", ctx, currentJob).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		routeRepo.On("Get", ctx, routeAggregate.ID()).Return(routeAggregate, nil).Once(),
		routeRepo.On("Update", ctx, routeAggregate).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("Get", ctx, nextJobID).Return(nextJob, nil).Once(),
		jobRepo.On("Update", ctx, nextJob).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	dispatcher := &RecordingDispatcher{}
	handler := commands.NewCompleteJobCommandHandler(factory, dispatcher, fixedClock(now))

	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, job.Completed, currentJob.Status())
	assert.Equal(t, job.EnRoute, nextJob.Status())
	assert.Equal(t, 1, routeAggregate.CurrentIndex())
	assert.Equal(t, route.StopCompleted, routeAggregate.Stops()[0].Status())

	jobRepo.AssertExpectations(t)
	routeRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCompleteJobCommandHandler_Handle_RoutedFutureStopKeepsPointer(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2025, time.June, 2, 11, 0, 0, 0, time.UTC)
	date := kernel.ServiceDateFromTime(now)
	servicerID := kernel.NewUUID()

	currentJobID := kernel.NewUUID()
	futureJobID := kernel.NewUUID()
	routeAggregate := startedRoute(servicerID, date, now.Add(-time.Hour), currentJobID, futureJobID)

	// The future job was worked out of order: already in progress even
	// though its stop is not current.
	futureJob := routedJob(futureJobID, servicerID, routeAggregate.ID(), 1, job.InProgress, date)

	cmd, err := commands.NewCompleteJobCommand(futureJobID, servicerID, job.Completed)
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	routeRepo := new(MockRouteRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("Get", ctx, futureJobID).Return(futureJob, nil).Once(),
		jobRepo.On("Update", ctx, futureJob).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		routeRepo.On("Get", ctx, routeAggregate.ID()).Return(routeAggregate, nil).Once(),
		routeRepo.On("Update", ctx, routeAggregate).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteJobCommandHandler(factory, &RecordingDispatcher{}, fixedClock(now))
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 0, routeAggregate.CurrentIndex())
	assert.Equal(t, route.StopCompleted, routeAggregate.Stops()[1].Status())
}

func TestCompleteJobCommandHandler_Handle_ForeignServicer(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2025, time.June, 2, 11, 0, 0, 0, time.UTC)
	date := kernel.ServiceDateFromTime(now)

	jobID := kernel.NewUUID()
	owner := kernel.NewUUID()
	aggregate, err := job.RestoreJob(
		jobID, kernel.NewUUID(), &owner, nil, nil,
		date, job.SameDay, job.InProgress, job.PaymentPaid,
		now.Add(-time.Hour), nil, 1,
	)
	require.NoError(t, err)

	cmd, err := commands.NewCompleteJobCommand(jobID, kernel.NewUUID(), job.Completed)
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("Get", ctx, jobID).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteJobCommandHandler(factory, &RecordingDispatcher{}, fixedClock(now))
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrForbidden)
	assert.Equal(t, job.InProgress, aggregate.Status())
}

func TestCompleteJobCommandHandler_Handle_CancelRoutedCurrentStopSkipsAndAdvances(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2025, time.June, 2, 11, 0, 0, 0, time.UTC)
	date := kernel.ServiceDateFromTime(now)
	servicerID := kernel.NewUUID()

	currentJobID := kernel.NewUUID()
	nextJobID := kernel.NewUUID()
	routeAggregate := startedRoute(servicerID, date, now.Add(-time.Hour), currentJobID, nextJobID)

	currentJob := routedJob(currentJobID, servicerID, routeAggregate.ID(), 0, job.EnRoute, date)
	nextJob := routedJob(nextJobID, servicerID, routeAggregate.ID(), 1, job.Confirmed, date)

	cmd, err := commands.NewCompleteJobCommand(currentJobID, servicerID, job.Cancelled)
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	routeRepo := new(MockRouteRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("Get", ctx, currentJobID).Return(currentJob, nil).Once(),
		jobRepo.On("Update", ctx, currentJob).Return(nil).Once(),
		uow.On("RouteRepository").Return(routeRepo).Once(),
		routeRepo.On("Get", ctx, routeAggregate.ID()).Return(routeAggregate, nil).Once(),
		routeRepo.On("Update", ctx, routeAggregate).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("Get", ctx, nextJobID).Return(nextJob, nil).Once(),
		jobRepo.On("Update", ctx, nextJob).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteJobCommandHandler(factory, &RecordingDispatcher{}, fixedClock(now))
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, job.Cancelled, currentJob.Status())
	assert.Equal(t, job.EnRoute, nextJob.Status())
	assert.Equal(t, 1, routeAggregate.CurrentIndex())
	assert.Equal(t, route.StopSkipped, routeAggregate.Stops()[0].Status())

	jobRepo.AssertExpectations(t)
	routeRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCompleteJobCommandHandler_Handle_NoShowUnroutedJob(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2025, time.June, 2, 11, 0, 0, 0, time.UTC)
	date := kernel.ServiceDateFromTime(now)
	servicerID := kernel.NewUUID()

	jobID := kernel.NewUUID()
	aggregate, err := job.RestoreJob(
		jobID, kernel.NewUUID(), &servicerID, nil, nil,
		date, job.SameDay, job.InProgress, job.PaymentPaid,
		now.Add(-time.Hour), nil, 1,
	)
	require.NoError(t, err)

	cmd, err := commands.NewCompleteJobCommand(jobID, servicerID, job.NoShow)
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("Get", ctx, jobID).Return(aggregate, nil).Once(),
		jobRepo.On("Update", ctx, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	dispatcher := &RecordingDispatcher{}
	handler := commands.NewCompleteJobCommandHandler(factory, dispatcher, fixedClock(now))
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, job.NoShow, aggregate.Status())
	require.Len(t, dispatcher.Events, 1)

	jobRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCompleteJobCommandHandler_Handle_UnroutedJobMovesEnRoute(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2025, time.June, 2, 11, 0, 0, 0, time.UTC)
	date := kernel.ServiceDateFromTime(now)
	servicerID := kernel.NewUUID()

	jobID := kernel.NewUUID()
	aggregate, err := job.RestoreJob(
		jobID, kernel.NewUUID(), &servicerID, nil, nil,
		date, job.SameDay, job.Confirmed, job.PaymentPaid,
		now.Add(-time.Hour), nil, 1,
	)
	require.NoError(t, err)

	cmd, err := commands.NewCompleteJobCommand(jobID, servicerID, job.EnRoute)
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	uow := new(MockUoW)

	// An en_route target is progress, not a resolution: the route view (there
	// is none here anyway) is never touched.
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("Get", ctx, jobID).Return(aggregate, nil).Once(),
		jobRepo.On("Update", ctx, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteJobCommandHandler(factory, &RecordingDispatcher{}, fixedClock(now))
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, job.EnRoute, aggregate.Status())

	jobRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCompleteJobCommandHandler_Handle_IllegalTargetRejected(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2025, time.June, 2, 11, 0, 0, 0, time.UTC)
	date := kernel.ServiceDateFromTime(now)
	servicerID := kernel.NewUUID()

	jobID := kernel.NewUUID()
	aggregate, err := job.RestoreJob(
		jobID, kernel.NewUUID(), &servicerID, nil, nil,
		date, job.SameDay, job.Confirmed, job.PaymentPaid,
		now.Add(-time.Hour), nil, 1,
	)
	require.NoError(t, err)

	cmd, err := commands.NewCompleteJobCommand(jobID, servicerID, job.Completed)
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("Get", ctx, jobID).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteJobCommandHandler(factory, &RecordingDispatcher{}, fixedClock(now))
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, job.ErrInvalidTransition)
	assert.Equal(t, job.Confirmed, aggregate.Status())
}

func TestNewCompleteJobCommand_RejectsUnknownStatus(t *testing.T) {
	_, err := commands.NewCompleteJobCommand(kernel.NewUUID(), kernel.NewUUID(), job.Unknown)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
