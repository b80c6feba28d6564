package route

import (
	"errors"
	"time"

	"curbside/internal/core/domain/events"
	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/pkg/errs"
	"curbside/internal/pkg/guard"
)

var (
	// ErrRouteIsNotConstructed is returned when a Route was not created
	// through NewRoute or RestoreRoute.
	ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute or RestoreRoute")

	// ErrRouteHasNoStops is returned when creating a route with an empty
	// job batch.
	ErrRouteHasNoStops = errors.New("route must contain at least one stop")

	// ErrDuplicateStops is returned when the submitted batch references the
	// same job twice.
	ErrDuplicateStops = errors.New("route stops must reference distinct jobs")

	// ErrRouteNotPlanned is returned when starting a route that is not in
	// planned status.
	ErrRouteNotPlanned = errors.New("route is not in planned status")

	// ErrRouteNotInProgress is returned when advancing a route that is not
	// being driven.
	ErrRouteNotInProgress = errors.New("route is not in progress")

	// ErrStopNotEnRoute is returned when marking arrival while the current
	// stop is not en route.
	ErrStopNotEnRoute = errors.New("current stop is not en route")

	// ErrStopAlreadyResolved is returned when resolving a stop twice.
	ErrStopAlreadyResolved = errors.New("stop is already resolved")
)

// NotStartedIndex is the current-stop pointer of a route that has not
// started yet.
const NotStartedIndex = -1

// Route is the aggregate root for one servicer's ordered daily worklist.
//
// Invariants:
//   - stop order is fixed at creation; stops are only re-statused, never
//     reordered
//   - currentIndex always points at the first stop that is neither completed
//     nor skipped, is NotStartedIndex before start, and equals len(stops)
//     once the route is done
//   - only the stop at currentIndex may be in flight; every other pending
//     stop stays pending
//   - advancing is the only place a stop becomes en route
type Route struct {
	id           kernel.UUID
	servicerID   kernel.UUID
	date         kernel.ServiceDate
	stops        []Stop
	currentIndex int
	status       Status
	lastLocation *kernel.LocationPing
	startedAt    *time.Time
	completedAt  *time.Time
	version      int64

	domainEvents []events.DomainEvent
	guard        guard.ConstructorGuard
}

// NewRoute creates a planned route from a batch of job ids, in the exact
// order they were submitted. Whether each job is actually claimable into
// this route (owned by the servicer, in the right status) is the claim of
// the command layer; the aggregate enforces structural rules only.
func NewRoute(id, servicerID kernel.UUID, date kernel.ServiceDate, jobIDs []kernel.UUID) (*Route, error) {
	r := &Route{
		currentIndex: NotStartedIndex,
		status:       Planned,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setServicerID(servicerID),
		r.setDate(date),
	); err != nil {
		return nil, err
	}

	if len(jobIDs) == 0 {
		return nil, ErrRouteHasNoStops
	}

	seen := make(map[kernel.UUID]struct{}, len(jobIDs))
	stops := make([]Stop, 0, len(jobIDs))
	for i, jobID := range jobIDs {
		if _, dup := seen[jobID]; dup {
			return nil, ErrDuplicateStops
		}
		seen[jobID] = struct{}{}

		stop, err := NewStop(jobID, i)
		if err != nil {
			return nil, err
		}
		stops = append(stops, stop)
	}

	r.stops = stops
	return r, nil
}

// RestoreRoute reconstructs a route from persistence.
func RestoreRoute(
	id, servicerID kernel.UUID,
	date kernel.ServiceDate,
	stops []Stop,
	currentIndex int,
	status Status,
	lastLocation *kernel.LocationPing,
	startedAt, completedAt *time.Time,
	version int64,
) (*Route, error) {
	r := &Route{
		stops:        stops,
		lastLocation: lastLocation,
		startedAt:    startedAt,
		completedAt:  completedAt,
		version:      version,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setServicerID(servicerID),
		r.setDate(date),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if len(stops) == 0 {
		return nil, ErrRouteHasNoStops
	}
	if currentIndex < NotStartedIndex || currentIndex > len(stops) {
		return nil, errs.NewValueIsOutOfRangeError("currentIndex", currentIndex, NotStartedIndex, len(stops))
	}

	r.status = status
	r.currentIndex = currentIndex
	return r, nil
}

// Validate ensures the Route was created through a constructor.
func (r *Route) Validate() error {
	if r == nil {
		return ErrRouteIsNotConstructed
	}
	return r.guard.Validate(ErrRouteIsNotConstructed)
}

// ID returns the route's unique identifier.
func (r *Route) ID() kernel.UUID { return r.id }

// ServicerID returns the servicer who owns the route.
func (r *Route) ServicerID() kernel.UUID { return r.servicerID }

// Date returns the calendar day the route is driven on.
func (r *Route) Date() kernel.ServiceDate { return r.date }

// Status returns the route's lifecycle status.
func (r *Route) Status() Status { return r.status }

// Stops returns a copy of the ordered stop list.
func (r *Route) Stops() []Stop {
	stops := make([]Stop, len(r.stops))
	copy(stops, r.stops)
	return stops
}

// CurrentIndex returns the current-stop pointer: NotStartedIndex before
// start, len(stops) once completed.
func (r *Route) CurrentIndex() int { return r.currentIndex }

// CurrentStop returns the stop being worked, if any.
func (r *Route) CurrentStop() (Stop, bool) {
	if r.currentIndex < 0 || r.currentIndex >= len(r.stops) {
		return Stop{}, false
	}
	return r.stops[r.currentIndex], true
}

// StopForJob returns the stop referencing the given job.
func (r *Route) StopForJob(jobID kernel.UUID) (Stop, bool) {
	idx, ok := r.indexOfJob(jobID)
	if !ok {
		return Stop{}, false
	}
	return r.stops[idx], true
}

// LastLocation returns the servicer's last recorded ping on this route, or nil.
func (r *Route) LastLocation() *kernel.LocationPing { return r.lastLocation }

// StartedAt returns when the route started, or nil.
func (r *Route) StartedAt() *time.Time { return r.startedAt }

// CompletedAt returns when the route completed, or nil.
func (r *Route) CompletedAt() *time.Time { return r.completedAt }

// Version returns the optimistic concurrency token. Stop-advancing
// operations serialize per route through it: of two concurrent advances one
// loses the conditional write and surfaces as a conflict.
func (r *Route) Version() int64 { return r.version }

// IsOwnedBy reports whether the route belongs to the given servicer.
func (r *Route) IsOwnedBy(servicerID kernel.UUID) bool {
	return r.servicerID.IsEqual(servicerID)
}

// JobIDs returns the referenced job ids in stop order.
func (r *Route) JobIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(r.stops))
	for i, stop := range r.stops {
		ids[i] = stop.jobID
	}
	return ids
}

// Waiting returns the unresolved stops strictly after the current one: the
// customers still in line behind whoever is being served.
func (r *Route) Waiting() []Stop {
	if r.currentIndex == NotStartedIndex {
		return r.Stops()
	}

	waiting := make([]Stop, 0, len(r.stops))
	for i := r.currentIndex + 1; i < len(r.stops); i++ {
		if !r.stops[i].IsResolved() {
			waiting = append(waiting, r.stops[i])
		}
	}
	return waiting
}

// Start begins route execution: the route moves to in_progress and stop 0
// becomes en route. The caller is responsible for having moved stop 0's job
// to en_route first, so an illegal job transition fails before any route
// mutation.
func (r *Route) Start(now time.Time) error {
	if r.status != Planned {
		return ErrRouteNotPlanned
	}

	r.status = InProgress
	r.startedAt = &now
	r.currentIndex = 0
	r.stops[0].status = StopEnRoute
	r.emitQueueDeltas(now)
	return nil
}

// MarkArrived flips the current stop from en_route to arrived.
func (r *Route) MarkArrived() error {
	if r.status != InProgress {
		return ErrRouteNotInProgress
	}

	current, ok := r.CurrentStop()
	if !ok || current.status != StopEnRoute {
		return ErrStopNotEnRoute
	}

	r.stops[r.currentIndex].status = StopArrived
	return nil
}

// CompleteCurrentStop resolves the current stop as completed and advances.
// If a next stop exists its job id is returned so the caller can move that
// job to en_route where legal. The caller must have completed the current
// job first; the payment gate lives on the job aggregate.
func (r *Route) CompleteCurrentStop(now time.Time) (*kernel.UUID, error) {
	return r.resolveCurrent(StopCompleted, now)
}

// SkipCurrentStop resolves the current stop as skipped and advances. The
// underlying job is deliberately left untouched: skipping is a route-level
// decision, not a job cancellation.
func (r *Route) SkipCurrentStop(now time.Time) (*kernel.UUID, error) {
	return r.resolveCurrent(StopSkipped, now)
}

// SyncJobResolution re-synchronizes the route view after a job was resolved
// outside the formal route flow. The job's stop is marked completed (or
// skipped for cancellations and no-shows); if it was the current stop the
// route advances exactly as CompleteCurrentStop would, returning the job id
// of the newly en-route stop if one exists.
func (r *Route) SyncJobResolution(jobID kernel.UUID, resolution StopStatus, now time.Time) (*kernel.UUID, error) {
	if r.status != InProgress {
		return nil, ErrRouteNotInProgress
	}
	if !resolution.IsResolved() {
		return nil, errs.NewValueIsInvalidError("resolution")
	}

	idx, ok := r.indexOfJob(jobID)
	if !ok {
		return nil, errs.NewObjectNotFoundError("stop", jobID.String())
	}
	if r.stops[idx].IsResolved() {
		return nil, ErrStopAlreadyResolved
	}

	if idx == r.currentIndex {
		return r.resolveCurrent(resolution, now)
	}

	// A stop behind the pointer is resolved by definition, so idx can only
	// be ahead of currentIndex here: the pointer does not move.
	r.stops[idx].status = resolution
	r.emitQueueDeltas(now)
	return nil, nil
}

// RecordLocation stores the servicer's latest ping on the route and raises a
// location event addressed solely to the current stop's job. Customers
// waiting further down the line never see raw GPS.
func (r *Route) RecordLocation(ping kernel.LocationPing) error {
	if err := ping.Validate(); err != nil {
		return err
	}
	if !ping.ServicerID().IsEqual(r.servicerID) {
		return errs.NewForbiddenError("route", ping.ServicerID().String())
	}
	if r.status != InProgress {
		return ErrRouteNotInProgress
	}

	r.lastLocation = &ping

	if current, ok := r.CurrentStop(); ok {
		r.raise(events.LocationUpdated{JobID: current.jobID, Ping: ping})
	}
	return nil
}

// PullEvents returns the events raised since the last pull and clears the
// buffer.
func (r *Route) PullEvents() []events.DomainEvent {
	pulled := r.domainEvents
	r.domainEvents = nil
	return pulled
}

// resolveCurrent marks the current stop with a resolution and moves the
// pointer to the next unresolved stop, flipping it to en_route, or completes
// the route when none remains. This is the only advancing path, which keeps
// the single-in-flight-stop invariant by construction.
func (r *Route) resolveCurrent(resolution StopStatus, now time.Time) (*kernel.UUID, error) {
	if r.status != InProgress {
		return nil, ErrRouteNotInProgress
	}

	current, ok := r.CurrentStop()
	if !ok {
		return nil, ErrRouteNotInProgress
	}
	if current.IsResolved() {
		return nil, ErrStopAlreadyResolved
	}

	r.stops[r.currentIndex].status = resolution

	next := r.currentIndex + 1
	for next < len(r.stops) && r.stops[next].IsResolved() {
		next++
	}
	r.currentIndex = next

	if next == len(r.stops) {
		r.status = Completed
		r.completedAt = &now
		return nil, nil
	}

	r.stops[next].status = StopEnRoute
	r.emitQueueDeltas(now)
	nextJobID := r.stops[next].jobID
	return &nextJobID, nil
}

// emitQueueDeltas raises a position update for every customer still waiting
// behind the current stop.
func (r *Route) emitQueueDeltas(now time.Time) {
	waiting := r.Waiting()
	for i, stop := range waiting {
		r.raise(events.QueuePositionChanged{
			JobID:    stop.jobID,
			Position: i + 1,
			Total:    len(waiting),
			At:       now,
		})
	}
}

func (r *Route) indexOfJob(jobID kernel.UUID) (int, bool) {
	for i, stop := range r.stops {
		if stop.jobID.IsEqual(jobID) {
			return i, true
		}
	}
	return 0, false
}

func (r *Route) raise(e events.DomainEvent) {
	r.domainEvents = append(r.domainEvents, e)
}

func (r *Route) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Route) setServicerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("servicerId", err)
	}
	r.servicerID = id
	return nil
}

func (r *Route) setDate(date kernel.ServiceDate) error {
	if err := date.Validate(); err != nil {
		return err
	}
	r.date = date
	return nil
}
