package services

import (
	"curbside/internal/core/domain/model/job"
	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/core/domain/model/route"
	"curbside/internal/pkg/errs"
)

// QueueState classifies what a customer's queue view means.
type QueueState int

const (
	// QueueStateUnknown represents an invalid or undefined queue state.
	QueueStateUnknown QueueState = iota

	// NotInRoute means the job is not part of any route and the servicer is
	// not on the way, so there is no line to stand in.
	NotInRoute

	// RouteInactive means the job is on a route that is not being driven
	// (still planned, or already finished).
	RouteInactive

	// Waiting means the job is in line behind the stop being served.
	Waiting

	// Next means this job's stop is the one the servicer is working right
	// now.
	Next

	// Done means the job's stop has already been resolved.
	Done
)

func getQueueStateStrings() map[QueueState]string {
	return map[QueueState]string{
		QueueStateUnknown: "unknown",
		NotInRoute:        "not_in_route",
		RouteInactive:     "route_inactive",
		Waiting:           "waiting",
		Next:              "next",
		Done:              "done",
	}
}

// String returns the wire-level name of the queue state.
func (s QueueState) String() string {
	if str, ok := getQueueStateStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// QueueView is the customer-facing answer to "where am I in line?". Position
// is the 1-based place among the customers still waiting behind the current
// stop and is zero whenever there is no line to report. Location is attached
// only when the job is next, so customers further back never see raw GPS.
type QueueView struct {
	JobID       kernel.UUID
	State       QueueState
	Position    int
	Total       int
	IsNext      bool
	RouteStatus string
	Location    *kernel.LocationPing
}

// QueueCalculator derives queue views from a job and its route. The
// derivation is pure and recomputed on every query; no position is ever
// persisted, so it cannot go stale.
type QueueCalculator struct{}

// NewQueueCalculator creates a new QueueCalculator.
func NewQueueCalculator() QueueCalculator {
	return QueueCalculator{}
}

// Derive computes the queue view for a job.
//
// r is the job's route, nil when the job is unrouted. cachedPing is the
// job's last ad-hoc location ping, nil when absent or expired; it is only
// consulted for unrouted jobs, since routed jobs carry their location on the
// route itself.
func (QueueCalculator) Derive(j *job.Job, r *route.Route, cachedPing *kernel.LocationPing) (QueueView, error) {
	if err := j.Validate(); err != nil {
		return QueueView{}, err
	}

	view := QueueView{JobID: j.ID()}

	if j.Route() == nil {
		// A servicer can work a job ad hoc without batching it into a
		// route; en_route or arrived means they are on the way regardless.
		if j.Status() == job.EnRoute || j.Status() == job.Arrived {
			view.State = Next
			view.IsNext = true
			view.Location = cachedPing
			return view, nil
		}
		view.State = NotInRoute
		return view, nil
	}

	if r == nil {
		return QueueView{}, errs.NewObjectNotFoundError("route", j.Route().String())
	}
	if err := r.Validate(); err != nil {
		return QueueView{}, err
	}

	view.RouteStatus = r.Status().String()
	if r.Status() != route.InProgress {
		view.State = RouteInactive
		return view, nil
	}

	stop, ok := r.StopForJob(j.ID())
	if !ok {
		return QueueView{}, errs.NewObjectNotFoundError("stop", j.ID().String())
	}

	if stop.IsResolved() {
		view.State = Done
		return view, nil
	}

	if stop.Position() == r.CurrentIndex() {
		view.State = Next
		view.IsNext = true
		view.Location = r.LastLocation()
		return view, nil
	}

	// An unresolved stop that is not current sits strictly behind the
	// pointer, so it is always present in the waiting line.
	waiting := r.Waiting()
	for i, w := range waiting {
		if w.JobID().IsEqual(j.ID()) {
			view.State = Waiting
			view.Position = i + 1
			view.Total = len(waiting)
			return view, nil
		}
	}

	return QueueView{}, errs.NewObjectNotFoundError("stop", j.ID().String())
}
