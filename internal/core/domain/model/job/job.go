package job

import (
	"errors"
	"fmt"
	"time"

	"curbside/internal/core/domain/events"
	"curbside/internal/core/domain/model/kernel"
	"curbside/internal/pkg/errs"
	"curbside/internal/pkg/guard"
)

// ClaimGracePeriod is the window after creation during which no servicer may
// claim a job, giving the customer a free-cancellation window.
const ClaimGracePeriod = 120 * time.Second

var (
	// ErrJobIsNotConstructed is returned when a Job was not created through
	// NewJob or RestoreJob.
	ErrJobIsNotConstructed = errors.New("Job must be created via NewJob or RestoreJob")

	// ErrJobUnavailable is returned when claiming a job that is no longer
	// pending.
	ErrJobUnavailable = errors.New("job is not available for claiming")

	// ErrJobTaken is returned when claiming a job already owned by another
	// servicer.
	ErrJobTaken = errors.New("job is already taken by another servicer")

	// ErrPaymentPending is returned when claiming a job the customer has not
	// paid for yet. Unpaid jobs are invisible to claiming.
	ErrPaymentPending = errors.New("job payment is still pending")

	// ErrJobAlreadyRouted is returned when adding a job to a route while it
	// already belongs to one.
	ErrJobAlreadyRouted = errors.New("job already belongs to a route")

	// ErrGracePeriodActive classifies claims made before the customer's
	// free-cancellation window has elapsed.
	ErrGracePeriodActive = errors.New("job is still inside its grace period")

	// ErrTooEarly classifies claims made before the job's earliest
	// acceptable date.
	ErrTooEarly = errors.New("job is not claimable yet on this date")
)

// GracePeriodError reports a claim attempted before the grace period
// elapsed. ClaimableAt carries the instant claiming becomes legal so the
// caller can schedule a retry.
type GracePeriodError struct {
	ClaimableAt time.Time
}

// NewGracePeriodError creates a GracePeriodError for the given legal instant.
func NewGracePeriodError(claimableAt time.Time) *GracePeriodError {
	return &GracePeriodError{ClaimableAt: claimableAt}
}

func (e *GracePeriodError) Error() string {
	return fmt.Sprintf("%s: claimable at %s", ErrGracePeriodActive, e.ClaimableAt.Format(time.RFC3339))
}

func (e *GracePeriodError) Unwrap() error { return ErrGracePeriodActive }

// Code returns the stable machine code for grace period failures.
func (e *GracePeriodError) Code() string { return "grace_period" }

// TooEarlyError reports a claim attempted before the job's earliest
// acceptable date. EarliestDate carries the first legal day.
type TooEarlyError struct {
	EarliestDate kernel.ServiceDate
}

// NewTooEarlyError creates a TooEarlyError for the given earliest date.
func NewTooEarlyError(earliest kernel.ServiceDate) *TooEarlyError {
	return &TooEarlyError{EarliestDate: earliest}
}

func (e *TooEarlyError) Error() string {
	return fmt.Sprintf("%s: earliest date is %s", ErrTooEarly, e.EarliestDate)
}

func (e *TooEarlyError) Unwrap() error { return ErrTooEarly }

// Code returns the stable machine code for earliest-date failures.
func (e *TooEarlyError) Code() string { return "too_early" }

// StatusChange is one entry of a job's audit log: which status was applied,
// when, and by whom.
type StatusChange struct {
	status Status
	at     time.Time
	actor  kernel.UUID
}

// NewStatusChange creates an audit log entry.
func NewStatusChange(status Status, at time.Time, actor kernel.UUID) StatusChange {
	return StatusChange{status: status, at: at, actor: actor}
}

// Status returns the status that was applied.
func (c StatusChange) Status() Status { return c.status }

// At returns when the change happened.
func (c StatusChange) At() time.Time { return c.at }

// Actor returns who applied the change.
func (c StatusChange) Actor() kernel.UUID { return c.actor }

// Job is the aggregate root for one unit of curbside service work. It owns
// the job state machine, the claim preconditions and the payment gate on
// completion.
//
// Invariants:
//   - status moves only along the fixed transition table
//   - a job is never assigned twice
//   - a job is never completed unless its payment status is paid
//   - terminal statuses are immutable apart from the audit log
type Job struct {
	id            kernel.UUID
	customerID    kernel.UUID
	servicerID    *kernel.UUID
	routeID       *kernel.UUID
	routeOrder    *int
	scheduledDate kernel.ServiceDate
	timeWindow    TimeWindow
	status        Status
	paymentStatus PaymentStatus
	createdAt     time.Time
	history       []StatusChange
	version       int64

	domainEvents []events.DomainEvent
	guard        guard.ConstructorGuard
}

// NewJob creates a pending, unpaid job scheduled for a date. The creation
// flow itself (customer booking) lives outside this core; this constructor
// exists for it and for tests.
func NewJob(
	id kernel.UUID,
	customerID kernel.UUID,
	scheduledDate kernel.ServiceDate,
	timeWindow TimeWindow,
	createdAt time.Time,
) (*Job, error) {
	j := &Job{
		status:        Pending,
		paymentStatus: PaymentPending,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		j.setID(id),
		j.setCustomerID(customerID),
		j.setScheduledDate(scheduledDate),
		j.setTimeWindow(timeWindow),
		j.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return j, nil
}

// RestoreJob reconstructs a job from persistence without re-running creation
// rules, but still rejecting structurally invalid data.
func RestoreJob(
	id kernel.UUID,
	customerID kernel.UUID,
	servicerID *kernel.UUID,
	routeID *kernel.UUID,
	routeOrder *int,
	scheduledDate kernel.ServiceDate,
	timeWindow TimeWindow,
	status Status,
	paymentStatus PaymentStatus,
	createdAt time.Time,
	history []StatusChange,
	version int64,
) (*Job, error) {
	j := &Job{
		servicerID: servicerID,
		routeID:    routeID,
		routeOrder: routeOrder,
		history:    history,
		version:    version,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		j.setID(id),
		j.setCustomerID(customerID),
		j.setScheduledDate(scheduledDate),
		j.setTimeWindow(timeWindow),
		j.setCreatedAt(createdAt),
		status.Validate(),
		paymentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	j.status = status
	j.paymentStatus = paymentStatus
	return j, nil
}

// Validate ensures the Job was created through a constructor.
func (j *Job) Validate() error {
	if j == nil {
		return ErrJobIsNotConstructed
	}
	return j.guard.Validate(ErrJobIsNotConstructed)
}

// ID returns the job's unique identifier.
func (j *Job) ID() kernel.UUID { return j.id }

// CustomerID returns the customer who booked the job.
func (j *Job) CustomerID() kernel.UUID { return j.customerID }

// Servicer returns the assigned servicer, or nil while unclaimed.
func (j *Job) Servicer() *kernel.UUID { return j.servicerID }

// Route returns the route the job belongs to, or nil.
func (j *Job) Route() *kernel.UUID { return j.routeID }

// RouteOrder returns the job's position on its route, or nil.
func (j *Job) RouteOrder() *int { return j.routeOrder }

// ScheduledDate returns the calendar day the job is booked for.
func (j *Job) ScheduledDate() kernel.ServiceDate { return j.scheduledDate }

// TimeWindow returns the customer's scheduling hint.
func (j *Job) TimeWindow() TimeWindow { return j.timeWindow }

// Status returns the current lifecycle status.
func (j *Job) Status() Status { return j.status }

// PaymentStatus returns the payment service's verdict.
func (j *Job) PaymentStatus() PaymentStatus { return j.paymentStatus }

// CreatedAt returns the booking timestamp.
func (j *Job) CreatedAt() time.Time { return j.createdAt }

// History returns the ordered audit log of status changes.
func (j *Job) History() []StatusChange { return j.history }

// Version returns the optimistic concurrency token. Repositories compare it
// on write and bump it on success; a mismatch means the job changed under us.
func (j *Job) Version() int64 { return j.version }

// IsAssignedTo reports whether the job is owned by the given servicer.
func (j *Job) IsAssignedTo(servicerID kernel.UUID) bool {
	return j.servicerID != nil && j.servicerID.IsEqual(servicerID)
}

// EarliestClaimDate returns the first calendar day the job may be claimed:
// its scheduled date, moved earlier by the time window's lead days.
func (j *Job) EarliestClaimDate() kernel.ServiceDate {
	return j.scheduledDate.AddDays(-j.timeWindow.LeadDays())
}

// MarkPaid records the payment service's settlement. Not a state machine
// transition; payment and lifecycle are independent axes.
func (j *Job) MarkPaid() {
	j.paymentStatus = PaymentPaid
}

// CanTransitionTo is a pure lookup against the job state machine.
func (j *Job) CanTransitionTo(target Status) bool {
	return j.status.CanTransitionTo(target)
}

// ChangeStatus applies one legal state machine transition, appends the audit
// entry and raises a JobStatusChanged event. Completing requires the payment
// to have settled. Fails fast with no partial mutation.
func (j *Job) ChangeStatus(target Status, actor kernel.UUID, at time.Time) error {
	if target == Completed && !j.paymentStatus.IsPaid() {
		return NewPaymentRequiredError(j.paymentStatus)
	}

	newStatus, err := j.status.TransitionTo(target)
	if err != nil {
		return err
	}

	j.status = newStatus
	j.history = append(j.history, NewStatusChange(newStatus, at, actor))
	j.raise(events.JobStatusChanged{
		JobID:      j.id,
		CustomerID: j.customerID,
		Status:     newStatus.String(),
		At:         at,
	})
	return nil
}

// ClaimBy assigns the job to a servicer, checking the claim preconditions in
// their documented order: availability, ownership, payment, grace period,
// earliest acceptable date. On success the job moves to confirmed.
//
// The in-memory check closes nothing by itself: the repository write must be
// conditional, and a lost race surfaces as a conflict there.
func (j *Job) ClaimBy(servicerID kernel.UUID, now time.Time) error {
	if err := servicerID.Validate(); err != nil {
		return err
	}

	if j.status != Pending {
		return ErrJobUnavailable
	}

	if j.servicerID != nil {
		return ErrJobTaken
	}

	if j.paymentStatus == PaymentPending {
		return ErrPaymentPending
	}

	claimableAt := j.createdAt.Add(ClaimGracePeriod)
	if now.Before(claimableAt) {
		return NewGracePeriodError(claimableAt)
	}

	earliest := j.EarliestClaimDate()
	if kernel.ServiceDateFromTime(now).Before(earliest) {
		return NewTooEarlyError(earliest)
	}

	if err := j.ChangeStatus(Confirmed, servicerID, now); err != nil {
		return err
	}

	j.servicerID = &servicerID
	j.raise(events.JobClaimed{
		JobID:      j.id,
		CustomerID: j.customerID,
		ServicerID: servicerID,
		At:         now,
	})
	return nil
}

// AssignToRoute records the job's membership and position on a route. The
// job must already be claimed (confirmed) and not routed yet.
func (j *Job) AssignToRoute(routeID kernel.UUID, order int) error {
	if err := routeID.Validate(); err != nil {
		return err
	}

	if j.routeID != nil {
		return ErrJobAlreadyRouted
	}

	if j.status != Confirmed {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a routable status", j.status))
	}

	j.routeID = &routeID
	j.routeOrder = &order
	return nil
}

// PullEvents returns the events raised since the last pull and clears the
// buffer. Called by command handlers after a successful commit.
func (j *Job) PullEvents() []events.DomainEvent {
	pulled := j.domainEvents
	j.domainEvents = nil
	return pulled
}

func (j *Job) raise(e events.DomainEvent) {
	j.domainEvents = append(j.domainEvents, e)
}

func (j *Job) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	j.id = id
	return nil
}

func (j *Job) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	j.customerID = id
	return nil
}

func (j *Job) setScheduledDate(date kernel.ServiceDate) error {
	if err := date.Validate(); err != nil {
		return err
	}
	j.scheduledDate = date
	return nil
}

func (j *Job) setTimeWindow(window TimeWindow) error {
	if err := window.Validate(); err != nil {
		return err
	}
	j.timeWindow = window
	return nil
}

func (j *Job) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	j.createdAt = createdAt
	return nil
}
