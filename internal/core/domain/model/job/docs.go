// Package job contains the Job aggregate: one bookable unit of curbside
// service work. The aggregate owns the job state machine, the ordered claim
// preconditions (availability, ownership, payment, grace period, earliest
// acceptable date) and the payment gate on completion.
//
// The state machine is a fixed adjacency table; CanTransitionTo is a pure
// lookup with no knowledge of routes. Route membership is recorded here only
// as a reference (route id + position) so the read side can resolve a job's
// queue position.
package job
