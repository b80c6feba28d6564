// Package route contains the Route aggregate: one servicer's ordered daily
// worklist of claimed jobs, with a single current-stop pointer.
//
// A stop's status is a per-route view of progress, kept in lockstep with but
// distinct from the underlying job's own state machine. The aggregate owns
// the ordering invariants (fixed stop order, first-unresolved pointer, one
// in-flight stop) and raises the queue-position and location events the
// realtime layer fans out; synchronizing the job side of each advance is the
// command layer's responsibility.
package route
