// Package errs provides the standardized error vocabulary for the curbside
// dispatch service.
//
// Each error type follows one pattern:
//   - a sentinel error variable (e.g. ErrObjectNotFound) for errors.Is checks
//   - a struct type carrying the failure details and an optional Cause
//   - constructor functions with and without cause
//   - Error() for formatting and Unwrap() resolving to the sentinel
//   - Code() returning a stable machine-readable code for client rendering
//
// The sentinel set covers cross-cutting failure classes (not found, invalid,
// required, out of range, conflict, forbidden). Domain-specific failures such
// as illegal status transitions or timing preconditions are defined next to
// the aggregates they protect and follow the same pattern.
package errs
