// Package services contains stateless domain services that operate across
// aggregates. The queue calculator derives a customer's live place in line
// from a job and its route; nothing here holds state or touches I/O.
package services
