// Package kernel provides the shared domain primitives of the curbside
// dispatch service.
//
// The package includes:
//   - UUID: a value object for unique identifiers with validation and comparison
//   - GeoPoint: a validated WGS84 coordinate pair
//   - LocationPing: a servicer's ephemeral GPS report
//   - ServiceDate: a calendar date normalized to midnight UTC
//
// These primitives enforce domain invariants at construction, are immutable
// and safe for concurrent use. Aggregates in the job and route packages build
// on them rather than on raw library types.
package kernel
