// Package kernel provides shared value objects used across the domain model.
//
// It contains:
//   - UUID: a validated wrapper around github.com/google/uuid used as the
//     identity of orders and drivers
//   - GeoPoint: an immutable WGS-84 coordinate pair used for store and
//     client positions
//
// All kernel types are immutable value objects constructed through factory
// functions that enforce their invariants.
package kernel
