// Package kernel provides the shared value objects of the marketplace core.
//
// The package includes:
//   - UUID: identifier value object wrapping github.com/google/uuid
//   - Money: an amount in integral minor currency units
//   - GeoPoint: a timestamped latitude/longitude pair used for courier live location
//
// Zero values of UUID and GeoPoint are invalid; construct them through their
// constructors so that Validate passes.
package kernel
