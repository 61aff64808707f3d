// Package services provides domain services that span multiple aggregates.
//
// The package includes:
//   - PoolSelector: builds the ordered pool of drivers that should receive
//     an assignment offer for a ready order
package services
