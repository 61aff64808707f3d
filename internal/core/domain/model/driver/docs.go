// Package driver contains the Driver aggregate.
//
// A driver cycles between offline and online, reports their position while
// working, and carries at most one active order. Eligibility for assignment
// offers requires being online, verified, and free. Winning an assignment is
// decided by the store's conditional update; the aggregate records the
// outcome and enforces the single-active-order rule inside one process.
package driver
