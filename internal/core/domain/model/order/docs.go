// Package order contains the order aggregate and its status state machine.
//
// The aggregate is the single shared mutable resource of the system: every
// change flows through ApplyTransition (validated against the transition
// table) or through the store-level conditional driver assignment. The
// aggregate keeps an append-only status history whose last entry always
// matches the current status, and a financial breakdown whose final amount
// always equals subtotal + delivery fee + tax - discount.
package order
