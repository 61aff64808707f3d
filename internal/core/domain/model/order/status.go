package order

import (
	"errors"
	"fmt"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/pkg/errs"
)

// Errors raised by the transition table. Both leave the order untouched:
// a failed transition writes no history and emits no event.
var (
	// ErrInvalidTransition is returned when the requested target is not a
	// direct successor of the current status, including any transition out
	// of a terminal status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnauthorizedTransition is returned when the transition exists but
	// the acting role may not request it.
	ErrUnauthorizedTransition = errors.New("role is not authorized for this transition")
)

// Status represents the lifecycle state of an order.
//
// The happy path runs
//
//	pending → confirmed → preparing → ready → accepted → picked_up → on_the_way → delivered
//
// with two branch exits: the restaurant may reject while pending or
// confirmed, and the customer (or an admin) may cancel at any point before
// pickup. accepted is the post-assignment state and is normally entered only
// through the store's conditional driver assignment, never through a plain
// transition request by a driver racing another driver.
//
// delivered, cancelled, and rejected are terminal: no transition leaves them.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status after checkout confirmation.
	Pending

	// Confirmed means the restaurant has accepted the order.
	Confirmed

	// Preparing means the kitchen is working on the order.
	Preparing

	// Ready means the order awaits a driver; entering it triggers the
	// pool broadcast.
	Ready

	// Accepted means exactly one driver won the assignment race.
	Accepted

	// PickedUp means the driver collected the order from the restaurant.
	PickedUp

	// OnTheWay means the driver is en route to the customer.
	OnTheWay

	// Delivered is the successful terminal status.
	Delivered

	// Cancelled is the terminal status for customer/admin cancellation.
	Cancelled

	// Rejected is the terminal status for restaurant refusal.
	Rejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Confirmed: "confirmed",
		Preparing: "preparing",
		Ready:     "ready",
		Accepted:  "accepted",
		PickedUp:  "picked_up",
		OnTheWay:  "on_the_way",
		Delivered: "delivered",
		Cancelled: "cancelled",
		Rejected:  "rejected",
	}
}

// transitionKey identifies one edge of the state machine.
type transitionKey struct {
	from Status
	to   Status
}

// transitionRoles is the authoritative transition table: every legal edge
// and the roles allowed to request it. Admin is authorized for every edge in
// the table (role check bypass), but never for an edge outside it - the
// accept/reject decision stays a pure function of (from, to, role).
func transitionRoles() map[transitionKey][]kernel.Role {
	return map[transitionKey][]kernel.Role{
		{Pending, Confirmed}:   {kernel.RoleRestaurant},
		{Pending, Rejected}:    {kernel.RoleRestaurant},
		{Pending, Cancelled}:   {kernel.RoleCustomer},
		{Confirmed, Preparing}: {kernel.RoleRestaurant},
		{Confirmed, Rejected}:  {kernel.RoleRestaurant},
		{Confirmed, Cancelled}: {kernel.RoleCustomer},
		{Preparing, Ready}:     {kernel.RoleRestaurant},
		{Preparing, Cancelled}: {kernel.RoleCustomer},
		{Ready, Accepted}:      {kernel.RoleDriver},
		{Ready, Cancelled}:     {kernel.RoleCustomer},
		{Accepted, PickedUp}:   {kernel.RoleDriver},
		{Accepted, Cancelled}:  {kernel.RoleCustomer},
		{PickedUp, OnTheWay}:   {kernel.RoleDriver},
		{OnTheWay, Delivered}:  {kernel.RoleDriver},
	}
}

// StatusFromString parses the wire representation ("picked_up", ...).
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != Unknown && str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", int(s)))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", int(s)))
	}
	return nil
}

// String returns the wire name of the status; "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no transition leaves this status.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Rejected
}

// IsActiveDelivery reports whether a driver is bound to the order in this
// status. Used to keep a driver on at most one active order.
func (s Status) IsActiveDelivery() bool {
	return s == Accepted || s == PickedUp || s == OnTheWay
}

// CanTransitionTo reports whether target is a direct successor of s,
// regardless of role.
func (s Status) CanTransitionTo(target Status) bool {
	_, ok := transitionRoles()[transitionKey{s, target}]
	return ok
}

// Successors returns all statuses reachable from s in one transition.
func (s Status) Successors() []Status {
	var out []Status
	for key := range transitionRoles() {
		if key.from == s {
			out = append(out, key.to)
		}
	}
	return out
}

// TransitionTo validates one transition request and returns the new status.
//
// The decision is a pure function of (s, target, role):
//   - target must be a direct successor of s, otherwise ErrInvalidTransition;
//   - role must be listed for the edge, or be RoleAdmin, otherwise
//     ErrUnauthorizedTransition.
//
// Callers that need idempotent retries must check s == target before calling;
// re-requesting the current status is not a legal edge.
func (s Status) TransitionTo(target Status, role kernel.Role) (Status, error) {
	roles, ok := transitionRoles()[transitionKey{s, target}]
	if !ok {
		return Unknown, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, target)
	}

	if role == kernel.RoleAdmin {
		return target, nil
	}
	for _, allowed := range roles {
		if role == allowed {
			return target, nil
		}
	}

	return Unknown, fmt.Errorf("%w: %s may not request %s -> %s",
		ErrUnauthorizedTransition, role, s, target)
}
