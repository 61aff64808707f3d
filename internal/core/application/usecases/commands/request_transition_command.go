package commands

import (
	"errors"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"
	"github.com/Devmatrix25/SmartEats/internal/pkg/guard"
)

var ErrRequestTransitionCommandIsNotConstructed = errors.New(
	"RequestTransitionCommand must be created via NewRequestTransitionCommand constructor",
)

// RequestTransitionCommand represents one actor asking to move an order to a
// new lifecycle status: a restaurant confirming, a kitchen marking ready, a
// driver reporting pickup, a customer cancelling.
type RequestTransitionCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID
	role    kernel.Role
	target  order.Status
	note    string

	guard guard.ConstructorGuard
}

// NewRequestTransitionCommand creates a transition request. The role and
// target must be valid values; whether the edge is legal is decided against
// the order's current status inside the handler.
func NewRequestTransitionCommand(
	orderID kernel.UUID,
	actorID kernel.UUID,
	role kernel.Role,
	target order.Status,
	note string,
) (RequestTransitionCommand, error) {
	cmd := RequestTransitionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		actorID.Validate(),
		role.Validate(),
		target.Validate(),
	); err != nil {
		return RequestTransitionCommand{}, err
	}

	cmd.orderID = orderID
	cmd.actorID = actorID
	cmd.role = role
	cmd.target = target
	cmd.note = note
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestTransitionCommand) Validate() error {
	return c.guard.Validate(ErrRequestTransitionCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c RequestTransitionCommand) OrderID() kernel.UUID { return c.orderID }

// ActorID returns the identity of the requesting actor.
func (c RequestTransitionCommand) ActorID() kernel.UUID { return c.actorID }

// Role returns the capacity in which the actor requests the transition.
func (c RequestTransitionCommand) Role() kernel.Role { return c.role }

// Target returns the requested status.
func (c RequestTransitionCommand) Target() order.Status { return c.target }

// Note returns the optional free-text reason attached to the history entry.
func (c RequestTransitionCommand) Note() string { return c.note }
