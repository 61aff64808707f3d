package commands

import (
	"errors"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/pkg/guard"
)

var ErrAcceptAssignmentCommandIsNotConstructed = errors.New(
	"AcceptAssignmentCommand must be created via NewAcceptAssignmentCommand constructor",
)

// AcceptAssignmentCommand represents a driver responding to an open offer.
// Several drivers may race for the same order; exactly one wins.
type AcceptAssignmentCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptAssignmentCommand creates an offer acceptance.
func NewAcceptAssignmentCommand(orderID, driverID kernel.UUID) (AcceptAssignmentCommand, error) {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return AcceptAssignmentCommand{}, err
	}

	return AcceptAssignmentCommand{
		orderID:  orderID,
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrAcceptAssignmentCommandIsNotConstructed)
}

// OrderID returns the offered order.
func (c AcceptAssignmentCommand) OrderID() kernel.UUID { return c.orderID }

// DriverID returns the responding driver.
func (c AcceptAssignmentCommand) DriverID() kernel.UUID { return c.driverID }
