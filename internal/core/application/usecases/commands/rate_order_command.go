package commands

import (
	"errors"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"
	"github.com/Devmatrix25/SmartEats/internal/pkg/guard"
)

var (
	ErrRateOrderCommandIsNotConstructed = errors.New(
		"RateOrderCommand must be created via NewRateOrderCommand constructor",
	)
	ErrNoRatingsGiven = errors.New("at least one rating is required")
)

// RateOrderCommand records the customer's feedback on a delivered order.
// Either rating may be omitted, but not both.
type RateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	customerID       kernel.UUID
	restaurantRating *order.Rating
	driverRating     *order.Rating

	guard guard.ConstructorGuard
}

// NewRateOrderCommand creates a rating submission.
func NewRateOrderCommand(
	orderID kernel.UUID,
	customerID kernel.UUID,
	restaurantRating *order.Rating,
	driverRating *order.Rating,
) (RateOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), customerID.Validate()); err != nil {
		return RateOrderCommand{}, err
	}
	if restaurantRating == nil && driverRating == nil {
		return RateOrderCommand{}, ErrNoRatingsGiven
	}

	return RateOrderCommand{
		orderID:          orderID,
		customerID:       customerID,
		restaurantRating: restaurantRating,
		driverRating:     driverRating,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RateOrderCommand) Validate() error {
	return c.guard.Validate(ErrRateOrderCommandIsNotConstructed)
}

// OrderID returns the rated order.
func (c RateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// CustomerID returns the submitting customer.
func (c RateOrderCommand) CustomerID() kernel.UUID { return c.customerID }

// RestaurantRating returns the restaurant score, or nil.
func (c RateOrderCommand) RestaurantRating() *order.Rating { return c.restaurantRating }

// DriverRating returns the driver score, or nil.
func (c RateOrderCommand) DriverRating() *order.Rating { return c.driverRating }
