package commands

import (
	"errors"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"
	"github.com/Devmatrix25/SmartEats/internal/pkg/errs"
	"github.com/Devmatrix25/SmartEats/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired = errors.New("at least one item is required")
)

// ItemInput is one order line as received from the inbound adapter.
type ItemInput struct {
	Name         string
	UnitPrice    int64
	Quantity     int
	Instructions string
}

// AddressInput is the delivery address as received from the inbound adapter.
type AddressInput struct {
	Street  string
	City    string
	ZipCode string
	Lat     float64
	Lng     float64
}

// PricingInput carries the checkout amounts in cents and the restaurant's
// time estimates in minutes. Zero estimates fall back to defaults.
type PricingInput struct {
	DeliveryFee     int64
	Tax             int64
	Discount        int64
	PrepMinutes     int
	DeliveryMinutes int
}

// CreateOrderCommand represents a confirmed checkout: a customer placing an
// order with a restaurant. The payment reference is the charge capability's
// success token; the command is only issuable once a charge succeeded, and
// the order itself carries no payment state.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID
	items        []ItemInput
	address      AddressInput
	pricing      PricingInput
	paymentRef   string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order. Item and
// amount validation is delegated to the order aggregate; the command only
// checks identity and shape.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	items []ItemInput,
	address AddressInput,
	pricing PricingInput,
	paymentRef string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setRestaurantID(restaurantID),
		cmd.setItems(items),
		cmd.setPaymentRef(paymentRef),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.address = address
	cmd.pricing = pricing
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier assigned to the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// CustomerID returns the ordering customer.
func (c CreateOrderCommand) CustomerID() kernel.UUID { return c.customerID }

// RestaurantID returns the restaurant receiving the order.
func (c CreateOrderCommand) RestaurantID() kernel.UUID { return c.restaurantID }

// Items returns the requested order lines.
func (c CreateOrderCommand) Items() []ItemInput { return c.items }

// Address returns the delivery address input.
func (c CreateOrderCommand) Address() AddressInput { return c.address }

// Pricing returns the checkout amounts and time estimates.
func (c CreateOrderCommand) Pricing() PricingInput { return c.pricing }

// PaymentRef returns the payment confirmation reference.
func (c CreateOrderCommand) PaymentRef() string { return c.paymentRef }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("customerID", err)
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("restaurantID", err)
	}

	c.restaurantID = restaurantID
	return nil
}

func (c *CreateOrderCommand) setItems(items []ItemInput) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	c.items = items
	return nil
}

func (c *CreateOrderCommand) setPaymentRef(paymentRef string) error {
	if paymentRef == "" {
		return errs.NewValueIsRequiredError("paymentRef")
	}

	c.paymentRef = paymentRef
	return nil
}

// toDomainItems converts the raw lines into validated aggregate items.
func (c CreateOrderCommand) toDomainItems() ([]order.Item, error) {
	out := make([]order.Item, 0, len(c.items))
	for _, in := range c.items {
		item, err := order.NewItem(in.Name, in.UnitPrice, in.Quantity, in.Instructions)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
