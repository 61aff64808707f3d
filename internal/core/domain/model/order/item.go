package order

import (
	"fmt"

	"github.com/Devmatrix25/SmartEats/internal/pkg/errs"
	"github.com/Devmatrix25/SmartEats/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when validating a zero-value Item.
var ErrItemIsNotConstructed = errs.NewValueIsRequiredError(
	"item must be created via NewItem constructor")

// Item is one priced line of an order. All money is in cents. The line total
// is always unit price times quantity; it is computed, never stored apart.
type Item struct { //nolint:recvcheck //using for validation
	name         string
	unitPrice    int64
	quantity     int
	instructions string
	guard        guard.ConstructorGuard
}

// NewItem creates a validated order line. Name is required, unit price must
// be non-negative, quantity must be positive.
func NewItem(name string, unitPrice int64, quantity int, instructions string) (Item, error) {
	if name == "" {
		return Item{}, errs.NewValueIsRequiredError("item name")
	}
	if unitPrice < 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("unit price",
			fmt.Errorf("%d is negative", unitPrice))
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return Item{
		name:         name,
		unitPrice:    unitPrice,
		quantity:     quantity,
		instructions: instructions,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Name returns the menu item name as captured at checkout.
func (i Item) Name() string { return i.name }

// UnitPrice returns the per-unit price in cents.
func (i Item) UnitPrice() int64 { return i.unitPrice }

// Quantity returns the ordered quantity.
func (i Item) Quantity() int { return i.quantity }

// Instructions returns the customer's per-line special instructions.
func (i Item) Instructions() string { return i.instructions }

// Total returns the computed line total in cents.
func (i Item) Total() int64 {
	return i.unitPrice * int64(i.quantity)
}

// Validate ensures the item was built via NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}
