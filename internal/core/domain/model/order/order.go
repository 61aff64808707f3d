package order

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/pkg/errs"
	"github.com/Devmatrix25/SmartEats/internal/pkg/guard"
)

// DriverEarningsShare is the driver's cut of the delivery fee, in percent.
const DriverEarningsShare = 80

// Domain errors for order operations.
var (
	// ErrOrderIsNotConstructed is returned when an Order was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrDriverAlreadyAssigned is returned when assigning a driver to an
	// order that already has one.
	ErrDriverAlreadyAssigned = errors.New("order already has a driver assigned")

	// ErrOrderNotDelivered is returned when rating an order that has not
	// reached the delivered status.
	ErrOrderNotDelivered = errors.New("only delivered orders can be rated")
)

// HistoryEntry is one element of an order's append-only status history.
// Timestamps are server-side; clients never supply them.
type HistoryEntry struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// Rating is a post-delivery score for the restaurant or the driver.
type Rating struct {
	Value   int    `json:"value"`
	Comment string `json:"comment,omitempty"`
}

// Validate checks the score is within 1..5.
func (r Rating) Validate() error {
	if r.Value < 1 || r.Value > 5 {
		return errs.NewValueIsInvalidErrorWithCause("rating",
			fmt.Errorf("%d is outside [1, 5]", r.Value))
	}
	return nil
}

// Order is the aggregate root for a delivery order. It is created on
// checkout confirmation, mutated only through ApplyTransition and the
// store's conditional driver assignment, and never deleted - terminal orders
// are retained for audit.
//
// Invariants maintained by every constructor and mutator:
//   - FinalAmount() == Subtotal() + DeliveryFee() + Tax() - Discount()
//   - History() never shrinks and its last entry's status equals Status()
//   - DriverID() is nil until the order is accepted by exactly one driver
type Order struct {
	id           kernel.UUID
	orderNumber  string
	customerID   kernel.UUID
	restaurantID kernel.UUID
	driverID     *kernel.UUID

	items       []Item
	deliveryFee int64
	tax         int64
	discount    int64
	finalAmount int64

	address kernel.Address
	status  Status
	history []HistoryEntry

	prepMinutes     int
	deliveryMinutes int

	restaurantRating *Rating
	driverRating     *Rating

	guard guard.ConstructorGuard
}

// NewOrder creates an order in Pending status with its history seeded.
//
// The caller (the checkout flow) invokes this only after the payment
// capability reported success; the order itself carries no payment state.
// Fees, tax, and discount are in cents; the final amount is derived, never
// passed in. now supplies the server timestamp for the first history entry.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	items []Item,
	address kernel.Address,
	deliveryFee, tax, discount int64,
	prepMinutes, deliveryMinutes int,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status: Pending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setParties(customerID, restaurantID),
		o.setItems(items),
		o.setAddress(address),
		o.setAmounts(deliveryFee, tax, discount),
		o.setTimes(prepMinutes, deliveryMinutes),
	); err != nil {
		return nil, err
	}

	o.orderNumber = GenerateOrderNumber(now)
	o.finalAmount = o.Subtotal() + o.deliveryFee + o.tax - o.discount
	o.history = []HistoryEntry{{Status: Pending, Timestamp: now.UTC(), Note: "Order placed"}}

	return o, nil
}

// RestoreOrderParams carries a persisted order back into the domain.
type RestoreOrderParams struct {
	ID               kernel.UUID
	OrderNumber      string
	CustomerID       kernel.UUID
	RestaurantID     kernel.UUID
	DriverID         *kernel.UUID
	Items            []Item
	Address          kernel.Address
	DeliveryFee      int64
	Tax              int64
	Discount         int64
	FinalAmount      int64
	Status           Status
	History          []HistoryEntry
	PrepMinutes      int
	DeliveryMinutes  int
	RestaurantRating *Rating
	DriverRating     *Rating
}

// RestoreOrder rebuilds an aggregate from persistence, re-checking every
// invariant so corrupt rows cannot enter the domain. In particular the
// financial identity and the history/status agreement are verified, and a
// driver may be present only in post-assignment statuses.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setParties(p.CustomerID, p.RestaurantID),
		o.setItems(p.Items),
		o.setAddress(p.Address),
		o.setAmounts(p.DeliveryFee, p.Tax, p.Discount),
		o.setTimes(p.PrepMinutes, p.DeliveryMinutes),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}

	if p.OrderNumber == "" {
		return nil, errs.NewValueIsRequiredError("orderNumber")
	}
	o.orderNumber = p.OrderNumber
	o.status = p.Status
	o.driverID = p.DriverID
	o.finalAmount = p.FinalAmount
	o.restaurantRating = p.RestaurantRating
	o.driverRating = p.DriverRating

	if expected := o.Subtotal() + o.deliveryFee + o.tax - o.discount; o.finalAmount != expected {
		return nil, errs.NewValueIsInvalidErrorWithCause("finalAmount",
			fmt.Errorf("%d does not equal subtotal+fee+tax-discount (%d)", o.finalAmount, expected))
	}

	if len(p.History) == 0 {
		return nil, errs.NewValueIsRequiredError("history")
	}
	if last := p.History[len(p.History)-1].Status; last != p.Status {
		return nil, errs.NewValueIsInvalidErrorWithCause("history",
			fmt.Errorf("last entry is %s but status is %s", last, p.Status))
	}
	o.history = p.History

	if p.DriverID != nil && !p.Status.IsActiveDelivery() && p.Status != Delivered && p.Status != Cancelled {
		return nil, errs.NewValueIsInvalidErrorWithCause("driverID",
			fmt.Errorf("driver set while status is %s", p.Status))
	}

	return o, nil
}

// GenerateOrderNumber builds the human-readable order identifier:
// "SE" + base36 millisecond timestamp + 4 random base36 chars, uppercase.
func GenerateOrderNumber(now time.Time) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return strings.ToUpper("SE" + strconv.FormatInt(now.UnixMilli(), 36) + string(suffix))
}

// Validate ensures the Order was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the internal unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// OrderNumber returns the immutable human-readable identifier.
func (o *Order) OrderNumber() string { return o.orderNumber }

// CustomerID returns the ordering customer.
func (o *Order) CustomerID() kernel.UUID { return o.customerID }

// RestaurantID returns the preparing restaurant.
func (o *Order) RestaurantID() kernel.UUID { return o.restaurantID }

// DriverID returns the assigned driver, nil until assignment.
func (o *Order) DriverID() *kernel.UUID { return o.driverID }

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Subtotal returns the sum of all line totals in cents.
func (o *Order) Subtotal() int64 {
	var sum int64
	for _, item := range o.items {
		sum += item.Total()
	}
	return sum
}

// DeliveryFee returns the delivery fee in cents.
func (o *Order) DeliveryFee() int64 { return o.deliveryFee }

// Tax returns the tax in cents.
func (o *Order) Tax() int64 { return o.tax }

// Discount returns the discount in cents.
func (o *Order) Discount() int64 { return o.discount }

// FinalAmount returns the charged total in cents.
func (o *Order) FinalAmount() int64 { return o.finalAmount }

// Address returns the delivery destination.
func (o *Order) Address() kernel.Address { return o.address }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// History returns a copy of the append-only status history.
func (o *Order) History() []HistoryEntry {
	history := make([]HistoryEntry, len(o.history))
	copy(history, o.history)
	return history
}

// PrepMinutes returns the restaurant's estimated preparation time.
func (o *Order) PrepMinutes() int { return o.prepMinutes }

// DeliveryMinutes returns the estimated driving time.
func (o *Order) DeliveryMinutes() int { return o.deliveryMinutes }

// RestaurantRating returns the customer's post-delivery restaurant rating.
func (o *Order) RestaurantRating() *Rating { return o.restaurantRating }

// DriverRating returns the customer's post-delivery driver rating.
func (o *Order) DriverRating() *Rating { return o.driverRating }

// DriverEarnings returns the driver's share of the delivery fee in cents.
func (o *Order) DriverEarnings() int64 {
	return o.deliveryFee * DriverEarningsShare / 100
}

// ApplyTransition validates and applies one status change on behalf of a
// role, appending a history entry stamped at the supplied server time.
//
// The decision delegates to Status.TransitionTo: an illegal successor yields
// ErrInvalidTransition, a role mismatch ErrUnauthorizedTransition, and in
// both cases the order is left untouched. Idempotent retries (target equals
// current status) are the caller's concern - the transition handler treats
// them as no-op successes before ever reaching the aggregate.
func (o *Order) ApplyTransition(role kernel.Role, target Status, note string, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := role.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.TransitionTo(target, role)
	if err != nil {
		return err
	}

	if note == "" {
		note = "Status updated"
	}
	o.status = newStatus
	o.history = append(o.history, HistoryEntry{Status: newStatus, Timestamp: at.UTC(), Note: note})
	return nil
}

// AssignDriver binds a driver and moves the order to Accepted.
//
// This is the domain-side mirror of the store's conditional update: the
// production accept path performs the compare-and-set in the repository and
// reloads, while tests and in-memory flows use this method. It enforces the
// same precondition - status Ready and no driver bound.
func (o *Order) AssignDriver(driverID kernel.UUID, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.driverID != nil {
		return ErrDriverAlreadyAssigned
	}

	newStatus, err := o.status.TransitionTo(Accepted, kernel.RoleDriver)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.driverID = &driverID
	o.history = append(o.history, HistoryEntry{Status: newStatus, Timestamp: at.UTC(), Note: "Driver assigned"})
	return nil
}

// Rate records post-delivery ratings. Either rating may be nil to skip it.
func (o *Order) Rate(restaurantRating, driverRating *Rating) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status != Delivered {
		return ErrOrderNotDelivered
	}

	if restaurantRating != nil {
		if err := restaurantRating.Validate(); err != nil {
			return err
		}
		o.restaurantRating = restaurantRating
	}
	if driverRating != nil {
		if err := driverRating.Validate(); err != nil {
			return err
		}
		o.driverRating = driverRating
	}
	return nil
}

// EstimatedDelivery computes the ETA for the current status, or nil when the
// order is terminal or cancelled mid-flight. Mirrors what customers see on
// the tracking screen.
func (o *Order) EstimatedDelivery(now time.Time) *time.Time {
	var minutes int
	switch o.status {
	case Pending, Confirmed:
		minutes = o.prepMinutes + o.deliveryMinutes
	case Preparing:
		minutes = o.prepMinutes + o.deliveryMinutes - 10
		if minutes < o.deliveryMinutes {
			minutes = o.deliveryMinutes
		}
	case Ready, Accepted:
		minutes = o.deliveryMinutes
	case PickedUp, OnTheWay:
		minutes = 15
	default:
		return nil
	}

	eta := now.Add(time.Duration(minutes) * time.Minute)
	return &eta
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setParties(customerID, restaurantID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerID", err)
	}
	if err := restaurantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurantID", err)
	}
	o.customerID = customerID
	o.restaurantID = restaurantID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}

func (o *Order) setAmounts(deliveryFee, tax, discount int64) error {
	if deliveryFee < 0 {
		return errs.NewValueIsInvalidErrorWithCause("deliveryFee",
			fmt.Errorf("%d is negative", deliveryFee))
	}
	if tax < 0 {
		return errs.NewValueIsInvalidErrorWithCause("tax",
			fmt.Errorf("%d is negative", tax))
	}
	if discount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("discount",
			fmt.Errorf("%d is negative", discount))
	}
	o.deliveryFee = deliveryFee
	o.tax = tax
	o.discount = discount
	return nil
}

func (o *Order) setTimes(prepMinutes, deliveryMinutes int) error {
	if prepMinutes <= 0 {
		prepMinutes = 20
	}
	if deliveryMinutes <= 0 {
		deliveryMinutes = 30
	}
	o.prepMinutes = prepMinutes
	o.deliveryMinutes = deliveryMinutes
	return nil
}
