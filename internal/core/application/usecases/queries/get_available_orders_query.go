package queries

import (
	"errors"
	"time"

	"github.com/Devmatrix25/SmartEats/internal/pkg/guard"
)

var ErrGetAvailableOrdersQueryIsNotConstructed = errors.New(
	"GetAvailableOrdersQuery must be created via NewGetAvailableOrdersQuery constructor",
)

// GetAvailableOrdersQuery lists the orders a driver can currently pick up:
// ready for pickup with no driver bound yet. Drivers poll this on top of the
// live order:available pushes, since an offer may arrive while their socket
// is down.
type GetAvailableOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAvailableOrdersQuery creates a query for the open offer list.
func NewGetAvailableOrdersQuery() GetAvailableOrdersQuery {
	return GetAvailableOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableOrdersQueryIsNotConstructed)
}

// AvailableOrderResponse is one pickable order in the driver's list. The
// earnings field is the driver's cut of the delivery fee.
type AvailableOrderResponse struct {
	ID           string          `json:"id"`
	OrderNumber  string          `json:"orderNumber"`
	RestaurantID string          `json:"restaurantId"`
	Address      AddressResponse `json:"address"`
	DeliveryFee  int64           `json:"deliveryFee"`
	Earnings     int64           `json:"earnings"`
	ReadySince   time.Time       `json:"readySince"`
}
