// Package queries contains read-only operations in the CQRS architecture.
// Query handlers read the store directly and return flat response models;
// they never load aggregates or publish events.
package queries

import (
	"errors"
	"time"

	"github.com/Devmatrix25/SmartEats/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
	ErrOrderNumberIsRequired = errors.New("order number is required")
)

// GetOrderQuery retrieves one order by its public order number, the
// identifier customers see on receipts and use for tracking.
type GetOrderQuery struct {
	orderNumber string

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a tracking lookup for the given order number.
func NewGetOrderQuery(orderNumber string) (GetOrderQuery, error) {
	if orderNumber == "" {
		return GetOrderQuery{}, ErrOrderNumberIsRequired
	}

	return GetOrderQuery{
		orderNumber: orderNumber,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderNumber returns the requested order number.
func (q GetOrderQuery) OrderNumber() string { return q.orderNumber }

// ItemResponse is one order line in a query response.
type ItemResponse struct {
	Name         string `json:"name"`
	UnitPrice    int64  `json:"unitPrice"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions,omitempty"`
}

// HistoryEntryResponse is one audit trail entry in a query response.
type HistoryEntryResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// AddressResponse is the delivery address in a query response.
type AddressResponse struct {
	Street  string  `json:"street"`
	City    string  `json:"city"`
	ZipCode string  `json:"zipCode"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
}

// RatingResponse is a submitted rating in a query response.
type RatingResponse struct {
	Value   int    `json:"value"`
	Comment string `json:"comment,omitempty"`
}

// GetOrderQueryResponse is the full order view returned to tracking clients.
type GetOrderQueryResponse struct {
	ID               string                 `json:"id"`
	OrderNumber      string                 `json:"orderNumber"`
	CustomerID       string                 `json:"customerId"`
	RestaurantID     string                 `json:"restaurantId"`
	DriverID         *string                `json:"driverId,omitempty"`
	Status           string                 `json:"status"`
	Items            []ItemResponse         `json:"items"`
	Address          AddressResponse        `json:"address"`
	Subtotal         int64                  `json:"subtotal"`
	DeliveryFee      int64                  `json:"deliveryFee"`
	Tax              int64                  `json:"tax"`
	Discount         int64                  `json:"discount"`
	FinalAmount      int64                  `json:"finalAmount"`
	History          []HistoryEntryResponse `json:"history"`
	RestaurantRating *RatingResponse        `json:"restaurantRating,omitempty"`
	DriverRating     *RatingResponse        `json:"driverRating,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
}
