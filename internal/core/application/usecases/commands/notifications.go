package commands

import (
	"time"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"
	"github.com/Devmatrix25/SmartEats/internal/core/ports"
)

// Event names pushed to connected sessions.
const (
	EventOrderNew       = "order:new"
	EventOrderUpdate    = "order:update"
	EventOrderAvailable = "order:available"
	EventOrderAssigned  = "order:assigned"
	EventOrderWithdrawn = "order:withdrawn"
)

// OrderPayload is the order snapshot carried by order events.
type OrderPayload struct {
	OrderID           string     `json:"orderId"`
	OrderNumber       string     `json:"orderNumber"`
	Status            string     `json:"status"`
	CustomerID        string     `json:"customerId"`
	RestaurantID      string     `json:"restaurantId"`
	DriverID          *string    `json:"driverId,omitempty"`
	Subtotal          int64      `json:"subtotal"`
	DeliveryFee       int64      `json:"deliveryFee"`
	FinalAmount       int64      `json:"finalAmount"`
	Note              string     `json:"note,omitempty"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
}

// WithdrawnPayload tells a driver an offer is gone.
type WithdrawnPayload struct {
	OrderID string `json:"orderId"`
}

// AddressPayload is a delivery address as carried by events.
type AddressPayload struct {
	Street  string  `json:"street"`
	City    string  `json:"city"`
	ZipCode string  `json:"zipCode"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// AvailablePayload is the offer pushed to each eligible driver when an order
// needs one: which restaurant to pick up from, where to deliver, and what the
// job pays.
type AvailablePayload struct {
	OrderID      string         `json:"orderId"`
	OrderNumber  string         `json:"orderNumber"`
	RestaurantID string         `json:"restaurantId"`
	Address      AddressPayload `json:"address"`
	DeliveryFee  int64          `json:"deliveryFee"`
	Earnings     int64          `json:"earnings"`
}

func orderPayload(o *order.Order, note string, now time.Time) OrderPayload {
	p := OrderPayload{
		OrderID:           o.ID().String(),
		OrderNumber:       o.OrderNumber(),
		Status:            o.Status().String(),
		CustomerID:        o.CustomerID().String(),
		RestaurantID:      o.RestaurantID().String(),
		Subtotal:          o.Subtotal(),
		DeliveryFee:       o.DeliveryFee(),
		FinalAmount:       o.FinalAmount(),
		Note:              note,
		EstimatedDelivery: o.EstimatedDelivery(now),
	}
	if o.DriverID() != nil {
		s := o.DriverID().String()
		p.DriverID = &s
	}
	return p
}

func orderNotification(event string, o *order.Order, note string, now time.Time) ports.Notification {
	return ports.Notification{Event: event, Payload: orderPayload(o, note, now)}
}

func availableNotification(o *order.Order) ports.Notification {
	addr := o.Address()
	return ports.Notification{
		Event: EventOrderAvailable,
		Payload: AvailablePayload{
			OrderID:      o.ID().String(),
			OrderNumber:  o.OrderNumber(),
			RestaurantID: o.RestaurantID().String(),
			Address: AddressPayload{
				Street:  addr.Street(),
				City:    addr.City(),
				ZipCode: addr.ZipCode(),
				Lat:     addr.Coords().Lat,
				Lng:     addr.Coords().Lng,
			},
			DeliveryFee: o.DeliveryFee(),
			Earnings:    o.DriverEarnings(),
		},
	}
}
