package ports

import (
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
)

// Group names for broadcast addressing. A session joins a group when the
// actor connects (drivers) or authenticates as staff of a restaurant.
const (
	// DriversGroup receives assignment offers and withdrawals.
	DriversGroup = "drivers"
)

// RestaurantGroup returns the group name for a restaurant's staff sessions.
func RestaurantGroup(restaurantID kernel.UUID) string {
	return "restaurant:" + restaurantID.String()
}

// OrderFeedGroup returns the group name for an order's live tracking feed.
// Sessions join it with a watch subscription.
func OrderFeedGroup(orderID kernel.UUID) string {
	return "order:" + orderID.String()
}

// Notification is one event envelope pushed to connected sessions. Event is
// the wire name ("order:update", "order:available", ...), Payload the
// JSON-serializable body.
type Notification struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// EventPublisher delivers notifications to connected actors. Delivery is
// fire-and-forget: publishing never blocks the caller and never fails a
// command, a slow or absent recipient is skipped. State changes are durable
// before anything is published.
type EventPublisher interface {
	// PublishToUser sends to every session of one user.
	PublishToUser(userID kernel.UUID, n Notification)

	// PublishToGroup sends to every session in the group.
	PublishToGroup(group string, n Notification)

	// PublishToGroupExcept sends to the group, skipping one user's sessions.
	PublishToGroupExcept(group string, exceptUserID kernel.UUID, n Notification)

	// PublishToOrder sends to every session subscribed to the order's feed.
	PublishToOrder(orderID kernel.UUID, n Notification)
}

// OfferBoard tracks which drivers hold an open offer for each order, so the
// losers can be told the offer is withdrawn once somebody wins.
type OfferBoard interface {
	// Open records the pool that received an offer for the order, replacing
	// any previous pool.
	Open(orderID kernel.UUID, driverIDs []kernel.UUID)

	// Close removes the order's offer and returns the drivers that held it.
	Close(orderID kernel.UUID) []kernel.UUID
}
