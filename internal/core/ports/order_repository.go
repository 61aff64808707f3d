// Package ports defines the contracts between the application core and
// infrastructure: repositories, the unit of work, event publishing, and
// payment settlement. These interfaces enable dependency inversion and
// testability.
package ports

import (
	"context"
	"errors"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"
)

// ErrAssignmentConflict is returned by AssignDriver when another driver won
// the order between the offer and the accept. It is an expected outcome of
// the race, not a failure.
var ErrAssignmentConflict = errors.New("order already assigned to another driver")

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order by its public order number.
	GetByNumber(ctx context.Context, orderNumber string) (*order.Order, error)

	// GetAllAwaitingDriver retrieves ready orders with no driver bound.
	// These are the orders the offer board rebroadcasts.
	GetAllAwaitingDriver(ctx context.Context) ([]*order.Order, error)

	// AssignDriver binds the driver to the order with a single conditional
	// write: it succeeds only while the order is still ready and unassigned,
	// and returns ErrAssignmentConflict otherwise. At most one concurrent
	// caller can succeed per order.
	AssignDriver(ctx context.Context, orderID kernel.UUID, driverID kernel.UUID) (*order.Order, error)
}
