package ports

import (
	"context"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
)

// PaymentGateway refunds charged orders. Refunds are best-effort: a gateway
// failure is logged and retried out of band, it never blocks or reverts the
// cancellation itself.
type PaymentGateway interface {
	// Refund returns the charged amount (cents) for the order to the
	// customer.
	Refund(ctx context.Context, orderID kernel.UUID, amountCents int64) error
}

// SettlementService credits the driver their share of the delivery fee once
// an order is delivered.
type SettlementService interface {
	// CreditDriver records the driver's earnings (cents) for the order.
	CreditDriver(ctx context.Context, driverID kernel.UUID, orderID kernel.UUID, amountCents int64) error
}
