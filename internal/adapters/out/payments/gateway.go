// Package payments holds the outbound payment adapters. The current
// implementations only record refunds and driver credits in the log; the real
// processor integration lives behind the same ports and can replace them
// without touching the core.
package payments

import (
	"context"
	"log/slog"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
)

// LogPaymentGateway implements ports.PaymentGateway by logging each refund.
type LogPaymentGateway struct {
	log *slog.Logger
}

// NewLogPaymentGateway creates a logging payment gateway.
func NewLogPaymentGateway(log *slog.Logger) *LogPaymentGateway {
	return &LogPaymentGateway{log: log}
}

// Refund records the refund request.
func (g *LogPaymentGateway) Refund(_ context.Context, orderID kernel.UUID, amountCents int64) error {
	g.log.Info("refund requested",
		"order", orderID, "amountCents", amountCents)
	return nil
}

// LogSettlementService implements ports.SettlementService by logging each
// driver credit.
type LogSettlementService struct {
	log *slog.Logger
}

// NewLogSettlementService creates a logging settlement service.
func NewLogSettlementService(log *slog.Logger) *LogSettlementService {
	return &LogSettlementService{log: log}
}

// CreditDriver records the driver's earnings for the order.
func (s *LogSettlementService) CreditDriver(_ context.Context, driverID kernel.UUID, orderID kernel.UUID, amountCents int64) error {
	s.log.Info("driver credited",
		"driver", driverID, "order", orderID, "amountCents", amountCents)
	return nil
}
