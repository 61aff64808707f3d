package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/services"
	"github.com/Devmatrix25/SmartEats/internal/core/ports"
)

// RebroadcastOffersCommandHandler periodically re-offers orders that are
// ready but still unassigned, so orders placed while no driver was online
// are not stranded. Pools are recomputed each round: drivers that came
// online since the last round are included, drivers that left are not.
type RebroadcastOffersCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	offers     ports.OfferBoard
	selector   services.PoolSelector
	log        *slog.Logger
}

// NewRebroadcastOffersCommandHandler creates a handler for rebroadcast
// sweeps.
func NewRebroadcastOffersCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	offers ports.OfferBoard,
	selector services.PoolSelector,
	log *slog.Logger,
) RebroadcastOffersCommandHandler {
	return RebroadcastOffersCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		offers:     offers,
		selector:   selector,
		log:        log,
	}
}

// Handle runs one sweep over the awaiting orders.
func (h RebroadcastOffersCommandHandler) Handle(ctx context.Context, cmd RebroadcastOffersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	awaiting, err := uow.OrderRepository().GetAllAwaitingDriver(ctx)
	if err != nil {
		return err
	}
	if len(awaiting) == 0 {
		return nil
	}

	drivers, err := uow.DriverRepository().GetAllEligible(ctx)
	if err != nil {
		return err
	}

	for _, o := range awaiting {
		pool, err := h.selector.SelectPool(o, drivers)
		if errors.Is(err, services.ErrEmptyPool) {
			continue
		}
		if err != nil {
			return err
		}

		ids := make([]kernel.UUID, len(pool))
		for i, d := range pool {
			ids[i] = d.ID()
		}
		h.offers.Open(o.ID(), ids)

		available := availableNotification(o)
		for _, id := range ids {
			h.publisher.PublishToUser(id, available)
		}

		h.log.Debug("re-offered awaiting order",
			"orderNumber", o.OrderNumber(), "poolSize", len(ids))
	}

	return nil
}
