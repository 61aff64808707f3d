package commands

import (
	"context"
	"fmt"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"
)

// RateOrderCommandHandler records customer feedback. Only the customer who
// placed the order may rate it, and only once it is delivered.
type RateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewRateOrderCommandHandler creates a handler for rating submissions.
func NewRateOrderCommandHandler(uowFactory OrderUoWFactory) RateOrderCommandHandler {
	return RateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes one rating submission.
func (h RateOrderCommandHandler) Handle(ctx context.Context, cmd RateOrderCommand) error {
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

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if !cmd.CustomerID().IsEqual(o.CustomerID()) {
		return fmt.Errorf("%w: customer %s does not own order %s",
			order.ErrUnauthorizedTransition, cmd.CustomerID(), o.ID())
	}

	if err = o.Rate(cmd.RestaurantRating(), cmd.DriverRating()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
