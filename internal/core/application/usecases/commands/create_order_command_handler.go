package commands

import (
	"context"
	"time"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"
	"github.com/Devmatrix25/SmartEats/internal/core/ports"
)

// CreateOrderCommandHandler handles order placement. A new order starts in
// pending status; the restaurant is notified immediately, the customer gets
// a confirmation with the estimated delivery time.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewCreateOrderCommandHandler creates a handler for order placement.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle persists the new order and, once committed, pushes order:new to the
// restaurant's staff sessions and to the customer.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	items, err := cmd.toDomainItems()
	if err != nil {
		return err
	}

	address, err := kernel.NewAddress(
		cmd.Address().Street,
		cmd.Address().City,
		cmd.Address().ZipCode,
		kernel.Coordinates{Lat: cmd.Address().Lat, Lng: cmd.Address().Lng},
	)
	if err != nil {
		return err
	}

	now := time.Now()
	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		cmd.CustomerID(),
		cmd.RestaurantID(),
		items,
		address,
		cmd.Pricing().DeliveryFee,
		cmd.Pricing().Tax,
		cmd.Pricing().Discount,
		cmd.Pricing().PrepMinutes,
		cmd.Pricing().DeliveryMinutes,
		now,
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	n := orderNotification(EventOrderNew, newOrder, "", now)
	h.publisher.PublishToGroup(ports.RestaurantGroup(newOrder.RestaurantID()), n)
	h.publisher.PublishToUser(newOrder.CustomerID(), n)

	return nil
}
