package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/driver"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/services"
	"github.com/Devmatrix25/SmartEats/internal/core/ports"
	"github.com/Devmatrix25/SmartEats/internal/pkg/lock"
)

// RequestTransitionCommandHandler moves an order through its lifecycle.
//
// Transitions on one order are serialized through a per-order mutex, so the
// read-decide-write sequence never interleaves for the same order.
// Re-requesting the order's current status is an idempotent no-op: no
// history entry, no event, success.
//
// Side effects after commit:
//   - every change pushes order:update to the customer, the restaurant's
//     staff, and the order's live feed;
//   - entering ready opens an offer to the eligible driver pool
//     (order:available);
//   - cancelled and rejected withdraw any open offer and trigger a
//     best-effort refund; cancelling an assigned order also frees the
//     driver for new offers;
//   - delivered frees the driver and credits their share of the fee.
//
// Refund and settlement failures are logged, never surfaced: the status
// change is already durable and stands on its own.
type RequestTransitionCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	offers     ports.OfferBoard
	gateway    ports.PaymentGateway
	settlement ports.SettlementService
	selector   services.PoolSelector
	locks      *lock.KeyedMutex
	log        *slog.Logger
}

// NewRequestTransitionCommandHandler creates a handler for transition
// requests.
func NewRequestTransitionCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	offers ports.OfferBoard,
	gateway ports.PaymentGateway,
	settlement ports.SettlementService,
	selector services.PoolSelector,
	locks *lock.KeyedMutex,
	log *slog.Logger,
) RequestTransitionCommandHandler {
	return RequestTransitionCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		offers:     offers,
		gateway:    gateway,
		settlement: settlement,
		selector:   selector,
		locks:      locks,
		log:        log,
	}
}

// Handle processes one transition request and returns the committed order
// snapshot as the authoritative state.
func (h RequestTransitionCommandHandler) Handle(
	ctx context.Context,
	cmd RequestTransitionCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	key := cmd.OrderID().String()
	h.locks.Lock(key)
	defer h.locks.Unlock(key)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	driverRepo := uow.DriverRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = checkActorOwnsOrder(o, cmd.ActorID(), cmd.Role()); err != nil {
		return nil, err
	}

	// Idempotent retry: the requested status is already current.
	if o.Status() == cmd.Target() {
		return o, nil
	}

	now := time.Now()
	if err = o.ApplyTransition(cmd.Role(), cmd.Target(), cmd.Note(), now); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	var offerPool []*driver.Driver
	if cmd.Target() == order.Ready {
		offerPool, err = h.selectOfferPool(ctx, driverRepo, o)
		if err != nil {
			return nil, err
		}
	}

	// Delivery completion and cancellation both unbind the driver; rejection
	// can only happen before assignment.
	if cmd.Target() == order.Delivered || cmd.Target() == order.Cancelled {
		if err = h.releaseDriver(ctx, driverRepo, o); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publishAfterCommit(ctx, o, cmd.Note(), offerPool, now)
	return o, nil
}

// checkActorOwnsOrder verifies the actor is a party to the order. Admins act
// on any order.
func checkActorOwnsOrder(o *order.Order, actorID kernel.UUID, role kernel.Role) error {
	switch role {
	case kernel.RoleCustomer:
		if !actorID.IsEqual(o.CustomerID()) {
			return fmt.Errorf("%w: customer %s does not own order %s",
				order.ErrUnauthorizedTransition, actorID, o.ID())
		}
	case kernel.RoleRestaurant:
		if !actorID.IsEqual(o.RestaurantID()) {
			return fmt.Errorf("%w: restaurant %s does not own order %s",
				order.ErrUnauthorizedTransition, actorID, o.ID())
		}
	case kernel.RoleDriver:
		if o.DriverID() == nil || !actorID.IsEqual(*o.DriverID()) {
			return fmt.Errorf("%w: driver %s is not assigned to order %s",
				order.ErrUnauthorizedTransition, actorID, o.ID())
		}
	}
	return nil
}

func (h RequestTransitionCommandHandler) selectOfferPool(
	ctx context.Context,
	driverRepo ports.DriverRepository,
	o *order.Order,
) ([]*driver.Driver, error) {
	drivers, err := driverRepo.GetAllEligible(ctx)
	if err != nil {
		return nil, err
	}

	pool, err := h.selector.SelectPool(o, drivers)
	if errors.Is(err, services.ErrEmptyPool) {
		h.log.Warn("no eligible drivers for ready order",
			"orderNumber", o.OrderNumber())
		return nil, nil
	}
	return pool, err
}

func (h RequestTransitionCommandHandler) releaseDriver(
	ctx context.Context,
	driverRepo ports.DriverRepository,
	o *order.Order,
) error {
	if o.DriverID() == nil {
		return nil
	}

	d, err := driverRepo.Get(ctx, *o.DriverID())
	if err != nil {
		return err
	}
	if err = d.CompleteDelivery(o.ID()); err != nil {
		return err
	}
	return driverRepo.Update(ctx, d)
}

func (h RequestTransitionCommandHandler) publishAfterCommit(
	ctx context.Context,
	o *order.Order,
	note string,
	offerPool []*driver.Driver,
	now time.Time,
) {
	n := orderNotification(EventOrderUpdate, o, note, now)
	h.publisher.PublishToOrder(o.ID(), n)
	h.publisher.PublishToUser(o.CustomerID(), n)
	h.publisher.PublishToGroup(ports.RestaurantGroup(o.RestaurantID()), n)

	switch o.Status() {
	case order.Ready:
		h.openOffer(o, offerPool)
	case order.Cancelled, order.Rejected:
		h.withdrawOffer(o)
		h.refund(ctx, o)
	case order.Delivered:
		h.settle(ctx, o)
	}
}

func (h RequestTransitionCommandHandler) openOffer(o *order.Order, pool []*driver.Driver) {
	if len(pool) == 0 {
		return
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
}

func (h RequestTransitionCommandHandler) withdrawOffer(o *order.Order) {
	withdrawn := ports.Notification{
		Event:   EventOrderWithdrawn,
		Payload: WithdrawnPayload{OrderID: o.ID().String()},
	}
	for _, driverID := range h.offers.Close(o.ID()) {
		h.publisher.PublishToUser(driverID, withdrawn)
	}
}

func (h RequestTransitionCommandHandler) refund(ctx context.Context, o *order.Order) {
	if err := h.gateway.Refund(ctx, o.ID(), o.FinalAmount()); err != nil {
		h.log.Error("refund failed",
			"orderNumber", o.OrderNumber(), "error", err)
	}
}

func (h RequestTransitionCommandHandler) settle(ctx context.Context, o *order.Order) {
	if o.DriverID() == nil {
		return
	}
	if err := h.settlement.CreditDriver(ctx, *o.DriverID(), o.ID(), o.DriverEarnings()); err != nil {
		h.log.Error("driver settlement failed",
			"orderNumber", o.OrderNumber(), "error", err)
	}
}
