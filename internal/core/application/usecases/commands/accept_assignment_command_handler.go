package commands

import (
	"context"
	"errors"
	"time"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"
	"github.com/Devmatrix25/SmartEats/internal/core/ports"
	"github.com/Devmatrix25/SmartEats/internal/pkg/lock"
)

// AcceptAssignmentCommandHandler decides the driver race for a ready order.
//
// The winner is picked by the store's conditional write: the order row is
// claimed only while still ready and unassigned, so concurrent acceptances
// produce exactly one winner regardless of process count. Losers get
// ports.ErrAssignmentConflict and an order:withdrawn push.
type AcceptAssignmentCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	offers     ports.OfferBoard
	locks      *lock.KeyedMutex
}

// NewAcceptAssignmentCommandHandler creates a handler for offer acceptances.
func NewAcceptAssignmentCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	offers ports.OfferBoard,
	locks *lock.KeyedMutex,
) AcceptAssignmentCommandHandler {
	return AcceptAssignmentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		offers:     offers,
		locks:      locks,
	}
}

// Handle processes one acceptance and returns the committed order snapshot.
// On success the driver is bound to the order, the order moves to accepted,
// and every other driver holding the offer is told it is withdrawn. A retry
// of an accept this driver already won is a no-op success.
func (h AcceptAssignmentCommandHandler) Handle(
	ctx context.Context,
	cmd AcceptAssignmentCommand,
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

	driverRepo := uow.DriverRepository()

	d, err := driverRepo.Get(ctx, cmd.DriverID())
	if err != nil {
		return nil, err
	}

	// The conditional write arbitrates the race. Everything before it is
	// only a cheap pre-check; everything after runs for the winner alone.
	o, err := uow.OrderRepository().AssignDriver(ctx, cmd.OrderID(), cmd.DriverID())
	if errors.Is(err, ports.ErrAssignmentConflict) {
		return h.resolveConflict(ctx, uow, cmd)
	}
	if err != nil {
		return nil, err
	}

	if err = d.BeginDelivery(o.ID()); err != nil {
		return nil, err
	}
	if err = driverRepo.Update(ctx, d); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	assigned := orderNotification(EventOrderAssigned, o, "", now)
	h.publisher.PublishToUser(o.CustomerID(), assigned)
	h.publisher.PublishToGroup(ports.RestaurantGroup(o.RestaurantID()), assigned)
	h.publisher.PublishToOrder(o.ID(), assigned)
	h.publisher.PublishToUser(cmd.DriverID(), assigned)

	withdrawn := ports.Notification{
		Event:   EventOrderWithdrawn,
		Payload: WithdrawnPayload{OrderID: o.ID().String()},
	}
	for _, loser := range h.offers.Close(o.ID()) {
		if loser.IsEqual(cmd.DriverID()) {
			continue
		}
		h.publisher.PublishToUser(loser, withdrawn)
	}

	return o, nil
}

// resolveConflict distinguishes a lost race from the winner retrying its own
// accept. Only the latter is a success: the order is already bound to this
// driver, so the accept is idempotent and returns the current snapshot.
func (h AcceptAssignmentCommandHandler) resolveConflict(
	ctx context.Context,
	uow UoW,
	cmd AcceptAssignmentCommand,
) (*order.Order, error) {
	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err == nil && o.DriverID() != nil && o.DriverID().IsEqual(cmd.DriverID()) {
		return o, nil
	}
	return nil, ports.ErrAssignmentConflict
}
