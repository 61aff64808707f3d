package commands_test

import (
	"testing"
	"time"

	"github.com/Devmatrix25/SmartEats/internal/core/application/usecases/commands"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/driver"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/services"
	"github.com/Devmatrix25/SmartEats/internal/core/ports"
	"github.com/Devmatrix25/SmartEats/internal/pkg/lock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type transitionFixture struct {
	orderRepo  *MockOrderRepository
	driverRepo *MockDriverRepository
	uow        *MockUoW
	factory    *MockUoWFactory
	publisher  *recordingPublisher
	offers     *fakeOfferBoard
	gateway    *MockPaymentGateway
	settlement *MockSettlementService
	handler    commands.RequestTransitionCommandHandler
}

func newTransitionFixture() *transitionFixture {
	f := &transitionFixture{
		orderRepo:  new(MockOrderRepository),
		driverRepo: new(MockDriverRepository),
		uow:        new(MockUoW),
		factory:    new(MockUoWFactory),
		publisher:  newRecordingPublisher(),
		offers:     newFakeOfferBoard(),
		gateway:    new(MockPaymentGateway),
		settlement: new(MockSettlementService),
	}
	f.handler = commands.NewRequestTransitionCommandHandler(
		f.factory, f.publisher, f.offers, f.gateway, f.settlement,
		services.NewPoolSelector(0), lock.NewKeyedMutex(), discardLogger(),
	)
	return f
}

func (f *transitionFixture) expectUoW(ctx any, commits bool) {
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("OrderRepository").Return(f.orderRepo).Maybe()
	f.uow.On("DriverRepository").Return(f.driverRepo).Maybe()
	if commits {
		f.uow.On("Commit", ctx).Return(nil).Once()
	}
	f.uow.On("Rollback", ctx).Return(nil).Once()
}

func TestRequestTransitionCommandHandler_Confirm(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := makeOrder(t, order.Pending)

	f.expectUoW(ctx, true)
	f.orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	f.orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()

	cmd, err := commands.NewRequestTransitionCommand(
		o.ID(), o.RestaurantID(), kernel.RoleRestaurant, order.Confirmed, "")
	require.NoError(t, err)

	snap, err := f.handler.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Same(t, o, snap, "the committed snapshot comes back to the caller")
	assert.Equal(t, order.Confirmed, o.Status())

	f.orderRepo.AssertExpectations(t)
	f.uow.AssertExpectations(t)

	// order:update fans out to the feed, the customer, and the restaurant.
	assert.Len(t, f.publisher.toOrder[o.ID().String()], 1)
	assert.Len(t, f.publisher.toUser[o.CustomerID().String()], 1)
	assert.Len(t, f.publisher.toGroup[ports.RestaurantGroup(o.RestaurantID())], 1)
	assert.Equal(t, commands.EventOrderUpdate,
		f.publisher.toOrder[o.ID().String()][0].Event)
}

func TestRequestTransitionCommandHandler_IdempotentRetry(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := makeOrder(t, order.Confirmed)
	historyLen := len(o.History())

	f.expectUoW(ctx, false)
	f.orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once()

	cmd, err := commands.NewRequestTransitionCommand(
		o.ID(), o.RestaurantID(), kernel.RoleRestaurant, order.Confirmed, "")
	require.NoError(t, err)

	snap, err := f.handler.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Same(t, o, snap, "retries still return the current state")

	assert.Equal(t, order.Confirmed, o.Status())
	assert.Len(t, o.History(), historyLen, "no history entry on retry")
	assert.Zero(t, f.publisher.total(), "no event on retry")
	f.orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestRequestTransitionCommandHandler_IllegalSkip(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := makeOrder(t, order.Pending)

	f.expectUoW(ctx, false)
	f.orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once()

	cmd, err := commands.NewRequestTransitionCommand(
		o.ID(), kernel.NewUUID(), kernel.RoleAdmin, order.Delivered, "")
	require.NoError(t, err)

	_, err = f.handler.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrInvalidTransition)

	assert.Equal(t, order.Pending, o.Status())
	assert.Zero(t, f.publisher.total())
}

func TestRequestTransitionCommandHandler_ActorMismatch(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := makeOrder(t, order.Pending)

	f.expectUoW(ctx, false)
	f.orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once()

	// A customer who does not own the order may not cancel it.
	cmd, err := commands.NewRequestTransitionCommand(
		o.ID(), kernel.NewUUID(), kernel.RoleCustomer, order.Cancelled, "")
	require.NoError(t, err)

	_, err = f.handler.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrUnauthorizedTransition)
	assert.Equal(t, order.Pending, o.Status())
}

func TestRequestTransitionCommandHandler_ReadyOpensOffer(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := makeOrder(t, order.Preparing)

	d1 := makeEligibleDriver(t)
	d2 := makeEligibleDriver(t)

	f.expectUoW(ctx, true)
	f.orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	f.orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	f.driverRepo.On("GetAllEligible", ctx).Return([]*driver.Driver{d1, d2}, nil).Once()

	cmd, err := commands.NewRequestTransitionCommand(
		o.ID(), o.RestaurantID(), kernel.RoleRestaurant, order.Ready, "")
	require.NoError(t, err)

	_, err = f.handler.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Len(t, f.offers.open[o.ID().String()], 2, "offer opened for the pool")
	for _, d := range []*driver.Driver{d1, d2} {
		notifications := f.publisher.toUser[d.ID().String()]
		require.Len(t, notifications, 1)
		assert.Equal(t, commands.EventOrderAvailable, notifications[0].Event)

		payload, ok := notifications[0].Payload.(commands.AvailablePayload)
		require.True(t, ok)
		assert.Equal(t, o.OrderNumber(), payload.OrderNumber)
		assert.Equal(t, o.Address().Street(), payload.Address.Street)
		assert.Equal(t, o.DeliveryFee(), payload.DeliveryFee)
		assert.Equal(t, o.DriverEarnings(), payload.Earnings,
			"the offer quotes the driver's cut of the fee")
	}
}

func TestRequestTransitionCommandHandler_ReadyWithoutDrivers(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := makeOrder(t, order.Preparing)

	f.expectUoW(ctx, true)
	f.orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	f.orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	f.driverRepo.On("GetAllEligible", ctx).Return([]*driver.Driver{}, nil).Once()

	cmd, err := commands.NewRequestTransitionCommand(
		o.ID(), o.RestaurantID(), kernel.RoleRestaurant, order.Ready, "")
	require.NoError(t, err)

	// An empty pool is not an error: the rebroadcast sweep retries later.
	_, err = f.handler.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Ready, o.Status())
	assert.Empty(t, f.offers.open)
}

func TestRequestTransitionCommandHandler_CancelRefundsAndWithdraws(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := makeOrder(t, order.Ready)

	loser := kernel.NewUUID()
	f.offers.Open(o.ID(), []kernel.UUID{loser})

	f.expectUoW(ctx, true)
	f.orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	f.orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	f.gateway.On("Refund", ctx, o.ID(), o.FinalAmount()).Return(nil).Once()

	cmd, err := commands.NewRequestTransitionCommand(
		o.ID(), o.CustomerID(), kernel.RoleCustomer, order.Cancelled, "changed my mind")
	require.NoError(t, err)

	_, err = f.handler.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, order.Cancelled, o.Status())
	f.gateway.AssertExpectations(t)
	assert.Empty(t, f.offers.open, "open offer withdrawn")

	notifications := f.publisher.toUser[loser.String()]
	require.Len(t, notifications, 1)
	assert.Equal(t, commands.EventOrderWithdrawn, notifications[0].Event)
}

func TestRequestTransitionCommandHandler_RefundFailureDoesNotFail(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := makeOrder(t, order.Pending)

	f.expectUoW(ctx, true)
	f.orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	f.orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	f.gateway.On("Refund", ctx, o.ID(), o.FinalAmount()).
		Return(assert.AnError).Once()

	cmd, err := commands.NewRequestTransitionCommand(
		o.ID(), o.RestaurantID(), kernel.RoleRestaurant, order.Rejected, "out of stock")
	require.NoError(t, err)

	_, err = f.handler.Handle(ctx, cmd)
	require.NoError(t, err, "rejection is durable even if the refund errors")
	assert.Equal(t, order.Rejected, o.Status())
}

func TestRequestTransitionCommandHandler_DeliveredSettlesAndFreesDriver(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()
	o := makeOrder(t, order.OnTheWay)
	require.NotNil(t, o.DriverID())
	driverID := *o.DriverID()

	d := makeEligibleDriver(t)
	require.NoError(t, d.BeginDelivery(o.ID()))

	f.expectUoW(ctx, true)
	f.orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	f.orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	f.driverRepo.On("Get", ctx, driverID).Return(d, nil).Once()
	f.driverRepo.On("Update", ctx, d).Return(nil).Once()
	f.settlement.On("CreditDriver", ctx, driverID, o.ID(), o.DriverEarnings()).
		Return(nil).Once()

	cmd, err := commands.NewRequestTransitionCommand(
		o.ID(), driverID, kernel.RoleDriver, order.Delivered, "")
	require.NoError(t, err)

	_, err = f.handler.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, order.Delivered, o.Status())
	assert.Nil(t, d.CurrentOrder(), "driver freed for the next order")
	f.settlement.AssertExpectations(t)
	f.driverRepo.AssertExpectations(t)
}

func TestRequestTransitionCommandHandler_CancelFreesAssignedDriver(t *testing.T) {
	ctx := t.Context()
	f := newTransitionFixture()

	d := makeEligibleDriver(t)
	o := makeOrder(t, order.Ready)
	require.NoError(t, o.AssignDriver(d.ID(), time.Now()))
	require.NoError(t, d.BeginDelivery(o.ID()))

	f.expectUoW(ctx, true)
	f.orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	f.orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	f.driverRepo.On("Get", ctx, d.ID()).Return(d, nil).Once()
	f.driverRepo.On("Update", ctx, d).Return(nil).Once()
	f.gateway.On("Refund", ctx, o.ID(), o.FinalAmount()).Return(nil).Once()

	cmd, err := commands.NewRequestTransitionCommand(
		o.ID(), o.CustomerID(), kernel.RoleCustomer, order.Cancelled, "")
	require.NoError(t, err)

	_, err = f.handler.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, order.Cancelled, o.Status())
	assert.Nil(t, d.CurrentOrder(), "cancellation unbinds the driver")
	assert.True(t, d.IsEligible(), "driver is back in the offer pool")
	require.NoError(t, d.GoOffline(), "a freed driver may end their shift")
	f.driverRepo.AssertExpectations(t)
}
