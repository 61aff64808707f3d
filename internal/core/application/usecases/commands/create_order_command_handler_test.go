package commands_test

import (
	"testing"

	"github.com/Devmatrix25/SmartEats/internal/core/application/usecases/commands"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"
	"github.com/Devmatrix25/SmartEats/internal/core/ports"
	"github.com/Devmatrix25/SmartEats/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validCreateOrderCommand(t *testing.T) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]commands.ItemInput{
			{Name: "Ramen", UnitPrice: 1400, Quantity: 1},
			{Name: "Gyoza", UnitPrice: 600, Quantity: 2, Instructions: "extra sauce"},
		},
		commands.AddressInput{
			Street: "3 Station Rd", City: "Leeds", ZipCode: "LS1 4DY",
			Lat: 53.79, Lng: -1.54,
		},
		commands.PricingInput{DeliveryFee: 350, Tax: 130, PrepMinutes: 25, DeliveryMinutes: 30},
		"pay_3JQ8xT",
	)
	require.NoError(t, err)
	return cmd
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := validCreateOrderCommand(t)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)
	publisher := newRecordingPublisher()

	var created *order.Order
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*order.Order)
			}).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewCreateOrderCommandHandler(factory, publisher)
	require.NoError(t, handler.Handle(ctx, cmd))

	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)

	require.NotNil(t, created)
	assert.Equal(t, order.Pending, created.Status())
	assert.Equal(t, int64(1400+2*600), created.Subtotal())
	assert.Equal(t, created.Subtotal()+350+130, created.FinalAmount())

	restaurantGroup := ports.RestaurantGroup(cmd.RestaurantID())
	require.Len(t, publisher.toGroup[restaurantGroup], 1)
	assert.Equal(t, commands.EventOrderNew, publisher.toGroup[restaurantGroup][0].Event)
	require.Len(t, publisher.toUser[cmd.CustomerID().String()], 1)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	factory := new(MockOrderUoWFactory)
	handler := commands.NewCreateOrderCommandHandler(factory, newRecordingPublisher())

	err := handler.Handle(ctx, commands.CreateOrderCommand{})
	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_BadItem(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]commands.ItemInput{{Name: "Ramen", UnitPrice: 1400, Quantity: 0}},
		commands.AddressInput{Street: "3 Station Rd", City: "Leeds", ZipCode: "LS1 4DY"},
		commands.PricingInput{},
		"pay_3JQ8xT",
	)
	require.NoError(t, err)

	factory := new(MockOrderUoWFactory)
	handler := commands.NewCreateOrderCommandHandler(factory, newRecordingPublisher())

	err = handler.Handle(ctx, cmd)
	require.Error(t, err)
	factory.AssertNotCalled(t, "Create", "nothing is persisted for invalid lines")
}

func TestNewCreateOrderCommand_RequiresItems(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		nil,
		commands.AddressInput{Street: "3 Station Rd", City: "Leeds", ZipCode: "LS1 4DY"},
		commands.PricingInput{},
		"pay_3JQ8xT",
	)
	require.ErrorIs(t, err, commands.ErrItemsAreRequired)
}

func TestNewCreateOrderCommand_RequiresPaymentRef(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]commands.ItemInput{{Name: "Ramen", UnitPrice: 1400, Quantity: 1}},
		commands.AddressInput{Street: "3 Station Rd", City: "Leeds", ZipCode: "LS1 4DY"},
		commands.PricingInput{},
		"",
	)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
