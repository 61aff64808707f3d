package commands_test

import (
	"context"

	"github.com/Devmatrix25/SmartEats/internal/core/application/usecases/commands"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/driver"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"
	"github.com/Devmatrix25/SmartEats/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllAwaitingDriver(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) AssignDriver(
	ctx context.Context, orderID kernel.UUID, driverID kernel.UUID,
) (*order.Order, error) {
	args := m.Called(ctx, orderID, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetAllEligible(ctx context.Context) ([]*driver.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockDriverUoWFactory struct{ mock.Mock }

func (m *MockDriverUoWFactory) Create() commands.DriverUoW {
	args := m.Called()
	return args.Get(0).(commands.DriverUoW)
}

// recordingPublisher captures pushed notifications per destination so tests
// can assert exact addressing without ordering constraints.
type recordingPublisher struct {
	toUser  map[string][]ports.Notification
	toGroup map[string][]ports.Notification
	toOrder map[string][]ports.Notification
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{
		toUser:  map[string][]ports.Notification{},
		toGroup: map[string][]ports.Notification{},
		toOrder: map[string][]ports.Notification{},
	}
}

func (p *recordingPublisher) PublishToUser(userID kernel.UUID, n ports.Notification) {
	p.toUser[userID.String()] = append(p.toUser[userID.String()], n)
}

func (p *recordingPublisher) PublishToGroup(group string, n ports.Notification) {
	p.toGroup[group] = append(p.toGroup[group], n)
}

func (p *recordingPublisher) PublishToGroupExcept(group string, exceptUserID kernel.UUID, n ports.Notification) {
	p.toGroup[group+"!"+exceptUserID.String()] = append(p.toGroup[group+"!"+exceptUserID.String()], n)
}

func (p *recordingPublisher) PublishToOrder(orderID kernel.UUID, n ports.Notification) {
	p.toOrder[orderID.String()] = append(p.toOrder[orderID.String()], n)
}

func (p *recordingPublisher) total() int {
	n := 0
	for _, v := range p.toUser {
		n += len(v)
	}
	for _, v := range p.toGroup {
		n += len(v)
	}
	for _, v := range p.toOrder {
		n += len(v)
	}
	return n
}

// fakeOfferBoard is a map-backed board for handler tests.
type fakeOfferBoard struct {
	open map[string][]kernel.UUID
}

func newFakeOfferBoard() *fakeOfferBoard {
	return &fakeOfferBoard{open: map[string][]kernel.UUID{}}
}

func (b *fakeOfferBoard) Open(orderID kernel.UUID, driverIDs []kernel.UUID) {
	b.open[orderID.String()] = driverIDs
}

func (b *fakeOfferBoard) Close(orderID kernel.UUID) []kernel.UUID {
	ids := b.open[orderID.String()]
	delete(b.open, orderID.String())
	return ids
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Refund(ctx context.Context, orderID kernel.UUID, amountCents int64) error {
	args := m.Called(ctx, orderID, amountCents)
	return args.Error(0)
}

type MockSettlementService struct{ mock.Mock }

func (m *MockSettlementService) CreditDriver(
	ctx context.Context, driverID kernel.UUID, orderID kernel.UUID, amountCents int64,
) error {
	args := m.Called(ctx, driverID, orderID, amountCents)
	return args.Error(0)
}
