package cmd

import (
	"log/slog"

	httpserver "github.com/Devmatrix25/SmartEats/internal/adapters/in/http"
	"github.com/Devmatrix25/SmartEats/internal/adapters/in/ws"
	"github.com/Devmatrix25/SmartEats/internal/adapters/out/payments"
	"github.com/Devmatrix25/SmartEats/internal/adapters/out/postgres"
	"github.com/Devmatrix25/SmartEats/internal/core/application/usecases/commands"
	"github.com/Devmatrix25/SmartEats/internal/core/application/usecases/queries"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/services"
	"github.com/Devmatrix25/SmartEats/internal/jobs"
	"github.com/Devmatrix25/SmartEats/internal/pkg/lock"
	"github.com/Devmatrix25/SmartEats/internal/realtime"

	"gorm.io/gorm"
)

// CompositionRoot wires every adapter and handler. The realtime registry,
// offer board, and keyed mutex are process-wide singletons; unit of work
// instances are created per command.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	registry *realtime.Registry
	bus      *realtime.Bus
	offers   *realtime.Offers
	locks    *lock.KeyedMutex
	selector services.PoolSelector

	gateway    *payments.LogPaymentGateway
	settlement *payments.LogSettlementService
}

// NewCompositionRoot builds the object graph for one process.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	registry := realtime.NewRegistry()
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		registry:   registry,
		bus:        realtime.NewBus(registry, logger),
		offers:     realtime.NewOffers(),
		locks:      lock.NewKeyedMutex(),
		selector:   services.NewPoolSelector(cfg.MaxOfferRadiusKm),
		gateway:    payments.NewLogPaymentGateway(logger),
		settlement: payments.NewLogSettlementService(logger),
	}
}

// Registry exposes the live session registry for the websocket gateway.
func (c *CompositionRoot) Registry() *realtime.Registry {
	return c.registry
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.bus)
}

func (c *CompositionRoot) CreateRequestTransitionCommandHandler() commands.RequestTransitionCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRequestTransitionCommandHandler(
		f, c.bus, c.offers, c.gateway, c.settlement, c.selector, c.locks, c.logger,
	)
}

func (c *CompositionRoot) CreateAcceptAssignmentCommandHandler() commands.AcceptAssignmentCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptAssignmentCommandHandler(f, c.bus, c.offers, c.locks)
}

func (c *CompositionRoot) CreateSetDriverAvailabilityCommandHandler() commands.SetDriverAvailabilityCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetDriverAvailabilityCommandHandler(f)
}

func (c *CompositionRoot) CreateUpdateDriverLocationCommandHandler() commands.UpdateDriverLocationCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateDriverLocationCommandHandler(f, c.bus)
}

func (c *CompositionRoot) CreateRateOrderCommandHandler() commands.RateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateRebroadcastOffersCommandHandler() commands.RebroadcastOffersCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRebroadcastOffersCommandHandler(f, c.bus, c.offers, c.selector, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableOrdersQueryHandler() queries.GetAvailableOrdersQueryHandler {
	return queries.NewGetAvailableOrdersQueryHandler(c.gormDB)
}

// CreateHTTPServer builds the REST gateway with all handlers attached.
func (c *CompositionRoot) CreateHTTPServer() *httpserver.Server {
	return httpserver.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateRequestTransitionCommandHandler(),
		c.CreateAcceptAssignmentCommandHandler(),
		c.CreateSetDriverAvailabilityCommandHandler(),
		c.CreateUpdateDriverLocationCommandHandler(),
		c.CreateRateOrderCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetAvailableOrdersQueryHandler(),
	)
}

// CreateWebsocketGateway builds the websocket gateway.
func (c *CompositionRoot) CreateWebsocketGateway() *ws.Gateway {
	return ws.NewGateway(c.registry, c.CreateUpdateDriverLocationCommandHandler(), c.logger)
}

// CreateJobManager builds the background job manager.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateRebroadcastOffersCommandHandler(), c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
