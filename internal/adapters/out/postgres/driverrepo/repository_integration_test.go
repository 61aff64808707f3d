package driverrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/Devmatrix25/SmartEats/internal/adapters/out/postgres/driverrepo"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/driver"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of the aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// DriverRepositoryIntegrationTestSuite verifies driver persistence against a
// real PostgreSQL container.
type DriverRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *driverrepo.GormDriverRepository
	tracker    *MockAggregateTracker
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&driverrepo.DriverDTO{}))
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE drivers").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = driverrepo.NewGormDriverRepository(suite.db, suite.tracker)
}

func (suite *DriverRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DriverRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()

	d := suite.createEligibleDriver()
	suite.Require().NoError(d.UpdateLocation(
		kernel.Coordinates{Lat: 51.46, Lng: -2.6}, time.Now()))
	suite.addDriver(ctx, d)

	retrieved, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)

	suite.Equal(d.ID(), retrieved.ID())
	suite.Equal("Dana", retrieved.Name())
	suite.Equal(driver.VehicleMotorbike, retrieved.Vehicle())
	suite.True(retrieved.IsOnline())
	suite.True(retrieved.IsVerified())
	suite.Nil(retrieved.CurrentOrder())
	suite.Require().NotNil(retrieved.LastLocation())
	suite.InDelta(51.46, retrieved.LastLocation().Lat, 0.0001)
	suite.Require().NotNil(retrieved.LocationAt())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGet_NonExistentDriver_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestUpdate_PersistsDeliveryLifecycle() {
	ctx := context.Background()

	d := suite.createEligibleDriver()
	suite.addDriver(ctx, d)

	orderID := kernel.NewUUID()
	suite.Require().NoError(d.BeginDelivery(orderID))

	suite.tracker.On("TrackAggregate", d.ID(), d).Once()
	suite.Require().NoError(suite.repository.Update(ctx, d))

	busy, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(busy.CurrentOrder())
	suite.True(busy.CurrentOrder().IsEqual(orderID))
	suite.False(busy.IsEligible())

	// Completing the delivery must clear the current order column, not
	// leave the old value behind.
	suite.Require().NoError(d.CompleteDelivery(orderID))
	suite.tracker.On("TrackAggregate", d.ID(), d).Once()
	suite.Require().NoError(suite.repository.Update(ctx, d))

	free, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Nil(free.CurrentOrder())
	suite.True(free.IsEligible())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestUpdate_PersistsGoingOffline() {
	ctx := context.Background()

	d := suite.createEligibleDriver()
	suite.addDriver(ctx, d)

	suite.Require().NoError(d.GoOffline())
	suite.tracker.On("TrackAggregate", d.ID(), d).Once()
	suite.Require().NoError(suite.repository.Update(ctx, d))

	retrieved, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.False(retrieved.IsOnline())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestUpdate_NonExistentDriver_ReturnsError() {
	ctx := context.Background()

	d := suite.createEligibleDriver()
	err := suite.repository.Update(ctx, d)
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGetAllEligible() {
	ctx := context.Background()

	eligible := suite.createEligibleDriver()
	suite.addDriver(ctx, eligible)

	offline := suite.createEligibleDriver()
	suite.Require().NoError(offline.GoOffline())
	suite.addDriver(ctx, offline)

	unverified, err := driver.NewDriver(kernel.NewUUID(), "Newbie", driver.VehicleBicycle)
	suite.Require().NoError(err)
	unverified.GoOnline()
	suite.addDriver(ctx, unverified)

	busy := suite.createEligibleDriver()
	suite.Require().NoError(busy.BeginDelivery(kernel.NewUUID()))
	suite.addDriver(ctx, busy)

	drivers, err := suite.repository.GetAllEligible(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(drivers, 1)
	suite.Equal(eligible.ID(), drivers[0].ID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DriverRepositoryIntegrationTestSuite) createEligibleDriver() *driver.Driver {
	d, err := driver.NewDriver(kernel.NewUUID(), "Dana", driver.VehicleMotorbike)
	suite.Require().NoError(err)
	d.Verify()
	d.GoOnline()
	return d
}

func (suite *DriverRepositoryIntegrationTestSuite) addDriver(ctx context.Context, d *driver.Driver) {
	suite.tracker.On("TrackAggregate", d.ID(), d).Once()
	suite.Require().NoError(suite.repository.Add(ctx, d))
}

func TestDriverRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DriverRepositoryIntegrationTestSuite))
}
