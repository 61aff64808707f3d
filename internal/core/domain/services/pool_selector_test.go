package services_test

import (
	"testing"
	"time"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/driver"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(t *testing.T) *order.Order {
	t.Helper()
	addr, err := kernel.NewAddress("1 Plaza Mayor", "Madrid", "28012",
		kernel.Coordinates{Lat: 40.4155, Lng: -3.7074})
	require.NoError(t, err)
	item, err := order.NewItem("Bocadillo", 650, 1, "")
	require.NoError(t, err)
	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]order.Item{item}, addr, 300, 0, 0, 15, 25, time.Now(),
	)
	require.NoError(t, err)
	return o
}

func eligibleDriverAt(t *testing.T, name string, lat, lng float64) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), name, driver.VehicleBicycle)
	require.NoError(t, err)
	d.Verify()
	d.GoOnline()
	require.NoError(t, d.UpdateLocation(kernel.Coordinates{Lat: lat, Lng: lng}, time.Now()))
	return d
}

func TestPoolSelector_SelectPool(t *testing.T) {
	t.Run("filters out ineligible drivers", func(t *testing.T) {
		o := testOrder(t)

		offline, err := driver.NewDriver(kernel.NewUUID(), "offline", driver.VehicleCar)
		require.NoError(t, err)
		offline.Verify()

		unverified, err := driver.NewDriver(kernel.NewUUID(), "unverified", driver.VehicleCar)
		require.NoError(t, err)
		unverified.GoOnline()

		busy := eligibleDriverAt(t, "busy", 40.41, -3.70)
		require.NoError(t, busy.BeginDelivery(kernel.NewUUID()))

		free := eligibleDriverAt(t, "free", 40.42, -3.71)

		pool, err := services.NewPoolSelector(0).SelectPool(o,
			[]*driver.Driver{offline, unverified, busy, free})
		require.NoError(t, err)
		require.Len(t, pool, 1)
		assert.Equal(t, "free", pool[0].Name())
	})

	t.Run("orders located drivers nearest first", func(t *testing.T) {
		o := testOrder(t)

		far := eligibleDriverAt(t, "far", 40.50, -3.60)
		near := eligibleDriverAt(t, "near", 40.4160, -3.7070)
		mid := eligibleDriverAt(t, "mid", 40.44, -3.69)

		unlocated, err := driver.NewDriver(kernel.NewUUID(), "unlocated", driver.VehicleMotorbike)
		require.NoError(t, err)
		unlocated.Verify()
		unlocated.GoOnline()

		pool, err := services.NewPoolSelector(0).SelectPool(o,
			[]*driver.Driver{far, unlocated, near, mid})
		require.NoError(t, err)
		require.Len(t, pool, 4)
		assert.Equal(t, "near", pool[0].Name())
		assert.Equal(t, "mid", pool[1].Name())
		assert.Equal(t, "far", pool[2].Name())
		assert.Equal(t, "unlocated", pool[3].Name(), "no position sorts last")
	})

	t.Run("radius excludes distant drivers but not unlocated ones", func(t *testing.T) {
		o := testOrder(t)

		near := eligibleDriverAt(t, "near", 40.4160, -3.7070)
		acrossTown := eligibleDriverAt(t, "acrossTown", 40.55, -3.55)

		unlocated, err := driver.NewDriver(kernel.NewUUID(), "unlocated", driver.VehicleCar)
		require.NoError(t, err)
		unlocated.Verify()
		unlocated.GoOnline()

		pool, err := services.NewPoolSelector(5).SelectPool(o,
			[]*driver.Driver{near, acrossTown, unlocated})
		require.NoError(t, err)
		require.Len(t, pool, 2)
		assert.Equal(t, "near", pool[0].Name())
		assert.Equal(t, "unlocated", pool[1].Name())
	})

	t.Run("empty pool is an error", func(t *testing.T) {
		o := testOrder(t)

		offline, err := driver.NewDriver(kernel.NewUUID(), "offline", driver.VehicleCar)
		require.NoError(t, err)

		_, err = services.NewPoolSelector(0).SelectPool(o, []*driver.Driver{offline})
		require.ErrorIs(t, err, services.ErrEmptyPool)

		_, err = services.NewPoolSelector(0).SelectPool(o, nil)
		require.ErrorIs(t, err, services.ErrEmptyPool)
	})
}
