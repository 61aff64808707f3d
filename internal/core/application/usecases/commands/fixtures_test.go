package commands_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/driver"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// makeOrder builds an order and walks it to the given status via legal
// transitions. Statuses past ready get a driver bound on the way.
func makeOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()

	addr, err := kernel.NewAddress("1 High St", "Bristol", "BS1 4ST",
		kernel.Coordinates{Lat: 51.45, Lng: -2.59})
	require.NoError(t, err)
	item, err := order.NewItem("Pad Thai", 1150, 1, "")
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]order.Item{item}, addr, 400, 90, 0, 20, 30, time.Now(),
	)
	require.NoError(t, err)

	now := time.Now()
	walk := []struct {
		role   kernel.Role
		target order.Status
	}{
		{kernel.RoleRestaurant, order.Confirmed},
		{kernel.RoleRestaurant, order.Preparing},
		{kernel.RoleRestaurant, order.Ready},
		{kernel.RoleDriver, order.Accepted},
		{kernel.RoleDriver, order.PickedUp},
		{kernel.RoleDriver, order.OnTheWay},
		{kernel.RoleDriver, order.Delivered},
	}

	for _, step := range walk {
		if o.Status() == status {
			return o
		}
		if step.target == order.Accepted {
			require.NoError(t, o.AssignDriver(kernel.NewUUID(), now))
			continue
		}
		require.NoError(t, o.ApplyTransition(step.role, step.target, "", now))
	}
	require.Equal(t, status, o.Status())
	return o
}

func makeEligibleDriver(t *testing.T) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), "Dana", driver.VehicleMotorbike)
	require.NoError(t, err)
	d.Verify()
	d.GoOnline()
	return d
}
