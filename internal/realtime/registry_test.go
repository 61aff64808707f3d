package realtime_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/ports"
	"github.com/Devmatrix25/SmartEats/internal/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterResolve(t *testing.T) {
	r := realtime.NewRegistry()
	userID := kernel.NewUUID()

	phone := realtime.NewSession("conn-phone", userID, kernel.RoleCustomer)
	laptop := realtime.NewSession("conn-laptop", userID, kernel.RoleCustomer)
	r.Register(phone)
	r.Register(laptop)

	sessions := r.ResolveUser(userID)
	assert.Len(t, sessions, 2, "one session per device")
	assert.Equal(t, 2, r.Len())

	assert.Empty(t, r.ResolveUser(kernel.NewUUID()), "unknown user resolves to nothing")
}

func TestRegistry_ReplaceSameConn(t *testing.T) {
	r := realtime.NewRegistry()
	userID := kernel.NewUUID()

	first := realtime.NewSession("conn-1", userID, kernel.RoleDriver)
	second := realtime.NewSession("conn-1", userID, kernel.RoleDriver)
	r.Register(first)
	r.Register(second)

	require.Equal(t, 1, r.Len())
	assert.False(t, first.TrySend(ports.Notification{Event: "x"}),
		"replaced session is closed")
	assert.True(t, second.TrySend(ports.Notification{Event: "x"}))
}

func TestRegistry_Groups(t *testing.T) {
	r := realtime.NewRegistry()

	d1 := realtime.NewSession("conn-1", kernel.NewUUID(), kernel.RoleDriver)
	d2 := realtime.NewSession("conn-2", kernel.NewUUID(), kernel.RoleDriver)
	r.Register(d1)
	r.Register(d2)
	r.Join("conn-1", ports.DriversGroup)
	r.Join("conn-2", ports.DriversGroup)

	assert.Len(t, r.ResolveGroup(ports.DriversGroup), 2)

	r.Leave("conn-1", ports.DriversGroup)
	assert.Len(t, r.ResolveGroup(ports.DriversGroup), 1)

	r.Join("conn-unknown", ports.DriversGroup)
	assert.Len(t, r.ResolveGroup(ports.DriversGroup), 1,
		"joins from unregistered connections are ignored")
}

func TestRegistry_UnregisterLeavesAllGroups(t *testing.T) {
	r := realtime.NewRegistry()
	userID := kernel.NewUUID()
	orderID := kernel.NewUUID()

	s := realtime.NewSession("conn-1", userID, kernel.RoleCustomer)
	r.Register(s)
	r.Join("conn-1", ports.OrderFeedGroup(orderID))

	r.Unregister("conn-1")

	assert.Zero(t, r.Len())
	assert.Empty(t, r.ResolveUser(userID))
	assert.Empty(t, r.ResolveGroup(ports.OrderFeedGroup(orderID)))
	assert.False(t, s.TrySend(ports.Notification{Event: "x"}),
		"unregistered session is closed")
}

func TestRegistry_ConcurrentChurn(t *testing.T) {
	r := realtime.NewRegistry()
	orderID := kernel.NewUUID()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			connID := fmt.Sprintf("conn-%d", i)
			s := realtime.NewSession(connID, kernel.NewUUID(), kernel.RoleDriver)
			r.Register(s)
			r.Join(connID, ports.DriversGroup)
			r.Join(connID, ports.OrderFeedGroup(orderID))
			if i%2 == 0 {
				r.Unregister(connID)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 25, r.Len())
	assert.Len(t, r.ResolveGroup(ports.DriversGroup), 25)
	assert.Len(t, r.ResolveGroup(ports.OrderFeedGroup(orderID)), 25)
}
