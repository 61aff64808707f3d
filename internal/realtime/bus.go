package realtime

import (
	"log/slog"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/ports"
)

// Bus pushes notifications to live sessions through the registry. It
// implements ports.EventPublisher. Publishing never blocks: a session whose
// queue is full loses the notification, which is logged and otherwise
// ignored. Absent recipients are not an error.
type Bus struct {
	registry *Registry
	log      *slog.Logger
}

// NewBus creates a bus over the given registry.
func NewBus(registry *Registry, log *slog.Logger) *Bus {
	return &Bus{
		registry: registry,
		log:      log,
	}
}

// PublishToUser sends to every session of one user.
func (b *Bus) PublishToUser(userID kernel.UUID, n ports.Notification) {
	b.deliver(b.registry.ResolveUser(userID), n)
}

// PublishToGroup sends to every session in the group.
func (b *Bus) PublishToGroup(group string, n ports.Notification) {
	b.deliver(b.registry.ResolveGroup(group), n)
}

// PublishToGroupExcept sends to the group, skipping one user's sessions.
func (b *Bus) PublishToGroupExcept(group string, exceptUserID kernel.UUID, n ports.Notification) {
	for _, s := range b.registry.ResolveGroup(group) {
		if s.UserID().IsEqual(exceptUserID) {
			continue
		}
		b.send(s, n)
	}
}

// PublishToOrder sends to every session subscribed to the order's feed.
func (b *Bus) PublishToOrder(orderID kernel.UUID, n ports.Notification) {
	b.deliver(b.registry.ResolveGroup(ports.OrderFeedGroup(orderID)), n)
}

func (b *Bus) deliver(sessions []*Session, n ports.Notification) {
	for _, s := range sessions {
		b.send(s, n)
	}
}

func (b *Bus) send(s *Session, n ports.Notification) {
	if !s.TrySend(n) {
		b.log.Warn("notification dropped",
			"event", n.Event, "conn", s.ConnID(), "user", s.UserID())
	}
}
