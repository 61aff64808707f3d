package realtime

import (
	"sync"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
	"github.com/Devmatrix25/SmartEats/internal/core/ports"
)

// sendBufferSize is the per-session outbound queue depth. A session that
// falls this far behind starts losing notifications rather than slowing
// every publisher down.
const sendBufferSize = 64

// Session is one live connection belonging to an authenticated actor.
type Session struct {
	connID string
	userID kernel.UUID
	role   kernel.Role

	mu     sync.Mutex
	closed bool
	send   chan ports.Notification
}

// NewSession creates a session for one connection.
func NewSession(connID string, userID kernel.UUID, role kernel.Role) *Session {
	return &Session{
		connID: connID,
		userID: userID,
		role:   role,
		send:   make(chan ports.Notification, sendBufferSize),
	}
}

// ConnID returns the unique connection identifier.
func (s *Session) ConnID() string { return s.connID }

// UserID returns the actor owning this connection.
func (s *Session) UserID() kernel.UUID { return s.userID }

// Role returns the capacity the actor connected in.
func (s *Session) Role() kernel.Role { return s.role }

// Outbound returns the queue the connection's write loop drains.
func (s *Session) Outbound() <-chan ports.Notification { return s.send }

// TrySend queues a notification without blocking. It reports false when the
// session is closed or its queue is full.
func (s *Session) TrySend(n ports.Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}

	select {
	case s.send <- n:
		return true
	default:
		return false
	}
}

// Close shuts the outbound queue. Safe to call more than once; no sends are
// accepted afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}
