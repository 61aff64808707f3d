package realtime

import (
	"sync"

	"github.com/Devmatrix25/SmartEats/internal/core/domain/model/kernel"
)

// Registry tracks live sessions and their addressing: by connection, by
// user, and by named group. All operations are safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	byConn  map[string]*Session
	byUser  map[string]map[string]*Session
	byGroup map[string]map[string]*Session

	// groupsOf remembers which groups each connection joined, so
	// Unregister can leave them all without scanning.
	groupsOf map[string]map[string]struct{}
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		byConn:   make(map[string]*Session),
		byUser:   make(map[string]map[string]*Session),
		byGroup:  make(map[string]map[string]*Session),
		groupsOf: make(map[string]map[string]struct{}),
	}
}

// Register adds a session. A second registration under the same connection
// ID replaces and closes the previous session.
func (r *Registry) Register(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byConn[s.ConnID()]; ok {
		r.removeLocked(old)
		old.Close()
	}

	r.byConn[s.ConnID()] = s
	userKey := s.UserID().String()
	if r.byUser[userKey] == nil {
		r.byUser[userKey] = make(map[string]*Session)
	}
	r.byUser[userKey][s.ConnID()] = s
	r.groupsOf[s.ConnID()] = make(map[string]struct{})
}

// Unregister removes and closes the session for a connection. Unknown
// connections are ignored.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byConn[connID]
	if !ok {
		return
	}
	r.removeLocked(s)
	s.Close()
}

// Join subscribes a connection to a group. Unknown connections are ignored.
func (r *Registry) Join(connID, group string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byConn[connID]
	if !ok {
		return
	}
	if r.byGroup[group] == nil {
		r.byGroup[group] = make(map[string]*Session)
	}
	r.byGroup[group][connID] = s
	r.groupsOf[connID][group] = struct{}{}
}

// Leave unsubscribes a connection from a group.
func (r *Registry) Leave(connID, group string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if members, ok := r.byGroup[group]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.byGroup, group)
		}
	}
	if groups, ok := r.groupsOf[connID]; ok {
		delete(groups, group)
	}
}

// ResolveUser returns all live sessions of one user.
func (r *Registry) ResolveUser(userID kernel.UUID) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.byUser[userID.String()])
}

// ResolveGroup returns all live sessions in a group.
func (r *Registry) ResolveGroup(group string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.byGroup[group])
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}

func (r *Registry) removeLocked(s *Session) {
	connID := s.ConnID()
	delete(r.byConn, connID)

	userKey := s.UserID().String()
	if sessions, ok := r.byUser[userKey]; ok {
		delete(sessions, connID)
		if len(sessions) == 0 {
			delete(r.byUser, userKey)
		}
	}

	for group := range r.groupsOf[connID] {
		if members, ok := r.byGroup[group]; ok {
			delete(members, connID)
			if len(members) == 0 {
				delete(r.byGroup, group)
			}
		}
	}
	delete(r.groupsOf, connID)
}

func collect(m map[string]*Session) []*Session {
	if len(m) == 0 {
		return nil
	}
	out := make([]*Session, 0, len(m))
	for _, s := range m {
		out = append(out, s)
	}
	return out
}
