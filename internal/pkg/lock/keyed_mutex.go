// Package lock provides a mutex keyed by string, used to serialize order
// state transitions per order id. The lock is in-process only: cross-process
// exclusivity for the driver-assignment field is carried by the store-level
// conditional update, not by this mutex.
package lock

import "sync"

// KeyedMutex serializes critical sections per key. Locks for distinct keys
// do not contend with each other.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*entry),
	}
}

// Lock acquires the mutex for key, blocking while another goroutine holds it.
// Entries are reference-counted and removed again on final Unlock, so the
// map does not grow with the number of orders ever seen.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key. Calling Unlock for a key that is not
// locked panics, as with sync.Mutex.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()
		panic("lock: unlock of unlocked key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
