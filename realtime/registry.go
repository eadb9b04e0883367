// Package realtime tracks which users hold a live socket connection and pushes
// events to them. Delivery is best effort: an absent user is not an error.
package realtime

import "sync"

// Conn is a live, authenticated connection.
type Conn interface {
	ID() string
	Emit(event string, payload any) error
}

// Registry maps a user id to its current connection. The last registration
// for a user wins.
type Registry struct {
	mu     sync.RWMutex
	conns  map[int64]Conn
	closed bool
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[int64]Conn)}
}

// Register stores conn for userID and returns the connection it replaced, if any.
// It is a no-op after Close.
func (r *Registry) Register(userID int64, conn Conn) (replaced Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	replaced = r.conns[userID]
	r.conns[userID] = conn
	return replaced
}

// Unregister removes the entry for userID only while it still belongs to connID.
// It reports whether an entry was removed.
func (r *Registry) Unregister(userID int64, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[userID]
	if !ok || conn.ID() != connID {
		return false
	}
	delete(r.conns, userID)
	return true
}

func (r *Registry) Lookup(userID int64) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[userID]
	return conn, ok
}

func (r *Registry) Online(userID int64) bool {
	_, ok := r.Lookup(userID)
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Close drops every entry and refuses further registrations.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	r.conns = make(map[int64]Conn)
}
