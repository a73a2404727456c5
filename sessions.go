package main

import (
	"sync"
	"time"
)

// SessionRegistry owns the mapping from opaque web session ids to live
// Terminal instances. Access to the map is locked; the Terminals handed
// out are not, so concurrent requests on one session id still race on
// the shared state (an accepted limitation of the design).
type SessionRegistry struct {
	mu          sync.Mutex
	sessions    map[string]*sessionEntry
	ttl         time.Duration
	newTerminal func() *Terminal
	now         func() time.Time
}

type sessionEntry struct {
	term     *Terminal
	lastSeen time.Time
}

// NewSessionRegistry creates a registry with the given idle expiry. A
// ttl of zero disables eviction entirely (sessions live for the process
// lifetime, as in the original design).
func NewSessionRegistry(ttl time.Duration, factory func() *Terminal) *SessionRegistry {
	return &SessionRegistry{
		sessions:    make(map[string]*sessionEntry),
		ttl:         ttl,
		newTerminal: factory,
		now:         time.Now,
	}
}

// Get returns the Terminal for id, allocating one lazily. Idle sessions
// past the TTL are swept on every lookup.
func (r *SessionRegistry) Get(id string) *Terminal {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictLocked()

	entry, ok := r.sessions[id]
	if !ok {
		entry = &sessionEntry{term: r.newTerminal()}
		r.sessions[id] = entry
	}
	entry.lastSeen = r.now()
	activeSessions.Set(float64(len(r.sessions)))
	return entry.term
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *SessionRegistry) evictLocked() {
	if r.ttl <= 0 {
		return
	}
	cutoff := r.now().Add(-r.ttl)
	for id, entry := range r.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}
