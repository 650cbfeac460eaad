// internal/server/session.go
package server

import (
	"sync"
	"time"

	"hauler-portal/internal/common/metrics"
	"hauler-portal/internal/draft"
	"hauler-portal/internal/wizard"
)

// Session is one live wizard. The mutex serializes every request
// touching the machine; the machine itself is lock-free.
type Session struct {
	ID      string
	Machine *wizard.Machine
	Saver   *draft.Saver

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Registry holds live sessions in memory. Draft snapshots outlive
// registry entries: an evicted session can be rebuilt from Redis.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Put registers a session, replacing any live entry with the same ID.
// The replaced session's saver is stopped so a pending debounce write
// cannot land after the new session has taken over the draft slot.
func (r *Registry) Put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, exists := r.sessions[s.ID]; exists {
		if old != s {
			old.Saver.Stop()
		}
	} else {
		metrics.ActiveSessions.Inc()
	}
	s.lastSeen = time.Now()
	r.sessions[s.ID] = s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if ok {
		s.lastSeen = time.Now()
	}
	return s, ok
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		s.Saver.Stop()
		delete(r.sessions, id)
		metrics.ActiveSessions.Dec()
	}
}

// EvictStale drops sessions idle past the TTL. Their drafts stay in
// Redis so the applicant can pick up where they left off.
func (r *Registry) EvictStale() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	cutoff := time.Now().Add(-r.ttl)
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			s.Saver.Stop()
			delete(r.sessions, id)
			metrics.ActiveSessions.Dec()
			evicted++
		}
	}
	return evicted
}

// StartEviction runs EvictStale on a ticker until stop is closed.
func (r *Registry) StartEviction(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.EvictStale()
			case <-stop:
				return
			}
		}
	}()
}
