package session

import (
	"context"
	"sync"
	"time"
)

// Store is the server-side session store, keyed by the opaque session
// identifier. It is injected into the HTTP layer so handlers never
// touch ambient global state.
type Store interface {
	Get(id string) (*Session, bool)
	Put(id string, s *Session)
	Delete(id string)
}

// MemoryStore is the in-process Store implementation. Each session is
// effectively single-writer (one browser at a time), so a plain RWMutex
// around the map is all the coordination required.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

func (ms *MemoryStore) Get(id string) (*Session, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	s, ok := ms.sessions[id]
	return s, ok
}

func (ms *MemoryStore) Put(id string, s *Session) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.sessions[id] = s
}

func (ms *MemoryStore) Delete(id string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.sessions, id)
}

// Len returns the number of live sessions.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return len(ms.sessions)
}

// sweep removes sessions idle longer than maxIdle.
func (ms *MemoryStore) sweep(maxIdle time.Duration) {
	cutoff := time.Now().Add(-maxIdle)

	ms.mu.Lock()
	defer ms.mu.Unlock()

	for id, s := range ms.sessions {
		if s.LastActivity.Before(cutoff) {
			delete(ms.sessions, id)
		}
	}
}

// StartCleanupWorker starts a background worker that drops expired
// sessions so the map does not grow without bound. Expiry itself is
// still enforced per request; this only reclaims memory.
func (ms *MemoryStore) StartCleanupWorker(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ms.sweep(maxIdle)
		}
	}
}
