package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and local development. It
// stores serialized documents so callers get the same copy isolation as
// the Redis store, and honors TTL expiry against an injectable clock.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// Clock returns the current time; tests override it to drive expiry.
	Clock func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		Clock:   time.Now,
	}
}

// Load returns the stored session, or (nil, nil) if absent or expired.
func (m *MemoryStore) Load(ctx context.Context, identity string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[identity]
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && !m.Clock().Before(e.expiresAt) {
		delete(m.entries, identity)
		return nil, nil
	}
	var s Session
	if err := json.Unmarshal(e.data, &s); err != nil {
		return nil, fmt.Errorf("session: memory unmarshal %s: %w", identity, err)
	}
	return &s, nil
}

// Save serializes and stores the session with the given TTL.
func (m *MemoryStore) Save(ctx context.Context, identity string, s *Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: memory marshal %s: %w", identity, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expiresAt = m.Clock().Add(ttl)
	}
	m.entries[identity] = e
	return nil
}

// Delete removes the session for an identity.
func (m *MemoryStore) Delete(ctx context.Context, identity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, identity)
	return nil
}

// TTLRemaining reports the time until expiry for an identity. Returns
// false if no live entry exists. Test helper.
func (m *MemoryStore) TTLRemaining(identity string) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[identity]
	if !ok {
		return 0, false
	}
	if e.expiresAt.IsZero() {
		return 0, true
	}
	d := e.expiresAt.Sub(m.Clock())
	if d <= 0 {
		return 0, false
	}
	return d, true
}
