package session

import (
	"context"
	"sync"
	"time"
)

// Store persists session snapshots for a bounded time.
//
// ClaimLogin atomically marks a login in flight for the session and reports
// false when another claim is still live. Claims expire after ttl so a login
// whose process died stops blocking the session.
type Store interface {
	Get(ctx context.Context, id string) (State, bool, error)
	Save(ctx context.Context, state State) error
	Delete(ctx context.Context, id string) error
	ClaimLogin(ctx context.Context, id string, ttl time.Duration) (bool, error)
	ReleaseLogin(ctx context.Context, id string) error
}

type memoryEntry struct {
	state     State
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Expired entries are dropped
// lazily on read.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   func() time.Time
	entries map[string]memoryEntry
	claims  map[string]time.Time
}

// NewMemoryStore builds a store whose entries live for ttl after each save.
func NewMemoryStore(ttl time.Duration, clock func() time.Time) *MemoryStore {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryStore{ttl: ttl, clock: clock, entries: map[string]memoryEntry{}, claims: map[string]time.Time{}}
}

func (m *MemoryStore) Get(_ context.Context, id string) (State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return State{}, false, nil
	}
	if m.ttl > 0 && !m.clock().Before(entry.expiresAt) {
		delete(m.entries, id)
		return State{}, false, nil
	}
	return entry.state, true, nil
}

func (m *MemoryStore) Save(_ context.Context, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[state.ID] = memoryEntry{state: state, expiresAt: m.clock().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) ClaimLogin(_ context.Context, id string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	if expiresAt, ok := m.claims[id]; ok && now.Before(expiresAt) {
		return false, nil
	}
	m.claims[id] = now.Add(ttl)
	return true, nil
}

func (m *MemoryStore) ReleaseLogin(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claims, id)
	return nil
}
