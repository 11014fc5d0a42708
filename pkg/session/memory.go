package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Values are copied on the
// way in and out so callers cannot mutate stored sessions.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
	expires  map[string]time.Time
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]byte),
		expires:  make(map[string]time.Time),
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	data, ok := m.sessions[id]
	exp := m.expires[id]
	m.mu.RUnlock()

	if !ok || (!exp.IsZero() && m.now().After(exp)) {
		return nil, ErrNotFound
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemoryStore) Set(_ context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = data
	m.expires[s.ID] = s.ExpiresAt
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.expires, id)
	return nil
}

func (m *MemoryStore) Cleanup(context.Context) error {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, exp := range m.expires {
		if !exp.IsZero() && now.After(exp) {
			delete(m.sessions, id)
			delete(m.expires, id)
		}
	}
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
