package session

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/slidecraft/pkg/deck"
)

// Manager applies the chat operations on top of a [Store]. Concurrent
// updates to one session are last-writer-wins.
type Manager struct {
	Store Store
	TTL   time.Duration
	// Now is the clock; nil uses time.Now.
	Now func() time.Time
}

// NewManager wraps store. A ttl of zero uses [DefaultTTL].
func NewManager(store Store, ttl time.Duration) *Manager {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Manager{Store: store, TTL: ttl}
}

func (m *Manager) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

// Create stores a new empty session.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	s := New(m.now(), m.TTL)
	if err := m.Store.Set(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns a session or ErrNotFound.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}
	return m.Store.Get(ctx, id)
}

// AddMessage appends a message and extends the session's lifetime.
func (m *Manager) AddMessage(ctx context.Context, id string, role Role, content string) (*Session, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	return m.update(ctx, id, func(s *Session, now time.Time) {
		s.Messages = append(s.Messages, NewMessage(role, content, now))
	})
}

// UpdatePresentation replaces the session's presentation.
func (m *Manager) UpdatePresentation(ctx context.Context, id string, p *deck.Presentation) (*Session, error) {
	return m.update(ctx, id, func(s *Session, _ time.Time) {
		s.Presentation = p
	})
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.Store.Delete(ctx, id)
}

func (m *Manager) update(ctx context.Context, id string, fn func(*Session, time.Time)) (*Session, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := m.now()
	fn(s, now)
	s.UpdatedAt = now
	if m.TTL > 0 {
		s.ExpiresAt = now.Add(m.TTL)
	}
	if err := m.Store.Set(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
