// Package session stores chat sessions: the conversation that produced a
// presentation plus the presentation itself.
//
// Backends implement [Store]:
//   - [MemoryStore]: in-process, for tests and single-instance servers
//   - [FileStore]: JSON files, for the CLI
//   - session/redis: Redis, for multi-instance deployments
//   - session/mongo: MongoDB
//   - session/sqlite: a local SQLite database
//
// A [Manager] wraps a store with the operations the HTTP API needs:
//
//	m := session.NewManager(session.NewMemoryStore(), session.DefaultTTL)
//	sess, err := m.Create(ctx)
//	if err != nil {
//	    return err
//	}
//	m.AddMessage(ctx, sess.ID, session.RoleUser, "Make a deck about bees")
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/slidecraft/pkg/deck"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist or has expired.
	ErrNotFound = errors.New("session not found")

	// ErrInvalidRole is returned for messages with an unknown role.
	ErrInvalidRole = errors.New("invalid message role")
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAssistant }

// Message is one chat turn.
type Message struct {
	ID        string    `json:"id" bson:"id"`
	Role      Role      `json:"role" bson:"role"`
	Content   string    `json:"content" bson:"content"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Session is a conversation and the presentation it produced.
type Session struct {
	ID           string             `json:"id" bson:"_id"`
	Messages     []Message          `json:"messages" bson:"messages"`
	Presentation *deck.Presentation `json:"presentation,omitempty" bson:"presentation,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
	ExpiresAt    time.Time          `json:"expiresAt" bson:"expiresAt"`
}

// IsExpired reports whether the session has expired at now. A zero
// ExpiresAt never expires.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// TTL returns the remaining lifetime at now, or zero for sessions that
// never expire.
func (s *Session) TTL(now time.Time) time.Duration {
	if s.ExpiresAt.IsZero() {
		return 0
	}
	return max(s.ExpiresAt.Sub(now), time.Millisecond)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID. It returns ErrNotFound when the
	// session is missing or expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session, replacing any previous version.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions. Backends with native expiry may
	// treat it as a no-op.
	Cleanup(ctx context.Context) error

	Close() error
}

// DefaultTTL is the default session lifetime.
const DefaultTTL = 24 * time.Hour

// New creates an empty session that expires after ttl.
func New(now time.Time, ttl time.Duration) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
	return s
}

// NewMessage creates a message with a fresh id.
func NewMessage(role Role, content string, now time.Time) Message {
	return Message{ID: uuid.NewString(), Role: role, Content: content, Timestamp: now}
}
