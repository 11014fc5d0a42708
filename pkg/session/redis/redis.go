// Package redis stores sessions in Redis as JSON strings with native
// expiry, for deployments that run more than one server instance.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/matzehuels/slidecraft/pkg/session"
)

// DefaultPrefix namespaces session keys.
const DefaultPrefix = "slidecraft:session:"

// Config configures the Redis connection.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store is a Redis-backed [session.Store].
type Store struct {
	client goredis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewStore connects to Redis and verifies the connection with PING.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return NewStoreWithClient(client, cfg.Prefix), nil
}

// NewStoreFromURL parses a redis:// URL.
func NewStoreFromURL(ctx context.Context, rawURL string) (*Store, error) {
	opts, err := goredis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewStore(ctx, Config{Addr: opts.Addr, Password: opts.Password, DB: opts.DB})
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client goredis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix, now: time.Now}
}

func (s *Store) key(id string) string { return s.prefix + id }

func (s *Store) Get(ctx context.Context, id string) (*session.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sess.IsExpired(s.now()) {
		return nil, session.ErrNotFound
	}
	return &sess, nil
}

func (s *Store) Set(ctx context.Context, sess *session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), data, sess.TTL(s.now())).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Cleanup is a no-op; Redis expires keys itself.
func (s *Store) Cleanup(context.Context) error { return nil }

func (s *Store) Close() error { return s.client.Close() }

var _ session.Store = (*Store)(nil)
