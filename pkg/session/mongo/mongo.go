// Package mongo stores sessions as MongoDB documents keyed by session id.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/slidecraft/pkg/session"
)

// Defaults.
const (
	DefaultDatabase   = "slidecraft"
	DefaultCollection = "sessions"
)

// Config configures the MongoDB connection.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// Store is a MongoDB-backed [session.Store].
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// NewStore connects, pings and ensures an index on expiresAt.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "expiresAt", Value: 1}},
	})
	if err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Store{client: client, coll: coll, now: time.Now}, nil
}

func (s *Store) Get(ctx context.Context, id string) (*session.Session, error) {
	var sess session.Session
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	if sess.IsExpired(s.now()) {
		return nil, session.ErrNotFound
	}
	return &sess, nil
}

func (s *Store) Set(ctx context.Context, sess *session.Session) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": sess.ID}, sess, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo upsert: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

// Cleanup deletes sessions whose expiry has passed.
func (s *Store) Cleanup(ctx context.Context) error {
	_, err := s.coll.DeleteMany(ctx, expiredFilter(s.now()))
	if err != nil {
		return fmt.Errorf("mongo cleanup: %w", err)
	}
	return nil
}

// expiredFilter matches sessions with a set expiry before now. Sessions
// stored with a zero expiry never match.
func expiredFilter(now time.Time) bson.M {
	return bson.M{"expiresAt": bson.M{"$lt": now, "$gt": time.Time{}}}
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ session.Store = (*Store)(nil)
