package mongo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/slidecraft/pkg/session"
)

func TestExpiredFilter(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	f := expiredFilter(now)
	cond, ok := f["expiresAt"].(bson.M)
	if !ok {
		t.Fatalf("filter = %v", f)
	}
	if cond["$lt"] != now || cond["$gt"] != (time.Time{}) {
		t.Errorf("filter = %v", cond)
	}
}

// TestStore runs against a real server when SLIDECRAFT_TEST_MONGO is set.
func TestStore(t *testing.T) {
	uri := os.Getenv("SLIDECRAFT_TEST_MONGO")
	if uri == "" {
		t.Skip("SLIDECRAFT_TEST_MONGO not set")
	}
	ctx := context.Background()
	s, err := NewStore(ctx, Config{URI: uri, Database: "slidecraft_test"})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer s.Close()

	sess := session.New(time.Now(), time.Hour)
	if err := s.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := s.Get(ctx, sess.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := s.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, sess.ID); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Get after Delete err = %v", err)
	}
}
