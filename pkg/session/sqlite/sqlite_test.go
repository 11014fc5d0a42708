package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/slidecraft/pkg/session"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "db", "sessions.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	sess := session.New(time.Now(), time.Hour)
	sess.Messages = append(sess.Messages, session.NewMessage(session.RoleAssistant, "hi", time.Now()))
	if err := s.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}
	sess.Messages = append(sess.Messages, session.NewMessage(session.RoleUser, "again", time.Now()))
	if err := s.Set(ctx, sess); err != nil {
		t.Fatalf("second Set: %v", err)
	}

	got, err := s.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Messages) != 2 || got.Messages[1].Content != "again" {
		t.Errorf("Get = %+v", got.Messages)
	}
	if n, _ := s.Count(ctx); n != 1 {
		t.Errorf("Count = %d, want 1 (upsert)", n)
	}

	if err := s.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, sess.ID); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Get after Delete err = %v", err)
	}
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	old := session.New(time.Now().Add(-3*time.Hour), time.Hour)
	live := session.New(time.Now(), time.Hour)
	forever := session.New(time.Now(), 0)
	for _, x := range []*session.Session{old, live, forever} {
		if err := s.Set(ctx, x); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.Get(ctx, old.ID); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("expired Get err = %v", err)
	}
	if err := s.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if n, _ := s.Count(ctx); n != 2 {
		t.Errorf("Count after Cleanup = %d, want 2", n)
	}
}
