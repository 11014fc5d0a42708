package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/slidecraft/pkg/deck"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStores(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()
			s := New(time.Now(), time.Hour)
			s.Messages = append(s.Messages, NewMessage(RoleUser, "hello", time.Now()))

			if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get before Set err = %v, want ErrNotFound", err)
			}
			if err := store.Set(ctx, s); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, err := store.Get(ctx, s.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.ID != s.ID || len(got.Messages) != 1 || got.Messages[0].Content != "hello" {
				t.Errorf("Get = %+v", got)
			}

			got.Messages = nil
			again, _ := store.Get(ctx, s.ID)
			if len(again.Messages) != 1 {
				t.Error("mutating a returned session changed the stored one")
			}

			if err := store.Delete(ctx, s.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after Delete err = %v", err)
			}
			if err := store.Delete(ctx, s.ID); err != nil {
				t.Errorf("second Delete: %v", err)
			}
		})
	}
}

func TestStoresExpiry(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			old := New(time.Now().Add(-2*time.Hour), time.Hour)
			live := New(time.Now(), time.Hour)
			forever := New(time.Now(), 0)
			for _, s := range []*Session{old, live, forever} {
				if err := store.Set(ctx, s); err != nil {
					t.Fatal(err)
				}
			}
			if _, err := store.Get(ctx, old.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("expired session err = %v, want ErrNotFound", err)
			}
			if err := store.Cleanup(ctx); err != nil {
				t.Fatalf("Cleanup: %v", err)
			}
			for _, s := range []*Session{live, forever} {
				if _, err := store.Get(ctx, s.ID); err != nil {
					t.Errorf("live session %s: %v", s.ID, err)
				}
			}
		})
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	m.Set(ctx, New(time.Now().Add(-2*time.Hour), time.Hour))
	m.Set(ctx, New(time.Now(), time.Hour))
	m.Cleanup(ctx)
	if m.Len() != 1 {
		t.Errorf("Len after Cleanup = %d, want 1", m.Len())
	}
}

func TestFileStoreRejectsNonUUID(t *testing.T) {
	fs, _ := NewFileStore(t.TempDir())
	if _, err := fs.Get(context.Background(), "../../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(path) err = %v, want ErrNotFound", err)
	}
	if err := fs.Set(context.Background(), &Session{ID: "not-a-uuid"}); err == nil {
		t.Error("Set with a non-uuid id should fail")
	}
}

func TestSessionExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := New(now, time.Hour)
	tests := []struct {
		at      time.Time
		expired bool
	}{
		{now, false},
		{now.Add(59 * time.Minute), false},
		{now.Add(61 * time.Minute), true},
	}
	for _, tt := range tests {
		if got := s.IsExpired(tt.at); got != tt.expired {
			t.Errorf("IsExpired(%v) = %v", tt.at, got)
		}
	}
	if s.TTL(now) != time.Hour {
		t.Errorf("TTL = %v", s.TTL(now))
	}
	if New(now, 0).IsExpired(now.Add(1000 * time.Hour)) {
		t.Error("zero ttl should never expire")
	}
}

func TestManager(t *testing.T) {
	ctx := context.Background()
	clock := time.Now()
	m := NewManager(NewMemoryStore(), time.Hour)
	m.Now = func() time.Time { return clock }

	s, err := m.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	clock = clock.Add(time.Minute)
	s, err = m.AddMessage(ctx, s.ID, RoleUser, "Make a deck about bees")
	if err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if len(s.Messages) != 1 || !s.UpdatedAt.Equal(clock) || !s.ExpiresAt.Equal(clock.Add(time.Hour)) {
		t.Errorf("after AddMessage: %+v", s)
	}
	if !s.UpdatedAt.After(s.CreatedAt) {
		t.Error("AddMessage should bump updatedAt")
	}

	p := &deck.Presentation{Title: "Bees", Slides: []deck.Slide{{ID: "1", Type: deck.TypeTitle, Title: "Bees"}}}
	s, err = m.UpdatePresentation(ctx, s.ID, p)
	if err != nil {
		t.Fatalf("UpdatePresentation: %v", err)
	}
	got, _ := m.Get(ctx, s.ID)
	if got.Presentation == nil || got.Presentation.Title != "Bees" {
		t.Errorf("presentation not stored: %+v", got.Presentation)
	}

	if _, err := m.AddMessage(ctx, s.ID, Role("system"), "x"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("bad role err = %v", err)
	}
	if _, err := m.AddMessage(ctx, "missing", RoleUser, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing session err = %v", err)
	}
	if _, err := m.Get(ctx, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty id err = %v", err)
	}
}
