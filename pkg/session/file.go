package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// sessionExt is the file suffix of a stored session.
const sessionExt = ".json"

// FileStore keeps one JSON document per session in a directory. It suits
// the CLI and single-instance servers that must survive a restart.
type FileStore struct {
	mu  sync.RWMutex
	dir string
	now func() time.Time
}

// NewFileStore opens (and creates) dir. An empty dir means
// $XDG_CONFIG_HOME/slidecraft/sessions.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locate config dir: %w", err)
		}
		dir = filepath.Join(base, "slidecraft", "sessions")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// file maps an id to its path. Only uuids have a file, so request input
// never reaches the filesystem as a path.
func (s *FileStore) file(id string) (string, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return filepath.Join(s.dir, id+sessionExt), true
}

// load reads one session file. The caller holds s.mu.
func load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", filepath.Base(path), err)
	}
	return &sess, nil
}

func (s *FileStore) Get(_ context.Context, id string) (*Session, error) {
	path, ok := s.file(id)
	if !ok {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	sess, err := load(path)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if sess.IsExpired(s.now()) {
		s.mu.Lock()
		_ = os.Remove(path)
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	return sess, nil
}

// Set writes sess through a synced temp file and a rename, so readers see
// either the old or the new document.
func (s *FileStore) Set(_ context.Context, sess *Session) error {
	path, ok := s.file(sess.ID)
	if !ok {
		return fmt.Errorf("session id %q is not a uuid", sess.ID)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tmp, err := os.CreateTemp(s.dir, sess.ID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	path, ok := s.file(id)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Cleanup removes expired sessions. Unreadable files are left alone.
func (s *FileStore) Cleanup(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	now := s.now()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, sessionExt) {
			continue
		}
		path := filepath.Join(s.dir, name)
		if sess, err := load(path); err == nil && sess.IsExpired(now) {
			_ = os.Remove(path)
		}
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the session directory.
func (s *FileStore) Path() string { return s.dir }

var _ Store = (*FileStore)(nil)
