package cli

import (
	"context"
	"path/filepath"

	"github.com/matzehuels/slidecraft/pkg/config"
	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/session"
	"github.com/matzehuels/slidecraft/pkg/session/mongo"
	"github.com/matzehuels/slidecraft/pkg/session/redis"
	"github.com/matzehuels/slidecraft/pkg/session/sqlite"
)

// openStore connects the session backend named in cfg. File and SQLite
// stores default to the config directory when no DSN is given.
func openStore(ctx context.Context, cfg config.Session) (session.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return session.NewMemoryStore(), nil
	case config.BackendFile:
		return session.NewFileStore(cfg.DSN)
	case config.BackendSQLite:
		path := cfg.DSN
		if path == "" {
			path = filepath.Join(filepath.Dir(config.DefaultPath()), "sessions.db")
		}
		return sqlite.Open(ctx, path)
	case config.BackendRedis:
		return redis.NewStoreFromURL(ctx, cfg.DSN)
	case config.BackendMongo:
		return mongo.NewStore(ctx, mongo.Config{URI: cfg.DSN})
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown session backend %q", cfg.Backend)
}
