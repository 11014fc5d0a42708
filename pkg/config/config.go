// Package config loads the slidecraft configuration file.
//
// The file is TOML with one table per subsystem:
//
//	[server]
//	addr = ":8080"
//
//	[generator]
//	endpoint = "https://api.openai.com/v1"
//	model = "gpt-4o-mini"
//	api_key_env = "OPENAI_API_KEY"
//	timeout = "60s"
//
//	[session]
//	backend = "sqlite"
//	dsn = "/var/lib/slidecraft/sessions.db"
//	ttl = "24h"
//
//	[export]
//	theme = "Ocean Blue"
//	dir = "."
//
// A missing file is not an error; every field has a default. The
// SLIDECRAFT_API_KEY and SLIDECRAFT_ADDR environment variables override
// the file.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/theme"
)

// Environment overrides.
const (
	EnvAPIKey = "SLIDECRAFT_API_KEY"
	EnvAddr   = "SLIDECRAFT_ADDR"
)

// Defaults.
const (
	DefaultAddr      = "localhost:8080"
	DefaultAPIKeyEnv = "OPENAI_API_KEY"
	DefaultTimeout   = 60 * time.Second
	DefaultTTL       = 24 * time.Hour
)

// Session backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

// Backends lists the accepted session backends.
var Backends = []string{BackendMemory, BackendFile, BackendRedis, BackendMongo, BackendSQLite}

// Config is the whole configuration file.
type Config struct {
	Server    Server    `toml:"server"`
	Generator Generator `toml:"generator"`
	Session   Session   `toml:"session"`
	Export    Export    `toml:"export"`
}

type Server struct {
	Addr string `toml:"addr"`
}

type Generator struct {
	Endpoint string `toml:"endpoint"`
	Model    string `toml:"model"`
	// APIKeyEnv names the variable holding the key. SLIDECRAFT_API_KEY
	// wins over it.
	APIKeyEnv string        `toml:"api_key_env"`
	Timeout   time.Duration `toml:"timeout"`

	apiKey string
}

// APIKey returns the resolved key, or "" for offline generation.
func (g Generator) APIKey() string { return g.apiKey }

type Session struct {
	Backend string        `toml:"backend"`
	DSN     string        `toml:"dsn"`
	TTL     time.Duration `toml:"ttl"`
}

type Export struct {
	Theme       string `toml:"theme"`
	RandomTheme bool   `toml:"random_theme"`
	Dir         string `toml:"dir"`
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Generator.APIKeyEnv == "" {
		c.Generator.APIKeyEnv = DefaultAPIKeyEnv
	}
	if c.Generator.Timeout == 0 {
		c.Generator.Timeout = DefaultTimeout
	}
	if c.Session.Backend == "" {
		c.Session.Backend = BackendMemory
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = DefaultTTL
	}
	if c.Export.Dir == "" {
		c.Export.Dir = "."
	}
}

// Validate checks field values after defaults are applied.
func (c *Config) Validate() error {
	if c.Generator.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "generator.timeout cannot be negative")
	}
	if c.Session.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "session.ttl cannot be negative")
	}
	if !slices.Contains(Backends, c.Session.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown session backend %q (want one of %v)", c.Session.Backend, Backends)
	}
	switch c.Session.Backend {
	case BackendRedis, BackendMongo:
		if c.Session.DSN == "" {
			return errors.New(errors.ErrCodeInvalidInput, "session.dsn is required for the %s backend", c.Session.Backend)
		}
	}
	if c.Export.Theme != "" {
		if _, ok := theme.ByName(c.Export.Theme); !ok {
			return errors.New(errors.ErrCodeInvalidTheme, "unknown export theme %q", c.Export.Theme)
		}
	}
	if c.Export.Theme != "" && c.Export.RandomTheme {
		return errors.New(errors.ErrCodeInvalidInput, "export.theme and export.random_theme are mutually exclusive")
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/slidecraft/config.toml, or the
// platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "slidecraft", "config.toml")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	c.applyEnv()
	return c
}

// Load reads path, or [DefaultPath] when path is empty. A missing default
// file yields [Default]; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML bytes, applies defaults and environment, and validates.
func Parse(data []byte) (*Config, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown config key %q", undecoded[0].String())
	}
	c.SetDefaults()
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	c.Generator.apiKey = os.Getenv(EnvAPIKey)
	if c.Generator.apiKey == "" && c.Generator.APIKeyEnv != "" {
		c.Generator.apiKey = os.Getenv(c.Generator.APIKeyEnv)
	}
}
