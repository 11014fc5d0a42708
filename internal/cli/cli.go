// Package cli implements the slidecraft command-line interface.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidecraft/pkg/buildinfo"
	"github.com/matzehuels/slidecraft/pkg/cache"
	"github.com/matzehuels/slidecraft/pkg/config"
	"github.com/matzehuels/slidecraft/pkg/generator"
	"github.com/matzehuels/slidecraft/pkg/httputil"
	"github.com/matzehuels/slidecraft/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "slidecraft"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "SlideCraft builds, previews and exports slide decks",
		Long:         `SlideCraft turns a prompt or a deck description into themed slides. It renders them for the screen, previews them in the terminal and exports PowerPoint documents.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.themesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// loadConfig reads the config file once per process.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.config = cfg
	return cfg, nil
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.Images = &httputil.Fetcher{Client: httputil.NewClient(0), Cache: cc, Logger: c.Logger}
	return r, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newGenerator returns the remote generator when an API key is configured,
// always backed by the offline fallback.
func (c *CLI) newGenerator(cfg *config.Config) generator.Generator {
	fallback := generator.Fallback{}
	key := cfg.Generator.APIKey()
	if key == "" {
		c.Logger.Debug("no API key configured, generating offline")
		return generator.NewResilient(nil, fallback, c.Logger)
	}
	client := generator.NewClient(generator.ClientConfig{
		Endpoint: cfg.Generator.Endpoint,
		Model:    cfg.Generator.Model,
		APIKey:   key,
		Timeout:  cfg.Generator.Timeout,
		Logger:   c.Logger,
	})
	return generator.NewResilient(client, fallback, c.Logger)
}

// elapsed rounds a duration for display.
func elapsed(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
