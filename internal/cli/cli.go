// Package cli implements the versegraph command-line interface.
//
// This package provides commands for rendering verse research graphs,
// serving them over HTTP, exploring facets interactively, loading payloads
// into the document store, and managing the payload cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - view: Fetch, lay out, and render a verse's research graph
//   - serve: Run the HTTP API
//   - explore: Interactive facet explorer (TUI)
//   - ingest: Load payload files into the MongoDB store
//   - cache: Manage the payload cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/versegraph/versegraph/pkg/buildinfo"
	"github.com/versegraph/versegraph/pkg/cache"
	"github.com/versegraph/versegraph/pkg/config"
	"github.com/versegraph/versegraph/pkg/errors"
	"github.com/versegraph/versegraph/pkg/pipeline"
	"github.com/versegraph/versegraph/pkg/source"
)

// appName is the application name used for directories and display.
const appName = "versegraph"

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
	Logger     *log.Logger
	configPath string
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
		Short:        "VerseGraph renders verse research graphs",
		Long:         `VerseGraph fetches the research annotations around a verse - mentions, commentary, contradiction and harmony links - and lays them out as a deterministic force-directed graph for rendering and exploration.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/versegraph/config.toml)")

	// Register all subcommands
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.ingestCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig loads the config file selected by --config (or the default).
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner builds a pipeline runner from config plus per-command overrides.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, sourceOverride string, noCache bool) (*pipeline.Runner, error) {
	src, err := newSource(ctx, cfg, sourceOverride)
	if err != nil {
		return nil, err
	}
	pc, err := newPayloadCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(src, pc, nil, c.Logger), nil
}

// newSource builds the payload source. A non-empty override wins over the
// config: a URL selects the HTTP backend, anything else is a payload dir.
func newSource(ctx context.Context, cfg config.Config, override string) (source.Source, error) {
	if override != "" {
		if strings.Contains(override, "://") {
			return source.NewHTTPSource(override, nil)
		}
		return source.NewFileSource(override)
	}

	switch cfg.Source.Backend {
	case "http":
		if cfg.Source.URL == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"no source configured: set source.url or pass --source")
		}
		return source.NewHTTPSource(cfg.Source.URL, nil)
	case "file":
		return source.NewFileSource(cfg.Source.Dir)
	case "mongo":
		return source.NewMongoSource(ctx, cfg.Source.MongoURI, cfg.Source.MongoDB, cfg.Source.MongoCollection)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"unknown source backend: %q (must be http, file, or mongo)", cfg.Source.Backend)
	}
}

// newPayloadCache builds the payload cache backend.
func newPayloadCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	case "file", "":
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"unknown cache backend: %q (must be file, redis, or none)", cfg.Cache.Backend)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/versegraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
