// Package cli implements the tonegraph command-line interface.
//
// Commands read notation or graph files, run one pipeline stage each, and
// write graphs in any supported serialization. The CLI is built using cobra
// and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - extract: Turn text or image notation into a graph
//   - validate, analyze, metrics, query: Inspect a graph
//   - optimize, transform, layout: Rewrite a graph
//   - compare: Diff two graphs
//   - export, render: Produce DOT, SVG, GraphML and score formats
//   - browse: Explore a graph interactively
//   - serve: Run the HTTP API
//   - store, cache: Manage persisted graphs and cached results
//
// # Configuration
//
// Settings come from $XDG_CONFIG_HOME/tonegraph/config.toml or the file named
// by --config. Flags override the file.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tonegraph/pkg/buildinfo"
	"github.com/matzehuels/tonegraph/pkg/cache"
	"github.com/matzehuels/tonegraph/pkg/config"
	"github.com/matzehuels/tonegraph/pkg/observability"
	"github.com/matzehuels/tonegraph/pkg/pipeline"
	"github.com/matzehuels/tonegraph/pkg/store"
)

const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// EnableTracing logs every pipeline stage, cache access and HTTP request at
// debug level.
func (c *CLI) EnableTracing() {
	observability.NewLogHooks(c.Logger).Register()
}

// Config returns the loaded configuration.
func (c *CLI) Config() config.Config {
	return c.cfg
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Tonegraph extracts and analyzes music-theory graphs",
		Long: `Tonegraph extracts graphs of pitch classes, intervals and transformations
from notation, then validates, analyzes, lays out, compares and exports them.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/tonegraph/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable result caching")

	root.AddCommand(c.extractCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.metricsCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.optimizeCommand())
	root.AddCommand(c.transformCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())
	registerValueCompletions(root)

	return root
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.cfg.Cache.Prefix != "" && c.cfg.Cache.Backend != config.CacheRedis {
		keyer = cache.NewScopedKeyer(nil, c.cfg.Cache.Prefix)
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

// newCache opens the configured backend. An unreachable Redis downgrades to
// no caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			URL:    c.cfg.Cache.RedisURL,
			Prefix: c.cfg.Cache.Prefix,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore opens the configured graph store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if c.cfg.Store.Backend == config.StoreMongo {
		return store.NewMongoStore(ctx, store.MongoOptions{
			URI:      c.cfg.Store.MongoURI,
			Database: c.cfg.Store.MongoDatabase,
		})
	}
	dir := c.cfg.Store.Dir
	if dir == "" {
		var err error
		if dir, err = config.DataDir(); err != nil {
			return nil, err
		}
	}
	return store.NewFileStore(dir)
}

func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return config.CacheDir()
}
