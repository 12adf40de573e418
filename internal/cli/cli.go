// Package cli implements the cuckatoo command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/buildinfo"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/cache"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/config"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "cuckatoo"

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

	// Config is loaded from the --config file before any command runs.
	Config     config.Config
	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Cuckatoo finds fixed-length cycles in trimmed edge sets",
		Long: `Cuckatoo searches the residual graph left after edge trimming for cycles
of a fixed length (42 by default) and reports each cycle as the sorted
nonces of its edges.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "",
		"config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.findCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies its log level. --verbose
// wins over the file.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.SetLogLevel(cfg.LogLevel())
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, c.Config.Cache.Keyer(), c.Logger)
	if ttl, err := c.Config.Cache.TTLDuration(); err == nil {
		r.TTL = ttl
	}
	return r, nil
}

// openCache opens the configured backend. A backend that cannot be opened
// is logged and replaced by a NullCache so a search still runs.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	store, err := c.Config.Cache.Open(ctx)
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", c.Config.Cache.Backend, "err", err)
		return cache.NewNullCache(), nil
	}
	return store, nil
}
