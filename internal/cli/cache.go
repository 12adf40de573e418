package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/cache"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the search result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached search result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheClear(cmd.Context())
		},
	}
}

func (c *CLI) runCacheClear(ctx context.Context) error {
	store, err := c.Config.Cache.Open(ctx)
	if err != nil {
		return fmt.Errorf("open %s cache: %w", c.Config.Cache.Backend, err)
	}
	defer store.Close()

	clearer, ok := store.(cache.Clearer)
	if !ok {
		printWarning("The %s cache cannot be cleared", cache.Backend(store))
		return nil
	}
	if err := clearer.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	printSuccess("Cleared the %s cache", cache.Backend(store))
	if loc := c.cacheLocation(); loc != "" {
		printDetail("Location: %s", loc)
	}
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the configured cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCachePath(cmd.OutOrStdout())
		},
	}
}

func (c *CLI) runCachePath(w io.Writer) error {
	loc := c.cacheLocation()
	if loc == "" {
		return fmt.Errorf("the %s cache has no location", c.Config.Cache.Backend)
	}
	fmt.Fprintln(w, loc)
	return nil
}

// cacheLocation describes where the configured backend keeps its data.
func (c *CLI) cacheLocation() string {
	cfg := c.Config.Cache
	switch cfg.Backend {
	case config.BackendRedis:
		return fmt.Sprintf("redis://%s/%d", cfg.RedisAddr, cfg.RedisDB)
	case config.BackendBadger:
		dir, err := cfg.BadgerDir()
		if err != nil {
			return ""
		}
		return dir
	case config.BackendFile:
		dir, err := cfg.CacheDir()
		if err != nil {
			return ""
		}
		return dir
	}
	return ""
}
