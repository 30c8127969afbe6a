package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tonegraph/pkg/cache"
	"github.com/matzehuels/tonegraph/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheStatsCommand())
	cmd.AddCommand(c.cachePruneCommand())

	return cmd
}

// withFileCache runs fn on the file cache, or explains that the configured
// backend has nothing local to manage.
func (c *CLI) withFileCache(fn func(*cache.FileCache) error) error {
	if b := c.cfg.Cache.Backend; b != config.CacheFile {
		printInfo("Cache backend is %q; nothing to manage locally", b)
		return nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return fmt.Errorf("get cache dir: %w", err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	defer fc.Close()
	return fn(fc)
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withFileCache(func(fc *cache.FileCache) error {
				st, err := fc.Stats()
				if err != nil {
					return err
				}
				if st.Entries == 0 {
					printInfo("Cache is empty")
					return nil
				}
				if err := fc.Clear(); err != nil {
					return err
				}
				printSuccess("Cleared %d cached entries", st.Entries)
				printDetail("Directory: %s", fc.Dir())
				return nil
			})
		},
	}
}

// cachePruneCommand creates the "cache prune" subcommand.
func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cached results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withFileCache(func(fc *cache.FileCache) error {
				n, err := fc.Prune()
				if err != nil {
					return err
				}
				printSuccess("Pruned %d expired entries", n)
				return nil
			})
		},
	}
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache size",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withFileCache(func(fc *cache.FileCache) error {
				st, err := fc.Stats()
				if err != nil {
					return err
				}
				printKeyValue("Directory", fc.Dir())
				printKeyValue("Entries", strconv.Itoa(st.Entries))
				printKeyValue("Expired", strconv.Itoa(st.Expired))
				printKeyValue("Size", formatBytes(st.Bytes))
				return nil
			})
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
