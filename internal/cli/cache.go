package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached layouts and analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			term := newTerminal(cmd.OutOrStdout())
			opts := c.config.CacheOptions()
			if opts.Backend == cache.BackendNone || opts.Backend == "" {
				term.info("Cache is disabled")
				return nil
			}

			store, err := cache.Open(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			count, err := store.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			term.success("Cleared %d cached entries", count)
			switch opts.Backend {
			case cache.BackendFile:
				term.detail("Directory: %s", opts.Dir)
			case cache.BackendRedis:
				term.detail("Redis: %s", opts.Redis.Addr)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache and config locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.config.CacheOptions().Dir
			if dir == "" {
				d, err := config.CacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				dir = d
			}
			cfgPath := c.configPath
			if cfgPath == "" {
				p, err := config.Path()
				if err != nil {
					return fmt.Errorf("get config path: %w", err)
				}
				cfgPath = p
			}
			term := newTerminal(cmd.OutOrStdout())
			term.keyValue("Cache", dir)
			term.keyValue("Config", cfgPath)
			return nil
		},
	}
}
