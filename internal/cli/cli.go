package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/flowlayout/pkg/buildinfo"
	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/config"
	"github.com/matzehuels/flowlayout/pkg/engine"
	"github.com/matzehuels/flowlayout/pkg/graph"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = config.AppName

	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

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
	config     config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Flowlayout arranges flowchart graphs",
		Long:         `Flowlayout computes node positions for flowchart graphs with hierarchical, tree, circular, grid and force-directed layouts, and suggests the layout that fits a graph best.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/flowlayout/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.suggestCommand())
	root.AddCommand(c.reviewCommand())
	root.AddCommand(c.optimizeCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.algorithmsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.config = cfg
	return nil
}

// =============================================================================
// Engine Factory
// =============================================================================

// newEngine builds an engine from the loaded config. The returned cache must
// be closed by the caller.
func (c *CLI) newEngine(ctx context.Context, noCache bool) (*engine.Engine, cache.Cache, error) {
	store, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}

	opts := c.config.EngineOptions(store, c.config.Keyer())
	opts.Logger = c.Logger
	eng := engine.New(opts)
	for _, t := range c.config.EngineTemplates() {
		if err := eng.RegisterTemplate(t); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("template %s: %w", t.Name, err)
		}
	}
	return eng, store, nil
}

func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	opts := c.config.CacheOptions()
	if noCache {
		opts.Backend = cache.BackendNone
	}
	store, err := cache.Open(ctx, opts)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", opts.Backend, "err", err)
		return cache.NewInstrumented(cache.NewNullCache()), nil
	}
	c.Logger.Debug("cache opened", "backend", opts.Backend)
	return store, nil
}

// =============================================================================
// Input & Output Helpers
// =============================================================================

// readGraph loads a JSON or YAML flowchart file, or JSON from stdin when path
// is "-".
func readGraph(path string) (*graph.Graph, error) {
	var (
		g   *graph.Graph
		err error
	)
	if path == "-" {
		g, err = graph.Decode(os.Stdin, graph.FormatJSON)
	} else {
		g, err = graph.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", path, err)
	}
	return g, nil
}

// writeData encodes v as JSON or YAML to path, or to stdout when path is
// empty or "-".
func writeData(v any, format, path string) error {
	w := io.Writer(os.Stdout)
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	return encode(w, v, format)
}

func encode(w io.Writer, v any, format string) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case formatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

// formatFromPath picks yaml for .yaml/.yml paths and json otherwise.
func formatFromPath(path, fallback string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return formatYAML
	}
	if strings.HasSuffix(lower, ".json") {
		return formatJSON
	}
	return fallback
}
