// Package cli implements the trifractal command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trifractal/pkg/buildinfo"
	"github.com/matzehuels/trifractal/pkg/cache"
	"github.com/matzehuels/trifractal/pkg/config"
	"github.com/matzehuels/trifractal/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "trifractal"

	// configFileName is the default config file inside the config directory.
	configFileName = "config.toml"
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

	// configPath is set by the persistent --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
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
		Short:        "Trifractal explores a Sierpinski-style subdivision and its construction tree",
		Long:         `Trifractal subdivides a triangle into four sub-triangles per level and draws both the fractal and its construction tree, with per-level selection, depth changes and hit-testing.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (.toml, .yaml, .json); defaults to "+filepath.Join("$XDG_CONFIG_HOME", appName, configFileName))

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheOpts selects the artifact cache backend.
type cacheOpts struct {
	noCache  bool
	redisURL string
}

func (o *cacheOpts) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&o.redisURL, "redis", os.Getenv("TRIFRACTAL_REDIS_URL"), "redis URL for a shared artifact cache (default: file cache)")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, opts cacheOpts) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, opts)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, opts cacheOpts) (cache.Cache, error) {
	switch {
	case opts.noCache:
		return cache.NewNullCache(), nil
	case opts.redisURL != "":
		rc, err := cache.NewRedisCache(ctx, opts.redisURL)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache", "url", opts.redisURL)
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/trifractal/).
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

// configDir returns the config directory using XDG standard (~/.config/trifractal/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Config
// =============================================================================

// loadConfig returns the effective configuration: the --config file if
// given, else the default config file if it exists, else config.Default.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.configPath)
	}
	dir, err := configDir()
	if err != nil {
		return config.Default(), nil
	}
	path := filepath.Join(dir, configFileName)
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded config", "path", path)
	return cfg, nil
}

// depthFlags overrides depth-related config values from the command line.
// Only flags the user set take effect, so -d 0 is honoured.
type depthFlags struct {
	maxDepth int
	limit    int
	cmd      *cobra.Command
}

func (f *depthFlags) register(cmd *cobra.Command) {
	f.cmd = cmd
	cmd.Flags().IntVarP(&f.maxDepth, "depth", "d", 0, "maximum recursion depth (default from config)")
	cmd.Flags().IntVar(&f.limit, "depth-limit", 0, "upper bound for depth changes (default from config)")
}

func (f *depthFlags) apply(cfg *config.Config) {
	if f.cmd == nil {
		return
	}
	flags := f.cmd.Flags()
	if flags.Changed("depth") {
		cfg.MaxDepth = f.maxDepth
	}
	if flags.Changed("depth-limit") {
		cfg.MaxDepthLimit = f.limit
	}
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
