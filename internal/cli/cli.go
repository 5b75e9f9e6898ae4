package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridrule/pkg/buildinfo"
	"github.com/matzehuels/gridrule/pkg/cache"
	"github.com/matzehuels/gridrule/pkg/config"
	"github.com/matzehuels/gridrule/pkg/errors"
	"github.com/matzehuels/gridrule/pkg/grid"
	"github.com/matzehuels/gridrule/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gridrule"

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
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and config.
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
		Use:          appName,
		Short:        "gridrule learns grid transformation rules from examples",
		Long:         `gridrule infers a transformation rule from input/output grid pairs and applies it to new grids. It recognizes marker paths, object stacking and tiled-template denoising.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/gridrule/config.toml)")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.inferCommand())
	root.AddCommand(c.denoiseCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	dir, err := cacheDir()
	if err != nil {
		dir = ""
	}
	store, keyer, err := c.Config.OpenCache(ctx, dir)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/gridrule/).
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

// solverFlags are the pipeline flags shared by solve, infer and show.
type solverFlags struct {
	solver   string
	markers  []int
	trail    int
	fallback []int
	noCache  bool
	refresh  bool
}

func (f *solverFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.solver, "solver", "s", "", "rule family: auto (default), movement, stacking, denoise")
	cmd.Flags().IntSliceVar(&f.markers, "markers", nil, "marker color chain for movement rules (default 2,4,3)")
	cmd.Flags().IntVar(&f.trail, "trail", 0, "trail color for movement rules (default 5)")
	cmd.Flags().IntSliceVar(&f.fallback, "fallback", nil, "row,col start for stacking when outputs are not anchored at the origin (default 2,2)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute cached rules and predictions")
}

// options layers the flags over the config file settings.
func (f *solverFlags) options(c *CLI) (pipeline.Options, error) {
	opts := c.Config.PipelineOptions()
	if f.solver != "" {
		opts.Solver = f.solver
	}
	if len(f.markers) > 0 {
		opts.Markers = f.markers
	}
	if f.trail != 0 {
		opts.Trail = f.trail
	}
	if len(f.fallback) > 0 {
		if len(f.fallback) != 2 {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidOption, "--fallback: want row,col, got %v", f.fallback)
		}
		opts.Fallback = &grid.Point{Row: f.fallback[0], Col: f.fallback[1]}
	}
	opts.Refresh = f.refresh
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}
