// Package cli implements the rrgraph command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rrgraph/internal/config"
	"github.com/matzehuels/rrgraph/pkg/buildinfo"
	"github.com/matzehuels/rrgraph/pkg/cache"
	"github.com/matzehuels/rrgraph/pkg/pipeline"
	"github.com/matzehuels/rrgraph/pkg/rrg"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "rrgraph"

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
	Config *config.Config

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
		Short: "rrgraph lays out and renders Relative Rotation Graphs",
		Long: `rrgraph turns sector relative-strength readings into a Relative Rotation
Graph: markers placed by RS-Ratio and RS-Momentum, pushed apart so they never
overlap, classified into leading, weakening, lagging and improving quadrants.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/rrgraph/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and settles the log level before any
// command runs. --verbose wins over the configured level.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = LogInfo
	}
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, "v"+buildinfo.Version+":")
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisURL, cache.WithRedisPrefix(c.Config.Cache.Prefix))
		if err != nil {
			if cache.IsRetryable(err) {
				c.Logger.Warn("redis unavailable, caching disabled", "err", err)
				return cache.NewNullCache(), nil
			}
			return nil, err
		}
		return rc, nil
	}

	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Debug("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config != nil && c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/rrgraph/).
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

// layoutFlags registers the layout flags shared by layout, render and
// inspect. Zero values fall back to the configuration.
func layoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "frame width (default from config)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "frame height (default from config)")
	cmd.Flags().Float64Var(&opts.Radius, "radius", 0, "marker radius")
	cmd.Flags().Var(optionalFloat{&opts.Gap}, "gap", "extra spacing between markers, 0 allowed (default from config)")
	cmd.Flags().IntVar(&opts.Rounds, "rounds", 0, "collision relaxation rounds")
	cmd.Flags().Float64Var(&opts.Padding, "padding", 0, "domain padding factor")
	cmd.Flags().Var(optionalFloat{&opts.MinRatioSpread}, "min-ratio-spread", "smallest RS-Ratio half-extent (default 1.5)")
	cmd.Flags().Var(optionalFloat{&opts.MinMomentumSpread}, "min-momentum-spread", "smallest RS-Momentum half-extent (default 1)")
	cmd.Flags().IntVar(&opts.RatioTicks, "ratio-ticks", 0, "RS-Ratio tick count")
	cmd.Flags().IntVar(&opts.MomentumTicks, "momentum-ticks", 0, "RS-Momentum tick count")
}

// optionalFloat binds a flag to an optional float option. The option stays
// nil unless the flag is given, so an explicit 0 is kept.
type optionalFloat struct{ p **float64 }

func (f optionalFloat) String() string {
	if f.p == nil || *f.p == nil {
		return ""
	}
	return strconv.FormatFloat(**f.p, 'g', -1, 64)
}

func (f optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*f.p = &v
	return nil
}

func (f optionalFloat) Type() string { return "float" }

// renderFlags registers the render flags shared by render and visualize.
func renderFlags(cmd *cobra.Command, opts *pipeline.Options, formats, pointer *string) {
	cmd.Flags().StringVarP(formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames(), ", ")+" (comma-separated)")
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style: dark, light")
	cmd.Flags().BoolVar(&opts.Interactive, "interactive", false, "embed the hover script in SVG output")
	cmd.Flags().BoolVar(&opts.Legend, "legend", false, "draw the quadrant legend")
	cmd.Flags().StringVar(&opts.Hover, "hover", "", "render a hover snapshot for sector ID")
	cmd.Flags().StringVar(pointer, "pointer", "", "pointer position X,Y for --hover (default: marker centre)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "PNG scale factor")
}

// applyRenderFlags parses the string-valued render flags into opts and
// validates them.
func (c *CLI) applyRenderFlags(opts *pipeline.Options, formats, pointer string) error {
	if formats != "" {
		opts.Formats = parseFormats(formats)
	}
	if pointer != "" {
		p, err := parsePointer(pointer)
		if err != nil {
			return err
		}
		opts.Pointer = &p
	}
	c.Config.ApplyRender(opts)
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	return pipeline.ValidateStyle(opts.Style)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}

// parsePointer parses "X,Y" screen coordinates.
func parsePointer(s string) (rrg.Screen, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return rrg.Screen{}, fmt.Errorf("invalid pointer %q (want X,Y)", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return rrg.Screen{}, fmt.Errorf("invalid pointer x %q: %w", xs, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return rrg.Screen{}, fmt.Errorf("invalid pointer y %q: %w", ys, err)
	}
	return rrg.Screen{X: x, Y: y}, nil
}
