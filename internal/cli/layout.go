package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	rrerrors "github.com/matzehuels/rrgraph/pkg/errors"
	"github.com/matzehuels/rrgraph/pkg/layout"
	"github.com/matzehuels/rrgraph/pkg/pipeline"
	"github.com/matzehuels/rrgraph/pkg/rrg"
)

// layoutCommand creates the layout command for computing chart layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [sectors.json]",
		Short: "Compute a chart layout from sector readings",
		Long: `Compute a chart layout from sector readings.

The layout command reads a sector file (JSON, or msgpack with a .mpk or
.msgpack extension), scales the domain, maps every sector to the screen and
resolves marker collisions. The result is written as <input>.layout.json and
can be rendered with 'visualize'.

Layouts are cached locally, keyed by the sector content and layout options.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style recorded for visualize: dark, light")
	layoutFlags(cmd, &opts)

	return cmd
}

// runLayout loads the sectors, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	sectors, err := c.loadSectors(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	c.Config.ApplyLayout(&opts)
	if opts.Style == "" {
		opts.Style = c.Config.Render.Style
	}

	spin := startSpinner(ctx, "Computing layout...")

	l, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, sectors, opts)
	if err != nil {
		spin.fail("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spin.stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	if err := layout.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(l.Markers), l.Resolution.Rounds, l.Resolution.Converged, cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}

// loadSectors reads a sector file. An empty batch is reported as a warning
// and returned as an error so that the command exits non-zero.
func (c *CLI) loadSectors(path string) ([]rrg.Sector, error) {
	sectors, err := pipeline.LoadSectors(path)
	if err != nil {
		return nil, fmt.Errorf("load sectors %s: %w", path, err)
	}
	if len(sectors) == 0 {
		printWarning("No sectors in %s, nothing to draw", path)
		return nil, rrerrors.InsufficientData()
	}
	c.Logger.Debug("loaded sectors", "path", path, "count", len(sectors))
	return sectors, nil
}
