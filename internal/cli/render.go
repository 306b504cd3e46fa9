package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rrgraph/pkg/pipeline"
)

// renderCommand creates the render command: sectors straight to artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formats string
		pointer string
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [sectors.json]",
		Short: "Render sector readings to SVG, PNG, PDF, JSON or msgpack",
		Long: `Render sector readings to SVG, PNG, PDF, JSON or msgpack.

render is 'layout' followed by 'visualize' in one step. Both stages are
cached, so changing only render options (style, hover snapshot, legend)
reuses the cached layout.

A static hover snapshot is drawn with --hover ID, optionally at --pointer X,Y.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.applyRenderFlags(&opts, formats, pointer); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")
	layoutFlags(cmd, &opts)
	renderFlags(cmd, &opts, &formats, &pointer)

	return cmd
}

// runRender loads the sectors and runs the full pipeline.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
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

	prog := newProgress(c.Logger)
	spin := startSpinner(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))

	res, err := runner.Execute(ctx, sectors, opts)
	if err != nil {
		spin.fail("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spin.stop()
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(res.Artifacts)))

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: res.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats.Sectors, res.Stats.Rounds, res.Stats.Converged,
		res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
	return nil
}
