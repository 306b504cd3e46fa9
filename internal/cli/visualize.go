package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rrgraph/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering a stored layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formats string
		pointer string
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "visualize [sectors.layout.json]",
		Short: "Render artifacts from a computed layout",
		Long: `Render artifacts from a computed layout.

visualize takes a layout file produced by 'layout' (or a JSON/msgpack
artifact from 'render') and draws it. The layout already holds every
position, so this step never moves a marker.

Use 'render' to go directly from sectors to artifacts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.applyRenderFlags(&opts, formats, pointer); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output, noCache, cmd.Flags().Changed("style"))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	renderFlags(cmd, &opts, &formats, &pointer)

	return cmd
}

// runVisualize loads the layout and renders it. The style recorded in the
// layout is used unless --style was given.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache, styleSet bool) error {
	l, err := pipeline.LoadLayout(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	if !styleSet && l.Style != "" {
		opts.Style = l.Style
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spin := startSpinner(ctx, "Rendering layout...")

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spin.fail("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spin.stop()

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}

	printSuccess("Visualization complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(l.Markers), l.Resolution.Rounds, l.Resolution.Converged, cacheHit)
	return nil
}
