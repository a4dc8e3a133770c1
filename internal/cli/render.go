package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cladekit/phylogram/pkg/pipeline"
	"github.com/cladekit/phylogram/pkg/treeio"
)

// renderCommand creates the render command for producing visual artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "render [tree.json]",
		Short: "Render a tree as SVG, PNG, DOT, or layout JSON",
		Long: `Render a tree as SVG, PNG, DOT, or layout JSON.

The render command runs the complete pipeline: the tree is normalized, laid
out, and rendered to every requested format. PNG output converts the SVG with
rsvg-convert and requires librsvg. DOT output is the tree topology for
Graphviz, independent of branch lengths.

With -t nodelink, SVG and PNG show the Graphviz node-link view of the
topology instead of the cladogram.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")

	// Layout flags
	cmd.Flags().StringVar(&opts.Orientation, "orientation", opts.Orientation, "tree orientation: right (default), left, top, bottom")
	cmd.Flags().IntVarP(&opts.DisplayLevel, "level", "l", opts.DisplayLevel, "maximum displayed depth (0 = unlimited)")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.View, "view", "t", "", "figure style: cladogram (default), nodelink")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "PNG scale factor (default 2.0)")
	cmd.Flags().BoolVar(&opts.ShowLengths, "lengths", opts.ShowLengths, "label DOT edges with branch lengths")

	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	root, err := treeio.ReadTreeFile(input)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	p := newProgress(c.Logger)
	result, err := runner.Execute(ctx, root, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	p.done(fmt.Sprintf("Rendered %d format(s)", len(result.Artifacts)))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeArtifacts(result.Artifacts, opts.Formats, input, output); err != nil {
		return err
	}

	printSuccess("Render complete")
	printStats(result.Stats.NodeCount, result.Stats.LeafCount, result.CacheInfo.RenderHit)
	printUnclassifiedNote(result.Unclassified)

	return nil
}

// writeArtifacts writes each rendered format to disk. With a single format,
// output (when set) names the file directly; with multiple formats it is used
// as a base path with the format appended as extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) error {
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}

	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}

		path := fmt.Sprintf("%s.%s", base, format)
		if output != "" && len(formats) == 1 {
			path = output
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
