package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cladekit/phylogram/pkg/pipeline"
	"github.com/cladekit/phylogram/pkg/tree"
	"github.com/cladekit/phylogram/pkg/treeio"
)

// layoutCommand creates the layout command for computing cladogram layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "layout [tree.json]",
		Short: "Compute a cladogram layout from a tree",
		Long: `Compute a cladogram layout from a tree.

The layout command takes a tree.json file and computes depth/rank coordinates,
node markers, and branch elbows. The output is a layout.json file (same format
as 'render -f json') that can be rendered to SVG/PNG with the 'render' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")

	// Layout flags
	cmd.Flags().StringVar(&opts.Orientation, "orientation", opts.Orientation, "tree orientation: right (default), left, top, bottom")
	cmd.Flags().IntVarP(&opts.DisplayLevel, "level", "l", opts.DisplayLevel, "maximum displayed depth (0 = unlimited)")

	return cmd
}

// runLayout loads the tree, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
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
	opts.Formats = []string{pipeline.FormatJSON}

	p := newProgress(c.Logger)
	result, err := runner.Execute(ctx, root, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	p.done(fmt.Sprintf("Laid out %d nodes", result.Stats.NodeCount))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := treeio.WriteLayoutFile(result.Layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats.NodeCount, result.Stats.LeafCount, result.CacheInfo.LayoutHit)
	printUnclassifiedNote(result.Unclassified)
	printNewline()
	printNextStep("Render", "phylogram render "+input)

	return nil
}

// printUnclassifiedNote reports an extracted unclassified clade.
func printUnclassifiedNote(unclassified *tree.Node) {
	if unclassified == nil {
		return
	}
	printDetail("extracted %q clade, drawn separately at depth 0", unclassified.Name)
}
