package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/cladekit/phylogram/pkg/pipeline"
	"github.com/cladekit/phylogram/pkg/treeio"
)

// inspectCommand creates the inspect command for printing node coordinates.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "inspect [tree.json]",
		Short: "Print the computed node coordinates as a table",
		Long: `Print the computed node coordinates as a table.

The inspect command runs normalization and layout, then prints one row per
node with its depth (cumulative branch length from the root) and rank (leaf
index, or mean of child ranks for internal nodes). Useful for debugging
layouts without rendering anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.Orientation, "orientation", opts.Orientation, "tree orientation: right (default), left, top, bottom")
	cmd.Flags().IntVarP(&opts.DisplayLevel, "level", "l", opts.DisplayLevel, "maximum displayed depth (0 = unlimited)")

	return cmd
}

// runInspect computes the layout and prints the coordinate table.
func (c *CLI) runInspect(ctx context.Context, input string, opts pipeline.Options, noCache bool) error {
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

	result, err := runner.Execute(ctx, root, opts)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	leaves := make(map[string]bool, len(result.Layout.Leaves))
	for _, name := range result.Layout.Leaves {
		leaves[name] = true
	}

	names := make([]string, 0, len(result.Layout.Depths))
	for name := range result.Layout.Depths {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		// Leaves first in rank order, then internal nodes by rank.
		ra, rb := result.Layout.Ranks[a], result.Layout.Ranks[b]
		if leaves[a] != leaves[b] {
			if leaves[a] {
				return -1
			}
			return 1
		}
		switch {
		case ra < rb:
			return -1
		case ra > rb:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		kind := "internal"
		if leaves[name] {
			kind = "leaf"
		}
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%.3f", result.Layout.Depths[name]),
			fmt.Sprintf("%.3f", result.Layout.Ranks[name]),
			kind,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Depth", "Rank", "Kind").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleValue
			}
			return StyleDim
		})

	fmt.Println(t.Render())
	printStats(result.Stats.NodeCount, result.Stats.LeafCount, result.CacheInfo.LayoutHit)

	return nil
}
