package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/cladekit/phylogram/pkg/tree"
)

// DOTOptions configures node-link diagram rendering.
type DOTOptions struct {
	// ShowLengths labels each edge with its branch length.
	ShowLengths bool
}

// ToDOT converts a tree to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered with [GraphvizSVG] or [GraphvizPNG].
//
// Leaves are drawn as filled boxes to distinguish them from internal nodes.
func ToDOT(root *tree.Node, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph tree {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	if root != nil {
		for _, n := range tree.LevelOrder(root) {
			fmt.Fprintf(&buf, "  %q [%s];\n", n.Name, strings.Join(nodeAttrs(n), ", "))
		}
		buf.WriteString("\n")
		for _, n := range tree.LevelOrder(root) {
			for _, c := range n.Children {
				if opts.ShowLengths {
					fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", n.Name, c.Name, fmtLength(c))
				} else {
					fmt.Fprintf(&buf, "  %q -> %q;\n", n.Name, c.Name)
				}
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *tree.Node) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.Name)}
	if n.IsLeaf() {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

func fmtLength(n *tree.Node) string {
	if n.Length == nil {
		return fmt.Sprintf("%g*", tree.DefaultBranchLength)
	}
	return fmt.Sprintf("%g", *n.Length)
}

// GraphvizSVG renders a DOT graph to SVG using Graphviz.
func GraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
	return graphvizRender(ctx, dot, graphviz.SVG)
}

// GraphvizPNG renders a DOT graph to PNG using Graphviz.
func GraphvizPNG(ctx context.Context, dot string) ([]byte, error) {
	return graphvizRender(ctx, dot, graphviz.PNG)
}

func graphvizRender(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
