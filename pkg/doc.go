// Package pkg provides the core libraries for phylogram cladogram layout.
//
// # Overview
//
// Phylogram turns rooted, possibly polytomous phylogenetic trees into 2-D
// cladogram layouts: every node gets a depth (cumulative branch length from
// the root) and a rank (leaf index, or the mean of child ranks), and every
// edge becomes a two-segment right-angle elbow. The pkg directory is
// organized into five areas:
//
//  1. [tree] - The tree structure, traversals, and validation
//  2. [layout] - Coordinate computation and drawable primitives
//  3. [render] - SVG and Graphviz output
//  4. [pipeline] - Orchestration (normalize → layout → render)
//  5. [treeio] / [figure] - Serialization and axis metadata
//
// # Architecture
//
// The typical data flow:
//
//	tree.json
//	     ↓
//	[tree/transform] (root designation, synthetic names, pruning)
//	     ↓
//	[layout] (depths, ranks, markers, elbows)
//	     ↓
//	[figure] + [render] (axes, SVG/PNG/DOT output)
//
// # Quick Start
//
// Lay out a tree and render it to SVG:
//
//	import (
//	    "github.com/cladekit/phylogram/pkg/layout"
//	    "github.com/cladekit/phylogram/pkg/render"
//	    "github.com/cladekit/phylogram/pkg/tree/transform"
//	    "github.com/cladekit/phylogram/pkg/treeio"
//	)
//
//	// 1. Load and normalize the tree
//	root, _ := treeio.ReadTreeFile("tree.json")
//	normalized, unclassified, _ := transform.Normalize(root, transform.Unbounded)
//
//	// 2. Compute the layout
//	res, _ := layout.Build(normalized, unclassified, layout.OrientRight)
//
//	// 3. Render to SVG
//	svg := render.RenderSVG(res)
//
// # Main Packages
//
// [tree] - Rooted tree with optional branch lengths. Traversals (level
// order, post order, leaf order), deep cloning, and structural validation.
//
// [tree/transform] - Pre-layout normalization: root canonicalization,
// unclassified clade extraction, depth pruning, and synthetic naming.
//
// [layout] - The coordinate engine. Computes depth and rank per node,
// applies orientation (right, left, top, bottom), and emits node markers
// and branch elbow segments.
//
// [figure] - Axis metadata (tick positions, leaf labels, inverted ranges)
// for external figure assemblers.
//
// [treeio] - JSON serialization for trees and layout documents.
//
// [render] - SVG sink for cladograms, Graphviz node-link view, and format
// conversion (SVG to PNG/PDF via librsvg).
//
// [pipeline] - Complete normalize → layout → render pipeline with caching,
// used by both the CLI and the HTTP server.
//
// [cache] - File, Redis, and null cache backends with content-hash keys.
//
// [observability] - Optional hooks for metrics and tracing backends.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//
// [tree]: https://pkg.go.dev/github.com/cladekit/phylogram/pkg/tree
// [tree/transform]: https://pkg.go.dev/github.com/cladekit/phylogram/pkg/tree/transform
// [layout]: https://pkg.go.dev/github.com/cladekit/phylogram/pkg/layout
// [figure]: https://pkg.go.dev/github.com/cladekit/phylogram/pkg/figure
// [treeio]: https://pkg.go.dev/github.com/cladekit/phylogram/pkg/treeio
// [render]: https://pkg.go.dev/github.com/cladekit/phylogram/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/cladekit/phylogram/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/cladekit/phylogram/pkg/cache
// [observability]: https://pkg.go.dev/github.com/cladekit/phylogram/pkg/observability
package pkg
