// Package render turns layout results into visual outputs.
//
// # Overview
//
// Two renderers are provided:
//
//   - The cladogram SVG sink ([RenderSVG]) draws the layout's primitives
//     directly: right-angle branch segments, node markers, and leaf labels.
//     This is the primary output format.
//   - The node-link view ([ToDOT], [GraphvizSVG], [GraphvizPNG]) renders the
//     tree topology as a directed graph using Graphviz, which is useful for
//     inspecting structure independent of branch lengths.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg := render.RenderSVG(result)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
package render
