package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/cladekit/phylogram/pkg/layout"
)

// SVGOption configures cladogram SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	unit         float64
	margin       float64
	fontSize     float64
	strokeWidth  float64
	markerRadius float64
}

// WithUnit sets the pixel size of one layout coordinate unit (default 60).
func WithUnit(px float64) SVGOption { return func(r *svgRenderer) { r.unit = px } }

// WithMargin sets the frame padding in pixels (default 40).
func WithMargin(px float64) SVGOption { return func(r *svgRenderer) { r.margin = px } }

// WithFontSize sets the leaf label font size in pixels (default 12).
func WithFontSize(px float64) SVGOption { return func(r *svgRenderer) { r.fontSize = px } }

// WithStrokeWidth sets the branch stroke width in pixels (default 1.5).
func WithStrokeWidth(px float64) SVGOption { return func(r *svgRenderer) { r.strokeWidth = px } }

// WithMarkerRadius sets the node marker radius in pixels (default 3).
func WithMarkerRadius(px float64) SVGOption { return func(r *svgRenderer) { r.markerRadius = px } }

// RenderSVG draws the layout's primitives as a standalone SVG document:
// one line per branch segment, one circle per node marker, and a text label
// next to each leaf marker. Internal markers carry their label as a <title>
// element so it surfaces on hover.
func RenderSVG(res layout.Result, opts ...SVGOption) []byte {
	r := svgRenderer{
		unit:         60,
		margin:       40,
		fontSize:     12,
		strokeWidth:  1.5,
		markerRadius: 3,
	}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, maxX, maxY := bounds(res.Primitives)
	labelPad := r.labelPad(res)
	width := (maxX-minX)*r.unit + 2*r.margin + labelPad.x
	height := (maxY-minY)*r.unit + 2*r.margin + labelPad.y

	// Layout coordinates map onto the frame with a margin offset. SVG y
	// grows downward, which matches rank order: the first leaf lands at
	// the top of a right-oriented figure.
	px := func(x float64) float64 { return (x-minX)*r.unit + r.margin }
	py := func(y float64) float64 { return (y-minY)*r.unit + r.margin }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)

	// Segments first so markers draw on top of the elbows.
	for _, p := range res.Primitives {
		s, ok := p.(layout.BranchSegment)
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="black" stroke-width="%.1f"/>`+"\n",
			px(s.X0), py(s.Y0), px(s.X1), py(s.Y1), r.strokeWidth)
	}

	for _, p := range res.Primitives {
		m, ok := p.(layout.NodeMarker)
		if !ok {
			continue
		}
		if m.Leaf {
			fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="black"/>`+"\n",
				px(m.X), py(m.Y), r.markerRadius)
			r.writeLeafLabel(&buf, res.Orientation, px(m.X), py(m.Y), m.Label)
		} else {
			fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="white" stroke="black"><title>%s</title></circle>`+"\n",
				px(m.X), py(m.Y), r.markerRadius, escapeText(m.Label))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

type pad struct{ x, y float64 }

// labelPad reserves frame space for leaf labels on the side they extend
// toward, estimated from the longest label.
func (r *svgRenderer) labelPad(res layout.Result) pad {
	longest := 0
	for _, l := range res.Labels {
		if len(l) > longest {
			longest = len(l)
		}
	}
	est := float64(longest) * r.fontSize * 0.62
	if res.Orientation.Transposed() {
		return pad{y: r.fontSize * 2}
	}
	return pad{x: est}
}

// writeLeafLabel places the label on the far side of the leaf marker,
// away from the root.
func (r *svgRenderer) writeLeafLabel(buf *bytes.Buffer, o layout.Orientation, x, y float64, label string) {
	gap := r.markerRadius + 5
	switch o {
	case layout.OrientTop:
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.0f" text-anchor="middle">%s</text>`+"\n",
			x, y-gap-2, r.fontSize, escapeText(label))
	case layout.OrientBottom:
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.0f" text-anchor="middle">%s</text>`+"\n",
			x, y+gap+r.fontSize, r.fontSize, escapeText(label))
	case layout.OrientLeft:
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.0f" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n",
			x-gap, y, r.fontSize, escapeText(label))
	default: // right
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.0f" dominant-baseline="middle">%s</text>`+"\n",
			x+gap, y, r.fontSize, escapeText(label))
	}
}

// bounds computes the bounding box over every primitive coordinate.
func bounds(prims []layout.Primitive) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	visit := func(x, y float64) {
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	for _, p := range prims {
		switch v := p.(type) {
		case layout.NodeMarker:
			visit(v.X, v.Y)
		case layout.BranchSegment:
			visit(v.X0, v.Y0)
			visit(v.X1, v.Y1)
		}
	}
	if math.IsInf(minX, 1) {
		return 0, 0, 0, 0
	}
	return minX, minY, maxX, maxY
}

func escapeText(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
