// Package figure builds chart-library-agnostic axis metadata from a layout
// result. This is the thin glue between the core layout and an external
// figure assembler; it owns no geometry of its own.
package figure

import (
	"slices"

	"github.com/cladekit/phylogram/pkg/layout"
)

// Axis describes one axis of the assembled figure. The defaults mirror a
// minimal cladogram frame: linear scale, no grid, no axis line, and tick
// labels only where leaf labels go.
type Axis struct {
	Type           string    `json:"type"`
	Sign           float64   `json:"sign"`
	TickMode       string    `json:"tick_mode,omitempty"`
	TickValues     []float64 `json:"tick_values,omitempty"`
	TickText       []string  `json:"tick_text,omitempty"`
	Side           string    `json:"side,omitempty"`
	Range          []float64 `json:"range,omitempty"`
	ShowTickLabels bool      `json:"show_tick_labels"`
	ShowGrid       bool      `json:"show_grid"`
	ShowLine       bool      `json:"show_line"`
	ZeroLine       bool      `json:"zero_line"`
	Mirror         string    `json:"mirror,omitempty"`
	RangeMode      string    `json:"range_mode,omitempty"`
}

// Axes pairs the depth axis with the rank axis. Which screen axis each one
// ends up on is decided by the layout's orientation, not here.
type Axes struct {
	Depth Axis `json:"depth"`
	Rank  Axis `json:"rank"`
}

// BuildAxes derives axis metadata from a layout result: the rank axis
// carries one tick per leaf (rank × rank sign) labeled with the leaf label,
// and an inverted range so the first leaf renders at the top.
func BuildAxes(res layout.Result) Axes {
	depth := Axis{
		Type:      "linear",
		Sign:      res.Signs.Depth,
		Mirror:    "allticks",
		RangeMode: "tozero",
	}

	rank := Axis{
		Type:     "linear",
		Sign:     res.Signs.Rank,
		Mirror:   "allticks",
		TickText: slices.Clone(res.Labels),
		Side:     "right",
	}
	if len(res.Ticks) > 0 {
		rank.TickMode = "array"
		rank.TickValues = make([]float64, len(res.Ticks))
		for i, tick := range res.Ticks {
			rank.TickValues[i] = tick * res.Signs.Rank
		}
		// Inverted so rank 0 sits at the visual start.
		rank.Range = []float64{float64(len(res.Labels)) + 1, -1}
	}

	return Axes{Depth: depth, Rank: rank}
}
