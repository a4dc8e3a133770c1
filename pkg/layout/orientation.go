package layout

import "github.com/cladekit/phylogram/pkg/errors"

// Orientation selects which screen edge the tree grows from. For "left" and
// "right" the depth axis maps to screen x and the rank axis to screen y;
// "top" and "bottom" transpose the mapping.
type Orientation string

// Supported orientations.
const (
	OrientTop    Orientation = "top"
	OrientRight  Orientation = "right"
	OrientBottom Orientation = "bottom"
	OrientLeft   Orientation = "left"
)

// DefaultOrientation is used when no orientation is configured.
const DefaultOrientation = OrientRight

// ParseOrientation validates s and returns the corresponding Orientation.
// An empty string yields DefaultOrientation.
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(s) {
	case "":
		return DefaultOrientation, nil
	case OrientTop, OrientRight, OrientBottom, OrientLeft:
		return Orientation(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidOrientation,
		"invalid orientation %q (must be one of: top, right, bottom, left)", s)
}

// Signs holds the per-axis direction multipliers for an orientation. The
// axis-metadata collaborator needs these to build correctly mirrored ticks.
type Signs struct {
	Depth float64 // multiplier applied to depth coordinates
	Rank  float64 // multiplier applied to rank coordinates
}

// Signs returns the direction multipliers. "right" and "bottom" negate the
// depth sign so the root sits at the far margin and the tree grows toward
// it; "left" and "right" are exact depth sign-negations of each other.
func (o Orientation) Signs() Signs {
	switch o {
	case OrientRight, OrientBottom:
		return Signs{Depth: -1, Rank: 1}
	default:
		return Signs{Depth: 1, Rank: 1}
	}
}

// Transposed reports whether the depth axis maps to screen y.
func (o Orientation) Transposed() bool {
	return o == OrientTop || o == OrientBottom
}

// point maps a (depth, rank) pair to screen coordinates.
func (o Orientation) point(depth, rank float64) (x, y float64) {
	s := o.Signs()
	if o.Transposed() {
		return rank * s.Rank, depth * s.Depth
	}
	return depth * s.Depth, rank * s.Rank
}
