package layout

import (
	"github.com/cladekit/phylogram/pkg/errors"
	"github.com/cladekit/phylogram/pkg/tree"
)

// Primitive is a single drawable element of the cladogram. The set is
// closed: a Primitive is either a NodeMarker or a BranchSegment, so
// downstream consumers can switch exhaustively.
type Primitive interface {
	isPrimitive()
}

// NodeMarker marks a node's position in screen coordinates. Leaf markers
// carry a permanently visible label; internal markers expose the label as
// hover-only metadata.
type NodeMarker struct {
	X, Y  float64
	Label string
	Leaf  bool
}

// BranchSegment is one leg of the right-angle elbow connecting a parent to
// a child. Elbows are always two segments, never a single diagonal, which
// is what makes the figure read as a cladogram.
type BranchSegment struct {
	X0, Y0 float64
	X1, Y1 float64
}

func (NodeMarker) isPrimitive()    {}
func (BranchSegment) isPrimitive() {}

// Result is the complete output of one layout run.
type Result struct {
	// Primitives in emission order: markers and elbow segments from the
	// level-order walk, then the detached unclassified marker if present.
	Primitives []Primitive

	// Labels are the leaf labels in visual order; Leaves are the leaf
	// names in the same order. The unclassified pseudo-leaf, when
	// present, is appended last to both.
	Labels []string
	Leaves []string

	// Ticks are the rank-axis tick positions: one rank per entry of
	// Leaves, unsigned. Apply Signs.Rank when building axis metadata.
	Ticks []float64

	Orientation Orientation
	Signs       Signs

	// Depths and Ranks expose the raw coordinate mappings keyed by node
	// name, before orientation remapping.
	Depths map[string]float64
	Ranks  map[string]float64
}

// Build runs the coordinate and trace passes over a normalized tree.
// unclassified may be nil; when present it is placed detached at depth 0,
// one rank slot before the root, with no connecting branch.
func Build(root, unclassified *tree.Node, o Orientation) (Result, error) {
	depths, ranks, err := ComputePositions(root)
	if err != nil {
		return Result{}, err
	}
	res, err := emit(root, depths, ranks, o)
	if err != nil {
		return Result{}, err
	}
	if unclassified != nil {
		placeUnclassified(&res, unclassified, root)
	}
	return res, nil
}

// emit walks the tree in level order and produces one marker per node plus
// a two-segment elbow per parent→child edge: a run along the rank axis at
// the parent's depth, then a run along the depth axis at the child's rank.
func emit(root *tree.Node, depths, ranks map[string]float64, o Orientation) (Result, error) {
	res := Result{
		Orientation: o,
		Signs:       o.Signs(),
		Depths:      depths,
		Ranks:       ranks,
	}

	// Leaf order fixes the label, name and tick sequences.
	for _, leaf := range tree.Leaves(root) {
		res.Labels = append(res.Labels, leaf.Name)
		res.Leaves = append(res.Leaves, leaf.Name)
		res.Ticks = append(res.Ticks, ranks[leaf.Name])
	}

	for _, n := range tree.LevelOrder(root) {
		depth, ok := depths[n.Name]
		if !ok {
			return Result{}, errors.New(errors.ErrCodeMalformedNode, "no depth computed for %q", n.Name)
		}
		rank, ok := ranks[n.Name]
		if !ok {
			return Result{}, errors.New(errors.ErrCodeMalformedNode, "no rank computed for %q", n.Name)
		}

		x, y := o.point(depth, rank)
		res.Primitives = append(res.Primitives, NodeMarker{X: x, Y: y, Label: n.Name, Leaf: n.IsLeaf()})

		for _, c := range n.Children {
			childDepth := depths[c.Name]
			childRank := ranks[c.Name]

			rx0, ry0 := o.point(depth, rank)
			rx1, ry1 := o.point(depth, childRank)
			res.Primitives = append(res.Primitives, BranchSegment{X0: rx0, Y0: ry0, X1: rx1, Y1: ry1})

			dx0, dy0 := o.point(depth, childRank)
			dx1, dy1 := o.point(childDepth, childRank)
			res.Primitives = append(res.Primitives, BranchSegment{X0: dx0, Y0: dy0, X1: dx1, Y1: dy1})
		}
	}
	return res, nil
}

// placeUnclassified appends the detached unclassified marker after the main
// emission. It sits at depth 0, one rank slot before the root, and is never
// connected to the rest of the tree.
func placeUnclassified(res *Result, unclassified, root *tree.Node) {
	rank := res.Ranks[root.Name] - 1
	res.Depths[unclassified.Name] = 0
	res.Ranks[unclassified.Name] = rank

	x, y := res.Orientation.point(0, rank)
	res.Primitives = append(res.Primitives, NodeMarker{X: x, Y: y, Label: unclassified.Name, Leaf: true})
	res.Labels = append(res.Labels, unclassified.Name)
	res.Leaves = append(res.Leaves, unclassified.Name)
	res.Ticks = append(res.Ticks, rank)
}
