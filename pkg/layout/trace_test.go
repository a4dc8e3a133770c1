package layout

import (
	"reflect"
	"testing"

	"github.com/cladekit/phylogram/pkg/tree"
	"github.com/cladekit/phylogram/pkg/tree/transform"
)

func countPrimitives(prims []Primitive) (markers, segments int) {
	for _, p := range prims {
		switch p.(type) {
		case NodeMarker:
			markers++
		case BranchSegment:
			segments++
		}
	}
	return
}

func findMarker(prims []Primitive, label string) (NodeMarker, bool) {
	for _, p := range prims {
		if m, ok := p.(NodeMarker); ok && m.Label == label {
			return m, true
		}
	}
	return NodeMarker{}, false
}

func TestBuildThreeLeafScenario(t *testing.T) {
	res, err := Build(threeLeafTree(), nil, OrientLeft)
	if err != nil {
		t.Fatal(err)
	}

	// 4 markers (root + 3 leaves) + 3 edges × 2 elbow segments = 10.
	markers, segments := countPrimitives(res.Primitives)
	if markers != 4 {
		t.Errorf("markers = %d, want 4", markers)
	}
	if segments != 6 {
		t.Errorf("segments = %d, want 6", segments)
	}
	if total := len(res.Primitives); total != 10 {
		t.Errorf("total primitives = %d, want 10", total)
	}

	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(res.Labels, want) {
		t.Errorf("Labels = %v, want %v", res.Labels, want)
	}
	if !reflect.DeepEqual(res.Leaves, res.Labels) {
		t.Errorf("Leaves = %v, must match Labels %v", res.Leaves, res.Labels)
	}
	if want := []float64{0, 1, 2}; !reflect.DeepEqual(res.Ticks, want) {
		t.Errorf("Ticks = %v, want %v", res.Ticks, want)
	}

	root, ok := findMarker(res.Primitives, "root")
	if !ok {
		t.Fatal("no root marker emitted")
	}
	if root.X != 0 || root.Y != 1 {
		t.Errorf("root marker at (%v, %v), want (0, 1)", root.X, root.Y)
	}
	if root.Leaf {
		t.Error("root marker flagged as leaf")
	}

	b, ok := findMarker(res.Primitives, "B")
	if !ok {
		t.Fatal("no marker for B")
	}
	if b.X != 2 || b.Y != 1 {
		t.Errorf("B marker at (%v, %v), want (2, 1)", b.X, b.Y)
	}
	if !b.Leaf {
		t.Error("B marker not flagged as leaf")
	}
}

func TestBuildElbowSegments(t *testing.T) {
	// Single edge root→A:2 in left orientation: the elbow is a rank run
	// at the parent's depth followed by a depth run at the child's rank.
	root := &tree.Node{Name: "root", Children: []*tree.Node{
		{Name: "X", Children: []*tree.Node{{Name: "A"}, {Name: "B", Length: ptr(2)}}},
	}}

	res, err := Build(root, nil, OrientLeft)
	if err != nil {
		t.Fatal(err)
	}

	var segs []BranchSegment
	for _, p := range res.Primitives {
		if s, ok := p.(BranchSegment); ok {
			segs = append(segs, s)
		}
	}
	if len(segs) != 6 {
		t.Fatalf("segments = %d, want 6", len(segs))
	}

	// root(0, 0.5) → X(1, 0.5): rank run collapses, depth run spans.
	wantFirst := BranchSegment{X0: 0, Y0: 0.5, X1: 0, Y1: 0.5}
	wantSecond := BranchSegment{X0: 0, Y0: 0.5, X1: 1, Y1: 0.5}
	if segs[0] != wantFirst {
		t.Errorf("rank segment = %+v, want %+v", segs[0], wantFirst)
	}
	if segs[1] != wantSecond {
		t.Errorf("depth segment = %+v, want %+v", segs[1], wantSecond)
	}

	// X(1, 0.5) → B(3, 1): rank run at depth 1, depth run at rank 1.
	wantRank := BranchSegment{X0: 1, Y0: 0.5, X1: 1, Y1: 1}
	wantDepth := BranchSegment{X0: 1, Y0: 1, X1: 3, Y1: 1}
	if segs[4] != wantRank {
		t.Errorf("X→B rank segment = %+v, want %+v", segs[4], wantRank)
	}
	if segs[5] != wantDepth {
		t.Errorf("X→B depth segment = %+v, want %+v", segs[5], wantDepth)
	}

	// Every segment is axis-aligned: one leg per axis, never diagonal.
	for i, s := range segs {
		if s.X0 != s.X1 && s.Y0 != s.Y1 {
			t.Errorf("segment %d is diagonal: %+v", i, s)
		}
	}
}

func TestBuildSingleLeafDistinctFromRoot(t *testing.T) {
	root := &tree.Node{Name: "root", Children: []*tree.Node{{Name: "A", Length: ptr(5)}}}
	res, err := Build(root, nil, OrientLeft)
	if err != nil {
		t.Fatal(err)
	}

	markers, segments := countPrimitives(res.Primitives)
	if markers != 2 || segments != 2 {
		t.Errorf("markers, segments = %d, %d, want 2, 2", markers, segments)
	}
	if res.Depths["A"] != 5 {
		t.Errorf("depth[A] = %v, want 5", res.Depths["A"])
	}
	if res.Ranks["A"] != 0 {
		t.Errorf("rank[A] = %v, want 0", res.Ranks["A"])
	}
}

func TestBuildOrientationSymmetry(t *testing.T) {
	right, err := Build(threeLeafTree(), nil, OrientRight)
	if err != nil {
		t.Fatal(err)
	}
	left, err := Build(threeLeafTree(), nil, OrientLeft)
	if err != nil {
		t.Fatal(err)
	}

	if len(right.Primitives) != len(left.Primitives) {
		t.Fatalf("primitive counts differ: %d vs %d", len(right.Primitives), len(left.Primitives))
	}

	// Depth values sign-negate between right and left; ranks are unchanged.
	for i := range right.Primitives {
		switch rp := right.Primitives[i].(type) {
		case NodeMarker:
			lp := left.Primitives[i].(NodeMarker)
			if rp.X != -lp.X {
				t.Errorf("marker %q: right X = %v, want negation of left X %v", rp.Label, rp.X, lp.X)
			}
			if rp.Y != lp.Y {
				t.Errorf("marker %q: rank changed between orientations: %v vs %v", rp.Label, rp.Y, lp.Y)
			}
		case BranchSegment:
			lp := left.Primitives[i].(BranchSegment)
			if rp.X0 != -lp.X0 || rp.X1 != -lp.X1 {
				t.Errorf("segment %d: depth not sign-negated: %+v vs %+v", i, rp, lp)
			}
			if rp.Y0 != lp.Y0 || rp.Y1 != lp.Y1 {
				t.Errorf("segment %d: rank changed: %+v vs %+v", i, rp, lp)
			}
		}
	}
}

func TestBuildTransposedOrientation(t *testing.T) {
	left, err := Build(threeLeafTree(), nil, OrientLeft)
	if err != nil {
		t.Fatal(err)
	}
	top, err := Build(threeLeafTree(), nil, OrientTop)
	if err != nil {
		t.Fatal(err)
	}

	// Top swaps the axes of left: depth moves to screen y.
	for i := range left.Primitives {
		lm, ok := left.Primitives[i].(NodeMarker)
		if !ok {
			continue
		}
		tm := top.Primitives[i].(NodeMarker)
		if tm.X != lm.Y || tm.Y != lm.X {
			t.Errorf("marker %q: top (%v, %v) is not transposed left (%v, %v)",
				lm.Label, tm.X, tm.Y, lm.X, lm.Y)
		}
	}
}

func TestBuildUnclassifiedPlacement(t *testing.T) {
	input := &tree.Node{Name: "root", Children: []*tree.Node{
		{Name: "A"},
		{Name: "B"},
		{Name: "unclassified", Children: []*tree.Node{{Name: "X"}, {Name: "Y"}}},
	}}

	root, unclassified, err := transform.Normalize(input, transform.Unbounded)
	if err != nil {
		t.Fatal(err)
	}
	res, err := Build(root, unclassified, OrientLeft)
	if err != nil {
		t.Fatal(err)
	}

	// Leaves A, B, X, Y plus the unclassified pseudo-leaf.
	if want := []string{"A", "B", "X", "Y", "unclassified"}; !reflect.DeepEqual(res.Labels, want) {
		t.Errorf("Labels = %v, want %v", res.Labels, want)
	}
	if len(res.Leaves) != len(res.Labels) {
		t.Fatalf("len(Leaves) = %d, want %d", len(res.Leaves), len(res.Labels))
	}

	m, ok := findMarker(res.Primitives, "unclassified")
	if !ok {
		t.Fatal("no unclassified marker emitted")
	}
	if m.X != 0 {
		t.Errorf("unclassified depth = %v, want 0", m.X)
	}
	if want := res.Ranks["root"] - 1; m.Y != want {
		t.Errorf("unclassified rank = %v, want root rank - 1 = %v", m.Y, want)
	}
	if !m.Leaf {
		t.Error("unclassified marker should carry a visible label")
	}

	// Exactly one marker, and never a connecting branch: 5 markers for
	// root + 4 leaves, 1 for unclassified, and 4 edges × 2 segments.
	markers, segments := countPrimitives(res.Primitives)
	if markers != 6 {
		t.Errorf("markers = %d, want 6", markers)
	}
	if segments != 8 {
		t.Errorf("segments = %d, want 8", segments)
	}

	// The unclassified marker is the final primitive.
	last, ok := res.Primitives[len(res.Primitives)-1].(NodeMarker)
	if !ok || last.Label != "unclassified" {
		t.Errorf("last primitive = %+v, want the unclassified marker", res.Primitives[len(res.Primitives)-1])
	}
}

func TestLabelsFollowLeafOrderNotLevelOrder(t *testing.T) {
	// BFS would visit leaf C before A and B; labels must follow DFS leaf
	// order instead.
	root := &tree.Node{Name: "root", Children: []*tree.Node{
		{Name: "X", Children: []*tree.Node{{Name: "A"}, {Name: "B"}}},
		{Name: "C"},
	}}

	res, err := Build(root, nil, OrientLeft)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(res.Labels, want) {
		t.Errorf("Labels = %v, want %v", res.Labels, want)
	}
}
