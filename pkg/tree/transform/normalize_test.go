package transform

import (
	"reflect"
	"testing"

	"github.com/cladekit/phylogram/pkg/errors"
	"github.com/cladekit/phylogram/pkg/tree"
)

func childNames(n *tree.Node) []string {
	out := make([]string, len(n.Children))
	for i, c := range n.Children {
		out[i] = c.Name
	}
	return out
}

func leafNames(n *tree.Node) []string {
	leaves := tree.Leaves(n)
	out := make([]string, len(leaves))
	for i, l := range leaves {
		out[i] = l.Name
	}
	return out
}

func TestNamer(t *testing.T) {
	var m Namer

	named := &tree.Node{Name: "kept"}
	if got := m.Name(named); got != "kept" {
		t.Errorf("Name(named) = %q, want kept", got)
	}

	first := &tree.Node{}
	second := &tree.Node{}
	if got := m.Name(first); got != "internal_1" {
		t.Errorf("first synthetic name = %q, want internal_1", got)
	}
	if got := m.Name(second); got != "internal_2" {
		t.Errorf("second synthetic name = %q, want internal_2", got)
	}

	// Naming is sticky: asking again returns the assigned name without
	// consuming the counter.
	if got := m.Name(first); got != "internal_1" {
		t.Errorf("renaming first = %q, want internal_1", got)
	}
}

func TestNamerFreshPerRun(t *testing.T) {
	build := func() *tree.Node {
		return &tree.Node{Children: []*tree.Node{{Name: "A"}, {}}}
	}

	r1, _, err := Normalize(build(), Unbounded)
	if err != nil {
		t.Fatal(err)
	}
	r2, _, err := Normalize(build(), Unbounded)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(leafNames(r1), leafNames(r2)) {
		t.Errorf("repeated runs diverge: %v vs %v", leafNames(r1), leafNames(r2))
	}
	if want := []string{"A", "internal_1"}; !reflect.DeepEqual(leafNames(r1), want) {
		t.Errorf("leaf names = %v, want %v", leafNames(r1), want)
	}
}

func TestNormalizeNamesRootWhenUnnamed(t *testing.T) {
	root, _, err := Normalize(&tree.Node{Children: []*tree.Node{{Name: "A"}}}, Unbounded)
	if err != nil {
		t.Fatal(err)
	}
	if root.Name != "root" {
		t.Errorf("root name = %q, want root", root.Name)
	}
}

func TestNormalizeKeepsNamedStructuralRoot(t *testing.T) {
	root, _, err := Normalize(&tree.Node{Name: "origin", Children: []*tree.Node{{Name: "A"}}}, Unbounded)
	if err != nil {
		t.Fatal(err)
	}
	if root.Name != "origin" {
		t.Errorf("root name = %q, want origin", root.Name)
	}
}

func TestNormalizeDesignatesNamedRoot(t *testing.T) {
	// A node literally named "root" deeper in the tree becomes the
	// designated root; everything above it is discarded.
	input := &tree.Node{
		Name: "wrapper",
		Children: []*tree.Node{
			{Name: "root", Children: []*tree.Node{{Name: "A"}, {Name: "B"}}},
		},
	}
	root, _, err := Normalize(input, Unbounded)
	if err != nil {
		t.Fatal(err)
	}
	if root.Name != "root" {
		t.Fatalf("root name = %q, want root", root.Name)
	}
	if want := []string{"A", "B"}; !reflect.DeepEqual(childNames(root), want) {
		t.Errorf("root children = %v, want %v", childNames(root), want)
	}
}

func TestNormalizeExtractsUnclassified(t *testing.T) {
	input := &tree.Node{
		Name: "root",
		Children: []*tree.Node{
			{Name: "A"},
			{Name: "B"},
			{Name: "unclassified", Children: []*tree.Node{{Name: "X"}, {Name: "Y"}}},
		},
	}

	root, unclassified, err := Normalize(input, Unbounded)
	if err != nil {
		t.Fatal(err)
	}

	if unclassified == nil {
		t.Fatal("expected extracted unclassified node")
	}
	if unclassified.Name != "unclassified" {
		t.Errorf("unclassified name = %q", unclassified.Name)
	}
	if len(unclassified.Children) != 0 {
		t.Errorf("unclassified should have no children, got %d", len(unclassified.Children))
	}
	if want := []string{"A", "B", "X", "Y"}; !reflect.DeepEqual(childNames(root), want) {
		t.Errorf("root children = %v, want %v", childNames(root), want)
	}
}

func TestNormalizeExtractsOnlyFirstUnclassified(t *testing.T) {
	input := &tree.Node{
		Name: "root",
		Children: []*tree.Node{
			{Name: "unclassified", Children: []*tree.Node{{Name: "X"}}},
			{Name: "A", Children: []*tree.Node{
				{Name: "unclassified2"}, // not at root level, untouched
			}},
		},
	}

	root, unclassified, err := Normalize(input, Unbounded)
	if err != nil {
		t.Fatal(err)
	}
	if unclassified == nil {
		t.Fatal("expected extracted unclassified node")
	}
	if want := []string{"A", "X"}; !reflect.DeepEqual(childNames(root), want) {
		t.Errorf("root children = %v, want %v", childNames(root), want)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	input := &tree.Node{
		Children: []*tree.Node{
			{Name: "unclassified", Children: []*tree.Node{{Name: "X"}}},
			{Name: "A", Children: []*tree.Node{{Name: "B"}}},
		},
	}

	if _, _, err := Normalize(input, 1); err != nil {
		t.Fatal(err)
	}

	if input.Name != "" {
		t.Errorf("input root was renamed to %q", input.Name)
	}
	if want := []string{"unclassified", "A"}; !reflect.DeepEqual(childNames(input), want) {
		t.Errorf("input children changed: %v", childNames(input))
	}
	if len(input.Children[1].Children) != 1 {
		t.Error("input subtree was pruned")
	}
}

func TestPruneToLevel(t *testing.T) {
	build := func() *tree.Node {
		return &tree.Node{Name: "root", Children: []*tree.Node{
			{Name: "A", Children: []*tree.Node{
				{Name: "B", Children: []*tree.Node{{Name: "C"}}},
			}},
		}}
	}

	tests := []struct {
		name       string
		level      int
		wantLeaves []string
	}{
		{name: "level 0 keeps only root", level: 0, wantLeaves: []string{"root"}},
		{name: "level 1 cuts below children", level: 1, wantLeaves: []string{"A"}},
		{name: "level 2", level: 2, wantLeaves: []string{"B"}},
		{name: "deep level is a no-op", level: 10, wantLeaves: []string{"C"}},
		{name: "unbounded is a no-op", level: Unbounded, wantLeaves: []string{"C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := build()
			PruneToLevel(root, tt.level)
			if got := leafNames(root); !reflect.DeepEqual(got, tt.wantLeaves) {
				t.Errorf("leaves = %v, want %v", got, tt.wantLeaves)
			}
		})
	}
}

func TestPruneToLevelIdempotent(t *testing.T) {
	root := &tree.Node{Name: "root", Children: []*tree.Node{
		{Name: "A", Children: []*tree.Node{{Name: "B"}, {Name: "C"}}},
		{Name: "D"},
	}}

	PruneToLevel(root, 1)
	once := leafNames(root)
	PruneToLevel(root, 1)
	twice := leafNames(root)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("pruning twice changed the tree: %v vs %v", once, twice)
	}
}

func TestNormalizeNegativeLevel(t *testing.T) {
	_, _, err := Normalize(&tree.Node{Name: "root"}, -1)
	if !errors.Is(err, errors.ErrCodeInvalidDisplayLevel) {
		t.Errorf("Normalize(level=-1) = %v, want INVALID_DISPLAY_LEVEL", err)
	}
}

func TestNormalizeNilTree(t *testing.T) {
	_, _, err := Normalize(nil, Unbounded)
	if !errors.Is(err, errors.ErrCodeEmptyTree) {
		t.Errorf("Normalize(nil) = %v, want EMPTY_TREE", err)
	}
}

func TestNormalizeDuplicateNames(t *testing.T) {
	input := &tree.Node{Name: "root", Children: []*tree.Node{{Name: "A"}, {Name: "A"}}}
	_, _, err := Normalize(input, Unbounded)
	if !errors.Is(err, errors.ErrCodeMalformedNode) {
		t.Errorf("Normalize(duplicate names) = %v, want MALFORMED_NODE", err)
	}
}
