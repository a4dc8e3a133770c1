package render

import (
	"strings"
	"testing"

	"github.com/cladekit/phylogram/pkg/tree"
)

func float(f float64) *float64 { return &f }

func TestToDOT(t *testing.T) {
	root := &tree.Node{Name: "root", Children: []*tree.Node{
		{Name: "A", Length: float(1.5)},
		{Name: "X", Children: []*tree.Node{{Name: "B"}, {Name: "C"}}},
	}}

	dot := ToDOT(root, DOTOptions{})

	if !strings.HasPrefix(dot, "digraph tree {") {
		t.Error("missing digraph header")
	}
	for _, want := range []string{
		`"root" -> "A";`,
		`"root" -> "X";`,
		`"X" -> "B";`,
		`"X" -> "C";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing edge %s", want)
		}
	}

	// Leaves are filled, internal nodes are not
	if !strings.Contains(dot, `"A" [label="A", fillcolor=lightgrey];`) {
		t.Error("leaf A should be filled")
	}
	if strings.Contains(dot, `"X" [label="X", fillcolor=lightgrey];`) {
		t.Error("internal node X should not be filled")
	}
}

func TestToDOTShowLengths(t *testing.T) {
	root := &tree.Node{Name: "root", Children: []*tree.Node{
		{Name: "A", Length: float(1.5)},
		{Name: "B"},
	}}

	dot := ToDOT(root, DOTOptions{ShowLengths: true})

	if !strings.Contains(dot, `"root" -> "A" [label="1.5"];`) {
		t.Errorf("explicit length missing:\n%s", dot)
	}
	// Defaulted lengths are marked with an asterisk
	if !strings.Contains(dot, `"root" -> "B" [label="1*"];`) {
		t.Errorf("defaulted length missing:\n%s", dot)
	}
}

func TestToDOTNilTree(t *testing.T) {
	dot := ToDOT(nil, DOTOptions{})
	if !strings.HasPrefix(dot, "digraph tree {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("nil tree should still produce an empty digraph:\n%s", dot)
	}
}
