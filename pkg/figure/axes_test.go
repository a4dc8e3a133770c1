package figure

import (
	"reflect"
	"testing"

	"github.com/cladekit/phylogram/pkg/layout"
	"github.com/cladekit/phylogram/pkg/tree"
)

func TestBuildAxes(t *testing.T) {
	root := &tree.Node{Name: "root", Children: []*tree.Node{
		{Name: "A"}, {Name: "B"}, {Name: "C"},
	}}
	res, err := layout.Build(root, nil, layout.OrientRight)
	if err != nil {
		t.Fatal(err)
	}

	axes := BuildAxes(res)

	if axes.Depth.Sign != -1 {
		t.Errorf("depth sign = %v, want -1", axes.Depth.Sign)
	}
	if axes.Rank.Sign != 1 {
		t.Errorf("rank sign = %v, want 1", axes.Rank.Sign)
	}
	if want := []float64{0, 1, 2}; !reflect.DeepEqual(axes.Rank.TickValues, want) {
		t.Errorf("rank tick values = %v, want %v", axes.Rank.TickValues, want)
	}
	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(axes.Rank.TickText, want) {
		t.Errorf("rank tick text = %v, want %v", axes.Rank.TickText, want)
	}
	if axes.Rank.TickMode != "array" {
		t.Errorf("rank tick mode = %q, want array", axes.Rank.TickMode)
	}
	if want := []float64{4, -1}; !reflect.DeepEqual(axes.Rank.Range, want) {
		t.Errorf("rank range = %v, want %v", axes.Rank.Range, want)
	}
	if axes.Depth.ShowGrid || axes.Depth.ShowLine || axes.Depth.ZeroLine {
		t.Error("depth axis decorations should be off by default")
	}
}

func TestBuildAxesTickTextIsCopy(t *testing.T) {
	root := &tree.Node{Name: "root", Children: []*tree.Node{{Name: "A"}, {Name: "B"}}}
	res, err := layout.Build(root, nil, layout.OrientLeft)
	if err != nil {
		t.Fatal(err)
	}

	axes := BuildAxes(res)
	axes.Rank.TickText[0] = "mutated"
	if res.Labels[0] != "A" {
		t.Error("BuildAxes shared the labels slice with the layout result")
	}
}
