package layout_test

import (
	"fmt"

	"github.com/cladekit/phylogram/pkg/layout"
	"github.com/cladekit/phylogram/pkg/tree"
)

func ExampleBuild() {
	length := 2.5
	root := &tree.Node{Name: "root", Children: []*tree.Node{
		{Name: "A", Length: &length},
		{Name: "X", Children: []*tree.Node{
			{Name: "B"},
			{Name: "C"},
		}},
	}}

	res, _ := layout.Build(root, nil, layout.OrientRight)

	fmt.Println("Leaves:", res.Leaves)
	fmt.Println("Depth of B:", res.Depths["B"])
	fmt.Println("Rank of X:", res.Ranks["X"])
	fmt.Println("Primitives:", len(res.Primitives))
	// Output:
	// Leaves: [A B C]
	// Depth of B: 2
	// Rank of X: 1.5
	// Primitives: 13
}

func ExampleOrientation_Signs() {
	// "right" and "left" are exact depth sign-negations of each other
	fmt.Println("right:", layout.OrientRight.Signs())
	fmt.Println("left:", layout.OrientLeft.Signs())
	// Output:
	// right: {-1 1}
	// left: {1 1}
}
