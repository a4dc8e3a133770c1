package layout

import (
	"github.com/cladekit/phylogram/pkg/errors"
	"github.com/cladekit/phylogram/pkg/tree"
)

// ComputePositions assigns a depth and a rank to every node of a normalized
// tree, keyed by node name.
//
// Depth is the sum of branch lengths (unspecified → 1) along the path from
// the root to the node, inclusive of the node's own incoming edge; the
// root's depth is fixed at 0 and its own branch length is ignored. Rank is
// the leaf index for terminal nodes and the arithmetic mean of the
// children's ranks for internal nodes, regardless of subtree size.
//
// Every node must already carry a unique name (see tree/transform);
// an unnamed node is reported as MALFORMED_NODE.
func ComputePositions(root *tree.Node) (map[string]float64, map[string]float64, error) {
	if root == nil {
		return nil, nil, errors.New(errors.ErrCodeEmptyTree, "tree has no nodes")
	}
	leaves := tree.Leaves(root)
	if len(leaves) == 0 {
		return nil, nil, errors.New(errors.ErrCodeEmptyTree, "tree has no leaves")
	}

	n := tree.Count(root)
	depths := make(map[string]float64, n)
	ranks := make(map[string]float64, n)

	if err := accumulateDepths(root, 0, depths); err != nil {
		return nil, nil, err
	}

	for i, leaf := range leaves {
		ranks[leaf.Name] = float64(i)
	}

	// Children are fully resolved before their parent in post order.
	for _, node := range tree.PostOrder(root) {
		if node.IsLeaf() {
			continue
		}
		var sum float64
		for _, c := range node.Children {
			sum += ranks[c.Name]
		}
		ranks[node.Name] = sum / float64(len(node.Children))
	}

	return depths, ranks, nil
}

// accumulateDepths records the cumulative path sum for n and its subtree.
// Passing the running sum down the traversal is equivalent to summing
// tree.Path per node, without the quadratic cost.
func accumulateDepths(n *tree.Node, depth float64, depths map[string]float64) error {
	if n.Name == "" {
		return errors.New(errors.ErrCodeMalformedNode,
			"unnamed node encountered; normalize the tree before layout")
	}
	if _, dup := depths[n.Name]; dup {
		return errors.New(errors.ErrCodeMalformedNode, "duplicate node name %q", n.Name)
	}
	depths[n.Name] = depth
	for _, c := range n.Children {
		if err := accumulateDepths(c, depth+c.BranchLength(), depths); err != nil {
			return err
		}
	}
	return nil
}
