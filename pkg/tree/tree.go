// Package tree defines the in-memory phylogenetic tree consumed by the
// layout engine, together with the traversals the engine relies on.
//
// A tree arrives from an external parser as a root *Node. Each node carries
// an optional name, an optional branch length, and an ordered child list.
// Polytomies (nodes with more than two children) are permitted everywhere.
//
// The layout engine treats trees as read-only; mutating normalization is
// done on a private copy by the transform subpackage (see [Node.Clone]).
package tree

import (
	"github.com/cladekit/phylogram/pkg/errors"
)

// DefaultBranchLength is the edge weight assumed when a node's Length is
// unspecified. An explicit zero length is valid and stays zero.
const DefaultBranchLength = 1.0

// Node is a single vertex of a rooted phylogenetic tree. The zero value is a
// valid unnamed leaf.
type Node struct {
	// Name identifies the node. Empty means unnamed; normalization assigns
	// a synthetic name before layout.
	Name string

	// Length is the branch length of the edge from this node to its parent.
	// nil means unspecified and defaults to DefaultBranchLength at layout
	// time. The root's Length is ignored.
	Length *float64

	// Children is the ordered child list. Empty for terminal nodes.
	Children []*Node
}

// IsLeaf reports whether the node is terminal (has no children).
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// BranchLength returns the length of the node's incoming edge, substituting
// DefaultBranchLength when unspecified.
func (n *Node) BranchLength() float64 {
	if n.Length == nil {
		return DefaultBranchLength
	}
	return *n.Length
}

// Clone returns a deep copy of the subtree rooted at n.
// Normalization always works on a clone so that a parsed tree can safely
// feed multiple concurrent layout runs.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Name: n.Name}
	if n.Length != nil {
		l := *n.Length
		c.Length = &l
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// LevelOrder returns all nodes in breadth-first order, root first.
// Siblings appear in their given order.
func LevelOrder(root *Node) []*Node {
	if root == nil {
		return nil
	}
	var out []*Node
	queue := []*Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		out = append(out, n)
		queue = append(queue, n.Children...)
	}
	return out
}

// PostOrder returns all nodes with every child preceding its parent.
// Processing nodes in this order guarantees child positions are resolved
// before their parent's.
func PostOrder(root *Node) []*Node {
	if root == nil {
		return nil
	}
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			walk(c)
		}
		out = append(out, n)
	}
	walk(root)
	return out
}

// Leaves returns the terminal nodes in the order a depth-first traversal
// reaches them, following children in their given order. This order fixes
// the visual rank of each leaf.
func Leaves(root *Node) []*Node {
	if root == nil {
		return nil
	}
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.IsLeaf() {
			out = append(out, n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return out
}

// Path returns the chain of nodes from the root down to target, excluding
// the root itself and including target. Summing BranchLength over the chain
// yields the node's depth; the root's depth is therefore exactly 0.
// Returns nil when target is not in the subtree rooted at root.
func Path(root, target *Node) []*Node {
	if root == nil || target == nil {
		return nil
	}
	if root == target {
		return []*Node{}
	}
	var find func(n *Node, trail []*Node) []*Node
	find = func(n *Node, trail []*Node) []*Node {
		for _, c := range n.Children {
			next := append(trail, c)
			if c == target {
				out := make([]*Node, len(next))
				copy(out, next)
				return out
			}
			if found := find(c, next); found != nil {
				return found
			}
		}
		return nil
	}
	return find(root, nil)
}

// Count returns the number of nodes in the subtree rooted at root.
func Count(root *Node) int {
	if root == nil {
		return 0
	}
	n := 1
	for _, c := range root.Children {
		n += Count(c)
	}
	return n
}

// Validate checks that the structure is a proper tree: no nil children and
// every node reachable through exactly one parent. A node appearing twice
// (shared subtree or cycle) violates the input contract.
func Validate(root *Node) error {
	if root == nil {
		return errors.New(errors.ErrCodeEmptyTree, "tree has no nodes")
	}
	seen := make(map[*Node]bool)
	var walk func(n *Node) error
	walk = func(n *Node) error {
		if n == nil {
			return errors.New(errors.ErrCodeMalformedNode, "nil child node")
		}
		if seen[n] {
			return errors.New(errors.ErrCodeMalformedNode,
				"node %q reachable through more than one parent", n.Name)
		}
		seen[n] = true
		for _, c := range n.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root)
}
