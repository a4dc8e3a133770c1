// Package transform normalizes raw phylogenetic trees before layout.
//
// Normalization runs four steps over a private copy of the input tree:
//
//  1. Root canonicalization: a node literally named "root" becomes the
//     designated root; otherwise the structural root is used and named
//     "root" if unnamed.
//  2. Unclassified extraction: a direct child of the root named
//     "unclassified" is removed and its children are spliced into the
//     root's child list. The extracted node is positioned and drawn
//     separately after the main layout pass.
//  3. Depth pruning: children of nodes at or beyond the display level are
//     discarded, turning the cut boundary into leaves.
//  4. Name assignment: every remaining unnamed node receives a synthetic
//     internal_<n> name from a per-run counter.
//
// The input tree is never mutated, so one parsed tree can feed concurrent
// layout runs.
package transform

import (
	"fmt"
	"math"

	"github.com/cladekit/phylogram/pkg/errors"
	"github.com/cladekit/phylogram/pkg/tree"
)

// Unbounded disables depth pruning. The root is at level 0.
const Unbounded = math.MaxInt

// Reserved node names recognized by normalization.
const (
	// RootName designates the layout root during canonicalization.
	RootName = "root"

	// UnclassifiedName marks the root-level clade that is detached from
	// the main tree and drawn separately.
	UnclassifiedName = "unclassified"
)

// Namer assigns synthetic names to unnamed nodes. The counter is a per-run
// value, never package state, so repeated and concurrent runs produce
// identical, independent numbering.
type Namer struct {
	counter int
}

// Name returns the node's name, first assigning internal_<n> if it has
// none. The counter increments on each assignment, starting at 1.
func (m *Namer) Name(n *tree.Node) string {
	if n.Name == "" {
		m.counter++
		n.Name = fmt.Sprintf("internal_%d", m.counter)
	}
	return n.Name
}

// Normalize prepares a raw tree for layout and returns the normalized root
// together with the extracted unclassified node, if any. The input tree is
// cloned before any mutation.
//
// level bounds the displayed depth (root = level 0); pass Unbounded to keep
// the whole tree. A negative level is rejected with INVALID_DISPLAY_LEVEL.
func Normalize(root *tree.Node, level int) (*tree.Node, *tree.Node, error) {
	if level != Unbounded && level < 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidDisplayLevel,
			"display level must not be negative: %d", level)
	}
	if err := tree.Validate(root); err != nil {
		return nil, nil, err
	}

	work := root.Clone()
	work = canonicalRoot(work)
	unclassified := extractUnclassified(work)
	PruneToLevel(work, level)
	assignNames(work, &Namer{})

	if err := checkUniqueNames(work); err != nil {
		return nil, nil, err
	}
	if len(tree.Leaves(work)) == 0 {
		return nil, nil, errors.New(errors.ErrCodeEmptyTree,
			"no leaves remain after normalization")
	}
	return work, unclassified, nil
}

// canonicalRoot returns the designated root: the first node named "root" in
// a level-order scan, or the structural root (named "root" if unnamed).
func canonicalRoot(root *tree.Node) *tree.Node {
	for _, n := range tree.LevelOrder(root) {
		if n.Name == RootName {
			return n
		}
	}
	if root.Name == "" {
		root.Name = RootName
	}
	return root
}

// extractUnclassified removes the first immediate child of root named
// "unclassified", splices that child's own children onto the end of the
// root's child list in their relative order, and returns the detached node
// with an empty child list. Returns nil when no such child exists.
func extractUnclassified(root *tree.Node) *tree.Node {
	for i, c := range root.Children {
		if c.Name != UnclassifiedName {
			continue
		}
		root.Children = append(root.Children[:i], root.Children[i+1:]...)
		root.Children = append(root.Children, c.Children...)
		c.Children = nil
		return c
	}
	return nil
}

// PruneToLevel discards the children of every node at level >= level,
// keeping the node itself as a leaf at the cut boundary. The operation is
// idempotent: re-running with the same level is a no-op.
func PruneToLevel(root *tree.Node, level int) {
	if root == nil || level == Unbounded {
		return
	}
	var prune func(n *tree.Node, depth int)
	prune = func(n *tree.Node, depth int) {
		if depth >= level {
			n.Children = nil
			return
		}
		for _, c := range n.Children {
			prune(c, depth+1)
		}
	}
	prune(root, 0)
}

// assignNames gives every unnamed node a synthetic name. Leaves are named
// first in leaf order, then the remaining nodes in level order, so the
// numbering is reproducible from the traversal alone.
func assignNames(root *tree.Node, namer *Namer) {
	for _, leaf := range tree.Leaves(root) {
		namer.Name(leaf)
	}
	for _, n := range tree.LevelOrder(root) {
		namer.Name(n)
	}
}

// checkUniqueNames rejects trees where two nodes share a name, since node
// positions are keyed by name downstream.
func checkUniqueNames(root *tree.Node) error {
	seen := make(map[string]bool)
	for _, n := range tree.LevelOrder(root) {
		if seen[n.Name] {
			return errors.New(errors.ErrCodeMalformedNode, "duplicate node name %q", n.Name)
		}
		seen[n.Name] = true
	}
	return nil
}
