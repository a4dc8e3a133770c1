// Package layout computes a 2-D cladogram layout for a normalized
// phylogenetic tree.
//
// The engine works in an abstract (depth, rank) space: depth is the
// cumulative branch length from the root, rank is the vertical ordering
// position among leaves. The i-th leaf reached by depth-first traversal
// gets rank i; every internal node is centered at the arithmetic mean of
// its children's ranks; the root's depth is exactly 0.
//
// Trace emission walks the positioned tree in level order and produces a
// closed set of drawable primitives: one NodeMarker per node and a
// two-segment right-angle elbow per parent→child edge. Only at emission
// time is (depth, rank) mapped to screen (x, y), controlled by the
// Orientation and its per-axis Signs.
//
// A layout run is a pure function of (tree, orientation); all scratch state
// is per-call, so independent runs may execute concurrently.
package layout
