// Package layout computes 2D node coordinates for phylogenetic trees.
//
// # Overview
//
// The layout engine is a pure function from a tree topology plus style
// parameters to a per-node coordinate table. It never mutates its input
// tree. Rows of the table are addressed by the tree's idxorder, so row i
// always holds the node with Idx() == i.
//
// Two families of layouts are supported:
//
//   - Linear layouts facing one of four cardinal directions (down, up,
//     left, right). Coordinates are computed once in canonical down-facing
//     form and re-oriented with a pure coordinate permutation/negation.
//   - An unrooted radial layout using the equal-angle algorithm, with an
//     optional equal-daylight refinement pass.
//
// # Linear Layouts
//
// In the canonical down-facing form each tip's x coordinate is its position
// among tips (natural left-to-right order, or as overridden by
// [Options.FixedOrder] and [Options.FixedPosition]) and each internal node
// sits at the mean of its children. The y coordinate is the node's height:
// with edge lengths, the distance from the deepest tip level; without, unit
// steps where every leaf is at 0 and an internal node is one above its
// tallest child.
//
// # Radial Layouts
//
// The equal-angle algorithm assigns each tip an equal angular sector of
// 2π/ntips and each internal node the concatenation of its children's
// sectors, so sector size is proportional to descendant tip count. A node is
// placed at its parent's position plus a branch-length vector at its sector
// midpoint. The equal-daylight refinement then iteratively rotates subtrees
// to equalize the open angular gaps around internal vertices; it is a
// bounded heuristic with no convergence guarantee, controlled by
// [Options.MaxDaylightIterations].
package layout
