// Package tree provides the phylogenetic tree data model shared by the
// layout and consensus engines.
//
// # Overview
//
// A [Tree] owns a connected, loop-free graph of [Node] values rooted at a
// single node. Child order is significant - it is the left-to-right plotting
// order - and ownership flows strictly downward from the tree through the
// root to its descendants. Parent links are non-owning back-references used
// only for upward traversal.
//
// # Basic Usage
//
// Build a tree from detached nodes with [New] and [Tree.AddChild]:
//
//	root := tree.NewNode("")
//	t := tree.New(root)
//	a := tree.NewNode("A")
//	t.AddChild(root, a)
//
// Query topology with [Tree.Leaves], [Tree.TipNames], [Tree.MRCA] and
// [Tree.Ancestors], and obtain traversal orderings through [Tree.Index].
//
// # Traversal Orderings
//
// [Tree.Index] computes four deterministic orderings of the current topology,
// cached until the next structural mutation:
//
//   - preorder: root first, each node before its descendants
//   - postorder: each node after all its descendants (bottom-up aggregation)
//   - levelorder: breadth-first from the root
//   - idxorder: tips numbered 0..ntips-1 in left-to-right plotting order,
//     internal nodes ntips..nnodes-1 such that every node's index exceeds
//     all of its children's indices
//
// idxorder is the canonical stable numbering: coordinate tables produced by
// the layout engine and clade keys used by the consensus engine are both
// addressed by it. Ties are always broken by stored child order, never by
// name, so plotting order stays under caller control.
//
// # Cache Invalidation
//
// Topology mutations must go through the mutators on Tree ([Tree.AddChild],
// [Tree.RemoveChild], [Tree.SetChildren]) which bump an internal version and
// invalidate cached orderings. Callers holding node references across
// mutations must not rely on [Node.Idx] from before the mutation; stale
// indices are a correctness bug because coordinate arrays are indexed by
// them. [Tree.Invalidate] is the explicit hook for callers that mutate
// structure through other means.
//
// # Concurrency
//
// Tree is not safe for concurrent mutation. Engines treat their input tree
// as exclusively owned for the duration of a call and never mutate it;
// callers that need to mutate during iteration must clone first.
package tree
