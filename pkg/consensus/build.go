package consensus

import (
	"sort"

	"github.com/treekit/treekit/pkg/tree"
)

// builtNode pairs a result node with the clade it represents while the
// topology is under construction.
type builtNode struct {
	bits bitset
	node *tree.Node
	size int
}

// buildTree materializes the accepted clades as a rooted tree. Every
// accepted clade nests under the smallest accepted superset (or the root);
// tips attach to the smallest accepted clade containing them. Tips whose
// enclosing clades were all rejected land directly on a higher node,
// producing the polytomy that represents collapsed support.
func buildTree(universe []string, full bitset, accepted []*clade, ntrees int) *tree.Tree {
	root := tree.NewNode("")
	root.SetSupport(1.0)
	t := tree.New(root)

	internal := []*builtNode{{bits: full, node: root, size: len(universe)}}

	// Largest first, so the enclosing node always exists before anything
	// nested inside it.
	sort.Slice(accepted, func(a, b int) bool {
		return accepted[a].bits.count() > accepted[b].bits.count()
	})
	for _, cl := range accepted {
		n := tree.NewNode("")
		n.SetSupport(float64(cl.count) / float64(ntrees))
		parent := smallestSuperset(internal, cl.bits)
		t.AddChild(parent.node, n)
		internal = append(internal, &builtNode{bits: cl.bits, node: n, size: cl.bits.count()})
	}

	minPos := make(map[*tree.Node]int)
	for i, name := range universe {
		b := newBitset(len(universe))
		b.set(i)
		tip := tree.NewNode(name)
		parent := smallestSuperset(internal, b)
		t.AddChild(parent.node, tip)
		minPos[tip] = i
	}

	canonicalize(t, root, minPos, len(universe))
	return t
}

// smallestSuperset returns the built node with the fewest members whose
// clade contains b. The full set is always a superset, so a parent exists.
func smallestSuperset(internal []*builtNode, b bitset) *builtNode {
	var best *builtNode
	for _, cand := range internal {
		if !b.subsetOf(cand.bits) {
			continue
		}
		if best == nil || cand.size < best.size {
			best = cand
		}
	}
	return best
}

// canonicalize sorts every child list by the smallest canonical tip position
// beneath it, bottom-up, making sibling order deterministic. minPos must
// already hold each tip's canonical position.
func canonicalize(t *tree.Tree, root *tree.Node, minPos map[*tree.Node]int, ntips int) {
	var walk func(n *tree.Node) int
	walk = func(n *tree.Node) int {
		if n.IsLeaf() {
			return minPos[n]
		}
		best := ntips
		for _, c := range n.Children() {
			if p := walk(c); p < best {
				best = p
			}
		}
		minPos[n] = best
		children := append([]*tree.Node(nil), n.Children()...)
		sort.SliceStable(children, func(a, b int) bool {
			return minPos[children[a]] < minPos[children[b]]
		})
		t.SetChildren(n, children...)
		return best
	}
	walk(root)
}
