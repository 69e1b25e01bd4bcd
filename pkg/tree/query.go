package tree

import (
	"github.com/treekit/treekit/pkg/errors"
)

// Leaves returns the tip nodes descended from n, in left-to-right plotting
// order. For a leaf it returns the node itself.
func (t *Tree) Leaves(n *Node) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(m *Node) {
		if m.IsLeaf() {
			out = append(out, m)
			return
		}
		for _, c := range m.children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// TipNames returns the names of all tips in idxorder (left-to-right plotting
// order). Returns an error if the tree is malformed.
func (t *Tree) TipNames() ([]string, error) {
	idx, err := t.Index()
	if err != nil {
		return nil, err
	}
	names := make([]string, idx.NTips)
	for i, n := range idx.Idx[:idx.NTips] {
		names[i] = n.Name
	}
	return names, nil
}

// FindTip returns the tip node with the given name.
// Returns ErrCodeNameNotFound if no tip carries the name.
func (t *Tree) FindTip(name string) (*Node, error) {
	idx, err := t.Index()
	if err != nil {
		return nil, err
	}
	for _, n := range idx.Idx[:idx.NTips] {
		if n.Name == name {
			return n, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNameNotFound, "tip %q not in tree", name)
}

// Ancestors returns the chain of ancestors of n from its parent up to and
// including the root. Returns nil for the root itself.
func (t *Tree) Ancestors(n *Node) []*Node {
	var out []*Node
	for p := n.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}

// MRCA returns the most recent common ancestor of the named tips.
// Returns ErrCodeNameNotFound if any name is missing, or
// ErrCodeEmptyInput when no names are given.
func (t *Tree) MRCA(names ...string) (*Node, error) {
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "mrca requires at least one tip name")
	}
	first, err := t.FindTip(names[0])
	if err != nil {
		return nil, err
	}
	// Depth of each ancestor of the first tip; the MRCA is the deepest
	// ancestor shared by every other tip.
	depth := map[*Node]int{first: 0}
	for i, a := range t.Ancestors(first) {
		depth[a] = i + 1
	}
	mrca := first
	best := 0
	for _, name := range names[1:] {
		tip, err := t.FindTip(name)
		if err != nil {
			return nil, err
		}
		n := tip
		for n != nil {
			if d, ok := depth[n]; ok {
				if d > best {
					best = d
					mrca = n
				}
				break
			}
			n = n.parent
		}
	}
	return mrca, nil
}
