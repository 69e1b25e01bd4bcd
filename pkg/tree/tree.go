package tree

import (
	"github.com/treekit/treekit/pkg/errors"
)

// Tree owns a rooted phylogenetic tree and caches derived traversal state.
//
// The zero value is not usable - use [New] to create a valid Tree instance.
// Tree is not safe for concurrent use without external synchronization.
type Tree struct {
	root *Node

	// version is bumped by every topology mutation; cached indices carry
	// the version they were built against.
	version int
	index   *Index
}

// Index holds the derived traversal state of a tree at a fixed topology
// version: node counts and the four traversal orderings. All slices have
// length NNodes and share the same node pointers.
type Index struct {
	NTips  int
	NNodes int

	// Pre is the preorder: root first, each node before its descendants,
	// children visited in stored order.
	Pre []*Node

	// Post is the postorder: each node after all of its descendants.
	Post []*Node

	// Level is the levelorder: breadth-first from the root.
	Level []*Node

	// Idx is the idxorder: element i is the node with Idx() == i. Tips
	// occupy 0..NTips-1 in left-to-right plotting order; every internal
	// node's index exceeds all of its children's indices.
	Idx []*Node
}

// New creates a tree owning root and all of its descendants. The root's
// branch length is forced to 0.
func New(root *Node) *Tree {
	if root != nil {
		root.Dist = 0
	}
	return &Tree{root: root}
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node { return t.root }

// Invalidate discards cached traversal orderings. The mutators on Tree call
// this automatically; it is the explicit hook for callers that change
// topology through node references directly.
func (t *Tree) Invalidate() {
	t.version++
	t.index = nil
}

// AddChild appends child as the right-most child of parent and invalidates
// cached indices. The child (and any subtree below it) becomes owned by this
// tree.
func (t *Tree) AddChild(parent, child *Node) {
	child.parent = parent
	parent.children = append(parent.children, child)
	t.Invalidate()
}

// RemoveChild detaches child from parent and invalidates cached indices.
// Does nothing if child is not among parent's children.
func (t *Tree) RemoveChild(parent, child *Node) {
	for i, c := range parent.children {
		if c == child {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			child.parent = nil
			t.Invalidate()
			return
		}
	}
}

// SetChildren replaces parent's child list, preserving the given order, and
// invalidates cached indices. Reordering an existing child list changes the
// left-to-right plotting order.
func (t *Tree) SetChildren(parent *Node, children ...*Node) {
	for _, c := range children {
		c.parent = parent
	}
	parent.children = append([]*Node(nil), children...)
	t.Invalidate()
}

// Index returns the cached traversal index, rebuilding it if topology has
// changed since the last call. Returns ErrCodeMalformedTree if the structure
// violates the model invariants (cycle, shared node, or a child whose parent
// link disagrees with the tree).
func (t *Tree) Index() (*Index, error) {
	if t.index != nil {
		return t.index, nil
	}
	idx, err := t.buildIndex()
	if err != nil {
		return nil, err
	}
	t.index = idx
	return idx, nil
}

// NTips returns the number of leaves, or 0 if the tree is malformed.
func (t *Tree) NTips() int {
	idx, err := t.Index()
	if err != nil {
		return 0
	}
	return idx.NTips
}

// NNodes returns the total number of nodes, or 0 if the tree is malformed.
func (t *Tree) NNodes() int {
	idx, err := t.Index()
	if err != nil {
		return 0
	}
	return idx.NNodes
}

// buildIndex walks the tree once to validate structure and compute all four
// orderings. Cycle and sharing detection piggyback on the walk: visiting any
// node twice means the child graph is not a tree.
func (t *Tree) buildIndex() (*Index, error) {
	if t.root == nil {
		return nil, errors.New(errors.ErrCodeMalformedTree, "tree has no root")
	}
	if t.root.parent != nil {
		return nil, errors.New(errors.ErrCodeMalformedTree, "root has a parent")
	}

	idx := &Index{}
	seen := make(map[*Node]bool)

	// Iterative preorder with an explicit stack; children pushed in
	// reverse so they pop in stored order.
	stack := []*Node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			return nil, errors.New(errors.ErrCodeMalformedTree, "node %q reachable twice (cycle or shared subtree)", n.Name)
		}
		seen[n] = true
		idx.Pre = append(idx.Pre, n)
		for i := len(n.children) - 1; i >= 0; i-- {
			c := n.children[i]
			if c.parent != n {
				return nil, errors.New(errors.ErrCodeMalformedTree, "child %q has inconsistent parent link", c.Name)
			}
			stack = append(stack, c)
		}
	}
	idx.NNodes = len(idx.Pre)

	// Postorder and levelorder derive from the same validated topology.
	idx.Post = postorder(t.root, make([]*Node, 0, idx.NNodes))
	idx.Level = levelorder(t.root, idx.NNodes)

	// idxorder: tips first in left-to-right (preorder) encounter order,
	// then internal nodes in postorder so every parent exceeds all of its
	// children.
	idx.Idx = make([]*Node, 0, idx.NNodes)
	for _, n := range idx.Pre {
		if n.IsLeaf() {
			idx.Idx = append(idx.Idx, n)
		}
	}
	idx.NTips = len(idx.Idx)
	for _, n := range idx.Post {
		if !n.IsLeaf() {
			idx.Idx = append(idx.Idx, n)
		}
	}
	for i, n := range idx.Idx {
		n.idx = i
	}
	return idx, nil
}

func postorder(n *Node, out []*Node) []*Node {
	for _, c := range n.children {
		out = postorder(c, out)
	}
	return append(out, n)
}

func levelorder(root *Node, nnodes int) []*Node {
	out := make([]*Node, 0, nnodes)
	queue := []*Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		out = append(out, n)
		queue = append(queue, n.children...)
	}
	return out
}

// Validate checks structural integrity and returns nil if the tree is a
// connected, loop-free rooted tree with consistent parent links.
func (t *Tree) Validate() error {
	_, err := t.Index()
	return err
}

// Clone returns a deep copy of the tree: new nodes with copied names, branch
// lengths, supports and features, and a freshly wired topology. Engines use
// this to return results without aliasing caller-owned nodes.
func (t *Tree) Clone() *Tree {
	if t.root == nil {
		return &Tree{}
	}
	return &Tree{root: cloneNode(t.root, nil)}
}

func cloneNode(n, parent *Node) *Node {
	c := &Node{
		Name:   n.Name,
		Dist:   n.Dist,
		parent: parent,
		idx:    n.idx,
	}
	if n.Support != nil {
		s := *n.Support
		c.Support = &s
	}
	if len(n.features) > 0 {
		c.features = make(map[string]Value, len(n.features))
		for k, v := range n.features {
			c.features[k] = v
		}
	}
	c.children = make([]*Node, len(n.children))
	for i, ch := range n.children {
		c.children[i] = cloneNode(ch, c)
	}
	return c
}
