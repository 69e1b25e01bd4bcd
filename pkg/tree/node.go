package tree

// Node is a single vertex in a phylogenetic tree: adjacency links, a branch
// length, an optional name, and arbitrary named feature values. Node carries
// no algorithms of its own - traversal, indexing and queries live on [Tree].
//
// Child order is semantically meaningful: it is the left-to-right plotting
// order used by layout. Ownership flows strictly downward from Tree through
// root to descendants; the parent link is a non-owning back-reference used
// only for upward traversal.
type Node struct {
	// Name is the tip or internal node label. Optional; tips are usually
	// named, internal nodes usually are not.
	Name string

	// Dist is the length of the edge connecting this node to its parent.
	// Must be >= 0. Defaults to 1.0 for nodes created with NewNode; the
	// root conventionally has 0.0.
	Dist float64

	// Support is an optional support value, set for internal nodes by the
	// consensus engine. Nil when unset.
	Support *float64

	parent   *Node
	children []*Node
	features map[string]Value

	// idx is the canonical idxorder index, assigned by Tree.Index.
	// Stable only until the next topology change.
	idx int
}

// NewNode creates a detached node with the given name and a default branch
// length of 1.0. Attach it to a tree with [Tree.AddChild].
func NewNode(name string) *Node {
	return &Node{Name: name, Dist: 1.0}
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in stored (left-to-right plotting)
// order. The returned slice is a read-only view into the node; use the
// mutators on [Tree] to change topology so that cached indices are
// invalidated correctly.
func (n *Node) Children() []*Node { return n.children }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.parent == nil }

// Idx returns the node's idxorder index as assigned by the most recent
// [Tree.Index] call: tips are numbered 0..ntips-1 in left-to-right plotting
// order and every node's index exceeds all of its children's indices.
func (n *Node) Idx() int { return n.idx }

// SetSupport sets the node's support value.
func (n *Node) SetSupport(v float64) {
	n.Support = &v
}

// SetFeature attaches a named feature value to the node, replacing any
// previous value under the same name.
func (n *Node) SetFeature(name string, v Value) {
	if n.features == nil {
		n.features = make(map[string]Value)
	}
	n.features[name] = v
}

// Feature returns the named feature value and whether it is set.
func (n *Node) Feature(name string) (Value, bool) {
	v, ok := n.features[name]
	return v, ok
}

// Features returns a copy of the node's feature map. Returns nil when the
// node carries no features.
func (n *Node) Features() map[string]Value {
	if len(n.features) == 0 {
		return nil
	}
	out := make(map[string]Value, len(n.features))
	for k, v := range n.features {
		out[k] = v
	}
	return out
}
