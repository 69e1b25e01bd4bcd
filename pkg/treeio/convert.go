package treeio

import (
	"github.com/treekit/treekit/pkg/errors"
	"github.com/treekit/treekit/pkg/tree"
)

// ToDocument converts a tree to its serialized form, with node IDs taken
// from the current idxorder.
func ToDocument(t *tree.Tree) (Document, error) {
	idx, err := t.Index()
	if err != nil {
		return Document{}, err
	}
	doc := Document{Nodes: make([]NodeData, idx.NNodes)}
	for i, n := range idx.Idx {
		nd := NodeData{
			ID:      i,
			Name:    n.Name,
			Dist:    n.Dist,
			Support: n.Support,
		}
		if feats := n.Features(); feats != nil {
			nd.Features = make(map[string]any, len(feats))
			for k, v := range feats {
				nd.Features[k] = v.Interface()
			}
		}
		for _, c := range n.Children() {
			nd.Children = append(nd.Children, c.Idx())
		}
		doc.Nodes[i] = nd
	}
	doc.Root = t.Root().Idx()
	return doc, nil
}

// FromDocument reconstructs a tree from its serialized form, validating node
// IDs and child references. Sibling order follows the child-id lists.
func FromDocument(doc Document) (*tree.Tree, error) {
	n := len(doc.Nodes)
	if n == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "tree document has no nodes")
	}
	if doc.Root < 0 || doc.Root >= n {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "root id %d out of range", doc.Root)
	}

	nodes := make([]*tree.Node, n)
	byID := make(map[int]int, n) // document id -> slice position
	for i, nd := range doc.Nodes {
		if _, dup := byID[nd.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "duplicate node id %d", nd.ID)
		}
		if nd.ID < 0 || nd.ID >= n {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node id %d out of range", nd.ID)
		}
		if nd.Dist < 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %d has negative dist %g", nd.ID, nd.Dist)
		}
		byID[nd.ID] = i
		node := tree.NewNode(nd.Name)
		node.Dist = nd.Dist
		node.Support = nd.Support
		for k, raw := range nd.Features {
			v, err := tree.FromInterface(raw)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %d feature %q", nd.ID, k)
			}
			node.SetFeature(k, v)
		}
		nodes[i] = node
	}

	t := tree.New(nodes[byID[doc.Root]])
	attached := make([]bool, n)
	attached[byID[doc.Root]] = true
	for i, nd := range doc.Nodes {
		for _, cid := range nd.Children {
			ci, ok := byID[cid]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "node %d references unknown child %d", nd.ID, cid)
			}
			if attached[ci] {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "node %d attached more than once", cid)
			}
			attached[ci] = true
			t.AddChild(nodes[i], nodes[ci])
		}
	}
	for i, ok := range attached {
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %d is disconnected", doc.Nodes[i].ID)
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
