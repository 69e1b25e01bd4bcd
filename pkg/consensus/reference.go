package consensus

import (
	"github.com/treekit/treekit/pkg/errors"
	"github.com/treekit/treekit/pkg/tree"
)

// scoreReference returns a copy of the reference tree with each internal
// node's support set to the measured frequency of its clade in the input
// collection, 0 when the clade never occurred. The reference itself is not
// touched.
func scoreReference(ref *tree.Tree, universe []string, pos map[string]int, counts map[string]*clade, ntrees int) (*tree.Tree, error) {
	names, err := ref.TipNames()
	if err != nil {
		return nil, err
	}
	if err := sameTipSet(pos, names, len(universe)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTipSetMismatch, err, "reference tree")
	}

	out := ref.Clone()
	idx, err := out.Index()
	if err != nil {
		return nil, err
	}

	sets := make([]bitset, idx.NNodes)
	for _, n := range idx.Post {
		b := newBitset(len(universe))
		if n.IsLeaf() {
			b.set(pos[n.Name])
		} else {
			for _, c := range n.Children() {
				b.or(sets[c.Idx()])
			}
			freq := 0.0
			if cl, ok := counts[b.key()]; ok {
				freq = float64(cl.count) / float64(ntrees)
			}
			n.SetSupport(freq)
		}
		sets[n.Idx()] = b
	}
	return out, nil
}
