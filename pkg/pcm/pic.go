// Package pcm implements phylogenetic comparative methods over continuous
// traits stored as node features.
//
// Traits evolve under a Brownian-motion model: a trait value mapped onto
// every tip, together with branch lengths, determines independent contrasts
// at each internal node and a weighted-average ancestral state
// reconstruction. Contrasts divide out shared history, so they can be
// treated as independent samples in downstream correlation tests.
package pcm

import (
	"github.com/treekit/treekit/pkg/errors"
	"github.com/treekit/treekit/pkg/tree"
)

// Contrast holds the values computed at one internal node.
type Contrast struct {
	// Mean is the reconstructed ancestral trait value: the average of the
	// two child states weighted by inverse variance.
	Mean float64

	// Var is the variance of the reconstructed state, the node's own
	// branch length plus the pooled child variance.
	Var float64

	// Contrast is the raw difference between the two child states, in
	// stored child order.
	Contrast float64

	// ContrastVar is the contrast's variance, the sum of the child
	// variances. Contrast / sqrt(ContrastVar) is the standardized form.
	ContrastVar float64
}

// IndependentContrasts computes phylogenetic independent contrasts for a
// continuous trait. feature must be present and numeric on every tip; the
// tree must be strictly bifurcating and every pooled child variance must be
// positive. The input tree is not modified.
//
// The result maps each internal node (including the root) to its contrast.
func IndependentContrasts(t *tree.Tree, feature string) (map[*tree.Node]Contrast, error) {
	idx, err := t.Index()
	if err != nil {
		return nil, err
	}

	means := make([]float64, idx.NNodes)
	variances := make([]float64, idx.NNodes)
	out := make(map[*tree.Node]Contrast, idx.NNodes-idx.NTips)

	for _, n := range idx.Post {
		if n.IsLeaf() {
			v, ok := n.Feature(feature)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidArgument,
					"tip %q has no feature %q", n.Name, feature)
			}
			f, ok := v.Float()
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidArgument,
					"feature %q on tip %q is not numeric", feature, n.Name)
			}
			means[n.Idx()] = f
			variances[n.Idx()] = n.Dist
			continue
		}

		children := n.Children()
		if len(children) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidArgument,
				"node with %d children: contrasts require a bifurcating tree", len(children))
		}
		mi, mj := means[children[0].Idx()], means[children[1].Idx()]
		vi, vj := variances[children[0].Idx()], variances[children[1].Idx()]
		if vi <= 0 || vj <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidArgument,
				"non-positive child variance beneath node %d: contrasts undefined", n.Idx())
		}

		mean := (mi/vi + mj/vj) / (1/vi + 1/vj)
		variance := n.Dist + vi*vj/(vi+vj)
		means[n.Idx()] = mean
		variances[n.Idx()] = variance
		out[n] = Contrast{
			Mean:        mean,
			Var:         variance,
			Contrast:    mi - mj,
			ContrastVar: vi + vj,
		}
	}
	return out, nil
}

// AncestralStates reconstructs the trait value at every internal node and
// returns a copy of the tree with feature set to the reconstructed mean on
// each internal node. Tips keep their observed values; the input tree is
// not modified.
func AncestralStates(t *tree.Tree, feature string) (*tree.Tree, error) {
	out := t.Clone()
	contrasts, err := IndependentContrasts(out, feature)
	if err != nil {
		return nil, err
	}
	for n, c := range contrasts {
		n.SetFeature(feature, tree.Num(c.Mean))
	}
	return out, nil
}
