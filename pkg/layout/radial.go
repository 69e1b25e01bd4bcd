package layout

import (
	"math"

	"github.com/treekit/treekit/pkg/errors"
	"github.com/treekit/treekit/pkg/tree"
)

// radial computes the unrooted equal-angle layout, optionally refined by the
// equal-daylight pass. The root vertex sits at the origin with the full
// [0, 2π) sector; every other node hangs off its parent at the midpoint
// angle of its own sector.
func radial(t *tree.Tree, idx *tree.Index, opts Options) (*Table, error) {
	if idx.NTips < 3 {
		return nil, errors.New(errors.ErrCodeDegenerateTree,
			"radial layout requires at least 3 tips, tree has %d", idx.NTips)
	}

	coords := make([][2]float64, idx.NNodes)
	radius := make([]float64, idx.NNodes)
	perTip := 2 * math.Pi / float64(idx.NTips)

	// Angular weight of each node's sector: tips get one slice, internal
	// nodes the sum of their descendants' slices.
	weight := make([]float64, idx.NNodes)
	for _, n := range idx.Post {
		if n.IsLeaf() {
			weight[n.Idx()] = perTip
			continue
		}
		sum := 0.0
		for _, c := range n.Children() {
			sum += weight[c.Idx()]
		}
		weight[n.Idx()] = sum
	}

	// Concrete sector assignment in levelorder: a parent is always placed
	// before its children, and children fill the parent's sector without
	// gaps in stored order.
	start := make([]float64, idx.NNodes)
	for _, n := range idx.Level {
		i := n.Idx()
		if n.IsRoot() {
			start[i] = 0
			coords[i] = [2]float64{0, 0}
			radius[i] = 0
		}
		cursor := start[i]
		for _, c := range n.Children() {
			ci := c.Idx()
			start[ci] = cursor
			cursor += weight[ci]

			mid := start[ci] + weight[ci]/2
			d := edgeLen(c, opts.UseEdgeLengths)
			coords[ci] = [2]float64{
				coords[i][0] + d*math.Sin(mid),
				coords[i][1] - d*math.Cos(mid),
			}
			radius[ci] = radius[i] + d
		}
	}

	if opts.MaxDaylightIterations > 0 {
		equalDaylight(idx, coords, opts)
	}

	return &Table{Coords: coords, Radius: radius}, nil
}

func edgeLen(n *tree.Node, useEdgeLengths bool) float64 {
	if useEdgeLengths {
		return n.Dist
	}
	return 1.0
}
