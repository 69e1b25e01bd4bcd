package layout

import (
	"github.com/treekit/treekit/pkg/errors"
	"github.com/treekit/treekit/pkg/tree"
)

// linear computes the canonical down-facing coordinates: tip x positions in
// slot order, internal x at the mean of children, y as height above the
// deepest tip level. A single idxorder pass suffices for x because every
// node's index exceeds its children's, even when fixed ordering makes the
// tip sequence arbitrary.
func linear(idx *tree.Index, opts Options) (*Table, error) {
	ntips := idx.NTips
	coords := make([][2]float64, idx.NNodes)

	slots, err := tipSlots(idx, opts.FixedOrder)
	if err != nil {
		return nil, err
	}
	positions, err := tipPositions(ntips, opts.FixedPosition)
	if err != nil {
		return nil, err
	}

	heights := nodeHeights(idx, opts.UseEdgeLengths)

	for i, n := range idx.Idx {
		if i < ntips {
			coords[i][0] = positions[slots[i]]
		} else {
			sum := 0.0
			for _, c := range n.Children() {
				sum += coords[c.Idx()][0]
			}
			coords[i][0] = sum / float64(len(n.Children()))
		}
		coords[i][1] = heights[i]
	}

	return &Table{Coords: coords}, nil
}

// tipSlots maps each tip's natural idxorder index to its display slot.
// Without a fixed order the mapping is the identity.
func tipSlots(idx *tree.Index, fixedOrder []string) ([]int, error) {
	ntips := idx.NTips
	slots := make([]int, ntips)
	if fixedOrder == nil {
		for i := range slots {
			slots[i] = i
		}
		return slots, nil
	}
	if len(fixedOrder) != ntips {
		return nil, errors.New(errors.ErrCodeDimensionMismatch,
			"fixed order has %d names, tree has %d tips", len(fixedOrder), ntips)
	}
	natural := make(map[string]int, ntips)
	for i, n := range idx.Idx[:ntips] {
		natural[n.Name] = i
	}
	seen := make([]bool, ntips)
	for slot, name := range fixedOrder {
		i, ok := natural[name]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownTip, "tip %q not in tree", name)
		}
		if seen[i] {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "tip %q repeated in fixed order", name)
		}
		seen[i] = true
		slots[i] = slot
	}
	return slots, nil
}

// tipPositions returns the x position for each display slot: the default
// 0..ntips-1 spacing or the user-supplied override.
func tipPositions(ntips int, fixed []float64) ([]float64, error) {
	if fixed == nil {
		positions := make([]float64, ntips)
		for i := range positions {
			positions[i] = float64(i)
		}
		return positions, nil
	}
	if len(fixed) != ntips {
		return nil, errors.New(errors.ErrCodeDimensionMismatch,
			"fixed position has %d entries, tree has %d tips", len(fixed), ntips)
	}
	return append([]float64(nil), fixed...), nil
}

// nodeHeights computes each node's y in the canonical down-facing frame,
// indexed by idxorder.
//
// With edge lengths the height is the distance above the deepest tip level:
// maxTipDepth - rootToNodeDistance, which puts the farthest tip at 0 and the
// root at the total tree height. With unit edges every leaf sits at 0 and an
// internal node sits one above its tallest child, computed bottom-up.
func nodeHeights(idx *tree.Index, useEdgeLengths bool) []float64 {
	heights := make([]float64, idx.NNodes)

	if !useEdgeLengths {
		for _, n := range idx.Post {
			if n.IsLeaf() {
				heights[n.Idx()] = 0
				continue
			}
			max := 0.0
			for _, c := range n.Children() {
				if h := heights[c.Idx()]; h > max {
					max = h
				}
			}
			heights[n.Idx()] = max + 1
		}
		return heights
	}

	depths := make([]float64, idx.NNodes)
	maxTipDepth := 0.0
	for _, n := range idx.Pre {
		d := 0.0
		if p := n.Parent(); p != nil {
			d = depths[p.Idx()] + n.Dist
		}
		depths[n.Idx()] = d
		if n.IsLeaf() && d > maxTipDepth {
			maxTipDepth = d
		}
	}
	for i, d := range depths {
		heights[i] = maxTipDepth - d
	}
	return heights
}
