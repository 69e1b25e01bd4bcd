package layout

import (
	"math"
	"sort"

	"github.com/treekit/treekit/pkg/tree"
)

// sector is the circular angular interval occupied by one subtree as seen
// from a vertex.
type sector struct {
	start float64 // interval start in [0, 2π)
	width float64 // interval extent
	nodes []*tree.Node
	fixed bool // anchor group, never rotated
}

// equalDaylight refines equal-angle coordinates in place by equalizing the
// open angular gaps ("daylight") between the subtrees meeting at each
// internal vertex. Internal nodes are visited from the tips toward the root;
// at each vertex the parent-side of the tree stays fixed and the child
// subtrees rotate.
//
// The heuristic has no termination guarantee, so it runs for exactly
// opts.MaxDaylightIterations sweeps. Vertices whose subtree sectors overlap
// (negative daylight) are skipped for that sweep.
func equalDaylight(idx *tree.Index, coords [][2]float64, opts Options) {
	inSubtree := make([]bool, idx.NNodes)

	for it := 0; it < opts.MaxDaylightIterations; it++ {
		var spreadSum float64
		var visited int

		for i := idx.NTips; i < idx.NNodes; i++ {
			v := idx.Idx[i]
			groups := vertexGroups(idx, v, coords, inSubtree)
			if groups == nil {
				continue
			}
			if spread, ok := rotateGroups(v, groups, coords); ok {
				spreadSum += spread
				visited++
			}
		}

		if visited > 0 {
			opts.Logger.Debug("daylight sweep",
				"iteration", it+1,
				"vertices", visited,
				"mean_gap_spread", spreadSum/float64(visited))
		}
	}
}

// vertexGroups partitions the tree into the subtrees meeting at v: one group
// per child plus, for non-root vertices, the remainder of the tree reached
// through the parent. Each group records the angular interval its tip
// directions span as seen from v. Returns nil when fewer than two groups
// carry a usable direction.
func vertexGroups(idx *tree.Index, v *tree.Node, coords [][2]float64, inSubtree []bool) []sector {
	children := v.Children()
	if len(children) < 2 {
		return nil
	}

	for i := range inSubtree {
		inSubtree[i] = false
	}
	groups := make([]sector, 0, len(children)+1)

	for _, c := range children {
		nodes := subtreeNodes(c)
		angles := tipAngles(v, nodes, coords)
		if len(angles) == 0 {
			return nil
		}
		start, width := circularSpan(angles)
		groups = append(groups, sector{start: start, width: width, nodes: nodes})
		for _, n := range nodes {
			inSubtree[n.Idx()] = true
		}
	}
	inSubtree[v.Idx()] = true

	if !v.IsRoot() {
		// Everything outside v's subtree, seen through the parent edge.
		rest := make([]*tree.Node, 0, idx.NNodes)
		for _, n := range idx.Idx {
			if !inSubtree[n.Idx()] {
				rest = append(rest, n)
			}
		}
		angles := tipAngles(v, rest, coords)
		if len(angles) == 0 {
			return nil
		}
		start, width := circularSpan(angles)
		groups = append(groups, sector{start: start, width: width, nodes: rest, fixed: true})
	} else {
		// No parent side: anchor the first child subtree instead.
		groups[0].fixed = true
	}
	return groups
}

// rotateGroups equalizes the gaps between the groups around v, rotating
// every non-anchor group's nodes in place. Returns the pre-adjustment gap
// spread (max gap minus min gap) and whether an adjustment was applied.
func rotateGroups(v *tree.Node, groups []sector, coords [][2]float64) (float64, bool) {
	total := 0.0
	for _, g := range groups {
		total += g.width
	}
	daylight := 2*math.Pi - total
	if daylight <= 0 {
		return 0, false
	}
	gap := daylight / float64(len(groups))

	// Walk the groups in circular order starting after the anchor.
	anchor := 0
	for i, g := range groups {
		if g.fixed {
			anchor = i
		}
	}
	anchorEnd := groups[anchor].start + groups[anchor].width
	order := make([]int, 0, len(groups)-1)
	for i := range groups {
		if i != anchor {
			order = append(order, i)
		}
	}
	sort.Slice(order, func(a, b int) bool {
		return normRad(groups[order[a]].start-anchorEnd) < normRad(groups[order[b]].start-anchorEnd)
	})

	// Gap spread before adjustment, for convergence tracking.
	spread := gapSpread(groups, anchor, order, anchorEnd)

	vx, vy := coords[v.Idx()][0], coords[v.Idx()][1]
	cursor := anchorEnd
	for _, gi := range order {
		g := groups[gi]
		desired := cursor + gap
		delta := angDiff(desired - normRad(g.start-anchorEnd) - anchorEnd)
		if math.Abs(delta) > 1e-12 {
			rotateNodes(g.nodes, vx, vy, delta, coords)
		}
		cursor = desired + g.width
	}
	return spread, true
}

func gapSpread(groups []sector, anchor int, order []int, anchorEnd float64) float64 {
	minGap, maxGap := math.Inf(1), math.Inf(-1)
	prevEnd := 0.0 // relative to anchorEnd
	for _, gi := range order {
		rel := normRad(groups[gi].start - anchorEnd)
		g := rel - prevEnd
		if g < minGap {
			minGap = g
		}
		if g > maxGap {
			maxGap = g
		}
		prevEnd = rel + groups[gi].width
	}
	// Closing gap back to the anchor start.
	closing := 2*math.Pi - prevEnd
	if closing < minGap {
		minGap = closing
	}
	if closing > maxGap {
		maxGap = closing
	}
	return maxGap - minGap
}

// subtreeNodes returns n and all of its descendants.
func subtreeNodes(n *tree.Node) []*tree.Node {
	var out []*tree.Node
	stack := []*tree.Node{n}
	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, m)
		stack = append(stack, m.Children()...)
	}
	return out
}

// tipAngles returns the directions from v to each tip in nodes. Zero-length
// vectors (a tip coinciding with v) contribute nothing rather than raising a
// domain error.
func tipAngles(v *tree.Node, nodes []*tree.Node, coords [][2]float64) []float64 {
	vx, vy := coords[v.Idx()][0], coords[v.Idx()][1]
	var angles []float64
	for _, n := range nodes {
		if !n.IsLeaf() {
			continue
		}
		dx := coords[n.Idx()][0] - vx
		dy := coords[n.Idx()][1] - vy
		if math.Hypot(dx, dy) < 1e-12 {
			continue
		}
		angles = append(angles, normRad(math.Atan2(dy, dx)))
	}
	return angles
}

// circularSpan finds the smallest circular interval containing all angles:
// the complement of the largest gap between consecutive sorted angles.
func circularSpan(angles []float64) (start, width float64) {
	if len(angles) == 1 {
		return angles[0], 0
	}
	sorted := append([]float64(nil), angles...)
	sort.Float64s(sorted)

	maxGap := 2*math.Pi - sorted[len(sorted)-1] + sorted[0]
	startIdx := 0
	for i := 1; i < len(sorted); i++ {
		if g := sorted[i] - sorted[i-1]; g > maxGap {
			maxGap = g
			startIdx = i
		}
	}
	return sorted[startIdx], 2*math.Pi - maxGap
}

// rotateNodes rotates the given nodes around (vx, vy) by delta radians,
// updating coords in place.
func rotateNodes(nodes []*tree.Node, vx, vy, delta float64, coords [][2]float64) {
	sin, cos := math.Sincos(delta)
	for _, n := range nodes {
		i := n.Idx()
		dx := coords[i][0] - vx
		dy := coords[i][1] - vy
		coords[i][0] = vx + dx*cos - dy*sin
		coords[i][1] = vy + dx*sin + dy*cos
	}
}

// normRad normalizes an angle to [0, 2π).
func normRad(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// angDiff normalizes an angle to (-π, π].
func angDiff(a float64) float64 {
	a = normRad(a)
	if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}
