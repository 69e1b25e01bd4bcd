package layout

import (
	"math"
	"testing"

	"github.com/treekit/treekit/pkg/errors"
	"github.com/treekit/treekit/pkg/tree"
)

// buildStar returns a root with n direct tips T0..Tn-1, all at distance 1.
func buildStar(n int) *tree.Tree {
	root := tree.NewNode("")
	t := tree.New(root)
	for i := 0; i < n; i++ {
		tip := tree.NewNode(string(rune('A' + i)))
		tip.Dist = 1
		t.AddChild(root, tip)
	}
	return t
}

func TestRadialDegenerate(t *testing.T) {
	for _, n := range []int{1, 2} {
		tr := buildStar(n)
		if _, err := Compute(tr, Options{Orientation: Radial, UseEdgeLengths: true}); !errors.Is(err, errors.ErrCodeDegenerateTree) {
			t.Errorf("%d tips: got %v, want DEGENERATE_TREE", n, err)
		}
	}
}

func TestRadialStarAngles(t *testing.T) {
	tr := buildStar(4)
	tab, err := Compute(tr, Options{Orientation: Radial, UseEdgeLengths: true})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	// Each tip owns a quarter sector; tips sit at the sector midlines
	// pi/4, 3pi/4, 5pi/4, 7pi/4 measured clockwise from straight down.
	for i := 0; i < 4; i++ {
		mid := (float64(i) + 0.5) * math.Pi / 2
		wantX := math.Sin(mid)
		wantY := -math.Cos(mid)
		got := tab.Coords[i]
		if !approx(got[0], wantX) || !approx(got[1], wantY) {
			t.Errorf("tip %d = (%g,%g), want (%g,%g)", i, got[0], got[1], wantX, wantY)
		}
		if !approx(tab.Radius[i], 1) {
			t.Errorf("tip %d radius = %g, want 1", i, tab.Radius[i])
		}
	}

	// The root sits at the origin with zero radius.
	idx, _ := tr.Index()
	rootCoord := tab.Coords[idx.NNodes-1]
	if !approx(rootCoord[0], 0) || !approx(rootCoord[1], 0) {
		t.Errorf("root = (%g,%g), want origin", rootCoord[0], rootCoord[1])
	}
	if !approx(tab.Radius[idx.NNodes-1], 0) {
		t.Errorf("root radius = %g, want 0", tab.Radius[idx.NNodes-1])
	}
}

func TestRadialEdgeDistances(t *testing.T) {
	tr := buildCaterpillar()
	tab, err := Compute(tr, Options{Orientation: Radial, UseEdgeLengths: true})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	checkEdgeDistances(t, tr, tab)
}

func TestRadialRadiusIsPathDistance(t *testing.T) {
	tr := buildCaterpillar()
	tab, err := Compute(tr, Options{Orientation: Radial, UseEdgeLengths: true})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	wants := map[string]float64{"A": 2, "B": 2, "C": 2}
	for name, w := range wants {
		n, _ := tr.FindTip(name)
		if !approx(tab.Radius[n.Idx()], w) {
			t.Errorf("%s radius = %g, want %g", name, tab.Radius[n.Idx()], w)
		}
	}
}

func TestRadialBaseline(t *testing.T) {
	tr := buildStar(4)
	base, err := Compute(tr, Options{Orientation: Radial, UseEdgeLengths: true})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	shifted, err := Compute(tr, Options{Orientation: Radial, UseEdgeLengths: true, XBaseline: 2, YBaseline: 3})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	for i := range base.Coords {
		if !approx(shifted.Coords[i][0], base.Coords[i][0]+2) || !approx(shifted.Coords[i][1], base.Coords[i][1]+3) {
			t.Errorf("node %d not shifted by baseline", i)
		}
	}
}

// checkEdgeDistances asserts that the euclidean distance between every
// parent-child pair equals the child's branch length.
func checkEdgeDistances(t *testing.T, tr *tree.Tree, tab *Table) {
	t.Helper()
	idx, err := tr.Index()
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	for _, n := range idx.Idx {
		p := n.Parent()
		if p == nil {
			continue
		}
		dx := tab.Coords[n.Idx()][0] - tab.Coords[p.Idx()][0]
		dy := tab.Coords[n.Idx()][1] - tab.Coords[p.Idx()][1]
		if got := math.Hypot(dx, dy); !approx(got, n.Dist) {
			t.Errorf("edge to %q has plotted length %g, want %g", n.Name, got, n.Dist)
		}
	}
}
