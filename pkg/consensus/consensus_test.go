package consensus

import (
	"math"
	"testing"

	"github.com/treekit/treekit/pkg/errors"
	"github.com/treekit/treekit/pkg/tree"
)

const epsilon = 1e-9

// caterpillar builds ((( t0, t1 ), t2 ), t3 ...): the first two names are
// siblings, each later name attaches one level up.
func caterpillar(names ...string) *tree.Tree {
	root := tree.NewNode("")
	t := tree.New(root)
	cur := root
	for i := len(names) - 1; i >= 2; i-- {
		tip := tree.NewNode(names[i])
		inner := tree.NewNode("")
		t.AddChild(cur, inner)
		t.AddChild(cur, tip)
		cur = inner
	}
	t.AddChild(cur, tree.NewNode(names[0]))
	t.AddChild(cur, tree.NewNode(names[1]))
	return t
}

// newick renders the topology with supports, children in stored order, for
// compact structural assertions.
func newick(t *tree.Tree) string {
	var render func(n *tree.Node) string
	render = func(n *tree.Node) string {
		if n.IsLeaf() {
			return n.Name
		}
		s := "("
		for i, c := range n.Children() {
			if i > 0 {
				s += ","
			}
			s += render(c)
		}
		return s + ")"
	}
	return render(t.Root())
}

func support(t *testing.T, tr *tree.Tree, tips ...string) float64 {
	t.Helper()
	n, err := tr.MRCA(tips...)
	if err != nil {
		t.Fatalf("MRCA(%v): %v", tips, err)
	}
	if n.Support == nil {
		t.Fatalf("MRCA(%v) has no support", tips)
	}
	return *n.Support
}

func TestBuildIdenticalTrees(t *testing.T) {
	trees := []*tree.Tree{
		caterpillar("A", "B", "C", "D"),
		caterpillar("A", "B", "C", "D"),
		caterpillar("A", "B", "C", "D"),
	}
	got, err := Build(trees, Options{Cutoff: 0.5})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s := newick(got); s != "(((A,B),C),D)" {
		t.Errorf("topology = %s, want (((A,B),C),D)", s)
	}
	for _, tips := range [][]string{{"A", "B"}, {"A", "B", "C"}, {"A", "B", "C", "D"}} {
		if s := support(t, got, tips...); math.Abs(s-1.0) > epsilon {
			t.Errorf("support(%v) = %g, want 1.0", tips, s)
		}
	}
}

// mixedCollection returns three trees on {A,B,C,D}: two copies of
// (((A,B),C),D) and one (((A,C),B),D). Clade frequencies: {A,B,C} 3/3,
// {A,B} 2/3, {A,C} 1/3.
func mixedCollection() []*tree.Tree {
	return []*tree.Tree{
		caterpillar("A", "B", "C", "D"),
		caterpillar("A", "B", "C", "D"),
		caterpillar("A", "C", "B", "D"),
	}
}

func TestBuildMajority(t *testing.T) {
	got, err := Build(mixedCollection(), Options{Cutoff: 0.5})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s := newick(got); s != "(((A,B),C),D)" {
		t.Errorf("topology = %s, want (((A,B),C),D)", s)
	}
	if s := support(t, got, "A", "B"); math.Abs(s-2.0/3.0) > epsilon {
		t.Errorf("support(A,B) = %g, want 2/3", s)
	}
	if s := support(t, got, "A", "B", "C"); math.Abs(s-1.0) > epsilon {
		t.Errorf("support(A,B,C) = %g, want 1.0", s)
	}
}

func TestBuildStrictCutoff(t *testing.T) {
	got, err := Build(mixedCollection(), Options{Cutoff: 1.0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// Only the unanimous {A,B,C} survives; A, B, C collapse into a
	// polytomy beneath it.
	if s := newick(got); s != "((A,B,C),D)" {
		t.Errorf("topology = %s, want ((A,B,C),D)", s)
	}
}

func TestBuildExtendedMajority(t *testing.T) {
	// Cutoff 0 admits every compatible clade in frequency order: {A,B}
	// at 2/3 wins over the incompatible {A,C} at 1/3.
	got, err := Build(mixedCollection(), Options{Cutoff: 0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s := newick(got); s != "(((A,B),C),D)" {
		t.Errorf("topology = %s, want (((A,B),C),D)", s)
	}
}

func TestBuildCutoffMonotonicity(t *testing.T) {
	// Raising the cutoff can only collapse clades, never resolve new
	// ones, so the internal-node count is non-increasing over a sweep.
	internal := func(tr *tree.Tree) int {
		n := 0
		idx, err := tr.Index()
		if err != nil {
			t.Fatalf("Index: %v", err)
		}
		for _, node := range idx.Idx {
			if !node.IsLeaf() {
				n++
			}
		}
		return n
	}

	trees := mixedCollection()
	prev := -1
	for _, cutoff := range []float64{0, 0.25, 0.5, 0.7, 0.9, 1.0} {
		got, err := Build(trees, Options{Cutoff: cutoff})
		if err != nil {
			t.Fatalf("Build(cutoff=%g): %v", cutoff, err)
		}
		n := internal(got)
		if prev >= 0 && n > prev {
			t.Errorf("cutoff %g resolved %d internal nodes, more than %d at the lower cutoff", cutoff, n, prev)
		}
		prev = n
	}
}

func TestBuildCanonicalOrder(t *testing.T) {
	// Same clades presented with tips in a different plotting order still
	// canonicalize to sorted sibling order.
	got, err := Build([]*tree.Tree{
		caterpillar("B", "A", "C", "D"),
		caterpillar("B", "A", "C", "D"),
	}, Options{Cutoff: 0.5})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s := newick(got); s != "(((A,B),C),D)" {
		t.Errorf("topology = %s, want (((A,B),C),D)", s)
	}
}

func TestBuildDoesNotMutateInputs(t *testing.T) {
	trees := mixedCollection()
	before := newick(trees[2])
	if _, err := Build(trees, Options{Cutoff: 0.5}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if after := newick(trees[2]); after != before {
		t.Errorf("input tree mutated: %s -> %s", before, after)
	}
}

func TestBuildReferenceMode(t *testing.T) {
	ref := caterpillar("A", "C", "B", "D")
	got, err := Build(mixedCollection(), Options{Reference: ref})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// Topology follows the reference, not the majority.
	if s := newick(got); s != "(((A,C),B),D)" {
		t.Errorf("topology = %s, want (((A,C),B),D)", s)
	}
	if s := support(t, got, "A", "C"); math.Abs(s-1.0/3.0) > epsilon {
		t.Errorf("support(A,C) = %g, want 1/3", s)
	}
	if s := support(t, got, "A", "B", "C"); math.Abs(s-1.0) > epsilon {
		t.Errorf("support(A,B,C) = %g, want 1.0", s)
	}
	// The reference itself keeps its original (unset) supports.
	refMRCA, _ := ref.MRCA("A", "C")
	if refMRCA.Support != nil {
		t.Error("reference tree was mutated")
	}
}

func TestBuildErrors(t *testing.T) {
	good := caterpillar("A", "B", "C", "D")

	if _, err := Build(nil, Options{}); !errors.Is(err, errors.ErrCodeEmptyInput) {
		t.Errorf("empty input: got %v, want EMPTY_INPUT", err)
	}
	if _, err := Build([]*tree.Tree{good}, Options{Cutoff: 1.5}); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("bad cutoff: got %v, want INVALID_ARGUMENT", err)
	}
	mismatched := []*tree.Tree{good, caterpillar("A", "B", "C", "E")}
	if _, err := Build(mismatched, Options{Cutoff: 0.5}); !errors.Is(err, errors.ErrCodeTipSetMismatch) {
		t.Errorf("tip mismatch: got %v, want TIP_SET_MISMATCH", err)
	}
	badRef := caterpillar("A", "B", "C", "E")
	if _, err := Build([]*tree.Tree{good, good.Clone()}, Options{Reference: badRef}); !errors.Is(err, errors.ErrCodeTipSetMismatch) {
		t.Errorf("reference mismatch: got %v, want TIP_SET_MISMATCH", err)
	}
}
