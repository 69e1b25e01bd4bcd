package pcm

import (
	"math"
	"testing"

	"github.com/treekit/treekit/pkg/errors"
	"github.com/treekit/treekit/pkg/tree"
)

const epsilon = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < epsilon }

// buildTraitTree returns ((A:1,B:1):1,C:2) with trait values A=1, B=3, C=10
// and the inner and root nodes for direct result lookups.
func buildTraitTree() (*tree.Tree, *tree.Node, *tree.Node) {
	root := tree.NewNode("")
	inner := tree.NewNode("")
	inner.Dist = 1
	a := tree.NewNode("A")
	a.Dist = 1
	a.SetFeature("size", tree.Num(1))
	b := tree.NewNode("B")
	b.Dist = 1
	b.SetFeature("size", tree.Num(3))
	c := tree.NewNode("C")
	c.Dist = 2
	c.SetFeature("size", tree.Num(10))
	t := tree.New(root)
	t.AddChild(root, inner)
	t.AddChild(root, c)
	t.AddChild(inner, a)
	t.AddChild(inner, b)
	return t, inner, root
}

func TestIndependentContrasts(t *testing.T) {
	tr, inner, root := buildTraitTree()
	got, err := IndependentContrasts(tr, "size")
	if err != nil {
		t.Fatalf("IndependentContrasts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("%d contrasts, want 2 (one per internal node)", len(got))
	}

	// Inner node: equal child variances average the states directly;
	// its own variance adds the pooled child variance to its branch.
	ic := got[inner]
	if !approx(ic.Mean, 2) {
		t.Errorf("inner mean = %g, want 2", ic.Mean)
	}
	if !approx(ic.Var, 1.5) {
		t.Errorf("inner var = %g, want 1.5", ic.Var)
	}
	if !approx(ic.Contrast, -2) {
		t.Errorf("inner contrast = %g, want -2", ic.Contrast)
	}
	if !approx(ic.ContrastVar, 2) {
		t.Errorf("inner contrast var = %g, want 2", ic.ContrastVar)
	}

	// Root: children (inner: mean 2, var 1.5) and (C: 10, var 2), so the
	// inverse-variance weighted mean is 38/7 and, with the root's zero
	// branch, the variance is the pooled 6/7.
	rc := got[root]
	if !approx(rc.Mean, 38.0/7.0) {
		t.Errorf("root mean = %g, want %g", rc.Mean, 38.0/7.0)
	}
	if !approx(rc.Var, 6.0/7.0) {
		t.Errorf("root var = %g, want %g", rc.Var, 6.0/7.0)
	}
	if !approx(rc.Contrast, -8) {
		t.Errorf("root contrast = %g, want -8", rc.Contrast)
	}
	if !approx(rc.ContrastVar, 3.5) {
		t.Errorf("root contrast var = %g, want 3.5", rc.ContrastVar)
	}
}

func TestAncestralStates(t *testing.T) {
	tr, _, _ := buildTraitTree()
	got, err := AncestralStates(tr, "size")
	if err != nil {
		t.Fatalf("AncestralStates: %v", err)
	}

	// Tips keep their observed values.
	a, err := got.FindTip("A")
	if err != nil {
		t.Fatalf("FindTip: %v", err)
	}
	if v, ok := a.Feature("size"); !ok {
		t.Error("tip lost its trait value")
	} else if f, _ := v.Float(); !approx(f, 1) {
		t.Errorf("A size = %g, want 1", f)
	}

	// Internal nodes carry the reconstructed means.
	if v, ok := a.Parent().Feature("size"); !ok {
		t.Error("inner node has no reconstructed state")
	} else if f, _ := v.Float(); !approx(f, 2) {
		t.Errorf("inner size = %g, want 2", f)
	}
	if v, ok := got.Root().Feature("size"); !ok {
		t.Error("root has no reconstructed state")
	} else if f, _ := v.Float(); !approx(f, 38.0/7.0) {
		t.Errorf("root size = %g, want %g", f, 38.0/7.0)
	}

	// The input tree is untouched.
	if _, ok := tr.Root().Feature("size"); ok {
		t.Error("input tree gained a root trait value")
	}
}

func TestIndependentContrastsErrors(t *testing.T) {
	t.Run("non-numeric trait", func(t *testing.T) {
		tr, _, _ := buildTraitTree()
		b, _ := tr.FindTip("B")
		b.SetFeature("size", tree.Str("large"))
		if _, err := IndependentContrasts(tr, "size"); !errors.Is(err, errors.ErrCodeInvalidArgument) {
			t.Errorf("got %v, want INVALID_ARGUMENT", err)
		}
	})

	t.Run("feature absent", func(t *testing.T) {
		tr, _, _ := buildTraitTree()
		if _, err := IndependentContrasts(tr, "mass"); !errors.Is(err, errors.ErrCodeInvalidArgument) {
			t.Errorf("got %v, want INVALID_ARGUMENT", err)
		}
	})

	t.Run("polytomy", func(t *testing.T) {
		root := tree.NewNode("")
		tr := tree.New(root)
		for _, name := range []string{"A", "B", "C"} {
			tip := tree.NewNode(name)
			tip.Dist = 1
			tip.SetFeature("size", tree.Num(1))
			tr.AddChild(root, tip)
		}
		if _, err := IndependentContrasts(tr, "size"); !errors.Is(err, errors.ErrCodeInvalidArgument) {
			t.Errorf("got %v, want INVALID_ARGUMENT", err)
		}
	})

	t.Run("zero branch length", func(t *testing.T) {
		tr, _, _ := buildTraitTree()
		a, _ := tr.FindTip("A")
		a.Dist = 0
		tr.Invalidate()
		if _, err := IndependentContrasts(tr, "size"); !errors.Is(err, errors.ErrCodeInvalidArgument) {
			t.Errorf("got %v, want INVALID_ARGUMENT", err)
		}
	})
}
