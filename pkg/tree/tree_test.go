package tree

import (
	"testing"

	"github.com/treekit/treekit/pkg/errors"
)

// buildBalanced returns ((A,B),(C,D)) along with its nodes by name.
func buildBalanced() (*Tree, map[string]*Node) {
	root := NewNode("")
	left := NewNode("")
	right := NewNode("")
	a, b, c, d := NewNode("A"), NewNode("B"), NewNode("C"), NewNode("D")
	t := New(root)
	t.AddChild(root, left)
	t.AddChild(root, right)
	t.AddChild(left, a)
	t.AddChild(left, b)
	t.AddChild(right, c)
	t.AddChild(right, d)
	return t, map[string]*Node{"root": root, "left": left, "right": right, "A": a, "B": b, "C": c, "D": d}
}

func TestIndexCounts(t *testing.T) {
	tr, _ := buildBalanced()
	idx, err := tr.Index()
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if idx.NTips != 4 {
		t.Errorf("NTips = %d, want 4", idx.NTips)
	}
	if idx.NNodes != 7 {
		t.Errorf("NNodes = %d, want 7", idx.NNodes)
	}
	for _, ord := range [][]*Node{idx.Pre, idx.Post, idx.Level, idx.Idx} {
		if len(ord) != 7 {
			t.Errorf("ordering length = %d, want 7", len(ord))
		}
	}
}

func TestIdxOrderContract(t *testing.T) {
	tr, nodes := buildBalanced()
	idx, err := tr.Index()
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	// Tips occupy 0..NTips-1 in left-to-right plotting order.
	wantTips := []string{"A", "B", "C", "D"}
	for i, want := range wantTips {
		if idx.Idx[i].Name != want {
			t.Errorf("Idx[%d] = %q, want %q", i, idx.Idx[i].Name, want)
		}
	}

	// Every node's index exceeds all of its children's indices.
	for _, n := range idx.Idx {
		for _, c := range n.Children() {
			if c.Idx() >= n.Idx() {
				t.Errorf("child idx %d >= parent idx %d", c.Idx(), n.Idx())
			}
		}
	}

	// The root carries the largest index.
	if nodes["root"].Idx() != idx.NNodes-1 {
		t.Errorf("root idx = %d, want %d", nodes["root"].Idx(), idx.NNodes-1)
	}

	// Idx[i].Idx() == i for all nodes.
	for i, n := range idx.Idx {
		if n.Idx() != i {
			t.Errorf("Idx[%d].Idx() = %d", i, n.Idx())
		}
	}
}

func TestTraversalOrders(t *testing.T) {
	tr, nodes := buildBalanced()
	idx, err := tr.Index()
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	// Preorder: every node before its descendants.
	seen := make(map[*Node]bool)
	for _, n := range idx.Pre {
		if p := n.Parent(); p != nil && !seen[p] {
			t.Errorf("preorder visited %q before its parent", n.Name)
		}
		seen[n] = true
	}

	// Postorder: every node after its descendants.
	seen = make(map[*Node]bool)
	for _, n := range idx.Post {
		for _, c := range n.Children() {
			if !seen[c] {
				t.Errorf("postorder visited a node before child %q", c.Name)
			}
		}
		seen[n] = true
	}

	// Levelorder starts at the root.
	if idx.Level[0] != nodes["root"] {
		t.Error("levelorder should start at the root")
	}
}

func TestMutatorsInvalidate(t *testing.T) {
	tr, nodes := buildBalanced()
	if tr.NNodes() != 7 {
		t.Fatalf("NNodes = %d, want 7", tr.NNodes())
	}

	e := NewNode("E")
	tr.AddChild(nodes["right"], e)
	if tr.NNodes() != 8 || tr.NTips() != 5 {
		t.Errorf("after AddChild: %d nodes / %d tips, want 8 / 5", tr.NNodes(), tr.NTips())
	}

	tr.RemoveChild(nodes["right"], e)
	if tr.NNodes() != 7 {
		t.Errorf("after RemoveChild: %d nodes, want 7", tr.NNodes())
	}
	if e.Parent() != nil {
		t.Error("removed child should have no parent")
	}

	// SetChildren reorders plotting order.
	tr.SetChildren(nodes["root"], nodes["right"], nodes["left"])
	names, err := tr.TipNames()
	if err != nil {
		t.Fatalf("TipNames: %v", err)
	}
	want := []string{"C", "D", "A", "B"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("after reorder, tip %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestMalformedSharedNode(t *testing.T) {
	root := NewNode("")
	mid := NewNode("")
	shared := NewNode("X")
	tr := New(root)
	tr.AddChild(root, mid)
	tr.AddChild(mid, shared)
	// Attach the same node under a second parent by hand.
	root.children = append(root.children, shared)
	tr.Invalidate()

	_, err := tr.Index()
	if !errors.Is(err, errors.ErrCodeMalformedTree) {
		t.Fatalf("got %v, want MALFORMED_TREE", err)
	}
	if tr.NNodes() != 0 {
		t.Errorf("NNodes on malformed tree = %d, want 0", tr.NNodes())
	}
}

func TestMalformedNoRoot(t *testing.T) {
	tr := New(nil)
	if err := tr.Validate(); !errors.Is(err, errors.ErrCodeMalformedTree) {
		t.Fatalf("got %v, want MALFORMED_TREE", err)
	}
}

func TestNewForcesRootDistZero(t *testing.T) {
	root := NewNode("")
	root.Dist = 5
	tr := New(root)
	if tr.Root().Dist != 0 {
		t.Errorf("root dist = %g, want 0", tr.Root().Dist)
	}
}

func TestClone(t *testing.T) {
	tr, nodes := buildBalanced()
	nodes["A"].SetSupport(0.9)
	nodes["A"].SetFeature("color", Str("red"))

	cp := tr.Clone()
	if cp.NNodes() != tr.NNodes() {
		t.Fatalf("clone has %d nodes, want %d", cp.NNodes(), tr.NNodes())
	}

	tipA, err := cp.FindTip("A")
	if err != nil {
		t.Fatalf("FindTip on clone: %v", err)
	}
	if tipA == nodes["A"] {
		t.Fatal("clone aliases the original node")
	}
	if tipA.Support == nil || *tipA.Support != 0.9 {
		t.Error("clone lost the support value")
	}
	if v, ok := tipA.Feature("color"); !ok || v.String() != "red" {
		t.Error("clone lost the feature value")
	}

	// Mutating the clone leaves the original untouched.
	cp.AddChild(cp.Root(), NewNode("E"))
	if tr.NNodes() != 7 {
		t.Errorf("original changed after clone mutation: %d nodes", tr.NNodes())
	}
}

func TestQueries(t *testing.T) {
	tr, nodes := buildBalanced()

	names, err := tr.TipNames()
	if err != nil {
		t.Fatalf("TipNames: %v", err)
	}
	want := []string{"A", "B", "C", "D"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("tip %d = %q, want %q", i, names[i], want[i])
		}
	}

	if _, err := tr.FindTip("Z"); !errors.Is(err, errors.ErrCodeNameNotFound) {
		t.Errorf("FindTip(Z) = %v, want NAME_NOT_FOUND", err)
	}

	leaves := tr.Leaves(nodes["left"])
	if len(leaves) != 2 || leaves[0].Name != "A" || leaves[1].Name != "B" {
		t.Errorf("Leaves(left) = %v", leaves)
	}

	anc := tr.Ancestors(nodes["A"])
	if len(anc) != 2 || anc[0] != nodes["left"] || anc[1] != nodes["root"] {
		t.Errorf("Ancestors(A) wrong: %v", anc)
	}
	if len(tr.Ancestors(nodes["root"])) != 0 {
		t.Error("Ancestors(root) should be empty")
	}
}

func TestMRCA(t *testing.T) {
	tr, nodes := buildBalanced()
	tests := []struct {
		name  string
		names []string
		want  *Node
	}{
		{name: "siblings", names: []string{"A", "B"}, want: nodes["left"]},
		{name: "across root", names: []string{"A", "C"}, want: nodes["root"]},
		{name: "three tips", names: []string{"A", "B", "D"}, want: nodes["root"]},
		{name: "single tip", names: []string{"C"}, want: nodes["C"]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.MRCA(tt.names...)
			if err != nil {
				t.Fatalf("MRCA: %v", err)
			}
			if got != tt.want {
				t.Errorf("MRCA(%v) = %q, want %q", tt.names, got.Name, tt.want.Name)
			}
		})
	}

	if _, err := tr.MRCA(); !errors.Is(err, errors.ErrCodeEmptyInput) {
		t.Errorf("MRCA() = %v, want EMPTY_INPUT", err)
	}
	if _, err := tr.MRCA("A", "Z"); !errors.Is(err, errors.ErrCodeNameNotFound) {
		t.Errorf("MRCA(A,Z) = %v, want NAME_NOT_FOUND", err)
	}
}
