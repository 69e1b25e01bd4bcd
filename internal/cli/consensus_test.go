package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/treekit/treekit/pkg/pipeline"
	"github.com/treekit/treekit/pkg/tree"
	"github.com/treekit/treekit/pkg/treeio"
)

// writeTestCollection writes a three-copy collection of ((A,B),C).
func writeTestCollection(t *testing.T, dir string) string {
	t.Helper()
	build := func() *tree.Tree {
		root := tree.NewNode("")
		inner := tree.NewNode("")
		a := tree.NewNode("A")
		b := tree.NewNode("B")
		c := tree.NewNode("C")
		tr := tree.New(root)
		tr.AddChild(root, inner)
		tr.AddChild(inner, a)
		tr.AddChild(inner, b)
		tr.AddChild(root, c)
		return tr
	}
	trees := []*tree.Tree{build(), build(), build()}
	path := filepath.Join(dir, "trees.json")
	if err := treeio.WriteTreesFile(trees, path); err != nil {
		t.Fatalf("WriteTreesFile: %v", err)
	}
	return path
}

func TestRunConsensusWritesTree(t *testing.T) {
	dir := t.TempDir()
	input := writeTestCollection(t, dir)
	output := filepath.Join(dir, "cons.json")

	c := New(io.Discard, LogInfo)
	err := c.runConsensus(context.Background(), input, pipeline.Options{}, output, true, "", "", false)
	if err != nil {
		t.Fatalf("runConsensus: %v", err)
	}

	cons, err := treeio.ReadTreeFile(output)
	if err != nil {
		t.Fatalf("ReadTreeFile: %v", err)
	}
	if cons.NTips() != 3 {
		t.Errorf("consensus has %d tips, want 3", cons.NTips())
	}
	idx, err := cons.Index()
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	for _, n := range idx.Idx {
		if n.IsLeaf() {
			continue
		}
		if n.Support == nil || *n.Support != 1.0 {
			t.Errorf("internal support = %v, want 1.0 for identical inputs", n.Support)
		}
	}
}

func TestRunConsensusRejectsSingleTree(t *testing.T) {
	dir := t.TempDir()
	input := writeTestTree(t, dir)

	c := New(io.Discard, LogInfo)
	err := c.runConsensus(context.Background(), input, pipeline.Options{}, "", true, "", "", false)
	if err == nil {
		t.Fatal("expected error for a single-tree input")
	}
}
