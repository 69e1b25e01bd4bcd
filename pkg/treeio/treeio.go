package treeio

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/treekit/treekit/pkg/errors"
	"github.com/treekit/treekit/pkg/tree"
)

// =============================================================================
// Serialized Forms
// =============================================================================

// Document is the serialized form of a single tree.
type Document struct {
	Root  int        `json:"root"`
	Nodes []NodeData `json:"nodes"`
}

// Collection is the serialized form of a multi-tree file.
type Collection struct {
	Trees []Document `json:"trees"`
}

// NodeData is one row of a tree document. IDs are idxorder indices at write
// time; Children preserves sibling (plotting) order.
type NodeData struct {
	ID       int            `json:"id"`
	Name     string         `json:"name,omitempty"`
	Dist     float64        `json:"dist"`
	Support  *float64       `json:"support,omitempty"`
	Features map[string]any `json:"features,omitempty"`
	Children []int          `json:"children,omitempty"`
}

// =============================================================================
// Tree Serialization API
// =============================================================================

// MarshalTree converts a tree to JSON bytes.
// Nodes are emitted in idxorder for deterministic output.
func MarshalTree(t *tree.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTreeTo(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTree writes a tree as JSON to an io.Writer.
func WriteTree(t *tree.Tree, w io.Writer) error {
	return writeTreeTo(t, w)
}

// WriteTreeFile writes a tree to a JSON file.
// The file is created with 0644 permissions.
func WriteTreeFile(t *tree.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return writeTreeTo(t, f)
}

// ReadTree decodes a single-tree JSON document from r.
func ReadTree(r io.Reader) (*tree.Tree, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode tree document")
	}
	return FromDocument(doc)
}

// ReadTreeFile reads a JSON file holding a single tree.
func ReadTreeFile(path string) (*tree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return ReadTree(f)
}

// MarshalTrees converts a multi-tree collection to JSON bytes.
func MarshalTrees(trees []*tree.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTrees(trees, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTrees writes a multi-tree collection as JSON to w.
func WriteTrees(trees []*tree.Tree, w io.Writer) error {
	col := Collection{Trees: make([]Document, len(trees))}
	for i, t := range trees {
		doc, err := ToDocument(t)
		if err != nil {
			return err
		}
		col.Trees[i] = doc
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(col); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode collection")
	}
	return nil
}

// WriteTreesFile writes a multi-tree collection to a JSON file.
func WriteTreesFile(trees []*tree.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return WriteTrees(trees, f)
}

// ReadTrees decodes a multi-tree collection from r. A plain single-tree
// document is accepted and returned as a collection of one.
func ReadTrees(r io.Reader) ([]*tree.Tree, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read input")
	}
	var col Collection
	if err := json.Unmarshal(raw, &col); err == nil && len(col.Trees) > 0 {
		trees := make([]*tree.Tree, len(col.Trees))
		for i, doc := range col.Trees {
			t, err := FromDocument(doc)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "tree %d", i)
			}
			trees[i] = t
		}
		return trees, nil
	}
	t, err := ReadTree(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return []*tree.Tree{t}, nil
}

// ReadTreesFile reads a JSON file holding either a multi-tree collection or
// a single tree.
func ReadTreesFile(path string) ([]*tree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return ReadTrees(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTreeTo(t *tree.Tree, w io.Writer) error {
	doc, err := ToDocument(t)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode tree")
	}
	return nil
}
