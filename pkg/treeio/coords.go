package treeio

import (
	"encoding/json"
	"io"
	"os"

	"github.com/treekit/treekit/pkg/errors"
	"github.com/treekit/treekit/pkg/layout"
	"github.com/treekit/treekit/pkg/tree"
)

// CoordTable is the serialized form of a layout result: one row per node,
// addressed by idxorder, for consumption by external renderers.
type CoordTable struct {
	Orientation string     `json:"orientation"`
	Rows        []CoordRow `json:"rows"`
}

// CoordRow is one node's coordinates. Radius is present for radial layouts
// only.
type CoordRow struct {
	ID     int      `json:"id"`
	Name   string   `json:"name,omitempty"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Radius *float64 `json:"radius,omitempty"`
}

// ToCoordTable pairs a layout table with the tree it was computed from.
// The tree supplies node names; rows stay in idxorder.
func ToCoordTable(t *tree.Tree, tab *layout.Table, orientation layout.Orientation) (CoordTable, error) {
	idx, err := t.Index()
	if err != nil {
		return CoordTable{}, err
	}
	if len(tab.Coords) != idx.NNodes {
		return CoordTable{}, errors.New(errors.ErrCodeDimensionMismatch,
			"coordinate table has %d rows, tree has %d nodes", len(tab.Coords), idx.NNodes)
	}
	out := CoordTable{
		Orientation: string(orientation),
		Rows:        make([]CoordRow, idx.NNodes),
	}
	for i, n := range idx.Idx {
		row := CoordRow{ID: i, Name: n.Name, X: tab.Coords[i][0], Y: tab.Coords[i][1]}
		if tab.Radius != nil {
			r := tab.Radius[i]
			row.Radius = &r
		}
		out.Rows[i] = row
	}
	return out, nil
}

// WriteCoords writes a coordinate table as JSON to w.
func WriteCoords(t *tree.Tree, tab *layout.Table, orientation layout.Orientation, w io.Writer) error {
	ct, err := ToCoordTable(t, tab, orientation)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ct); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode coordinates")
	}
	return nil
}

// WriteCoordsFile writes a coordinate table to a JSON file.
func WriteCoordsFile(t *tree.Tree, tab *layout.Table, orientation layout.Orientation, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return WriteCoords(t, tab, orientation, f)
}
