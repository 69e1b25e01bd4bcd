package layout

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/treekit/treekit/pkg/errors"
	"github.com/treekit/treekit/pkg/tree"
)

// Orientation selects the direction a layout faces. The four linear
// orientations share one canonical coordinate computation; radial is a
// separate algorithm.
type Orientation string

// Supported orientations.
const (
	Down   Orientation = "down"
	Up     Orientation = "up"
	Left   Orientation = "left"
	Right  Orientation = "right"
	Radial Orientation = "radial"
)

// ParseOrientation converts a user-supplied string to an Orientation.
// Returns ErrCodeInvalidArgument for unrecognized values.
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(s) {
	case Down, Up, Left, Right, Radial:
		return Orientation(s), nil
	case "":
		return Down, nil
	}
	return "", errors.New(errors.ErrCodeInvalidArgument,
		"unknown orientation %q (must be one of: down, up, left, right, radial)", s)
}

// Options contains all style parameters affecting the coordinate projection.
type Options struct {
	// Orientation selects the layout direction. Empty means Down.
	Orientation Orientation

	// UseEdgeLengths controls whether stored branch lengths are honored.
	// When false every edge is treated as length 1 regardless of Dist.
	UseEdgeLengths bool

	// FixedOrder overrides the natural left-to-right tip order with an
	// explicit sequence of tip names. Must name every tip exactly once.
	FixedOrder []string

	// FixedPosition overrides the default 0..ntips-1 tip spacing. Must
	// have exactly ntips entries. Positions pair with display slots, so
	// FixedPosition[i] is where the i-th displayed tip sits.
	FixedPosition []float64

	// XBaseline and YBaseline are uniform offsets applied after layout.
	XBaseline float64
	YBaseline float64

	// MaxDaylightIterations bounds the equal-daylight refinement of the
	// radial layout. Zero disables the refinement (plain equal-angle).
	// The refinement has no convergence guarantee, so it is always
	// bounded by this cap rather than a convergence test.
	MaxDaylightIterations int

	// Logger receives per-iteration daylight statistics at debug level.
	// Defaults to a discarding logger.
	Logger *log.Logger
}

// DefaultOptions returns the baseline style: down-facing, honoring edge
// lengths, natural tip order, no refinement.
func DefaultOptions() Options {
	return Options{
		Orientation:    Down,
		UseEdgeLengths: true,
	}
}

// Table is the result of a layout: one coordinate row per node, addressed by
// idxorder, ready for an external rendering layer.
type Table struct {
	// Coords holds (x, y) for the node with idxorder index i.
	Coords [][2]float64

	// Radius holds, for radial layouts only, each node's path distance
	// from the root vertex. Nil for linear layouts.
	Radius []float64
}

// Compute lays out the tree and returns its coordinate table. The input tree
// is never mutated. Fails with ErrCodeMalformedTree on structurally invalid
// trees, ErrCodeUnknownTip / ErrCodeDimensionMismatch on bad fixed-order
// arguments, and ErrCodeDegenerateTree for radial layouts of trees with
// fewer than 3 tips.
func Compute(t *tree.Tree, opts Options) (*Table, error) {
	if opts.Orientation == "" {
		opts.Orientation = Down
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	idx, err := t.Index()
	if err != nil {
		return nil, err
	}

	var tab *Table
	if opts.Orientation == Radial {
		tab, err = radial(t, idx, opts)
	} else {
		tab, err = linear(idx, opts)
	}
	if err != nil {
		return nil, err
	}

	for i := range tab.Coords {
		tab.Coords[i][0] += opts.XBaseline
		tab.Coords[i][1] += opts.YBaseline
	}
	if opts.Orientation != Radial {
		orient(tab, opts.Orientation)
	}
	return tab, nil
}

// orient applies the pure coordinate permutation/negation that turns the
// canonical down-facing layout into the requested direction.
func orient(tab *Table, o Orientation) {
	switch o {
	case Up:
		for i := range tab.Coords {
			tab.Coords[i][1] = -tab.Coords[i][1]
		}
	case Left:
		for i := range tab.Coords {
			tab.Coords[i][0], tab.Coords[i][1] = tab.Coords[i][1], tab.Coords[i][0]
		}
	case Right:
		for i := range tab.Coords {
			tab.Coords[i][0], tab.Coords[i][1] = -tab.Coords[i][1], tab.Coords[i][0]
		}
	}
}
