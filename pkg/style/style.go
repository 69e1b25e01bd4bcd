// Package style loads drawing/consensus parameters from TOML style files.
//
// Style files feed the same options accepted as CLI flags. The policy for
// unrecognized keys is permissive: they are logged as warnings and skipped,
// never a hard failure, so style files can be shared between tool versions
// with different option surfaces.
//
// Example:
//
//	orientation = "radial"
//	use_edge_lengths = false
//	max_daylight_iterations = 2
//	cutoff = 0.5
package style

import (
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/treekit/treekit/pkg/errors"
	"github.com/treekit/treekit/pkg/layout"
)

// Style mirrors the recognized option surface of the layout and consensus
// engines. Pointer fields distinguish "absent" from zero values so a style
// file only overrides what it mentions.
type Style struct {
	Orientation           string    `toml:"orientation"`
	UseEdgeLengths        *bool     `toml:"use_edge_lengths"`
	FixedOrder            []string  `toml:"fixed_order"`
	FixedPosition         []float64 `toml:"fixed_position"`
	XBaseline             *float64  `toml:"xbaseline"`
	YBaseline             *float64  `toml:"ybaseline"`
	MaxDaylightIterations *int      `toml:"max_daylight_iterations"`

	Cutoff        *float64 `toml:"cutoff"`
	ReferenceTree string   `toml:"reference_tree"`
}

// Load reads a TOML style file. Unrecognized keys are logged through logger
// as warnings and otherwise ignored.
func Load(path string, logger *log.Logger) (*Style, error) {
	var s Style
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "style file %s", path)
	}
	warnUndecoded(md, logger)
	return &s, nil
}

// Parse reads a TOML style document from r with the same unknown-key policy
// as Load.
func Parse(r io.Reader, logger *log.Logger) (*Style, error) {
	var s Style
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "style document")
	}
	warnUndecoded(md, logger)
	return &s, nil
}

func warnUndecoded(md toml.MetaData, logger *log.Logger) {
	if logger == nil {
		return
	}
	for _, key := range md.Undecoded() {
		logger.Warn("unrecognized style option skipped", "key", strings.Join(key, "."))
	}
}

// Apply overlays the style onto a set of layout options, leaving fields the
// style does not mention untouched.
func (s *Style) Apply(opts *layout.Options) error {
	if s.Orientation != "" {
		o, err := layout.ParseOrientation(s.Orientation)
		if err != nil {
			return err
		}
		opts.Orientation = o
	}
	if s.UseEdgeLengths != nil {
		opts.UseEdgeLengths = *s.UseEdgeLengths
	}
	if s.FixedOrder != nil {
		opts.FixedOrder = s.FixedOrder
	}
	if s.FixedPosition != nil {
		opts.FixedPosition = s.FixedPosition
	}
	if s.XBaseline != nil {
		opts.XBaseline = *s.XBaseline
	}
	if s.YBaseline != nil {
		opts.YBaseline = *s.YBaseline
	}
	if s.MaxDaylightIterations != nil {
		opts.MaxDaylightIterations = *s.MaxDaylightIterations
	}
	return nil
}
