// Package pipeline provides the core compute pipeline for treekit.
//
// It implements the consensus → layout flow shared by the CLI and the HTTP
// API. Centralizing the flow here keeps caching, validation, and defaults
// consistent across entry points.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Consensus: Summarize a collection of trees into a single consensus
//     tree with clade support values. Skipped for single-tree inputs.
//  2. Layout: Compute node coordinates for drawing (linear or radial).
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Orientation: "radial",
//	    Cutoff:      0.5,
//	}
//	result, err := runner.Execute(ctx, trees, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	table := result.Table
//
// Run individual stages:
//
//	cons, err := runner.Consensus(ctx, trees, opts)
//	table, err := runner.Layout(ctx, cons, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/treekit/treekit/pkg/cache"
	"github.com/treekit/treekit/pkg/consensus"
	"github.com/treekit/treekit/pkg/errors"
	"github.com/treekit/treekit/pkg/layout"
	"github.com/treekit/treekit/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultCutoff is the majority-rule consensus threshold.
	DefaultCutoff = 0.5

	// DefaultOrientation is the layout orientation when none is given.
	DefaultOrientation = string(layout.Down)

	// DefaultDaylightIterations is the number of equal-daylight sweeps
	// applied to radial layouts when daylight adjustment is requested.
	DefaultDaylightIterations = 3
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the compute pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Orientation           string    `json:"orientation,omitempty"`
	UnitHeights           bool      `json:"unit_heights,omitempty"` // ignore edge lengths when true
	FixedOrder            []string  `json:"fixed_order,omitempty"`
	FixedPosition         []float64 `json:"fixed_position,omitempty"`
	XBaseline             float64   `json:"xbaseline,omitempty"`
	YBaseline             float64   `json:"ybaseline,omitempty"`
	MaxDaylightIterations int       `json:"max_daylight_iterations,omitempty"`

	// Consensus options
	Cutoff float64 `json:"cutoff,omitempty"`

	// Refresh bypasses cache reads (results are still written back).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger    *log.Logger `json:"-"`
	Reference *tree.Tree  `json:"-"` // map supports onto this topology instead of assembling one

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the tree that was laid out: the input tree for single-tree
	// runs, the consensus tree otherwise.
	Tree *tree.Tree

	// TreeHash is the content hash of that tree.
	TreeHash string

	// Table contains the computed node coordinates.
	Table layout.Table

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	InputTrees    int
	TipCount      int
	NodeCount     int
	ConsensusTime time.Duration
	LayoutTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ConsensusHit bool // Whether the consensus tree came from cache
	LayoutHit    bool // Whether the coordinate table came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForConsensus(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForConsensus checks consensus fields and applies defaults.
func (o *Options) ValidateForConsensus() error {
	if o.Cutoff == 0 {
		o.Cutoff = DefaultCutoff
	}
	if o.Cutoff < 0.5 || o.Cutoff > 1.0 {
		return errors.New(errors.ErrCodeInvalidArgument, "cutoff must be in [0.5, 1.0]")
	}
	o.setLogger()
	return nil
}

// ValidateForLayout checks layout fields and applies defaults.
func (o *Options) ValidateForLayout() error {
	if o.Orientation == "" {
		o.Orientation = DefaultOrientation
	}
	if _, err := layout.ParseOrientation(o.Orientation); err != nil {
		return err
	}
	if o.MaxDaylightIterations < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "max_daylight_iterations must be non-negative")
	}
	o.setLogger()
	return nil
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutOptions converts pipeline options into layout engine options.
func (o *Options) LayoutOptions() layout.Options {
	orient, _ := layout.ParseOrientation(o.Orientation)
	return layout.Options{
		Orientation:           orient,
		UseEdgeLengths:        !o.UnitHeights,
		FixedOrder:            o.FixedOrder,
		FixedPosition:         o.FixedPosition,
		XBaseline:             o.XBaseline,
		YBaseline:             o.YBaseline,
		MaxDaylightIterations: o.MaxDaylightIterations,
		Logger:                o.Logger,
	}
}

// ConsensusOptions converts pipeline options into consensus engine options.
func (o *Options) ConsensusOptions() consensus.Options {
	return consensus.Options{
		Cutoff:    o.Cutoff,
		Reference: o.Reference,
		Logger:    o.Logger,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Orientation:           o.Orientation,
		UseEdgeLengths:        !o.UnitHeights,
		FixedOrder:            o.FixedOrder,
		FixedPosition:         o.FixedPosition,
		XBaseline:             o.XBaseline,
		YBaseline:             o.YBaseline,
		MaxDaylightIterations: o.MaxDaylightIterations,
	}
}

// ConsensusKeyOpts returns cache key options for consensus computation.
// referenceHash is the content hash of the reference tree, or empty when
// assembling a topology from scratch.
func (o *Options) ConsensusKeyOpts(referenceHash string) cache.ConsensusKeyOpts {
	return cache.ConsensusKeyOpts{
		Cutoff:        o.Cutoff,
		ReferenceHash: referenceHash,
	}
}
