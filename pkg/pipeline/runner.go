package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/treekit/treekit/pkg/cache"
	"github.com/treekit/treekit/pkg/consensus"
	"github.com/treekit/treekit/pkg/errors"
	"github.com/treekit/treekit/pkg/layout"
	"github.com/treekit/treekit/pkg/observability"
	"github.com/treekit/treekit/pkg/tree"
	"github.com/treekit/treekit/pkg/treeio"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete consensus → layout pipeline with caching. A
// single input tree skips the consensus stage and is laid out directly.
func (r *Runner) Execute(ctx context.Context, trees []*tree.Tree, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	if len(trees) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no input trees")
	}

	result := &Result{
		Stats: Stats{InputTrees: len(trees)},
	}

	// Stage 1: Consensus (skipped for a single tree)
	target := trees[0]
	if len(trees) > 1 {
		consStart := time.Now()
		cons, consHit, err := r.ConsensusWithCacheInfo(ctx, trees, opts)
		if err != nil {
			return nil, err
		}
		target = cons
		result.Stats.ConsensusTime = time.Since(consStart)
		result.CacheInfo.ConsensusHit = consHit

		r.Logger.Info("computed consensus",
			"trees", len(trees),
			"cutoff", opts.Cutoff,
			"duration", result.Stats.ConsensusTime)
	}
	result.Tree = target
	result.Stats.TipCount = target.NTips()
	result.Stats.NodeCount = target.NNodes()

	if data, err := treeio.MarshalTree(target); err == nil {
		result.TreeHash = cache.Hash(data)
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	table, layoutHit, err := r.LayoutWithCacheInfo(ctx, target, opts)
	if err != nil {
		return nil, err
	}
	result.Table = table
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"orientation", opts.Orientation,
		"nodes", len(table.Coords),
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// ConsensusWithCacheInfo computes a consensus tree with caching and reports
// whether the result came from cache.
func (r *Runner) ConsensusWithCacheInfo(ctx context.Context, trees []*tree.Tree, opts Options) (*tree.Tree, bool, error) {
	if err := opts.ValidateForConsensus(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	collectionData, err := treeio.MarshalTrees(trees)
	if err != nil {
		return nil, false, err
	}
	referenceHash := ""
	if opts.Reference != nil {
		if refData, err := treeio.MarshalTree(opts.Reference); err == nil {
			referenceHash = cache.Hash(refData)
		}
	}
	cacheKey := r.Keyer.ConsensusKey(cache.Hash(collectionData), opts.ConsensusKeyOpts(referenceHash))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := treeio.ReadTree(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "consensus")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "consensus")
	}

	start := time.Now()
	observability.Pipeline().OnStageStart(ctx, "consensus", len(trees))
	cons, err := consensus.Build(trees, opts.ConsensusOptions())
	observability.Pipeline().OnStageComplete(ctx, "consensus", time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := treeio.MarshalTree(cons); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLConsensus) == nil {
			observability.Cache().OnCacheSet(ctx, "consensus", len(data))
		}
	}

	return cons, false, nil
}

// Consensus is a convenience wrapper that discards the cache hit info.
func (r *Runner) Consensus(ctx context.Context, trees []*tree.Tree, opts Options) (*tree.Tree, error) {
	cons, _, err := r.ConsensusWithCacheInfo(ctx, trees, opts)
	return cons, err
}

// LayoutWithCacheInfo computes a coordinate table with caching and reports
// whether the result came from cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, t *tree.Tree, opts Options) (layout.Table, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Table{}, false, err
	}
	r.applyLogger(&opts)

	treeData, err := treeio.MarshalTree(t)
	if err != nil {
		return layout.Table{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(treeData), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Table
			if json.Unmarshal(data, &cached) == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	start := time.Now()
	observability.Pipeline().OnStageStart(ctx, "layout", t.NNodes())
	table, err := layout.Compute(t, opts.LayoutOptions())
	observability.Pipeline().OnStageComplete(ctx, "layout", time.Since(start), err)
	if err != nil {
		return layout.Table{}, false, err
	}

	if data, err := json.Marshal(table); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout) == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return *table, false, nil
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, t *tree.Tree, opts Options) (layout.Table, error) {
	table, _, err := r.LayoutWithCacheInfo(ctx, t, opts)
	return table, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
