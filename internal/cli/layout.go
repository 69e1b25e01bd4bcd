package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treekit/treekit/pkg/layout"
	"github.com/treekit/treekit/pkg/pipeline"
	"github.com/treekit/treekit/pkg/style"
	"github.com/treekit/treekit/pkg/tree"
	"github.com/treekit/treekit/pkg/treeio"
)

// layoutCommand creates the layout command for computing drawing coordinates.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output    string
		noCache   bool
		styleFile string
		treeIndex int
		unitHts   bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [trees.json]",
		Short: "Compute drawing coordinates for a tree",
		Long: `Compute drawing coordinates for a tree.

The layout command takes a tree file (single tree or collection) and computes
node coordinates for drawing. The output is a coordinate table in JSON that
downstream renderers consume.

Linear orientations (down, up, left, right) place tips on a baseline and
internal nodes at the mean of their children. The radial orientation uses the
unrooted equal-angle algorithm, optionally refined with equal-daylight sweeps
(--daylight).

For collection files with more than one tree, pick a tree with --index or
interactively.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, layoutRunConfig{
				output:    output,
				noCache:   noCache,
				styleFile: styleFile,
				treeIndex: treeIndex,
				unitHts:   unitHts,
			})
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.coords.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().StringVar(&styleFile, "style", "", "TOML style file with layout options")
	cmd.Flags().IntVar(&treeIndex, "index", -1, "tree index in a collection file")

	// Layout flags
	cmd.Flags().StringVar(&opts.Orientation, "orientation", "down", "orientation: down, up, left, right, radial")
	cmd.Flags().BoolVar(&unitHts, "unit-heights", false, "ignore edge lengths (one unit per level)")
	cmd.Flags().StringSliceVar(&opts.FixedOrder, "fixed-order", nil, "tip names left to right")
	cmd.Flags().Float64SliceVar(&opts.FixedPosition, "fixed-position", nil, "tip baseline positions (requires --fixed-order)")
	cmd.Flags().Float64Var(&opts.XBaseline, "xbaseline", 0, "x offset added to all coordinates")
	cmd.Flags().Float64Var(&opts.YBaseline, "ybaseline", 0, "y offset added to all coordinates")
	cmd.Flags().IntVar(&opts.MaxDaylightIterations, "daylight", 0, "equal-daylight sweeps for radial layouts")

	return cmd
}

// layoutRunConfig collects the non-pipeline knobs of the layout command.
type layoutRunConfig struct {
	output    string
	noCache   bool
	styleFile string
	treeIndex int
	unitHts   bool
}

// runLayout loads the tree, computes coordinates, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, cfg layoutRunConfig) error {
	logger := loggerFromContext(ctx)
	opts.UnitHeights = cfg.unitHts
	opts.Logger = logger

	if cfg.styleFile != "" {
		st, err := style.Load(cfg.styleFile, logger)
		if err != nil {
			return err
		}
		if err := applyStyle(st, &opts); err != nil {
			return err
		}
	}

	trees, err := treeio.ReadTreesFile(input)
	if err != nil {
		return fmt.Errorf("load trees %s: %w", input, err)
	}
	t, err := c.selectTree(trees, cfg.treeIndex)
	if err != nil {
		return err
	}
	if t == nil {
		printInfo("No tree selected")
		return nil
	}

	runner, err := c.newRunner(cfg.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Orientation))
	spinner.Start()

	table, cacheHit, err := runner.LayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := cfg.output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".coords.json"
	}

	orient, _ := layout.ParseOrientation(opts.Orientation)
	if err := treeio.WriteCoordsFile(t, &table, orient, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(t.NTips(), t.NNodes(), cacheHit)

	return nil
}

// selectTree picks one tree out of a collection: the only tree, the indexed
// tree, or an interactive choice for multi-tree files.
func (c *CLI) selectTree(trees []*tree.Tree, index int) (*tree.Tree, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("input holds no trees")
	}
	if index >= 0 {
		if index >= len(trees) {
			return nil, fmt.Errorf("tree index %d out of range (collection has %d trees)", index, len(trees))
		}
		return trees[index], nil
	}
	if len(trees) == 1 {
		return trees[0], nil
	}
	return pickTree(trees)
}

// applyStyle overlays a style file onto pipeline options, leaving fields the
// style does not mention untouched.
func applyStyle(st *style.Style, opts *pipeline.Options) error {
	if st.Orientation != "" {
		if _, err := layout.ParseOrientation(st.Orientation); err != nil {
			return err
		}
		opts.Orientation = st.Orientation
	}
	if st.UseEdgeLengths != nil {
		opts.UnitHeights = !*st.UseEdgeLengths
	}
	if st.FixedOrder != nil {
		opts.FixedOrder = st.FixedOrder
	}
	if st.FixedPosition != nil {
		opts.FixedPosition = st.FixedPosition
	}
	if st.XBaseline != nil {
		opts.XBaseline = *st.XBaseline
	}
	if st.YBaseline != nil {
		opts.YBaseline = *st.YBaseline
	}
	if st.MaxDaylightIterations != nil {
		opts.MaxDaylightIterations = *st.MaxDaylightIterations
	}
	if st.Cutoff != nil {
		opts.Cutoff = *st.Cutoff
	}
	return nil
}
