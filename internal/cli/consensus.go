package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treekit/treekit/pkg/pipeline"
	"github.com/treekit/treekit/pkg/style"
	"github.com/treekit/treekit/pkg/treeio"
)

// consensusCommand creates the consensus command for summarizing tree
// collections.
func (c *CLI) consensusCommand() *cobra.Command {
	var (
		output    string
		noCache   bool
		styleFile string
		refFile   string
		showOrder bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "consensus [trees.json]",
		Short: "Build a majority-rule consensus tree from a collection",
		Long: `Build a majority-rule consensus tree from a collection.

The consensus command reads a multi-tree collection (all trees must share the
same tip set) and produces a single tree whose internal nodes carry support
values: the fraction of input trees containing each clade. Clades below the
cutoff collapse into polytomies.

With --reference, no topology is assembled; instead the measured support
values are attached to the internal nodes of the given reference tree.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConsensus(cmd.Context(), args[0], opts, output, noCache, styleFile, refFile, showOrder)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.consensus.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().StringVar(&styleFile, "style", "", "TOML style file with consensus options")
	cmd.Flags().Float64Var(&opts.Cutoff, "cutoff", 0, "clade frequency cutoff in [0.5, 1.0] (default 0.5)")
	cmd.Flags().StringVar(&refFile, "reference", "", "map supports onto this reference tree instead of assembling")
	cmd.Flags().BoolVar(&showOrder, "order", false, "print the consensus tip order for use with layout --fixed-order")

	return cmd
}

// runConsensus loads the collection, builds the consensus, and writes output.
func (c *CLI) runConsensus(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool, styleFile, refFile string, showOrder bool) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	if styleFile != "" {
		st, err := style.Load(styleFile, logger)
		if err != nil {
			return err
		}
		if err := applyStyle(st, &opts); err != nil {
			return err
		}
		if refFile == "" && st.ReferenceTree != "" {
			refFile = st.ReferenceTree
		}
	}
	if refFile != "" {
		ref, err := treeio.ReadTreeFile(refFile)
		if err != nil {
			return fmt.Errorf("load reference %s: %w", refFile, err)
		}
		opts.Reference = ref
	}

	trees, err := treeio.ReadTreesFile(input)
	if err != nil {
		return fmt.Errorf("load trees %s: %w", input, err)
	}
	if len(trees) < 2 {
		return fmt.Errorf("consensus needs at least 2 trees, got %d", len(trees))
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Building consensus of %d trees...", len(trees)))
	spinner.Start()

	cons, cacheHit, err := runner.ConsensusWithCacheInfo(ctx, trees, opts)
	if err != nil {
		spinner.StopWithError("Consensus failed")
		return fmt.Errorf("build consensus: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".consensus.json"
	}

	if err := treeio.WriteTreeFile(cons, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Consensus complete")
	printFile(outputPath)
	printStats(cons.NTips(), cons.NNodes(), cacheHit)
	printNewline()

	layoutCmd := "treekit layout " + outputPath
	if showOrder {
		names, err := cons.TipNames()
		if err != nil {
			return fmt.Errorf("read tip order: %w", err)
		}
		order := strings.Join(names, ",")
		printKeyValue("Tip order", order)
		layoutCmd += " --fixed-order " + order
	}
	printNextStep("Layout", layoutCmd)

	return nil
}
