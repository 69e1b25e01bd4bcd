package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treekit/treekit/pkg/tree"
	"github.com/treekit/treekit/pkg/treeio"
)

// infoCommand creates the info command for inspecting tree files.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [trees.json]",
		Short: "Inspect a tree file",
		Long: `Inspect a tree file.

Prints the number of trees in the file and, per tree, its tip and node
counts, maximum root-to-tip distance, and a preview of tip names.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trees, err := treeio.ReadTreesFile(args[0])
			if err != nil {
				return fmt.Errorf("load trees %s: %w", args[0], err)
			}

			printKeyValue("file", args[0])
			printKeyValue("trees", fmt.Sprintf("%d", len(trees)))
			printNewline()

			for i, t := range trees {
				printInfo("tree %d", i)
				printDetail("tips: %d", t.NTips())
				printDetail("nodes: %d", t.NNodes())
				printDetail("depth: %g", maxTipDepth(t))
				if names, err := t.TipNames(); err == nil {
					preview := names
					if len(preview) > 8 {
						preview = preview[:8]
					}
					line := strings.Join(preview, ", ")
					if len(names) > 8 {
						line += ", …"
					}
					printDetail("names: %s", line)
				}
			}
			return nil
		},
	}
}

// maxTipDepth returns the largest root-to-tip path distance.
func maxTipDepth(t *tree.Tree) float64 {
	idx, err := t.Index()
	if err != nil {
		return 0
	}
	depth := make(map[*tree.Node]float64, len(idx.Pre))
	max := 0.0
	for _, n := range idx.Pre {
		if !n.IsRoot() {
			depth[n] = depth[n.Parent()] + n.Dist
		}
		if n.IsLeaf() && depth[n] > max {
			max = depth[n]
		}
	}
	return max
}
