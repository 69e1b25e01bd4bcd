package consensus

import (
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/treekit/treekit/pkg/errors"
	"github.com/treekit/treekit/pkg/tree"
)

// Options configures a consensus computation.
type Options struct {
	// Cutoff is the minimum clade frequency, in [0, 1], for a clade to be
	// resolved in the result. Clades below the cutoff collapse into
	// polytomies. Zero gives the fully extended majority-rule consensus.
	Cutoff float64

	// Reference, when set, switches to reference mode: the reference
	// topology is returned (as a copy) with measured supports attached
	// instead of building a new topology.
	Reference *tree.Tree

	// Logger receives progress at debug level. Defaults to discard.
	Logger *log.Logger
}

// clade is one distinct tip set observed across the collection.
type clade struct {
	bits  bitset
	count int
}

// Build computes the extended majority-rule consensus of a non-empty
// collection of trees sharing an identical tip-name set. Input trees are
// never mutated; the result is a wholly new tree whose internal nodes carry
// support values equal to the fraction of input trees containing that exact
// clade.
//
// Fails with ErrCodeEmptyInput for an empty collection,
// ErrCodeInvalidArgument for a cutoff outside [0, 1], and
// ErrCodeTipSetMismatch when input trees (or the reference) disagree on tip
// names.
func Build(trees []*tree.Tree, opts Options) (*tree.Tree, error) {
	if len(trees) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "consensus requires at least one tree")
	}
	if opts.Cutoff < 0 || opts.Cutoff > 1 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "cutoff %g outside [0, 1]", opts.Cutoff)
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	universe, pos, err := tipUniverse(trees)
	if err != nil {
		return nil, err
	}

	counts, err := countClades(trees, universe, pos)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("counted clades", "distinct", len(counts), "trees", len(trees), "tips", len(universe))

	if opts.Reference != nil {
		return scoreReference(opts.Reference, universe, pos, counts, len(trees))
	}
	return assemble(universe, counts, len(trees), opts.Cutoff)
}

// tipUniverse validates that all trees share one tip-name set and returns
// the canonical (sorted) name list plus the name → bit position map.
func tipUniverse(trees []*tree.Tree) ([]string, map[string]int, error) {
	first, err := trees[0].TipNames()
	if err != nil {
		return nil, nil, err
	}
	universe := append([]string(nil), first...)
	sort.Strings(universe)
	pos := make(map[string]int, len(universe))
	for i, name := range universe {
		if _, dup := pos[name]; dup {
			return nil, nil, errors.New(errors.ErrCodeInvalidArgument, "duplicate tip name %q", name)
		}
		pos[name] = i
	}

	for ti, t := range trees[1:] {
		names, err := t.TipNames()
		if err != nil {
			return nil, nil, err
		}
		if err := sameTipSet(pos, names, len(universe)); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeTipSetMismatch, err, "tree %d", ti+1)
		}
	}
	return universe, pos, nil
}

func sameTipSet(pos map[string]int, names []string, want int) error {
	if len(names) != want {
		return errors.New(errors.ErrCodeTipSetMismatch, "has %d tips, expected %d", len(names), want)
	}
	for _, name := range names {
		if _, ok := pos[name]; !ok {
			return errors.New(errors.ErrCodeTipSetMismatch, "tip %q not shared by the collection", name)
		}
	}
	return nil
}

// countClades enumerates every internal node's tip set in every tree and
// tallies occurrences per distinct clade. The full tip set (each tree's
// root) is counted too; singleton tip clades are not.
func countClades(trees []*tree.Tree, universe []string, pos map[string]int) (map[string]*clade, error) {
	counts := make(map[string]*clade)
	for _, t := range trees {
		idx, err := t.Index()
		if err != nil {
			return nil, err
		}
		sets := make([]bitset, idx.NNodes)
		for _, n := range idx.Post {
			b := newBitset(len(universe))
			if n.IsLeaf() {
				b.set(pos[n.Name])
			} else {
				for _, c := range n.Children() {
					b.or(sets[c.Idx()])
				}
				k := b.key()
				if cl, ok := counts[k]; ok {
					cl.count++
				} else {
					counts[k] = &clade{bits: b.clone(), count: 1}
				}
			}
			sets[n.Idx()] = b
		}
	}
	return counts, nil
}

// assemble greedily builds the consensus topology: candidate clades in
// decreasing frequency order (ties by size, then canonical member order) are
// accepted when compatible with everything accepted so far and at or above
// the cutoff.
func assemble(universe []string, counts map[string]*clade, ntrees int, cutoff float64) (*tree.Tree, error) {
	full := newBitset(len(universe))
	for i := range universe {
		full.set(i)
	}

	candidates := make([]*clade, 0, len(counts))
	for _, cl := range counts {
		if n := cl.bits.count(); n >= 2 && n < len(universe) {
			candidates = append(candidates, cl)
		}
	}
	sort.Slice(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.count != cb.count {
			return ca.count > cb.count
		}
		sa, sb := ca.bits.count(), cb.bits.count()
		if sa != sb {
			return sa > sb
		}
		return memberKey(ca.bits, universe) < memberKey(cb.bits, universe)
	})

	var accepted []*clade
	for _, cand := range candidates {
		if float64(cand.count)/float64(ntrees) < cutoff {
			continue
		}
		ok := true
		for _, acc := range accepted {
			if !cand.bits.compatibleWith(acc.bits) {
				ok = false
				break
			}
		}
		if ok {
			accepted = append(accepted, cand)
		}
	}

	return buildTree(universe, full, accepted, ntrees), nil
}

// memberKey renders a clade's members in canonical order for deterministic
// tie breaking.
func memberKey(b bitset, universe []string) string {
	var sb strings.Builder
	for i, name := range universe {
		if b[i/64]&(1<<(uint(i)%64)) != 0 {
			sb.WriteString(name)
			sb.WriteByte('|')
		}
	}
	return sb.String()
}
