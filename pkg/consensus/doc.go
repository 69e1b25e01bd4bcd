// Package consensus aggregates a collection of trees sharing a tip set into
// a single majority-rule consensus topology with per-clade support values.
//
// # Overview
//
// Every internal node of an input tree defines a clade: the set of tip names
// descended from it. The engine counts how often each distinct clade occurs
// across the collection and greedily assembles a result topology from clades
// in decreasing frequency order, keeping a candidate only when it is
// compatible (nested or disjoint) with everything already accepted and its
// frequency meets the cutoff. Tips whose enclosing clades fall below the
// cutoff attach directly to the nearest accepted ancestor, producing
// polytomies - the "collapse low-support clades" behavior.
//
// Each internal node of the result carries a support value equal to the
// fraction of input trees containing that exact clade.
//
// # Reference Mode
//
// When a reference tree is supplied no topology is built. Instead the
// reference's own clades are scored against the collection and a copy of the
// reference is returned with supports attached (0 for clades that never
// occur). This answers "how often are the clades of my best tree supported
// by these bootstrap trees".
//
// # Determinism
//
// Candidate clades are ordered by frequency, then by size (largest first),
// then by the lexicographic order of their member names, so results are
// deterministic for a fixed input collection.
package consensus
