package cache

import "time"

// TTLs for pipeline results. Layouts and consensus trees are deterministic
// functions of their keyed inputs, so long TTLs are safe; the limits exist
// only to bound storage growth.
const (
	// TTLLayout is how long cached coordinate tables are kept.
	TTLLayout = 30 * 24 * time.Hour

	// TTLConsensus is how long cached consensus trees are kept.
	TTLConsensus = 30 * 24 * time.Hour
)
