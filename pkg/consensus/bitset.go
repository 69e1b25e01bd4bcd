package consensus

import "math/bits"

// bitset is a fixed-width bit vector keyed by canonical tip position.
// Clades are represented as bitsets over the sorted tip-name universe, which
// makes compatibility tests (nested or disjoint) cheap word operations.
type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (b bitset) set(i int) {
	b[i/64] |= 1 << (uint(i) % 64)
}

func (b bitset) or(other bitset) {
	for i := range b {
		b[i] |= other[i]
	}
}

func (b bitset) count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

func (b bitset) clone() bitset {
	out := make(bitset, len(b))
	copy(out, b)
	return out
}

// key returns a map key uniquely identifying the set.
func (b bitset) key() string {
	buf := make([]byte, 0, len(b)*8)
	for _, w := range b {
		for s := 0; s < 64; s += 8 {
			buf = append(buf, byte(w>>uint(s)))
		}
	}
	return string(buf)
}

// subsetOf reports whether every member of b is also in other.
func (b bitset) subsetOf(other bitset) bool {
	for i := range b {
		if b[i]&^other[i] != 0 {
			return false
		}
	}
	return true
}

// disjointWith reports whether b and other share no members.
func (b bitset) disjointWith(other bitset) bool {
	for i := range b {
		if b[i]&other[i] != 0 {
			return false
		}
	}
	return true
}

// compatibleWith reports whether two clades can coexist in one topology:
// they are nested (one contains the other) or disjoint, never partially
// overlapping.
func (b bitset) compatibleWith(other bitset) bool {
	return b.disjointWith(other) || b.subsetOf(other) || other.subsetOf(b)
}
