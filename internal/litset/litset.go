// Package litset canonicalizes clauses of signed integer literals: sorted,
// duplicate-free, and keyed for use in maps and sets. It is shared by the
// cnf, proof, and interpolate packages so that a clause built by one is
// recognized by the others without re-deriving the canonical form.
package litset

import (
	"sort"
	"strconv"
	"strings"
)

// Canon returns a sorted, duplicate-free copy of lits.
func Canon(lits []int64) []int64 {
	seen := make(map[int64]struct{}, len(lits))
	out := make([]int64, 0, len(lits))
	for _, l := range lits {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Key returns a string uniquely identifying the canonical form of lits,
// suitable for use as a map key. Two clauses with the same literals
// (regardless of input order or duplicates) produce the same key.
func Key(lits []int64) string {
	canon := Canon(lits)
	var b strings.Builder
	for _, l := range canon {
		b.WriteString(strconv.FormatInt(l, 10))
		b.WriteByte(',')
	}
	return b.String()
}
