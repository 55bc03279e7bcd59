// Package catalog supplies read-only SKU alias snapshots to the matching
// layer. A snapshot is loaded by the caller before each pipeline invocation;
// nothing here caches.
package catalog

import (
	"sort"
	"strings"
)

// Entry maps one SKU code to its known lower-cased aliases, in snapshot
// order.
type Entry struct {
	Code    string
	Aliases []string
}

// AliasIndex is an ordered alias snapshot. Order matters: the fuzzy matcher
// breaks score ties in favor of the first-encountered SKU, so the index is a
// slice rather than a map.
type AliasIndex []Entry

// Empty reports whether the index holds no aliases at all.
func (idx AliasIndex) Empty() bool {
	for _, e := range idx {
		if len(e.Aliases) > 0 {
			return false
		}
	}
	return true
}

// FromMap builds an index from a plain mapping, ordered by SKU code so that
// tie-breaking stays deterministic across runs. Aliases are lower-cased.
func FromMap(m map[string][]string) AliasIndex {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	idx := make(AliasIndex, 0, len(codes))
	for _, code := range codes {
		aliases := make([]string, 0, len(m[code]))
		for _, a := range m[code] {
			if a == "" {
				continue
			}
			aliases = append(aliases, strings.ToLower(a))
		}
		idx = append(idx, Entry{Code: code, Aliases: aliases})
	}
	return idx
}
