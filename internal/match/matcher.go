// Package match resolves source item names against a target catalog.
package match

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Method records how a name was resolved.
type Method int

const (
	MethodNone Method = iota
	MethodExact
	MethodFuzzy
)

func (m Method) String() string {
	switch m {
	case MethodExact:
		return "exact"
	case MethodFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// Entry is a target catalog item as supplied by the record-store reader.
type Entry[R any] struct {
	Name      string
	Reference R
}

// Result is the outcome of resolving one source name.
type Result[R any] struct {
	Reference R
	Name      string  // target display name
	Method    Method  // MethodNone when nothing matched
	Score     float64 // 1 for exact matches
}

// Matched reports whether the name resolved to a target entry.
func (r Result[R]) Matched() bool {
	return r.Method != MethodNone
}

// Candidate is the nearest target entry to a name that did not match.
type Candidate[R any] struct {
	Name      string
	Reference R
	Distance  int     // Levenshtein distance between normalized names
	Score     float64 // similarity ratio between normalized names
}

type record[R any] struct {
	name       string
	ref        R
	normalized string
}

// Index is a read-only lookup over a target catalog. It keeps entries in
// insertion order, which decides ties between equally similar names.
// An Index is safe for concurrent use once built.
type Index[R any] struct {
	records []record[R]
	byName  map[string]int // original name -> position in records
}

// BuildIndex indexes entries by original and normalized name. A repeated
// name replaces the earlier reference but keeps its position.
func BuildIndex[R any](entries []Entry[R]) *Index[R] {
	idx := &Index[R]{
		records: make([]record[R], 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}

	for _, e := range entries {
		rec := record[R]{
			name:       e.Name,
			ref:        e.Reference,
			normalized: Normalize(e.Name),
		}
		if pos, ok := idx.byName[e.Name]; ok {
			idx.records[pos] = rec
			continue
		}
		idx.byName[e.Name] = len(idx.records)
		idx.records = append(idx.records, rec)
	}

	return idx
}

// Len returns the number of distinct names in the index.
func (idx *Index[R]) Len() int {
	return len(idx.records)
}

// Entries returns the indexed entries in insertion order.
func (idx *Index[R]) Entries() []Entry[R] {
	out := make([]Entry[R], len(idx.records))
	for i, rec := range idx.records {
		out[i] = Entry[R]{Name: rec.name, Reference: rec.ref}
	}
	return out
}

// Resolve finds the target entry for a source name. Stages run in order and
// the first hit wins: exact name, exact trimmed name, then the most similar
// normalized name scoring at least FuzzyThreshold.
func (idx *Index[R]) Resolve(name string) Result[R] {
	if res, ok := idx.exact(name); ok {
		return res
	}
	if res, ok := idx.exact(strings.TrimSpace(name)); ok {
		return res
	}
	return idx.fuzzy(Normalize(name))
}

func (idx *Index[R]) exact(name string) (Result[R], bool) {
	pos, ok := idx.byName[name]
	if !ok {
		return Result[R]{}, false
	}
	rec := idx.records[pos]
	return Result[R]{
		Reference: rec.ref,
		Name:      rec.name,
		Method:    MethodExact,
		Score:     1,
	}, true
}

func (idx *Index[R]) fuzzy(normalized string) Result[R] {
	if normalized == "" {
		return Result[R]{}
	}

	best := -1
	bestScore := 0.0
	for i, rec := range idx.records {
		score := Ratio(normalized, rec.normalized)
		// strict > keeps the earliest entry on ties
		if score > bestScore && score >= FuzzyThreshold {
			best = i
			bestScore = score
		}
	}

	if best < 0 {
		return Result[R]{}
	}
	rec := idx.records[best]
	return Result[R]{
		Reference: rec.ref,
		Name:      rec.name,
		Method:    MethodFuzzy,
		Score:     bestScore,
	}
}

// Closest returns the entry whose normalized name is nearest to name by edit
// distance. It is a diagnostic for unmatched names and never changes what
// Resolve returns. ok is false for an empty index.
func (idx *Index[R]) Closest(name string) (c Candidate[R], ok bool) {
	n := Normalize(name)
	best := -1
	bestDist := 0
	for i, rec := range idx.records {
		d := fuzzy.LevenshteinDistance(n, rec.normalized)
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}

	if best < 0 {
		return Candidate[R]{}, false
	}
	rec := idx.records[best]
	return Candidate[R]{
		Name:      rec.name,
		Reference: rec.ref,
		Distance:  bestDist,
		Score:     Ratio(n, rec.normalized),
	}, true
}
