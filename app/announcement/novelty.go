package announcement

import (
	"cmp"
	"slices"
	"strings"
)

const keySeparator = "|"

// MakeKey builds the cross-run novelty key of a fact.
func MakeKey(sourceID, pair, utc string) string {
	return sourceID + keySeparator + pair + keySeparator + utc
}

// ParseKey splits a novelty key. Separators are located from the right so that
// a source code containing "|" still round-trips.
func ParseKey(key string) (sourceID string, pair string, utc string, ok bool) {
	last := strings.LastIndex(key, keySeparator)
	if last < 0 {
		return "", "", "", false
	}
	mid := strings.LastIndex(key[:last], keySeparator)
	if mid < 0 {
		return "", "", "", false
	}
	sourceID, pair, utc = key[:mid], key[mid+1:last], key[last+1:]
	if pair == "" || utc == "" {
		return "", "", "", false
	}
	return sourceID, pair, utc, true
}

// FilterNew returns the facts whose keys are absent from seen, sorted by
// (utc, pair), together with their keys. seen is not modified.
func FilterNew(facts []Fact, sourceID string, seen SeenState) ([]Fact, []string) {
	var fresh []Fact
	batch := make(map[string]struct{})

	for _, f := range facts {
		key := MakeKey(sourceID, f.Pair, f.UTC)
		if seen.Has(key) {
			continue
		}
		if _, dup := batch[key]; dup {
			continue
		}
		batch[key] = struct{}{}
		fresh = append(fresh, f)
	}

	SortFacts(fresh)

	keys := make([]string, 0, len(fresh))
	for _, f := range fresh {
		keys = append(keys, MakeKey(sourceID, f.Pair, f.UTC))
	}
	return fresh, keys
}

// SortFacts orders facts by UTC time, then pair. The fixed-width UTC rendering
// sorts chronologically as a string.
func SortFacts(facts []Fact) {
	slices.SortFunc(facts, func(a, b Fact) int {
		return cmp.Or(cmp.Compare(a.UTC, b.UTC), cmp.Compare(a.Pair, b.Pair))
	})
}
