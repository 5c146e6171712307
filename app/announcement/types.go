package announcement

import "slices"

// Article is one entry of the announcement catalog.
type Article struct {
	Code  string
	Title string
}

// Fact binds a trading pair to its launch time.
type Fact struct {
	Pair  string
	UTC   string // "2006-01-02 15:04 UTC"
	Local string // "2006-01-02 15:04 (Asia/Taipei)"
}

// NotifiedFact is a fact recovered from a persisted novelty key.
type NotifiedFact struct {
	Code string
	Link string
	Fact
}

// SeenState holds the novelty keys of every fact already delivered.
type SeenState map[string]struct{}

func NewSeenState(keys ...string) SeenState {
	s := make(SeenState, len(keys))
	s.Add(keys...)
	return s
}

func (s SeenState) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s SeenState) Add(keys ...string) {
	for _, k := range keys {
		s[k] = struct{}{}
	}
}

func (s SeenState) Len() int {
	return len(s)
}

// Keys returns the keys in ascending order.
func (s SeenState) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s SeenState) Clone() SeenState {
	c := make(SeenState, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}
