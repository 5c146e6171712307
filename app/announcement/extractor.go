package announcement

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const DefaultLookahead = 10

var (
	markerPattern = regexp.MustCompile(`(?i)^(20\d{2}-\d{2}-\d{2})\s+(\d{2}:\d{2})\s*\(UTC\)\s*:?\s*$`)
	alnumRun      = regexp.MustCompile(`[A-Za-z0-9]+`)
	pairPattern   = regexp.MustCompile(`(?i)^[A-Z0-9]{2,15}USDT$`)
)

// Extractor pairs "(UTC)" timestamp lines with the trading pairs that follow them.
type Extractor struct {
	normalizer *Normalizer
}

func NewExtractor(normalizer *Normalizer) *Extractor {
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}
	return &Extractor{normalizer: normalizer}
}

// Run scans lines for markers. For each marker only the first line within the
// next lookahead lines that carries pair tokens contributes facts. The result is
// deduplicated by (pair, utc), the last occurrence winning; its order is not
// meaningful to callers.
func (e *Extractor) Run(lines []string, lookahead int) ([]Fact, error) {
	var facts []Fact

	for i, line := range lines {
		date, clock, ok := MatchMarker(line)
		if !ok {
			continue
		}

		utc, local, err := e.normalizer.Normalize(date, clock)
		if err != nil {
			return nil, err
		}

		end := len(lines)
		if lookahead < end-i-1 {
			end = i + 1 + lookahead
		}
		for j := i + 1; j < end; j++ {
			pairs := MatchPairs(lines[j])
			if len(pairs) == 0 {
				continue
			}
			for _, pair := range pairs {
				facts = append(facts, Fact{Pair: pair, UTC: utc, Local: local})
			}
			break
		}
	}

	return dedupFacts(facts), nil
}

// MatchMarker reports whether the whole line is a UTC timestamp marker.
func MatchMarker(line string) (date string, clock string, ok bool) {
	m := markerPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// MatchPairs returns the uppercased USDT pair tokens of a line in order. A
// token must not touch a letter, digit or underscore of any script, so
// "上線BTCUSDT" holds no token.
func MatchPairs(line string) []string {
	var pairs []string
	for _, loc := range alnumRun.FindAllStringIndex(line, -1) {
		start, end := loc[0], loc[1]
		if r, _ := utf8.DecodeLastRuneInString(line[:start]); start > 0 && isWordRune(r) {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(line[end:]); end < len(line) && isWordRune(r) {
			continue
		}
		if token := line[start:end]; pairPattern.MatchString(token) {
			pairs = append(pairs, strings.ToUpper(token))
		}
	}
	return pairs
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

type factKey struct {
	pair string
	utc  string
}

func dedupFacts(facts []Fact) []Fact {
	index := make(map[factKey]int, len(facts))
	out := make([]Fact, 0, len(facts))
	for _, f := range facts {
		k := factKey{pair: f.Pair, utc: f.UTC}
		if i, ok := index[k]; ok {
			out[i] = f
			continue
		}
		index[k] = len(out)
		out = append(out, f)
	}
	return out
}
