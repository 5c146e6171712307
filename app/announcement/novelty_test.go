package announcement

import (
	"testing"
)

func TestFilterNew_SkipsSeenFacts(t *testing.T) {
	seen := NewSeenState("codeX|BTCUSDT|2024-03-01 08:00 UTC")
	facts := []Fact{
		{Pair: "BTCUSDT", UTC: "2024-03-01 08:00 UTC", Local: "2024-03-01 16:00 (Asia/Taipei)"},
		{Pair: "ETHUSDT", UTC: "2024-03-01 08:00 UTC", Local: "2024-03-01 16:00 (Asia/Taipei)"},
	}

	fresh, keys := FilterNew(facts, "codeX", seen)

	if len(fresh) != 1 || fresh[0].Pair != "ETHUSDT" {
		t.Fatalf("Expected only ETHUSDT, got %v", fresh)
	}
	if len(keys) != 1 || keys[0] != "codeX|ETHUSDT|2024-03-01 08:00 UTC" {
		t.Errorf("Expected key 'codeX|ETHUSDT|2024-03-01 08:00 UTC', got %v", keys)
	}
	if seen.Len() != 1 {
		t.Errorf("FilterNew must not modify seen, got %d keys", seen.Len())
	}

	seen.Add(keys...)
	fresh, keys = FilterNew(facts, "codeX", seen)
	if len(fresh) != 0 || len(keys) != 0 {
		t.Errorf("Expected nothing new on rerun, got %v %v", fresh, keys)
	}
}

func TestFilterNew_SourceScopesKeys(t *testing.T) {
	seen := NewSeenState("codeX|BTCUSDT|2024-03-01 08:00 UTC")
	facts := []Fact{{Pair: "BTCUSDT", UTC: "2024-03-01 08:00 UTC"}}

	fresh, _ := FilterNew(facts, "codeY", seen)
	if len(fresh) != 1 {
		t.Errorf("Expected the fact to be new for another article, got %v", fresh)
	}
}

func TestFilterNew_SortsByTimeThenPair(t *testing.T) {
	facts := []Fact{
		{Pair: "XRPUSDT", UTC: "2024-03-02 08:00 UTC"},
		{Pair: "ETHUSDT", UTC: "2024-03-01 08:00 UTC"},
		{Pair: "BTCUSDT", UTC: "2024-03-01 08:00 UTC"},
		{Pair: "ADAUSDT", UTC: "2024-03-01 12:30 UTC"},
	}

	fresh, keys := FilterNew(facts, "c", NewSeenState())

	expected := []string{"BTCUSDT", "ETHUSDT", "ADAUSDT", "XRPUSDT"}
	if len(fresh) != len(expected) {
		t.Fatalf("Expected %d facts, got %d", len(expected), len(fresh))
	}
	for i, pair := range expected {
		if fresh[i].Pair != pair {
			t.Errorf("Expected %s at position %d, got %s", pair, i, fresh[i].Pair)
		}
	}
	if len(keys) != len(expected) {
		t.Errorf("Expected %d keys, got %d", len(expected), len(keys))
	}
}

func TestParseKey(t *testing.T) {
	sourceID, pair, utc, ok := ParseKey(MakeKey("abc|def", "BTCUSDT", "2024-03-01 08:00 UTC"))
	if !ok {
		t.Fatal("Expected key to parse")
	}
	if sourceID != "abc|def" || pair != "BTCUSDT" || utc != "2024-03-01 08:00 UTC" {
		t.Errorf("Unexpected parts: %q %q %q", sourceID, pair, utc)
	}

	for _, bad := range []string{"", "nopipes", "one|pipe", "code||2024-03-01 08:00 UTC", "code|BTCUSDT|"} {
		if _, _, _, ok := ParseKey(bad); ok {
			t.Errorf("Expected %q to be rejected", bad)
		}
	}
}

func TestSeenState_KeysSorted(t *testing.T) {
	s := NewSeenState("b", "c", "a")
	keys := s.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("Expected sorted keys, got %v", keys)
	}

	clone := s.Clone()
	clone.Add("d")
	if s.Has("d") {
		t.Error("Clone must not share storage")
	}
}
