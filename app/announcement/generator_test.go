package announcement

import (
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"
)

func TestGenerator_Run(t *testing.T) {
	generator := NewGenerator()
	channel := Channel{
		Title:    "Launch Comb: binance-futures",
		Link:     "https://www.binance.com/zh-TC/support/announcement/list/48",
		SelfLink: "https://comb.example.com/feed",
		Version:  "1.2.3",
	}
	facts := []NotifiedFact{
		{
			Code: "abc",
			Link: "https://www.binance.com/zh-TC/support/announcement/detail/abc",
			Fact: Fact{Pair: "ETHUSDT", UTC: "2024-03-02 08:00 UTC", Local: "2024-03-02 16:00 (Asia/Taipei)"},
		},
		{
			Code: "abc",
			Link: "https://www.binance.com/zh-TC/support/announcement/detail/abc",
			Fact: Fact{Pair: "BTCUSDT", UTC: "2024-03-01 08:00 UTC", Local: "2024-03-01 16:00 (Asia/Taipei)"},
		},
	}

	rss, err := generator.Run(channel, facts)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(rss, `<atom:link href="https://comb.example.com/feed" rel="self"`) {
		t.Error("Expected atom self link in output")
	}

	parsed, err := gofeed.NewParser().ParseString(rss)
	if err != nil {
		t.Fatalf("Generated RSS does not parse: %v", err)
	}

	if parsed.Title != channel.Title {
		t.Errorf("Expected title '%s', got '%s'", channel.Title, parsed.Title)
	}
	if parsed.Generator != "Launch-Comb/1.2.3" {
		t.Errorf("Expected generator 'Launch-Comb/1.2.3', got '%s'", parsed.Generator)
	}
	if len(parsed.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(parsed.Items))
	}

	first := parsed.Items[0]
	if first.Title != "ETHUSDT | 2024-03-02 08:00 UTC" {
		t.Errorf("Unexpected item title '%s'", first.Title)
	}
	if first.GUID != "abc|ETHUSDT|2024-03-02 08:00 UTC" {
		t.Errorf("Unexpected item guid '%s'", first.GUID)
	}
	if first.Description != "2024-03-02 16:00 (Asia/Taipei)" {
		t.Errorf("Unexpected item description '%s'", first.Description)
	}
	if first.PublishedParsed == nil || first.PublishedParsed.UTC().Format("2006-01-02 15:04") != "2024-03-02 08:00" {
		t.Errorf("Unexpected pubDate %v", first.PublishedParsed)
	}
	if len(first.Categories) != 1 || first.Categories[0] != "ETHUSDT" {
		t.Errorf("Unexpected categories %v", first.Categories)
	}
}

func TestGenerator_EscapesContent(t *testing.T) {
	rss, err := NewGenerator().Run(Channel{Title: "A & B <feed>", Link: "https://example.com"}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(rss, "<title>A &amp; B &lt;feed&gt;</title>") {
		t.Errorf("Expected escaped title, got:\n%s", rss)
	}
	if strings.Contains(rss, "<item>") {
		t.Error("Expected no items")
	}
}

func TestGenerator_RejectsBadTimestamp(t *testing.T) {
	facts := []NotifiedFact{{Code: "x", Fact: Fact{Pair: "BTCUSDT", UTC: "yesterday"}}}
	if _, err := NewGenerator().Run(Channel{Title: "t"}, facts); err == nil {
		t.Error("Expected error for malformed timestamp")
	}
}
