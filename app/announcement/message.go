package announcement

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

const announcementPath = "support/announcement/detail"

// BuildLink returns the public page of an article, or "" without a code.
func BuildLink(siteURL, locale, code string) string {
	if code == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s/%s", strings.TrimRight(siteURL, "/"), locale, announcementPath, url.PathEscape(code))
}

// FormatMessage renders one article block of a notification.
func FormatMessage(title, link string, facts []Fact) string {
	sorted := slices.Clone(facts)
	SortFacts(sorted)

	lines := make([]string, 0, len(sorted)+2)
	lines = append(lines, fmt.Sprintf("📢 **%s**", title), link)
	for _, f := range sorted {
		lines = append(lines, fmt.Sprintf("- **%s** | %s | %s", f.Pair, f.UTC, f.Local))
	}
	return strings.Join(lines, "\n")
}

// JoinMessages concatenates article blocks with a blank line between them.
func JoinMessages(messages []string) string {
	return strings.Join(messages, "\n\n")
}
