package announcement

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"time"
)

// Channel carries the RSS channel metadata of the notified-facts feed.
type Channel struct {
	Title       string
	Link        string
	SelfLink    string
	Description string
	Version     string
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run renders facts as RSS 2.0, one item per fact, in the given order.
func (g *Generator) Run(channel Channel, facts []NotifiedFact) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", channel.Title, 4)
	g.writeElement(&buf, "link", channel.Link, 4)
	g.writeElement(&buf, "description", cmp.Or(channel.Description, "Trading pair launch times"), 4)

	if channel.SelfLink != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(channel.SelfLink)))
	}

	lastBuildDate := time.Now().UTC()
	if len(facts) > 0 {
		if t, err := ParseUTCString(facts[0].UTC); err == nil {
			lastBuildDate = t
		}
	}
	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Launch-Comb/%s", cmp.Or(channel.Version, "dev")), 4)

	for _, fact := range facts {
		if err := g.writeItem(&buf, fact); err != nil {
			return "", err
		}
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, fact NotifiedFact) error {
	launchAt, err := ParseUTCString(fact.UTC)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", fact.Pair, err)
	}

	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(MakeKey(fact.Code, fact.Pair, fact.UTC)))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", fmt.Sprintf("%s | %s", fact.Pair, fact.UTC), 6)
	g.writeElement(buf, "link", fact.Link, 6)
	g.writeElement(buf, "description", cmp.Or(fact.Local, fact.UTC), 6)
	g.writeElement(buf, "pubDate", launchAt.Format(time.RFC1123Z), 6)
	g.writeElement(buf, "category", fact.Pair, 6)

	buf.WriteString("    </item>\n")
	return nil
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
