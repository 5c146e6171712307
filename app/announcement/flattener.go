package announcement

import "strings"

type Flattener struct{}

func NewFlattener() *Flattener {
	return &Flattener{}
}

// Run collects every string "content" member of the document, depth first,
// emitting a node's own content before descending into its members.
func (f *Flattener) Run(doc Node) []string {
	var parts []string
	f.walk(doc, &parts)

	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if line := NormalizeLine(p); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (f *Flattener) walk(n Node, parts *[]string) {
	switch n.Kind {
	case KindObject:
		if content, ok := n.Lookup("content"); ok && content.Kind == KindString {
			*parts = append(*parts, content.Str)
		}
		for _, field := range n.Members() {
			f.walk(field.Value, parts)
		}
	case KindArray:
		for _, item := range n.Items {
			f.walk(item, parts)
		}
	case KindNull, KindBool, KindNumber, KindString:
	}
}

// NormalizeLine collapses whitespace runs to a single space and trims the result.
func NormalizeLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
