package announcement

import (
	"fmt"
	"strings"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run picks matching articles in catalog order and stops once limit articles
// were chosen. A non-positive limit selects nothing.
func (f *Filterer) Run(articles []Article, sourceConfig *SourceConfig) []Article {
	limit := sourceConfig.MaxArticles
	selected := make([]Article, 0, min(len(articles), max(limit, 0)))

	for i := 0; i < len(articles) && len(selected) < limit; i++ {
		if ok, _ := f.Match(articles[i], sourceConfig.Filters); ok {
			selected = append(selected, articles[i])
		}
	}

	return selected
}

// Match applies every filter to the article. The returned reason explains a rejection.
func (f *Filterer) Match(article Article, filters []ConfigFilter) (bool, string) {
	if article.Code == "" {
		return false, "Article has no code"
	}

	for _, filter := range filters {
		value := f.getFieldValue(article, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude, filter.CaseSensitive) {
				return false, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude)
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include, filter.CaseSensitive) {
					matched = true
					break
				}
			}
			if !matched {
				return false, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
			}
		}
	}

	return true, ""
}

func (f *Filterer) matchesFilter(value, pattern string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(value, pattern)
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(article Article, field string) string {
	switch field {
	case "title":
		return article.Title
	case "code":
		return article.Code
	default:
		return ""
	}
}
