package feed

import (
	"log/slog"
	"regexp"
	"strings"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run returns the items whose lowercased title matches the pattern as a
// regular expression search. An empty pattern keeps every item. Only the
// title side is lowercased, so a pattern containing uppercase letters
// matches nothing.
func (f *Filterer) Run(items []Item, pattern string) []Item {
	if pattern == "" {
		return items
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		slog.Warn("Invalid filter pattern, keeping all items", "pattern", pattern, "error", err)
		return items
	}

	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if re.MatchString(strings.ToLower(item.Title)) {
			filtered = append(filtered, item)
		}
	}

	return filtered
}
