package feed

import (
	"strings"
	"time"
)

// Format identifies the syndication dialect of a fetched document,
// selected once from the root element.
type Format int

const (
	FormatUnsupported Format = iota
	FormatRSS
	FormatAtom
)

func (f Format) String() string {
	switch f {
	case FormatRSS:
		return "rss"
	case FormatAtom:
		return "atom"
	default:
		return "unsupported"
	}
}

// Item is one parsed feed item. Fields absent in the source stay zero here;
// defaulting to the empty string happens at the persistence boundary only.
// DateString carries the raw source date and is set only when the date did
// not match any known layout.
type Item struct {
	Title        string
	URL          string
	ExternalID   string
	Author       string
	EnclosureURL string
	Date         *time.Time
	DateString   string
}

// IsImageURL reports whether an enclosure URL points at an image and should
// be left out of entry summaries.
func IsImageURL(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasSuffix(lower, "jpg") || strings.HasSuffix(lower, "png")
}
