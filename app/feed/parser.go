package feed

import (
	"bytes"
	"fmt"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"
	"github.com/mmcdole/gofeed/rss"
)

type Parser struct {
	rssParser  *rss.Parser
	atomParser *atom.Parser
}

func NewParser() *Parser {
	return &Parser{
		rssParser:  &rss.Parser{},
		atomParser: &atom.Parser{},
	}
}

// Run inspects the document's root element once and dispatches to the
// matching format parser. An unrecognized root yields FormatUnsupported with
// zero items and no error; a recognized document that fails its format
// parser yields an error the caller logs before moving on to the next feed.
func (p *Parser) Run(data []byte) (Format, []Item, error) {
	switch gofeed.DetectFeedType(bytes.NewReader(data)) {
	case gofeed.FeedTypeRSS:
		parsed, err := p.rssParser.Parse(bytes.NewReader(data))
		if err != nil {
			return FormatRSS, nil, fmt.Errorf("failed to parse RSS feed: %w", err)
		}
		return FormatRSS, p.rssItems(parsed), nil
	case gofeed.FeedTypeAtom:
		parsed, err := p.atomParser.Parse(bytes.NewReader(data))
		if err != nil {
			return FormatAtom, nil, fmt.Errorf("failed to parse Atom feed: %w", err)
		}
		return FormatAtom, p.atomItems(parsed), nil
	default:
		return FormatUnsupported, nil, nil
	}
}

func (p *Parser) rssItems(parsed *rss.Feed) []Item {
	items := make([]Item, 0, len(parsed.Items))
	for _, src := range parsed.Items {
		if src == nil {
			continue
		}

		item := Item{
			Title:  src.Title,
			URL:    src.Link,
			Author: src.Author,
		}

		if src.GUID != nil {
			item.ExternalID = src.GUID.Value
		}

		if src.Enclosure != nil {
			item.EnclosureURL = src.Enclosure.URL
		}

		p.normalizeDate(&item, src.PubDate)
		items = append(items, item)
	}
	return items
}

func (p *Parser) atomItems(parsed *atom.Feed) []Item {
	items := make([]Item, 0, len(parsed.Entries))
	for _, src := range parsed.Entries {
		if src == nil {
			continue
		}

		item := Item{
			Title:      src.Title,
			ExternalID: src.ID,
		}

		// rel defaults to "alternate" when absent; link order in the
		// document does not matter.
		for _, link := range src.Links {
			if link == nil {
				continue
			}
			switch link.Rel {
			case "", "alternate":
				if item.URL == "" {
					item.URL = link.Href
				}
			case "enclosure":
				item.EnclosureURL = link.Href
			}
		}

		if len(src.Authors) > 0 && src.Authors[0] != nil {
			item.Author = src.Authors[0].Name
		}

		p.normalizeDate(&item, src.Updated)
		items = append(items, item)
	}
	return items
}

// normalizeDate routes a source date string through the date normalizer,
// keeping the raw string verbatim when no layout matches.
func (p *Parser) normalizeDate(item *Item, value string) {
	if value == "" {
		return
	}
	if t, ok := ParseDate(value); ok {
		item.Date = &t
	} else {
		item.DateString = value
	}
}
