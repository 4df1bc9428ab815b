package database

// Feed represents a registered syndication source. Rows are created and
// edited by the registration sync, never by the ingestion pipeline.
type Feed struct {
	ID       int64
	URL      string
	Name     string
	Filter   string // optional title pattern, empty when unset
	Inactive bool
	Created  string // "YYYY-MM-DD HH:MM:SS", set by the store
	Updated  string
}

// Entry represents one ingested feed item. The tuple
// (FeedID, URL, ExternalID, Title) is unique across all entries; optional
// dedup fields are normalized to the empty string before insertion so the
// uniqueness comparison never involves NULL.
type Entry struct {
	ID           int64
	FeedID       int64
	URL          string
	ExternalID   string
	Title        string
	Date         string // canonical "YYYY-MM-DD HH:MM:SS", empty when unparseable
	DateString   string // raw source date, kept only when Date is empty
	Description  string
	Author       string
	EnclosureURL string
	Created      string
	Updated      string
}
