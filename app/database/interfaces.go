package database

type FeedRepository interface {
	ListActiveFeeds() ([]Feed, error)
	GetFeed(id int64) (*Feed, error)
	GetFeedByURL(url string) (*Feed, error)
	InsertFeed(url, name, filter string, inactive bool) (int64, error)
	UpdateFeed(id int64, name, filter string, inactive bool) error
	GetFeedCount() (int, error)
	GetActiveFeedCount() (int, error)
}

type EntryRepository interface {
	// InsertEntry returns inserted=false when the entry's dedup tuple
	// already exists; that outcome is not an error.
	InsertEntry(entry Entry) (id int64, inserted bool, err error)
	GetRecentEntries(feedID int64, limit int) ([]Entry, error)
	GetEntriesForExtraction(feedID int64, limit int) ([]Entry, error)
	UpdateEntryDescription(entryID int64, description string) error
	GetEntryCount() (int, error)
}
