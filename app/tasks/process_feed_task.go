package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/feedreader/app/database"
	"github.com/lysyi3m/feedreader/app/feed"
)

// ProcessFeedTask runs the ingestion pipeline for one feed:
// fetch, parse, filter, then insert each surviving item. Fetch and parse
// failures are per-feed diagnostics and never abort the batch; only a
// persistence error other than a duplicate propagates.
type ProcessFeedTask struct {
	Task
	Feed      database.Feed
	fetcher   *feed.Fetcher
	parser    *feed.Parser
	filterer  *feed.Filterer
	entryRepo database.EntryRepository
	sink      EntrySink
}

func NewProcessFeedTask(f database.Feed, fetcher *feed.Fetcher, parser *feed.Parser,
	filterer *feed.Filterer, entryRepo database.EntryRepository, sink EntrySink) *ProcessFeedTask {
	return &ProcessFeedTask{
		Task:      NewTask(TaskTypeProcessFeed, f.Name),
		Feed:      f,
		fetcher:   fetcher,
		parser:    parser,
		filterer:  filterer,
		entryRepo: entryRepo,
		sink:      sink,
	}
}

func (t *ProcessFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	data, err := t.fetcher.Fetch(ctx, t.Feed.URL)
	if err != nil {
		slog.Warn("Fetch failed, skipping feed",
			"feed", t.Feed.Name, "url", t.Feed.URL, "error", err)
		return nil
	}

	format, items, err := t.parser.Run(data)
	if err != nil {
		slog.Warn("Failed to parse feed, skipping",
			"feed", t.Feed.Name, "format", format.String(), "error", err)
		return nil
	}
	if format == feed.FormatUnsupported {
		slog.Warn("Unsupported feed format, skipping", "feed", t.Feed.Name)
		return nil
	}

	filtered := t.filterer.Run(items, t.Feed.Filter)

	var newEntries []NewEntry
	for _, item := range filtered {
		id, inserted, err := t.entryRepo.InsertEntry(entryFromItem(t.Feed.ID, item))
		if err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
		if inserted {
			newEntries = append(newEntries, NewEntry{
				ID:      id,
				Title:   item.Title,
				Summary: itemSummary(item),
			})
		}
	}

	if len(newEntries) > 0 {
		t.sink.NewEntries(t.Feed, newEntries)
	}

	slog.Info("Task completed",
		"type", "ProcessFeed",
		"feed", t.Feed.Name,
		"duration", t.GetDuration(),
		"total", len(items),
		"filtered", len(items)-len(filtered),
		"new", len(newEntries))

	return nil
}

// entryFromItem maps a parsed item onto an entry row. String fields default
// to "" through their zero values so the uniqueness comparison never
// involves NULL; the date is rendered in its canonical stored form.
func entryFromItem(feedID int64, item feed.Item) database.Entry {
	entry := database.Entry{
		FeedID:       feedID,
		URL:          item.URL,
		ExternalID:   item.ExternalID,
		Title:        item.Title,
		Author:       item.Author,
		EnclosureURL: item.EnclosureURL,
		DateString:   item.DateString,
	}

	if item.Date != nil {
		entry.Date = feed.CanonicalDate(*item.Date)
	}

	return entry
}

// itemSummary builds the one-line description for a reported entry: the
// item URL, or the external id when no URL is present, plus the enclosure
// URL unless it looks like an image.
func itemSummary(item feed.Item) string {
	summary := item.URL
	if summary == "" {
		summary = item.ExternalID
	}

	if item.EnclosureURL != "" && !feed.IsImageURL(item.EnclosureURL) {
		summary += fmt.Sprintf(" (%s)", item.EnclosureURL)
	}

	return summary
}
