package tasks

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lysyi3m/feedreader/app/database"
)

// NewEntry describes one entry inserted during the current run.
type NewEntry struct {
	ID      int64
	Title   string
	Summary string
}

// EntrySink receives newly inserted entries, one call per feed that had
// genuine new content. Feeds with nothing new produce no call at all.
type EntrySink interface {
	NewEntries(feed database.Feed, entries []NewEntry)
}

// SlogSink reports new entries through the structured logger.
type SlogSink struct{}

func (SlogSink) NewEntries(feed database.Feed, entries []NewEntry) {
	for _, e := range entries {
		slog.Info("New entry",
			"feed", feed.Name,
			"entry_id", e.ID,
			"title", e.Title,
			"summary", e.Summary)
	}
}

// ConsoleSink prints a grouped per-feed report, used by the one-shot batch
// mode.
type ConsoleSink struct {
	w io.Writer
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) NewEntries(feed database.Feed, entries []NewEntry) {
	fmt.Fprintf(s.w, "\n***** %s -- %s\n", feed.Name, feed.URL)
	for _, e := range entries {
		fmt.Fprintf(s.w, "%d - %s\n  %s\n", e.ID, e.Title, e.Summary)
	}
}
