package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/feedreader/app/database"
	"github.com/lysyi3m/feedreader/app/feed"
)

const extractBatchSize = 10

// ExtractContentTask fills empty entry descriptions with readable text
// extracted from the entry's article page.
type ExtractContentTask struct {
	Task
	Feed      database.Feed
	fetcher   *feed.Fetcher
	extractor *feed.ContentExtractor
	entryRepo database.EntryRepository
}

func NewExtractContentTask(f database.Feed, fetcher *feed.Fetcher,
	extractor *feed.ContentExtractor, entryRepo database.EntryRepository) *ExtractContentTask {
	return &ExtractContentTask{
		Task:      NewTask(TaskTypeExtractContent, f.Name),
		Feed:      f,
		fetcher:   fetcher,
		extractor: extractor,
		entryRepo: entryRepo,
	}
}

func (t *ExtractContentTask) Execute(ctx context.Context) error {
	entries, err := t.entryRepo.GetEntriesForExtraction(t.Feed.ID, extractBatchSize)
	if err != nil {
		return fmt.Errorf("failed to get entries for extraction: %w", err)
	}

	if len(entries) == 0 {
		slog.Debug("No entries need content extraction", "feed", t.Feed.Name)
		return nil
	}

	extracted := 0
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		data, err := t.fetcher.Fetch(ctx, entry.URL)
		if err != nil {
			slog.Warn("Failed to fetch article page",
				"feed", t.Feed.Name, "entry_id", entry.ID, "url", entry.URL, "error", err)
			continue
		}

		text, err := t.extractor.Run(data)
		if err != nil {
			slog.Warn("Failed to extract content",
				"feed", t.Feed.Name, "entry_id", entry.ID, "url", entry.URL, "error", err)
			continue
		}

		if err := t.entryRepo.UpdateEntryDescription(entry.ID, text); err != nil {
			return fmt.Errorf("failed to store extracted content: %w", err)
		}
		extracted++
	}

	slog.Info("Task completed",
		"type", "ExtractContent",
		"feed", t.Feed.Name,
		"duration", t.GetDuration(),
		"entries", len(entries),
		"extracted", extracted)

	return nil
}
