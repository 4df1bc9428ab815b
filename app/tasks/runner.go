package tasks

import (
	"context"
	"fmt"

	"github.com/lysyi3m/feedreader/app/database"
	"github.com/lysyi3m/feedreader/app/feed"
)

// Runner executes one sequential ingestion pass over all active feeds in id
// order, one feed at a time. Per-feed failures are diagnostics handled
// inside the task; only a persistence error other than a duplicate aborts
// the run.
type Runner struct {
	feedRepo  database.FeedRepository
	entryRepo database.EntryRepository
	fetcher   *feed.Fetcher
	parser    *feed.Parser
	filterer  *feed.Filterer
	sink      EntrySink
}

func NewRunner(feedRepo database.FeedRepository, entryRepo database.EntryRepository,
	fetcher *feed.Fetcher, parser *feed.Parser, filterer *feed.Filterer, sink EntrySink) *Runner {
	return &Runner{
		feedRepo:  feedRepo,
		entryRepo: entryRepo,
		fetcher:   fetcher,
		parser:    parser,
		filterer:  filterer,
		sink:      sink,
	}
}

func (r *Runner) Run(ctx context.Context) error {
	feeds, err := r.feedRepo.ListActiveFeeds()
	if err != nil {
		return fmt.Errorf("failed to list active feeds: %w", err)
	}

	for _, f := range feeds {
		task := NewProcessFeedTask(f, r.fetcher, r.parser, r.filterer, r.entryRepo, r.sink)
		task.Start()
		if err := task.Execute(ctx); err != nil {
			return fmt.Errorf("feed %s: %w", f.Name, err)
		}
	}

	return nil
}
