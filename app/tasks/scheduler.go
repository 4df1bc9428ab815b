package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/feedreader/app/cfg"
	"github.com/lysyi3m/feedreader/app/database"
	"github.com/lysyi3m/feedreader/app/feed"
)

// Scheduler periodically enqueues one ProcessFeedTask per active feed onto
// a worker pool. The default worker count is 1, which keeps server-mode
// ingestion sequential like the one-shot batch; more workers are safe
// because every task touches a single feed and each insert runs in its own
// short transaction. Failed tasks are not retried; the feed is picked up
// again on the next tick.
type Scheduler struct {
	feedRepo       database.FeedRepository
	entryRepo      database.EntryRepository
	fetcher        *feed.Fetcher
	parser         *feed.Parser
	filterer       *feed.Filterer
	extractor      *feed.ContentExtractor
	sink           EntrySink
	extractContent map[string]bool // feed URL -> per-feed opt-in
	interval       time.Duration
	workerCount    int
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	taskQueue      chan TaskInterface
}

func NewScheduler(feedRepo database.FeedRepository, entryRepo database.EntryRepository,
	fetcher *feed.Fetcher, parser *feed.Parser, filterer *feed.Filterer,
	extractor *feed.ContentExtractor, sink EntrySink, extractContent map[string]bool) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		feedRepo:       feedRepo,
		entryRepo:      entryRepo,
		fetcher:        fetcher,
		parser:         parser,
		filterer:       filterer,
		extractor:      extractor,
		sink:           sink,
		extractContent: extractContent,
		interval:       time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:    cfg.WorkerCount,
		ctx:            ctx,
		cancel:         cancel,
		taskQueue:      make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueTasks() {
	feeds, err := s.feedRepo.ListActiveFeeds()
	if err != nil {
		slog.Error("Failed to list active feeds", "error", err)
		return
	}

	if len(feeds) == 0 {
		slog.Debug("No active feeds found")
		return
	}

	slog.Debug("Scheduling feed processing", "count", len(feeds))

	for _, f := range feeds {
		processTask := NewProcessFeedTask(f, s.fetcher, s.parser, s.filterer, s.entryRepo, s.sink)
		if err := s.EnqueueTask(processTask); err != nil {
			slog.Warn("Failed to enqueue ProcessFeedTask", "feed", f.Name, "error", err)
			continue
		}

		if s.extractContent[f.URL] {
			extractTask := NewExtractContentTask(f, s.fetcher, s.extractor, s.entryRepo)
			if err := s.EnqueueTask(extractTask); err != nil {
				slog.Warn("Failed to enqueue ExtractContentTask", "feed", f.Name, "error", err)
			}
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		slog.Error("Worker task execution failed",
			"worker_id", workerID,
			"type", string(task.GetType()),
			"id", task.GetID(),
			"feed", task.GetFeedName(),
			"error", err)
	}
}
