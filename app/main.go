package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/feedreader/app/api"
	"github.com/lysyi3m/feedreader/app/cfg"
	"github.com/lysyi3m/feedreader/app/config"
	"github.com/lysyi3m/feedreader/app/database"
	"github.com/lysyi3m/feedreader/app/feed"
	"github.com/lysyi3m/feedreader/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg)

	slog.Info("Starting Feed Reader", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	feedRepo := database.NewFeedRepository(db)
	entryRepo := database.NewEntryRepository(db)

	loader := config.NewLoader(appCfg.FeedsDir)
	configs, err := loader.LoadAll()
	if err != nil {
		slog.Error("Failed to load feed registrations", "dir", appCfg.FeedsDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded feed registrations", "dir", appCfg.FeedsDir, "count", len(configs))

	extractContent, err := registerFeeds(feedRepo, configs)
	if err != nil {
		slog.Error("Failed to register feeds", "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	fetcher := feed.NewFetcher(httpClient, appCfg.UserAgent)
	parser := feed.NewParser()
	filterer := feed.NewFilterer()

	if appCfg.Fetch {
		runner := tasks.NewRunner(feedRepo, entryRepo, fetcher, parser, filterer,
			tasks.NewConsoleSink(os.Stdout))
		if err := runner.Run(context.Background()); err != nil {
			slog.Error("Ingestion run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	extractor := feed.NewContentExtractor()

	scheduler := tasks.NewScheduler(feedRepo, entryRepo, fetcher, parser, filterer,
		extractor, tasks.SlogSink{}, extractContent)
	slog.Info("Starting background scheduler",
		"workers", appCfg.WorkerCount, "interval_seconds", appCfg.SchedulerInterval)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(feedRepo, entryRepo, appCfg.EntryLimit, appCfg.Version)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}

func setupLogger(appCfg *cfg.Cfg) {
	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}

	// Logs go to stderr; stdout is reserved for the batch mode report.
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// registerFeeds reconciles the registration files with the feeds table:
// unknown URLs are inserted, known ones updated when name, filter or the
// inactive flag changed. Returns the per-feed content extraction opt-ins
// keyed by feed URL.
func registerFeeds(feedRepo database.FeedRepository, configs []*config.FeedConfig) (map[string]bool, error) {
	extractContent := make(map[string]bool, len(configs))

	for _, fc := range configs {
		extractContent[fc.URL] = fc.ExtractContent

		existing, err := feedRepo.GetFeedByURL(fc.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to look up feed %s: %w", fc.URL, err)
		}

		if existing == nil {
			id, err := feedRepo.InsertFeed(fc.URL, fc.Name, fc.Filter, fc.Inactive)
			if err != nil {
				return nil, fmt.Errorf("failed to register feed %s: %w", fc.Name, err)
			}
			slog.Info("Registered feed", "feed", fc.Name, "id", id, "url", fc.URL)
			continue
		}

		if existing.Name != fc.Name || existing.Filter != fc.Filter || existing.Inactive != fc.Inactive {
			if err := feedRepo.UpdateFeed(existing.ID, fc.Name, fc.Filter, fc.Inactive); err != nil {
				return nil, fmt.Errorf("failed to update feed %s: %w", fc.Name, err)
			}
			slog.Info("Updated feed", "feed", fc.Name, "id", existing.ID, "url", fc.URL)
		}
	}

	return extractContent, nil
}
