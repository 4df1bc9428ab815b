package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/feedreader/app/database"
	"github.com/lysyi3m/feedreader/app/feed"
)

func NewHandler(feedRepo database.FeedRepository, entryRepo database.EntryRepository,
	entryLimit int, version string) *Handler {
	return &Handler{
		feedRepo:   feedRepo,
		entryRepo:  entryRepo,
		entryLimit: entryLimit,
		version:    version,
	}
}

func (h *Handler) ListFeeds(c *gin.Context) {
	feeds, err := h.feedRepo.ListActiveFeeds()
	if err != nil {
		slog.Error("Database error", "operation", "list_feeds", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	response := make([]feedResponse, 0, len(feeds))
	for _, f := range feeds {
		response = append(response, feedResponse{
			ID:       f.ID,
			URL:      f.URL,
			Name:     f.Name,
			Filter:   f.Filter,
			Inactive: f.Inactive,
			Created:  f.Created,
			Updated:  f.Updated,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"feeds": response,
		"total": len(response),
	})
}

func (h *Handler) GetFeedEntries(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feed id"})
		return
	}

	f, err := h.feedRepo.GetFeed(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_feed", "feed_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if f == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found"})
		return
	}

	limit := h.entryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	entries, err := h.entryRepo.GetRecentEntries(id, limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_entries", "feed_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	response := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		entry := entryResponse{
			ID:          e.ID,
			URL:         e.URL,
			ExternalID:  e.ExternalID,
			Title:       e.Title,
			Date:        e.Date,
			DateString:  e.DateString,
			Description: e.Description,
			Author:      e.Author,
		}
		if !feed.IsImageURL(e.EnclosureURL) {
			entry.EnclosureURL = e.EnclosureURL
		}
		response = append(response, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"feed": feedResponse{
			ID:       f.ID,
			URL:      f.URL,
			Name:     f.Name,
			Filter:   f.Filter,
			Inactive: f.Inactive,
			Created:  f.Created,
			Updated:  f.Updated,
		},
		"entries": response,
		"total":   len(response),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	}

	if feedCount, err := h.feedRepo.GetFeedCount(); err == nil {
		health["feeds"] = feedCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{}

	if feedCount, err := h.feedRepo.GetFeedCount(); err == nil {
		stats["feeds"] = feedCount
	}

	if activeCount, err := h.feedRepo.GetActiveFeedCount(); err == nil {
		stats["active_feeds"] = activeCount
	}

	if entryCount, err := h.entryRepo.GetEntryCount(); err == nil {
		stats["entries"] = entryCount
	}

	c.JSON(http.StatusOK, stats)
}
