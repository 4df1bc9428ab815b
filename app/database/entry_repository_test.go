package database

import (
	"testing"
)

func insertTestFeed(t *testing.T, db *DB) int64 {
	t.Helper()

	id, err := NewFeedRepository(db).InsertFeed("https://example.com/feed.xml", "Example", "", false)
	if err != nil {
		t.Fatalf("Failed to insert feed: %v", err)
	}
	return id
}

func TestEntryRepository_InsertEntry(t *testing.T) {
	db := newTestDB(t)
	feedID := insertTestFeed(t, db)
	repo := NewEntryRepository(db)

	id, inserted, err := repo.InsertEntry(Entry{
		FeedID:     feedID,
		URL:        "http://x/1",
		ExternalID: "g1",
		Title:      "A",
		Date:       "2024-10-02 15:00:00",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !inserted {
		t.Fatal("Expected entry to be inserted")
	}
	if id == 0 {
		t.Fatal("Expected non-zero entry id")
	}

	entries, err := repo.GetRecentEntries(feedID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.Title != "A" || e.URL != "http://x/1" || e.ExternalID != "g1" {
		t.Errorf("Unexpected entry fields: %+v", e)
	}
	if e.Date != "2024-10-02 15:00:00" {
		t.Errorf("Expected date '2024-10-02 15:00:00', got %q", e.Date)
	}
	if e.Description != "" || e.Author != "" || e.EnclosureURL != "" {
		t.Errorf("Expected empty string defaults, got %+v", e)
	}
}

func TestEntryRepository_DuplicateIsNoOp(t *testing.T) {
	db := newTestDB(t)
	feedID := insertTestFeed(t, db)
	repo := NewEntryRepository(db)

	entry := Entry{
		FeedID:     feedID,
		URL:        "http://x/1",
		ExternalID: "g1",
		Title:      "A",
		Date:       "2024-10-02 15:00:00",
	}

	if _, inserted, err := repo.InsertEntry(entry); err != nil || !inserted {
		t.Fatalf("Expected first insert to succeed, inserted=%v err=%v", inserted, err)
	}

	// A changed date or enclosure does not make the entry new; the
	// uniqueness key is (feedid, url, external_id, title).
	entry.Date = "2024-10-03 09:00:00"
	entry.EnclosureURL = "http://x/audio.mp3"

	_, inserted, err := repo.InsertEntry(entry)
	if err != nil {
		t.Fatalf("Expected duplicate insert to be silent, got %v", err)
	}
	if inserted {
		t.Error("Expected duplicate insert to report inserted=false")
	}

	count, err := repo.GetEntryCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected 1 entry, got %d", count)
	}
}

func TestEntryRepository_DistinctTuplesInsert(t *testing.T) {
	db := newTestDB(t)
	feedID := insertTestFeed(t, db)
	repo := NewEntryRepository(db)

	base := Entry{FeedID: feedID, URL: "http://x/1", ExternalID: "g1", Title: "A"}

	if _, inserted, err := repo.InsertEntry(base); err != nil || !inserted {
		t.Fatalf("Expected first insert to succeed, inserted=%v err=%v", inserted, err)
	}

	changed := base
	changed.Title = "A (updated)"
	if _, inserted, err := repo.InsertEntry(changed); err != nil || !inserted {
		t.Fatalf("Expected insert with changed title to succeed, inserted=%v err=%v", inserted, err)
	}

	count, err := repo.GetEntryCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Expected 2 entries, got %d", count)
	}
}

func TestEntryRepository_ForeignKeyViolationPropagates(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepository(db)

	_, _, err := repo.InsertEntry(Entry{FeedID: 999, Title: "Orphan"})
	if err == nil {
		t.Error("Expected error for unknown feed id")
	}
}

func TestEntryRepository_MalformedDatePropagates(t *testing.T) {
	db := newTestDB(t)
	feedID := insertTestFeed(t, db)
	repo := NewEntryRepository(db)

	_, _, err := repo.InsertEntry(Entry{FeedID: feedID, Title: "Bad", Date: "02 Oct 2024"})
	if err == nil {
		t.Error("Expected error for non-canonical date value")
	}
}

func TestEntryRepository_GetRecentEntriesOrdering(t *testing.T) {
	db := newTestDB(t)
	feedID := insertTestFeed(t, db)
	repo := NewEntryRepository(db)

	dates := []string{"2024-10-01 08:00:00", "2024-10-03 08:00:00", "2024-10-02 08:00:00"}
	for i, date := range dates {
		_, inserted, err := repo.InsertEntry(Entry{
			FeedID: feedID,
			URL:    "http://x/" + string(rune('a'+i)),
			Title:  "Entry",
			Date:   date,
		})
		if err != nil || !inserted {
			t.Fatalf("Failed to insert entry %d: inserted=%v err=%v", i, inserted, err)
		}
	}

	entries, err := repo.GetRecentEntries(feedID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Date != "2024-10-03 08:00:00" || entries[1].Date != "2024-10-02 08:00:00" {
		t.Errorf("Expected newest entries first, got [%s %s]", entries[0].Date, entries[1].Date)
	}
}

func TestEntryRepository_GetEntriesForExtraction(t *testing.T) {
	db := newTestDB(t)
	feedID := insertTestFeed(t, db)
	repo := NewEntryRepository(db)

	// Needs extraction: empty description, has URL
	pendingID, inserted, err := repo.InsertEntry(Entry{FeedID: feedID, URL: "http://x/1", Title: "Pending"})
	if err != nil || !inserted {
		t.Fatal(err)
	}
	// Already has a description
	if _, _, err := repo.InsertEntry(Entry{FeedID: feedID, URL: "http://x/2", Title: "Done", Description: "text"}); err != nil {
		t.Fatal(err)
	}
	// No URL to fetch from
	if _, _, err := repo.InsertEntry(Entry{FeedID: feedID, ExternalID: "g3", Title: "NoURL"}); err != nil {
		t.Fatal(err)
	}

	entries, err := repo.GetEntriesForExtraction(feedID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].ID != pendingID {
		t.Errorf("Expected entry %d, got %d", pendingID, entries[0].ID)
	}
}

func TestEntryRepository_UpdateEntryDescription(t *testing.T) {
	db := newTestDB(t)
	feedID := insertTestFeed(t, db)
	repo := NewEntryRepository(db)

	id, _, err := repo.InsertEntry(Entry{FeedID: feedID, URL: "http://x/1", Title: "A"})
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.UpdateEntryDescription(id, "extracted text"); err != nil {
		t.Fatal(err)
	}

	entries, err := repo.GetRecentEntries(feedID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].Description != "extracted text" {
		t.Errorf("Expected description 'extracted text', got %q", entries[0].Description)
	}
}
