package database

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type entryRepository struct {
	db *DB
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *DB) EntryRepository {
	return &entryRepository{db: db}
}

const entryColumns = `id, feedid, url, external_id, title, COALESCE(date, ''),
	COALESCE(date_string, ''), description, author, enclosure_url, created, updated`

// InsertEntry atomically creates an entry row. A violation of the
// (feedid, url, external_id, title) uniqueness key is a normal outcome and
// reported as inserted=false; any other constraint violation propagates.
func (r *entryRepository) InsertEntry(entry Entry) (int64, bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO entries (feedid, url, external_id, title, date, date_string, description, author, enclosure_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.FeedID, entry.URL, entry.ExternalID, entry.Title,
		nullable(entry.Date), nullable(entry.DateString),
		entry.Description, entry.Author, entry.EnclosureURL)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get inserted entry id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit entry insert: %w", err)
	}

	return id, true, nil
}

// GetRecentEntries returns the latest entries for a feed, newest date first.
func (r *entryRepository) GetRecentEntries(feedID int64, limit int) ([]Entry, error) {
	rows, err := r.db.Query(`
		SELECT `+entryColumns+`
		FROM entries
		WHERE feedid = ?
		ORDER BY date DESC
		LIMIT ?
	`, feedID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// GetEntriesForExtraction returns entries that still have an empty
// description and a URL to fetch it from.
func (r *entryRepository) GetEntriesForExtraction(feedID int64, limit int) ([]Entry, error) {
	rows, err := r.db.Query(`
		SELECT `+entryColumns+`
		FROM entries
		WHERE feedid = ?
		  AND description = ''
		  AND url != ''
		ORDER BY id
		LIMIT ?
	`, feedID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries for extraction: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// UpdateEntryDescription stores extracted article text for an entry. The
// row's updated timestamp refreshes via trigger.
func (r *entryRepository) UpdateEntryDescription(entryID int64, description string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE entries
		SET description = ?
		WHERE id = ?
	`, description, entryID)
	if err != nil {
		return fmt.Errorf("failed to update entry description: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit entry update: %w", err)
	}

	return nil
}

// GetEntryCount returns the total number of entries
func (r *entryRepository) GetEntryCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get entry count: %w", err)
	}
	return count, nil
}

func collectEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(&e.ID, &e.FeedID, &e.URL, &e.ExternalID, &e.Title,
			&e.Date, &e.DateString, &e.Description, &e.Author,
			&e.EnclosureURL, &e.Created, &e.Updated)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	return entries, nil
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		return serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			serr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
