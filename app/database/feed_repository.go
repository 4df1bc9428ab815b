package database

import (
	"database/sql"
	"fmt"
)

type feedRepository struct {
	db *DB
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(db *DB) FeedRepository {
	return &feedRepository{db: db}
}

const feedColumns = `id, url, name, COALESCE(filter, ''), inactive, created, updated`

// rowScanner covers both sql.Row and sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeed(row rowScanner) (*Feed, error) {
	var feed Feed
	err := row.Scan(&feed.ID, &feed.URL, &feed.Name, &feed.Filter,
		&feed.Inactive, &feed.Created, &feed.Updated)
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

// ListActiveFeeds returns all feeds with the inactive flag unset, in id order.
func (r *feedRepository) ListActiveFeeds() ([]Feed, error) {
	rows, err := r.db.Query(`
		SELECT ` + feedColumns + `
		FROM feeds
		WHERE inactive = 0
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active feeds: %w", err)
	}
	defer rows.Close()

	var feeds []Feed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}
		feeds = append(feeds, *feed)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}

	return feeds, nil
}

// GetFeed retrieves a feed by its id
func (r *feedRepository) GetFeed(id int64) (*Feed, error) {
	feed, err := scanFeed(r.db.QueryRow(`
		SELECT `+feedColumns+`
		FROM feeds
		WHERE id = ?
	`, id))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}

	return feed, nil
}

// GetFeedByURL retrieves a feed by its source URL
func (r *feedRepository) GetFeedByURL(url string) (*Feed, error) {
	feed, err := scanFeed(r.db.QueryRow(`
		SELECT `+feedColumns+`
		FROM feeds
		WHERE url = ?
	`, url))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed by URL: %w", err)
	}

	return feed, nil
}

// InsertFeed atomically creates a feed row and returns its id.
func (r *feedRepository) InsertFeed(url, name, filter string, inactive bool) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO feeds (url, name, filter, inactive)
		VALUES (?, ?, ?, ?)
	`, url, name, nullable(filter), boolToInt(inactive))
	if err != nil {
		return 0, fmt.Errorf("failed to insert feed: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted feed id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit feed insert: %w", err)
	}

	return id, nil
}

// UpdateFeed applies registration edits (name, filter, inactive flag). The
// row's updated timestamp refreshes via trigger.
func (r *feedRepository) UpdateFeed(id int64, name, filter string, inactive bool) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE feeds
		SET name = ?, filter = ?, inactive = ?
		WHERE id = ?
	`, name, nullable(filter), boolToInt(inactive), id)
	if err != nil {
		return fmt.Errorf("failed to update feed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit feed update: %w", err)
	}

	return nil
}

// GetFeedCount returns the total number of feeds
func (r *feedRepository) GetFeedCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM feeds").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get feed count: %w", err)
	}
	return count, nil
}

// GetActiveFeedCount returns the count of feeds with the inactive flag unset
func (r *feedRepository) GetActiveFeedCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM feeds WHERE inactive = 0").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get active feed count: %w", err)
	}
	return count, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
