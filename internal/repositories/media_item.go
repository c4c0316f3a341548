package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/tedtagger/internal/models"
)

const mediaItemColumns = "unique_id, google_media_item_id, file_name, creation_time, url, mime_type, width, height, keyword_node_ids"

// MediaItemRepository caches the backend's media item list in display order.
//
// It implements tasks.MediaCache.
type MediaItemRepository struct {
	db *sql.DB
}

// NewMediaItemRepository creates a new MediaItemRepository with the given database connection
func NewMediaItemRepository(db *sql.DB) *MediaItemRepository {
	return &MediaItemRepository{db: db}
}

// ReplaceAll swaps the cached list for items. Order is preserved.
func (r *MediaItemRepository) ReplaceAll(items []models.MediaItem) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	return withTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM media_items"); err != nil {
			return fmt.Errorf("failed to clear media items: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO media_items (` + mediaItemColumns + `, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, item := range items {
			_, err := stmt.Exec(
				item.UniqueID,
				item.GoogleMediaItemID,
				item.FileName,
				item.CreationTime,
				item.URL,
				item.MimeType,
				item.Width,
				item.Height,
				strings.Join(item.KeywordNodeIDs, ","),
				i,
			)
			if err != nil {
				return fmt.Errorf("failed to insert media item %s: %w", item.UniqueID, err)
			}
		}
		return nil
	})
}

// List returns the cached items in display order.
func (r *MediaItemRepository) List() ([]models.MediaItem, error) {
	rows, err := r.db.Query("SELECT " + mediaItemColumns + " FROM media_items ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query media items: %w", err)
	}
	defer rows.Close()

	items := []models.MediaItem{}
	for rows.Next() {
		item, err := scanMediaItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media items: %w", err)
	}
	return items, nil
}

// Get retrieves a cached item by unique id.
func (r *MediaItemRepository) Get(id string) (models.MediaItem, error) {
	row := r.db.QueryRow("SELECT "+mediaItemColumns+" FROM media_items WHERE unique_id = ?", id)
	item, err := scanMediaItem(row)
	if err == sql.ErrNoRows {
		return models.MediaItem{}, fmt.Errorf("media item not found: %s", id)
	}
	return item, err
}

// Delete removes the given ids from the cache. Unknown ids are ignored.
func (r *MediaItemRepository) Delete(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	if _, err := r.db.Exec("DELETE FROM media_items WHERE unique_id IN ("+placeholders+")", args...); err != nil {
		return fmt.Errorf("failed to delete media items: %w", err)
	}
	return nil
}

// Count returns the number of cached items.
func (r *MediaItemRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM media_items").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count media items: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMediaItem(s scanner) (models.MediaItem, error) {
	var (
		item                             models.MediaItem
		googleID, created, url, mimeType sql.NullString
		keywordNodes                     string
	)
	err := s.Scan(
		&item.UniqueID,
		&googleID,
		&item.FileName,
		&created,
		&url,
		&mimeType,
		&item.Width,
		&item.Height,
		&keywordNodes,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return item, err
		}
		return item, fmt.Errorf("failed to scan media item: %w", err)
	}

	item.GoogleMediaItemID = googleID.String
	item.CreationTime = created.String
	item.URL = url.String
	item.MimeType = mimeType.String
	if keywordNodes != "" {
		item.KeywordNodeIDs = strings.Split(keywordNodes, ",")
	}
	return item, nil
}
