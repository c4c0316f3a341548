package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// KVRepository is a string key/value store over the local_storage table.
//
// It is the durable client storage behind [session.Manager].
type KVRepository struct {
	db *sql.DB
}

// NewKVRepository creates a new KVRepository with the given database connection
func NewKVRepository(db *sql.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get returns the value stored under key and whether it exists.
func (r *KVRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM local_storage WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (r *KVRepository) Set(key, value string) error {
	query := `
		INSERT INTO local_storage (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (r *KVRepository) Remove(key string) error {
	if _, err := r.db.Exec("DELETE FROM local_storage WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Clear deletes every key.
func (r *KVRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM local_storage"); err != nil {
		return fmt.Errorf("failed to clear local storage: %w", err)
	}
	return nil
}

// Keys lists stored keys in lexical order.
func (r *KVRepository) Keys() ([]string, error) {
	rows, err := r.db.Query("SELECT key FROM local_storage ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
