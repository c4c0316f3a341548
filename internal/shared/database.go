package shared

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// BusyTimeout is how long, in milliseconds, a connection waits on a locked
// database. The TUI and a concurrent CLI command share one file.
const BusyTimeout = 5000

// NewDatabase opens the session store and media cache at path and checks the
// connection. ":memory:" opens a private in-memory database.
func NewDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", databaseDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// every connection to ":memory:" opens a separate database
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// databaseDSN adds the go-sqlite3 connection pragmas to path. File databases
// use WAL so reads do not block the cache rewrite.
func databaseDSN(path string) string {
	params := url.Values{}
	params.Set("_busy_timeout", fmt.Sprint(BusyTimeout))
	params.Set("_foreign_keys", "on")
	if path != ":memory:" {
		params.Set("_journal_mode", "WAL")
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + params.Encode()
}

// ConfigureDatabase applies the [database] pool limits from the config file.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
}
