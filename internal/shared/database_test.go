package shared

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func pragma(t *testing.T, db *sql.DB, name string) string {
	t.Helper()
	var value string
	if err := db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		t.Fatalf("failed to read pragma %s: %v", name, err)
	}
	return value
}

func TestNewDatabase(t *testing.T) {
	t.Run("file database uses WAL and a busy timeout", func(t *testing.T) {
		db, err := NewDatabase(filepath.Join(t.TempDir(), "tedtagger.db"))
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if got := pragma(t, db, "journal_mode"); got != "wal" {
			t.Errorf("expected wal journal, got %s", got)
		}
		if got := pragma(t, db, "busy_timeout"); got != "5000" {
			t.Errorf("expected busy timeout 5000, got %s", got)
		}
		if got := pragma(t, db, "foreign_keys"); got != "1" {
			t.Errorf("expected foreign keys on, got %s", got)
		}
	})

	t.Run("memory database keeps one connection", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := db.Exec("CREATE TABLE scratch (id INTEGER)"); err != nil {
			t.Fatalf("failed to create table: %v", err)
		}
		if !tableExists(t, db, "scratch") {
			t.Error("table should be visible on the shared connection")
		}
		if got := pragma(t, db, "journal_mode"); got != "memory" {
			t.Errorf("expected memory journal, got %s", got)
		}
	})

	t.Run("dsn keeps existing parameters", func(t *testing.T) {
		got := databaseDSN("cache.db?cache=shared")
		want := "cache.db?cache=shared&_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL"
		if got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})
}
