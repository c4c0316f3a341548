package shared

import (
	"database/sql"
	"testing"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count)
	if err != nil {
		t.Fatalf("failed to inspect schema: %v", err)
	}
	return count > 0
}

func appliedVersions(t *testing.T, db *sql.DB) []int {
	t.Helper()
	rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		t.Fatalf("failed to query schema_migrations: %v", err)
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			t.Fatal(err)
		}
		versions = append(versions, v)
	}
	return versions
}

func TestMigrations(t *testing.T) {
	t.Run("embedded scripts pair up in version order", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) != 3 {
			t.Fatalf("expected 3 migrations, got %d", len(migrations))
		}
		for i, m := range migrations {
			if m.Version != i {
				t.Errorf("migration %d has version %d", i, m.Version)
			}
			if m.Up == "" || m.Down == "" {
				t.Errorf("migration %d is missing a script", m.Version)
			}
		}
	})

	t.Run("creates session storage and media cache tables", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("second run should be a no-op: %v", err)
		}

		for _, table := range []string{"local_storage", "media_items"} {
			if !tableExists(t, db, table) {
				t.Errorf("expected table %s", table)
			}
		}
		if got := appliedVersions(t, db); len(got) != 3 {
			t.Errorf("expected versions [0 1 2], got %v", got)
		}
		if _, err := db.Exec("SELECT keyword_node_ids FROM media_items"); err != nil {
			t.Errorf("expected keyword column: %v", err)
		}
	})

	t.Run("rollback removes the newest migration first", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to roll back: %v", err)
		}
		if _, err := db.Exec("SELECT keyword_node_ids FROM media_items"); err == nil {
			t.Error("keyword column should be dropped")
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to roll back: %v", err)
		}
		if tableExists(t, db, "media_items") {
			t.Error("media_items should be dropped")
		}
		if !tableExists(t, db, "local_storage") {
			t.Error("local_storage should survive the first rollback")
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to roll back: %v", err)
		}
		if got := appliedVersions(t, db); len(got) != 0 {
			t.Errorf("expected no applied versions, got %v", got)
		}

		if err := RollbackMigration(db); err == nil {
			t.Error("expected error when nothing is left to roll back")
		}
	})
}

func TestRemoveComments(t *testing.T) {
	got := removeComments("-- header\nCREATE TABLE t (id INTEGER) -- trailing\n\n")
	if got != "CREATE TABLE t (id INTEGER)" {
		t.Errorf("removeComments() = %q", got)
	}
}
