package database

import (
	"path/filepath"
	"testing"
)

func TestNewDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "nutri.db")

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"snapshots", "generation_metrics"} {
		var name string
		err := db.SQL.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}

	t.Run("MigrationsAreIdempotent", func(t *testing.T) {
		if err := RunMigrations(dbPath); err != nil {
			t.Errorf("Expected re-running migrations to succeed, got %v", err)
		}
	})
}
