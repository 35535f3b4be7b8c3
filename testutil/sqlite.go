package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// OpenSQLiteExport writes an exported SQLite archive to a temp file and
// opens it for inspection
func OpenSQLiteExport(t *testing.T, data []byte) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "transcript.db")
	if err := os.WriteFile(dbPath, data, 0644); err != nil {
		t.Fatalf("Failed to write exported database: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open exported database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CountRows returns the row count of table
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return n
}
