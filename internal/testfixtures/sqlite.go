package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/brandportal/growthhub/internal/persistence"
	"github.com/brandportal/growthhub/internal/persistence/sqlite"
)

// SQLiteHarness provides a SQLite backend stored in a temporary directory for
// integration-style tests.
type SQLiteHarness struct {
	Path    string
	Backend *sqlite.Backend
}

// NewSQLiteHarness constructs a harness whose database file lives in the
// test's temporary directory. Nothing is created until the backend is opened.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "growthhub.db")
	return &SQLiteHarness{
		Path:    path,
		Backend: sqlite.NewBackend(sqlite.DefaultConfig(path)),
	}
}

// Open opens the backend and registers Close with the test cleanup.
func (h *SQLiteHarness) Open(tb testing.TB) persistence.Database {
	tb.Helper()

	db, err := h.Backend.Open(context.Background())
	if err != nil {
		tb.Fatalf("failed to open sqlite backend: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })
	return db
}
