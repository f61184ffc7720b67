package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// MemoryPath selects a private in-memory database instead of a file.
const MemoryPath = ":memory:"

// Config holds SQLite-specific database configuration.
type Config struct {
	// Path is the database file path or MemoryPath.
	Path string

	// BusyTimeout sets how long to wait for database locks.
	BusyTimeout time.Duration

	// JournalMode sets the SQLite journal mode (WAL, DELETE, TRUNCATE, etc.).
	JournalMode string

	// Synchronous sets the synchronous mode (FULL, NORMAL, OFF).
	Synchronous string

	// CacheSize sets the page cache size in KB (negative) or pages (positive).
	CacheSize int
}

// DefaultConfig returns the configuration used when only a path is known.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		BusyTimeout: 5 * time.Second,
		JournalMode: "WAL",
		Synchronous: "NORMAL",
		CacheSize:   -2000,
	}
}

var (
	validJournalModes = []string{"DELETE", "TRUNCATE", "PERSIST", "MEMORY", "WAL", "OFF"}
	validSynchronous  = []string{"OFF", "NORMAL", "FULL", "EXTRA"}
)

// Validate reports configuration values SQLite would reject.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("sqlite: path cannot be empty")
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("sqlite: busy timeout cannot be negative")
	}
	if c.JournalMode != "" && !oneOf(strings.ToUpper(c.JournalMode), validJournalModes) {
		return fmt.Errorf("sqlite: invalid journal mode %q", c.JournalMode)
	}
	if c.Synchronous != "" && !oneOf(strings.ToUpper(c.Synchronous), validSynchronous) {
		return fmt.Errorf("sqlite: invalid synchronous mode %q", c.Synchronous)
	}
	return nil
}

func (c Config) inMemory() bool {
	return c.Path == MemoryPath
}

func oneOf(value string, allowed []string) bool {
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}
