// Package sqlite implements the durable persistence backend on SQLite.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/brandportal/growthhub/internal/persistence"
)

// Backend opens Database handles onto a single SQLite file.
type Backend struct {
	config Config
}

// NewBackend returns a Backend for the given configuration. Nothing is
// touched on disk until Open.
func NewBackend(config Config) *Backend {
	return &Backend{config: config}
}

// Open connects to the database and applies pending migrations.
func (b *Backend) Open(ctx context.Context) (persistence.Database, error) {
	pool, err := NewConnectionPool(ctx, b.config)
	if err != nil {
		return nil, err
	}
	if err := pool.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return &Database{pool: pool}, nil
}

// Destroy removes the database file along with its WAL and shared-memory
// companions. Missing files are not an error.
func (b *Backend) Destroy(ctx context.Context) error {
	if b.config.inMemory() {
		return nil
	}
	var errs []error
	for _, suffix := range []string{"", "-wal", "-shm", "-journal"} {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.Remove(b.config.Path + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Database is an open SQLite handle implementing persistence.Database.
type Database struct {
	pool   *ConnectionPool
	mapper ErrorMapper
}

// Close releases the underlying connection pool.
func (d *Database) Close() error {
	return d.pool.Close()
}
