package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/brandportal/growthhub/internal/persistence"
)

// PutState inserts or replaces the snapshot stored under snapshot.Key.
func (d *Database) PutState(ctx context.Context, snapshot persistence.StateSnapshot) error {
	const query = `
		INSERT INTO app_state (key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`
	_, err := d.pool.DB().ExecContext(ctx, query,
		snapshot.Key,
		snapshot.Payload,
		snapshot.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	return d.mapper.MapError(err)
}

// GetState loads the snapshot stored under key.
func (d *Database) GetState(ctx context.Context, key string) (persistence.StateSnapshot, error) {
	var (
		snapshot  persistence.StateSnapshot
		updatedAt string
	)
	err := d.pool.DB().QueryRowContext(ctx,
		`SELECT key, payload, updated_at FROM app_state WHERE key = ?`, key,
	).Scan(&snapshot.Key, &snapshot.Payload, &updatedAt)
	if err != nil {
		return persistence.StateSnapshot{}, d.mapper.MapError(err)
	}
	if snapshot.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return persistence.StateSnapshot{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return snapshot, nil
}

// DeleteState removes the snapshot stored under key. Deleting a missing key
// succeeds.
func (d *Database) DeleteState(ctx context.Context, key string) error {
	_, err := d.pool.DB().ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, key)
	return d.mapper.MapError(err)
}
