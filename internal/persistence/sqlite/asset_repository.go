package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/brandportal/growthhub/internal/persistence"
)

// PutAsset inserts or replaces the asset stored under asset.ID.
func (d *Database) PutAsset(ctx context.Context, asset persistence.Asset) error {
	const query = `
		INSERT INTO media_assets (id, name, mime_type, data, digest, stored_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			mime_type = excluded.mime_type,
			data = excluded.data,
			digest = excluded.digest,
			stored_at = excluded.stored_at
	`
	data := asset.Data
	if data == nil {
		data = []byte{}
	}
	_, err := d.pool.DB().ExecContext(ctx, query,
		asset.ID,
		asset.Name,
		asset.MimeType,
		data,
		asset.Digest,
		asset.StoredAt.UTC().Format(time.RFC3339Nano),
	)
	return d.mapper.MapError(err)
}

// GetAsset loads the asset stored under id.
func (d *Database) GetAsset(ctx context.Context, id string) (persistence.Asset, error) {
	const query = `
		SELECT id, name, mime_type, data, digest, stored_at
		FROM media_assets
		WHERE id = ?
	`
	var (
		asset    persistence.Asset
		storedAt string
	)
	err := d.pool.DB().QueryRowContext(ctx, query, id).Scan(
		&asset.ID,
		&asset.Name,
		&asset.MimeType,
		&asset.Data,
		&asset.Digest,
		&storedAt,
	)
	if err != nil {
		return persistence.Asset{}, d.mapper.MapError(err)
	}
	if asset.StoredAt, err = time.Parse(time.RFC3339Nano, storedAt); err != nil {
		return persistence.Asset{}, fmt.Errorf("failed to parse stored_at: %w", err)
	}
	return asset, nil
}
