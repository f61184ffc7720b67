package assetstore

import (
	"context"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/blake2b"

	"github.com/brandportal/growthhub/internal/persistence"
)

// Blob is an uploaded file ready to be stored.
type Blob struct {
	Name     string
	MimeType string
	Data     []byte
}

// SaveAsset stores blob under id, replacing any previous asset with that id.
// Name, MIME type, bytes, digest and timestamp are captured before any I/O.
func (s *Store) SaveAsset(ctx context.Context, id string, blob Blob) {
	asset := persistence.CloneAsset(persistence.Asset{
		ID:       id,
		Name:     blob.Name,
		MimeType: blob.MimeType,
		Data:     blob.Data,
		Digest:   Digest(blob.Data),
		StoredAt: s.now(),
	})

	stored := s.writeDurable(ctx, "save_asset", func(opCtx context.Context, db persistence.Database) error {
		return db.PutAsset(opCtx, asset)
	})
	if !stored {
		s.putVolatileAsset(asset)
	}
}

// GetAsset returns the asset stored under id. Backend errors are reported as
// not found.
func (s *Store) GetAsset(ctx context.Context, id string) (persistence.Asset, bool) {
	s.mu.Lock()
	asset, ok := s.assets[id]
	_, isVolatile := s.state.(volatile)
	s.mu.Unlock()

	if ok {
		return persistence.CloneAsset(asset), true
	}
	if isVolatile {
		return persistence.Asset{}, false
	}

	db, ok := s.database(ctx)
	if !ok {
		return persistence.Asset{}, false
	}

	opCtx, cancel := s.operationContext(ctx)
	defer cancel()
	stored, err := db.GetAsset(opCtx, id)
	if err != nil {
		if !errors.Is(err, persistence.ErrNotFound) {
			s.loggerFor(ctx, "get_asset").DebugContext(ctx, "durable read failed", "id", id, "error", err)
		}
		return persistence.Asset{}, false
	}
	return stored, true
}

func (s *Store) putVolatileAsset(asset persistence.Asset) {
	s.mu.Lock()
	s.assets[asset.ID] = asset
	s.mu.Unlock()
}

// Digest returns the hex encoded BLAKE2b-256 sum of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
