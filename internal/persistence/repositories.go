package persistence

import "context"

// AssetRepository stores media assets keyed by ID. Put overwrites.
type AssetRepository interface {
	PutAsset(ctx context.Context, asset Asset) error
	GetAsset(ctx context.Context, id string) (Asset, error)
}

// StateRepository stores serialized state snapshots keyed by name. Put overwrites.
type StateRepository interface {
	PutState(ctx context.Context, snapshot StateSnapshot) error
	GetState(ctx context.Context, key string) (StateSnapshot, error)
	DeleteState(ctx context.Context, key string) error
}

// Database is an open handle onto a durable backend.
type Database interface {
	AssetRepository
	StateRepository
	Close() error
}

// Opener opens and destroys a durable backend.
//
// Open may block; callers bound it with their own timeout. Destroy removes the
// backend's persisted representation entirely and must be safe to call when
// nothing was ever opened.
type Opener interface {
	Open(ctx context.Context) (Database, error)
	Destroy(ctx context.Context) error
}
