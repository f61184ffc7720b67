// Package memdb provides an in-process persistence backend whose contents
// outlive individual database handles. It backs ":memory:" configurations and
// lets tests reopen the same data from a fresh store.
package memdb

import (
	"context"
	"sync"

	"github.com/brandportal/growthhub/internal/persistence"
)

// Backend holds asset and state records shared by every handle it opens.
type Backend struct {
	mu     sync.RWMutex
	assets map[string]persistence.Asset
	states map[string]persistence.StateSnapshot
}

// New returns an empty Backend.
func New() *Backend {
	return &Backend{
		assets: make(map[string]persistence.Asset),
		states: make(map[string]persistence.StateSnapshot),
	}
}

// Open returns a handle onto the shared records.
func (b *Backend) Open(ctx context.Context) (persistence.Database, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &handle{backend: b}, nil
}

// Destroy drops every record.
func (b *Backend) Destroy(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.assets = make(map[string]persistence.Asset)
	b.states = make(map[string]persistence.StateSnapshot)
	return nil
}

// Len reports the number of stored assets and state snapshots.
func (b *Backend) Len() (assets, states int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.assets), len(b.states)
}

type handle struct {
	backend *Backend

	mu     sync.Mutex
	closed bool
}

func (h *handle) check() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return persistence.ErrClosed
	}
	return nil
}

// --- AssetRepository implementation ---

func (h *handle) PutAsset(ctx context.Context, asset persistence.Asset) error {
	if err := h.check(); err != nil {
		return err
	}
	b := h.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	b.assets[asset.ID] = persistence.CloneAsset(asset)
	return nil
}

func (h *handle) GetAsset(ctx context.Context, id string) (persistence.Asset, error) {
	if err := h.check(); err != nil {
		return persistence.Asset{}, err
	}
	b := h.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	asset, ok := b.assets[id]
	if !ok {
		return persistence.Asset{}, persistence.ErrNotFound
	}
	return persistence.CloneAsset(asset), nil
}

// --- StateRepository implementation ---

func (h *handle) PutState(ctx context.Context, snapshot persistence.StateSnapshot) error {
	if err := h.check(); err != nil {
		return err
	}
	b := h.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	b.states[snapshot.Key] = snapshot
	return nil
}

func (h *handle) GetState(ctx context.Context, key string) (persistence.StateSnapshot, error) {
	if err := h.check(); err != nil {
		return persistence.StateSnapshot{}, err
	}
	b := h.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	snapshot, ok := b.states[key]
	if !ok {
		return persistence.StateSnapshot{}, persistence.ErrNotFound
	}
	return snapshot, nil
}

func (h *handle) DeleteState(ctx context.Context, key string) error {
	if err := h.check(); err != nil {
		return err
	}
	b := h.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.states, key)
	return nil
}

func (h *handle) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	return nil
}
