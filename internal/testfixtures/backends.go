package testfixtures

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/brandportal/growthhub/internal/persistence"
)

// ErrBackendUnavailable is returned by the failing backends in this file.
var ErrBackendUnavailable = errors.New("testfixtures: backend unavailable")

// FailingOpener refuses every Open. Destroy returns DestroyErr.
type FailingOpener struct {
	Err        error
	DestroyErr error

	opens    atomic.Int64
	destroys atomic.Int64
}

// Open always fails.
func (o *FailingOpener) Open(context.Context) (persistence.Database, error) {
	o.opens.Add(1)
	if o.Err != nil {
		return nil, o.Err
	}
	return nil, ErrBackendUnavailable
}

// Destroy records the call and returns DestroyErr.
func (o *FailingOpener) Destroy(context.Context) error {
	o.destroys.Add(1)
	return o.DestroyErr
}

// Opens reports how many times Open was called.
func (o *FailingOpener) Opens() int64 { return o.opens.Load() }

// Destroys reports how many times Destroy was called.
func (o *FailingOpener) Destroys() int64 { return o.destroys.Load() }

// BlockingOpener holds Open and Destroy until Release is called, then
// delegates to Next. It simulates a backend whose open or delete request
// never settles.
type BlockingOpener struct {
	Next persistence.Opener

	once    sync.Once
	release chan struct{}
	closed  atomic.Int64
}

// NewBlockingOpener wraps next.
func NewBlockingOpener(next persistence.Opener) *BlockingOpener {
	return &BlockingOpener{Next: next, release: make(chan struct{})}
}

// Open waits for Release, ignoring cancellation, and then opens Next.
func (o *BlockingOpener) Open(ctx context.Context) (persistence.Database, error) {
	<-o.release
	db, err := o.Next.Open(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}
	return &closeCounter{Database: db, closed: &o.closed}, nil
}

// Destroy waits for Release, ignoring cancellation, and then destroys Next.
func (o *BlockingOpener) Destroy(ctx context.Context) error {
	<-o.release
	return o.Next.Destroy(context.WithoutCancel(ctx))
}

// Release unblocks every pending and future call.
func (o *BlockingOpener) Release() {
	o.once.Do(func() { close(o.release) })
}

// Closed reports how many handles returned by Open have been closed.
func (o *BlockingOpener) Closed() int64 { return o.closed.Load() }

type closeCounter struct {
	persistence.Database
	closed *atomic.Int64
}

func (c *closeCounter) Close() error {
	c.closed.Add(1)
	return c.Database.Close()
}

// CountingOpener delegates to Next and counts Open and Destroy calls.
type CountingOpener struct {
	Next persistence.Opener

	opens    atomic.Int64
	destroys atomic.Int64
}

// Open delegates to Next.
func (o *CountingOpener) Open(ctx context.Context) (persistence.Database, error) {
	o.opens.Add(1)
	return o.Next.Open(ctx)
}

// Destroy delegates to Next.
func (o *CountingOpener) Destroy(ctx context.Context) error {
	o.destroys.Add(1)
	return o.Next.Destroy(ctx)
}

// Opens reports how many times Open was called.
func (o *CountingOpener) Opens() int64 { return o.opens.Load() }

// Destroys reports how many times Destroy was called.
func (o *CountingOpener) Destroys() int64 { return o.destroys.Load() }

// FaultyOpener opens Next and wraps the handle so that writes, reads or
// deletes fail on demand.
type FaultyOpener struct {
	Next persistence.Opener

	failWrites  atomic.Bool
	failReads   atomic.Bool
	failDeletes atomic.Bool
}

// Open delegates to Next and wraps the handle.
func (o *FaultyOpener) Open(ctx context.Context) (persistence.Database, error) {
	db, err := o.Next.Open(ctx)
	if err != nil {
		return nil, err
	}
	return &faultyDatabase{Database: db, opener: o}, nil
}

// Destroy delegates to Next.
func (o *FaultyOpener) Destroy(ctx context.Context) error {
	return o.Next.Destroy(ctx)
}

// FailWrites toggles failures of PutAsset and PutState.
func (o *FaultyOpener) FailWrites(fail bool) { o.failWrites.Store(fail) }

// FailReads toggles failures of GetAsset and GetState.
func (o *FaultyOpener) FailReads(fail bool) { o.failReads.Store(fail) }

// FailDeletes toggles failures of DeleteState.
func (o *FaultyOpener) FailDeletes(fail bool) { o.failDeletes.Store(fail) }

type faultyDatabase struct {
	persistence.Database
	opener *FaultyOpener
}

func (d *faultyDatabase) PutAsset(ctx context.Context, asset persistence.Asset) error {
	if d.opener.failWrites.Load() {
		return ErrBackendUnavailable
	}
	return d.Database.PutAsset(ctx, asset)
}

func (d *faultyDatabase) GetAsset(ctx context.Context, id string) (persistence.Asset, error) {
	if d.opener.failReads.Load() {
		return persistence.Asset{}, ErrBackendUnavailable
	}
	return d.Database.GetAsset(ctx, id)
}

func (d *faultyDatabase) PutState(ctx context.Context, snapshot persistence.StateSnapshot) error {
	if d.opener.failWrites.Load() {
		return ErrBackendUnavailable
	}
	return d.Database.PutState(ctx, snapshot)
}

func (d *faultyDatabase) GetState(ctx context.Context, key string) (persistence.StateSnapshot, error) {
	if d.opener.failReads.Load() {
		return persistence.StateSnapshot{}, ErrBackendUnavailable
	}
	return d.Database.GetState(ctx, key)
}

func (d *faultyDatabase) DeleteState(ctx context.Context, key string) error {
	if d.opener.failDeletes.Load() {
		return ErrBackendUnavailable
	}
	return d.Database.DeleteState(ctx, key)
}
