// Package assetstore persists media assets and application state snapshots
// behind a durable backend, degrading to process memory when that backend is
// slow, failing or unavailable.
//
// Every operation settles without surfacing backend errors. Once a Store has
// fallen back to volatile mode it never touches the durable backend again,
// so anything written afterwards is lost when the process exits unless the
// caller persists it elsewhere. Callers can detect this through
// IsUsingFallbackMode.
package assetstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/brandportal/growthhub/internal/logging"
	"github.com/brandportal/growthhub/internal/metrics"
	"github.com/brandportal/growthhub/internal/persistence"
)

const (
	// DefaultConnectTimeout bounds the first attempt to open the durable backend.
	DefaultConnectTimeout = 800 * time.Millisecond
	// DefaultOperationTimeout bounds each durable read, write and destroy.
	DefaultOperationTimeout = 2 * time.Second
)

var errConnectTimeout = errors.New("assetstore: timed out opening durable backend")

// Options tunes a Store. Zero values select defaults.
type Options struct {
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
	Now              func() time.Time
	Logger           *slog.Logger
}

// Store is a key/blob store with a durable tier and a volatile fallback.
// It is safe for concurrent use; concurrent writes to one key are
// last-writer-wins.
type Store struct {
	opener           persistence.Opener
	connectTimeout   time.Duration
	operationTimeout time.Duration
	now              func() time.Time
	logger           *slog.Logger

	connecting singleflight.Group
	attempts   atomic.Int64

	mu     sync.Mutex
	state  connState
	assets map[string]persistence.Asset
	states map[string]string
	// mirror holds serialized state written through SaveState. It is read
	// before any other tier and survives fallback.
	mirror map[string]string
}

// New constructs a Store over opener. The backend is not contacted until the
// first operation needs it. A nil opener yields a store that starts volatile.
func New(opener persistence.Opener, opts Options) *Store {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.OperationTimeout <= 0 {
		opts.OperationTimeout = DefaultOperationTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Store{
		opener:           opener,
		connectTimeout:   opts.ConnectTimeout,
		operationTimeout: opts.OperationTimeout,
		now:              opts.Now,
		logger:           opts.Logger,
		state:            unconnected{},
		assets:           make(map[string]persistence.Asset),
		states:           make(map[string]string),
		mirror:           make(map[string]string),
	}
	if opener == nil {
		s.fallback(context.Background(), reasonNoBackend, errors.New("assetstore: no durable backend configured"))
	}
	return s
}

// Mode reports the current connection mode.
func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.mode()
}

// IsUsingFallbackMode reports whether the store has switched to volatile mode.
func (s *Store) IsUsingFallbackMode() bool {
	return s.Mode() == ModeVolatile
}

// ConnectAttempts reports how many times the durable backend has been opened.
func (s *Store) ConnectAttempts() int64 {
	return s.attempts.Load()
}

// database returns the cached durable handle, connecting on first use. It
// returns false when the store is, or has just become, volatile.
func (s *Store) database(ctx context.Context) (persistence.Database, bool) {
	if db, settled := s.settledDatabase(); settled {
		return db, db != nil
	}

	v, _, _ := s.connecting.Do("connect", func() (any, error) {
		return s.connect(ctx), nil
	})
	db, _ := v.(persistence.Database)
	return db, db != nil
}

// settledDatabase reports the handle when the state machine has left
// unconnected. A nil handle with settled=true means volatile.
func (s *Store) settledDatabase() (db persistence.Database, settled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch st := s.state.(type) {
	case connected:
		return st.db, true
	case volatile:
		return nil, true
	default:
		return nil, false
	}
}

type openResult struct {
	db  persistence.Database
	err error
}

func (s *Store) connect(ctx context.Context) persistence.Database {
	// Another caller may have settled the state while this one queued.
	if db, settled := s.settledDatabase(); settled {
		return db
	}

	s.attempts.Add(1)
	metrics.RecordConnectAttempt()

	openCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan openResult, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- openResult{err: fmt.Errorf("assetstore: backend open panicked: %v", p)}
			}
		}()
		db, err := s.opener.Open(openCtx)
		done <- openResult{db: db, err: err}
	}()

	timer := time.NewTimer(s.connectTimeout)
	defer timer.Stop()

	select {
	case res := <-done:
		cancel()
		if res.err == nil && res.db == nil {
			res.err = errors.New("assetstore: backend returned no database")
		}
		if res.err != nil {
			s.fallback(ctx, reasonOpenFailed, res.err)
			return nil
		}
		s.mu.Lock()
		if _, ok := s.state.(unconnected); !ok {
			s.mu.Unlock()
			_ = res.db.Close()
			db, _ := s.settledDatabase()
			return db
		}
		s.state = connected{db: res.db}
		s.mu.Unlock()
		s.loggerFor(ctx, "connect").DebugContext(ctx, "durable storage connected")
		return res.db
	case <-timer.C:
		cancel()
		go s.discardLateOpen(done)
		s.fallback(ctx, reasonOpenTimeout, errConnectTimeout)
		return nil
	}
}

// discardLateOpen closes a handle that arrives after the connect timer fired.
func (s *Store) discardLateOpen(done <-chan openResult) {
	res := <-done
	if res.err == nil && res.db != nil {
		if err := res.db.Close(); err != nil {
			s.logger.Warn("failed to close late durable handle", "component", "assetstore", "error", err)
		}
	}
}

// fallback switches the store to volatile mode permanently and closes any
// open durable handle. Repeated calls are no-ops.
func (s *Store) fallback(ctx context.Context, reason string, cause error) {
	s.mu.Lock()
	prev := s.state
	if _, ok := prev.(volatile); ok {
		s.mu.Unlock()
		return
	}
	s.state = volatile{reason: reason, since: s.now()}
	s.mu.Unlock()

	s.finishFallback(ctx, prev, reason, cause)
}

func (s *Store) finishFallback(ctx context.Context, prev connState, reason string, cause error) {
	if c, ok := prev.(connected); ok {
		_ = c.db.Close()
	}

	metrics.RecordFallback(reason)
	s.loggerFor(ctx, "fallback").WarnContext(ctx,
		"durable storage unavailable; continuing in volatile mode, data written from now on is not persisted",
		"reason", reason,
		"error", cause,
	)
}

// writeDurable runs write against the durable handle. It reports false when
// the store is, or has just become, volatile, in which case the caller keeps
// the value in memory.
//
// A failure on a handle that HardReset has since retired leaves the mode
// alone and is retried once on the current handle. If that handle is retired
// as well, the write is treated as having happened before the reset.
func (s *Store) writeDurable(ctx context.Context, operation string, write func(context.Context, persistence.Database) error) bool {
	for attempt := 0; ; attempt++ {
		db, ok := s.database(ctx)
		if !ok {
			return false
		}

		opCtx, cancel := s.operationContext(ctx)
		err := write(opCtx, db)
		cancel()
		if err == nil {
			return true
		}

		if !s.retired(ctx, db, err) {
			return false
		}
		if attempt > 0 {
			s.loggerFor(ctx, operation).DebugContext(ctx, "write raced a hard reset; dropped", "error", err)
			return true
		}
	}
}

// retired reports whether db was replaced by HardReset. Otherwise the write
// error on db is a backend failure and the store falls back.
func (s *Store) retired(ctx context.Context, db persistence.Database, cause error) bool {
	s.mu.Lock()
	prev := s.state
	switch st := prev.(type) {
	case volatile:
		s.mu.Unlock()
		return false
	case connected:
		if st.db != db {
			s.mu.Unlock()
			return true
		}
	case unconnected:
		s.mu.Unlock()
		return true
	}
	s.state = volatile{reason: reasonWriteFailed, since: s.now()}
	s.mu.Unlock()

	s.finishFallback(ctx, prev, reasonWriteFailed, cause)
	return false
}

func (s *Store) operationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.operationTimeout)
}

func (s *Store) loggerFor(ctx context.Context, operation string) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = s.logger
	}
	return logger.With("component", "assetstore", "operation", operation)
}
