package assetstore

import (
	"context"
	"fmt"
	"time"
)

// HardReset closes the durable handle, empties the volatile map and the
// synchronous cache, and destroys the durable backend's persisted data. It
// returns once the destroy settles or the operation timeout elapses; failures
// and blocked deletes are logged only.
//
// A volatile store stays volatile. A connected store becomes unconnected and
// reopens a fresh backend on next use.
func (s *Store) HardReset(ctx context.Context) {
	logger := s.loggerFor(ctx, "hard_reset")

	s.mu.Lock()
	prev := s.state
	if _, ok := prev.(connected); ok {
		s.state = unconnected{}
	}
	clear(s.assets)
	clear(s.states)
	clear(s.mirror)
	s.mu.Unlock()

	if c, ok := prev.(connected); ok {
		if err := c.db.Close(); err != nil {
			logger.WarnContext(ctx, "failed to close durable handle", "error", err)
		}
	}

	if s.opener == nil {
		return
	}

	opCtx, cancel := s.operationContext(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- fmt.Errorf("assetstore: backend destroy panicked: %v", p)
			}
		}()
		done <- s.opener.Destroy(opCtx)
	}()

	timer := time.NewTimer(s.operationTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			logger.WarnContext(ctx, "failed to destroy durable storage", "error", err)
			return
		}
		logger.InfoContext(ctx, "durable storage destroyed")
	case <-timer.C:
		logger.WarnContext(ctx, "durable storage destroy blocked; continuing")
	}
}
