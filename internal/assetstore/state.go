package assetstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brandportal/growthhub/internal/persistence"
)

// SaveState serializes data to JSON and stores it under key. The serialized
// value is mirrored into the synchronous cache before the durable write. The
// only error returned is a failure to encode data.
func (s *Store) SaveState(ctx context.Context, key string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("assetstore: encode state %q: %w", key, err)
	}
	serialized := string(payload)

	s.mu.Lock()
	s.mirror[key] = serialized
	s.mu.Unlock()

	snapshot := persistence.StateSnapshot{
		Key:       key,
		Payload:   serialized,
		UpdatedAt: s.now(),
	}
	stored := s.writeDurable(ctx, "save_state", func(opCtx context.Context, db persistence.Database) error {
		return db.PutState(opCtx, snapshot)
	})
	if !stored {
		s.putVolatileState(key, serialized)
	}
	return nil
}

// LoadState returns the JSON stored under key. Tiers are consulted in order:
// synchronous cache, volatile map, durable backend. Malformed JSON in any tier
// is skipped as if absent.
func (s *Store) LoadState(ctx context.Context, key string) (json.RawMessage, bool) {
	s.mu.Lock()
	cached, inMirror := s.mirror[key]
	held, inMemory := s.states[key]
	_, isVolatile := s.state.(volatile)
	s.mu.Unlock()

	if inMirror && json.Valid([]byte(cached)) {
		return json.RawMessage(cached), true
	}
	if inMemory && json.Valid([]byte(held)) {
		return json.RawMessage(held), true
	}
	if isVolatile {
		return nil, false
	}

	db, ok := s.database(ctx)
	if !ok {
		return nil, false
	}

	opCtx, cancel := s.operationContext(ctx)
	defer cancel()
	snapshot, err := db.GetState(opCtx, key)
	if err != nil {
		if !errors.Is(err, persistence.ErrNotFound) {
			s.loggerFor(ctx, "load_state").DebugContext(ctx, "durable read failed", "key", key, "error", err)
		}
		return nil, false
	}
	if !json.Valid([]byte(snapshot.Payload)) {
		s.loggerFor(ctx, "load_state").WarnContext(ctx, "ignoring malformed state snapshot", "key", key)
		return nil, false
	}
	return json.RawMessage(snapshot.Payload), true
}

// LoadStateInto decodes the state stored under key into a T. A snapshot that
// does not decode into T is reported as not found.
func LoadStateInto[T any](ctx context.Context, s *Store, key string) (T, bool) {
	var value T
	raw, ok := s.LoadState(ctx, key)
	if !ok {
		return value, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		var zero T
		return zero, false
	}
	return value, true
}

func (s *Store) putVolatileState(key, serialized string) {
	s.mu.Lock()
	s.states[key] = serialized
	s.mu.Unlock()
}
