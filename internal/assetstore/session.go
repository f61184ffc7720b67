package assetstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/brandportal/growthhub/internal/persistence"
)

// SessionKey is the state key holding the last signed-in session.
const SessionKey = "persistent_session"

// Session identifies the last user to sign in, for resuming on startup.
// UpdatedAt is encoded as Unix milliseconds under "updated".
type Session struct {
	Email     string    `json:"email"`
	CompanyID string    `json:"companyId,omitempty"`
	UpdatedAt time.Time `json:"-"`
}

type sessionJSON struct {
	Email     string `json:"email"`
	CompanyID string `json:"companyId,omitempty"`
	Updated   int64  `json:"updated"`
}

// MarshalJSON implements json.Marshaler.
func (s Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionJSON{
		Email:     s.Email,
		CompanyID: s.CompanyID,
		Updated:   s.UpdatedAt.UnixMilli(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Session) UnmarshalJSON(data []byte) error {
	var raw sessionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Session{
		Email:     raw.Email,
		CompanyID: raw.CompanyID,
		UpdatedAt: time.UnixMilli(raw.Updated).UTC(),
	}
	return nil
}

// SetLastSession records email and the optional companyID as the session to
// resume.
func (s *Store) SetLastSession(ctx context.Context, email, companyID string) {
	// A Session always encodes.
	_ = s.SaveState(ctx, SessionKey, Session{
		Email:     email,
		CompanyID: companyID,
		UpdatedAt: s.now(),
	})
}

// GetLastSession returns the session recorded by SetLastSession.
func (s *Store) GetLastSession(ctx context.Context) (Session, bool) {
	session, ok := LoadStateInto[Session](ctx, s, SessionKey)
	if !ok || strings.TrimSpace(session.Email) == "" {
		return Session{}, false
	}
	return session, true
}

// ClearLastSession forgets the recorded session in every tier. Durable
// failures are ignored and do not trigger fallback.
func (s *Store) ClearLastSession(ctx context.Context) {
	s.mu.Lock()
	delete(s.mirror, SessionKey)
	delete(s.states, SessionKey)
	_, isVolatile := s.state.(volatile)
	s.mu.Unlock()

	if isVolatile {
		return
	}
	db, ok := s.database(ctx)
	if !ok {
		return
	}

	opCtx, cancel := s.operationContext(ctx)
	defer cancel()
	if err := db.DeleteState(opCtx, SessionKey); err != nil && !errors.Is(err, persistence.ErrNotFound) {
		s.loggerFor(ctx, "clear_last_session").DebugContext(ctx, "durable delete failed", "error", err)
	}
}
