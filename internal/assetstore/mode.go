package assetstore

import (
	"time"

	"github.com/brandportal/growthhub/internal/persistence"
)

// Mode reports which tier currently serves a Store.
type Mode int

const (
	// ModeUnconnected means no durable connection has been attempted yet.
	ModeUnconnected Mode = iota
	// ModeDurable means a durable backend handle is open and cached.
	ModeDurable
	// ModeVolatile means the store serves from process memory only. It is
	// terminal for the lifetime of the Store.
	ModeVolatile
)

func (m Mode) String() string {
	switch m {
	case ModeUnconnected:
		return "unconnected"
	case ModeDurable:
		return "durable"
	case ModeVolatile:
		return "volatile"
	default:
		return "unknown"
	}
}

// connState is the store's connection state. Exactly one of the types below
// implements it, so a volatile store can never hold a database handle.
type connState interface {
	mode() Mode
}

type unconnected struct{}

func (unconnected) mode() Mode { return ModeUnconnected }

type connected struct {
	db persistence.Database
}

func (connected) mode() Mode { return ModeDurable }

type volatile struct {
	reason string
	since  time.Time
}

func (volatile) mode() Mode { return ModeVolatile }

// Fallback reasons, also used as metric labels.
const (
	reasonNoBackend   = "no_backend"
	reasonOpenFailed  = "open_failed"
	reasonOpenTimeout = "open_timeout"
	reasonWriteFailed = "write_failed"
)
