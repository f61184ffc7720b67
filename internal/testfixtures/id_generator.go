package testfixtures

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// idNamespace seeds the name-based UUIDs produced by IDGenerator.
var idNamespace = uuid.MustParse("6f2c1d8e-4b7a-4e39-9c55-2a0f3d9b8e11")

// IDGenerator produces deterministic UUIDs for tests. The n-th identifier for
// a prefix is always the same.
type IDGenerator struct {
	mu      sync.Mutex
	prefix  string
	counter uint64
}

// NewIDGenerator constructs a generator for the given prefix. When prefix is
// empty, "id" is used.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return IDFor(g.prefix, g.counter)
}

// NextFunc exposes Next as a function suitable for dependency injection.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return uuid.NewString
	}
	return g.Next
}

// Reset restarts the sequence.
func (g *IDGenerator) Reset() {
	g.mu.Lock()
	g.counter = 0
	g.mu.Unlock()
}

// IDFor returns the identifier a generator with prefix yields at position n.
func IDFor(prefix string, n uint64) string {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%s-%d", prefix, n))).String()
}
