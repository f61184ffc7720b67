package testfixtures

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGeneratorIsDeterministic(t *testing.T) {
	t.Parallel()

	a := NewIDGenerator("event")
	b := NewIDGenerator("event")

	first := a.Next()
	assert.Equal(t, first, b.Next())
	assert.Equal(t, IDFor("event", 1), first)
	assert.NotEqual(t, first, a.Next())

	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())
}

func TestIDGeneratorReset(t *testing.T) {
	t.Parallel()

	gen := NewIDGenerator("")
	first := gen.Next()
	gen.Next()
	gen.Reset()
	assert.Equal(t, first, gen.Next())
	assert.NotEqual(t, IDFor("other", 1), first)
}
