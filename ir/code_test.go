package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOffsetsAreStable(t *testing.T) {
	var c Code
	off1, ok := c.AppendItem(0x1234)
	require.True(t, ok)
	off2, ok := c.AppendItem(0x5678)
	require.True(t, ok)

	assert.Equal(t, uint32(0), off1)
	assert.Equal(t, uint32(4), off2)

	// Further appends never move bytes already handed out.
	c.AppendItem(0x9abc)
	assert.Equal(t, uint32(0x1234), c.Get(off1))
	assert.Equal(t, uint32(0x5678), c.Get(off2))
}

func TestCodeAppendU64RoundTrip(t *testing.T) {
	var c Code
	off, ok := c.AppendU64(0x1122334455667788)
	require.True(t, ok)
	assert.Equal(t, uint64(0x1122334455667788), c.GetU64(off))
}

func TestCodeTruncateRollsBackAndClearsOOM(t *testing.T) {
	var c Code
	off, _ := c.AppendItem(1)
	c.AppendItem(2)
	c.markOOM()
	require.True(t, c.OutOfMemory())

	c.Truncate(off)
	assert.False(t, c.OutOfMemory())
	assert.Equal(t, uint32(0), c.Length())
}

func TestCodeNextLabelTagIsSharedAndMonotonic(t *testing.T) {
	var c Code
	assert.Equal(t, uint32(0), c.NextLabelTag())
	assert.Equal(t, uint32(1), c.NextLabelTag())
	assert.Equal(t, uint32(2), c.NextLabelTag())
}

func TestCodeClearResetsEverything(t *testing.T) {
	var c Code
	c.AppendItem(1)
	c.NextLabelTag()
	c.Clear()
	assert.Equal(t, uint32(0), c.Length())
	assert.Equal(t, uint32(0), c.NextLabelTag())
}
