package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandoffFlagInvariant(t *testing.T) {
	t.Parallel()

	h := NewHandoff[int]("flags", nil)
	assert.True(t, h.available)
	assert.False(t, h.filled)

	cell := new(int)
	*cell = 5
	cell, ok := h.Send(cell)
	require.True(t, ok)
	assert.False(t, h.available)
	assert.True(t, h.filled)

	cell, ok = h.Receive(cell)
	require.True(t, ok)
	assert.Equal(t, 5, *cell)
	assert.True(t, h.available)
	assert.False(t, h.filled)
}

func TestHandoffTerminatedRefusesNeitherSide(t *testing.T) {
	t.Parallel()

	h := NewHandoff[int]("refuse", nil)
	h.Terminate()

	// Both sides must return promptly, whatever the flag state.
	_, ok := h.Send(new(int))
	assert.False(t, ok)
	_, ok = h.Receive(new(int))
	assert.False(t, ok)
}

func TestHandoffSendSwapsInternalCell(t *testing.T) {
	t.Parallel()

	h := NewHandoff[string]("stable", nil)
	require.NotNil(t, h.cell)

	cell := new(string)
	*cell = "payload"
	swapped, ok := h.Send(cell)
	require.True(t, ok)
	assert.NotSame(t, cell, swapped, "send exchanges the caller's cell for the internal one")
	assert.Same(t, cell, h.cell, "the deposited cell becomes the internal storage")
}
