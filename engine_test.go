package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryEngineHistory(t *testing.T) {
	e := NewMemoryEngine()
	assert.Equal(t, "", e.CurrentURL())
	e.Back()
	e.Forward()
	e.Reload()
	assert.Equal(t, "", e.CurrentURL())
	assert.Equal(t, 0, e.Reloads())

	e.Load("a")
	e.Load("b")
	e.Load("c")
	e.Back()
	e.Back()
	assert.Equal(t, "a", e.CurrentURL())
	e.Back()
	assert.Equal(t, "a", e.CurrentURL())

	e.Forward()
	assert.Equal(t, "b", e.CurrentURL())

	// Loading drops the forward entries
	e.Load("d")
	e.Forward()
	assert.Equal(t, "d", e.CurrentURL())
	e.Back()
	assert.Equal(t, "b", e.CurrentURL())

	e.Reload()
	assert.Equal(t, 1, e.Reloads())
}

func TestMemoryEngineClose(t *testing.T) {
	e := NewMemoryEngine()
	assert.False(t, e.Closed())
	assert.NoError(t, e.Close())
	assert.True(t, e.Closed())
}
