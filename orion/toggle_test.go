package orion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTogglesDefault(t *testing.T) {
	draw, err := NewToggles(true).Get("main")
	require.NoError(t, err)
	assert.True(t, draw)

	draw, err = NewToggles(false).Get("main")
	require.NoError(t, err)
	assert.False(t, draw)
}

func TestTogglesPerWindow(t *testing.T) {
	toggles := NewToggles(true)

	require.NoError(t, toggles.Set("a", false))

	a, _ := toggles.Get("a")
	b, _ := toggles.Get("b")
	assert.False(t, a)
	assert.True(t, b, "other windows keep their state")

	require.NoError(t, toggles.Forget("a"))

	a, _ = toggles.Get("a")
	assert.True(t, a, "forgotten windows fall back to the default")
}

func TestTogglesSetAll(t *testing.T) {
	toggles := NewToggles(true)

	require.NoError(t, toggles.Set("a", true))
	require.NoError(t, toggles.SetAll(false))

	a, _ := toggles.Get("a")
	later, _ := toggles.Get("created-later")
	assert.False(t, a)
	assert.False(t, later)
}

func TestToggleSnapshotIsIsolated(t *testing.T) {
	toggles := NewToggles(false)
	require.NoError(t, toggles.Set("a", true))

	snapshot, err := toggles.Snapshot()
	require.NoError(t, err)

	require.NoError(t, toggles.Set("a", false))
	require.NoError(t, toggles.SetAll(true))

	assert.True(t, snapshot.Draw("a"))
	assert.False(t, snapshot.Draw("b"))
}

func TestTogglesPoisoned(t *testing.T) {
	toggles := NewToggles(true)

	err := toggles.state.with(func(*toggleState) { panic("boom") })
	require.ErrorIs(t, err, ErrLockPoisoned)

	_, err = toggles.Get("a")
	assert.ErrorIs(t, err, ErrLockPoisoned)
	assert.ErrorIs(t, toggles.Set("a", true), ErrLockPoisoned)
}
