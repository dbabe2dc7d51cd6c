package orion

import (
	"testing"

	"github.com/oliverbestmann/twinframe/pulse"
	"github.com/oliverbestmann/twinframe/pulse/pulsetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryInsertGet(t *testing.T) {
	backend := pulsetest.NewBackend()
	registry := NewRegistry()

	main := newTestContext(t, backend, "main", 800, 600)
	require.NoError(t, registry.Insert("main", main))

	ctx, ok, err := registry.Get("main")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Same(t, main, ctx)

	_, ok, err = registry.Get("other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistryInsertReplaces(t *testing.T) {
	backend := pulsetest.NewBackend()
	registry := NewRegistry()

	first := newTestContext(t, backend, "main", 800, 600)
	second := newTestContext(t, backend, "main", 640, 480)

	require.NoError(t, registry.Insert("main", first))
	require.NoError(t, registry.Insert("main", second))

	n, err := registry.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ctx, _, _ := registry.Get("main")
	assert.Same(t, second, ctx)

	surfaces := backend.Surfaces("main")
	require.Len(t, surfaces, 2)
	assert.True(t, surfaces[0].Released(), "replaced context must be released")
	assert.False(t, surfaces[1].Released())

	require.ErrorIs(t, first.Render(true), pulse.ErrReleased)
}

func TestRegistryInsertSameContextTwice(t *testing.T) {
	backend := pulsetest.NewBackend()
	registry := NewRegistry()

	ctx := newTestContext(t, backend, "main", 800, 600)
	require.NoError(t, registry.Insert("main", ctx))
	require.NoError(t, registry.Insert("main", ctx))

	assert.NoError(t, ctx.Render(false))
}

func TestRegistryRemove(t *testing.T) {
	backend := pulsetest.NewBackend()
	registry := NewRegistry()

	require.NoError(t, registry.Insert("a", newTestContext(t, backend, "a", 800, 600)))
	require.NoError(t, registry.Insert("b", newTestContext(t, backend, "b", 800, 600)))

	require.NoError(t, registry.Remove("a"))
	require.NoError(t, registry.Remove("unknown"))

	labels, err := registry.Labels()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, labels)

	assert.True(t, backend.Surface("a").Released())
	assert.False(t, backend.Surface("b").Released())
	assert.False(t, backend.Device().Released(), "device is still used by b")
}

func TestRegistryClear(t *testing.T) {
	backend := pulsetest.NewBackend()
	registry := NewRegistry()

	require.NoError(t, registry.Insert("a", newTestContext(t, backend, "a", 800, 600)))
	require.NoError(t, registry.Insert("b", newTestContext(t, backend, "b", 800, 600)))

	require.NoError(t, registry.Clear())

	n, err := registry.Len()
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.True(t, backend.Device().Released())
}

func TestRegistryForEachMayReenter(t *testing.T) {
	backend := pulsetest.NewBackend()
	registry := NewRegistry()

	require.NoError(t, registry.Insert("a", newTestContext(t, backend, "a", 800, 600)))
	require.NoError(t, registry.Insert("b", newTestContext(t, backend, "b", 800, 600)))

	var visited []string
	err := registry.ForEach(func(label string, ctx *pulse.GraphicsContext) {
		visited = append(visited, label)

		// must not deadlock
		_, ok, err := registry.Get(label)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, visited)
}

func TestRegistryPoisoned(t *testing.T) {
	registry := NewRegistry()

	err := registry.state.with(func(*map[string]*pulse.GraphicsContext) {
		panic("corrupted")
	})

	require.ErrorIs(t, err, ErrLockPoisoned)

	_, _, err = registry.Get("main")
	assert.ErrorIs(t, err, ErrLockPoisoned)

	_, err = registry.Entries()
	assert.ErrorIs(t, err, ErrLockPoisoned)

	assert.ErrorIs(t, registry.Insert("main", nil), ErrLockPoisoned)
}
