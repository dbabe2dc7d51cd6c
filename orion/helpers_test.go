package orion

import (
	"testing"

	"github.com/oliverbestmann/twinframe/pulse"
	"github.com/oliverbestmann/twinframe/pulse/pulsetest"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, backend *pulsetest.Backend, label string, width, height uint32) *pulse.GraphicsContext {
	t.Helper()

	ctx, err := pulse.NewGraphicsContext(backend, pulsetest.NewTarget(label, width, height), pulse.ContextOptions{})
	require.NoError(t, err)
	t.Cleanup(ctx.Release)

	return ctx
}

type fixture struct {
	backend  *pulsetest.Backend
	registry *Registry
	toggles  *Toggles
	driver   *Driver
}

func newFixture(t *testing.T, policy ResizePolicy, windows ...string) *fixture {
	t.Helper()

	f := &fixture{
		backend:  pulsetest.NewBackend(),
		registry: NewRegistry(),
		toggles:  NewToggles(true),
	}

	f.driver = NewDriver(f.registry, f.toggles, policy)

	for _, label := range windows {
		require.NoError(t, f.registry.Insert(label, newTestContext(t, f.backend, label, 800, 600)))
	}

	return f
}

func (f *fixture) passes(label string) []pulse.RenderPass {
	return f.backend.Device().SubmissionsFor(label)
}

func (f *fixture) lastPass(t *testing.T, label string) pulse.RenderPass {
	t.Helper()

	passes := f.passes(label)
	require.NotEmpty(t, passes, "no pass submitted for %q", label)

	return passes[len(passes)-1]
}
