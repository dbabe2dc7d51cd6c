package orion

import (
	"sync"
	"testing"
	"time"

	"github.com/oliverbestmann/twinframe/pulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var triangleDraw = []pulse.DrawCall{{VertexCount: 3, InstanceCount: 1}}

func TestDriverToggleSingleWindow(t *testing.T) {
	f := newFixture(t, ResizeBroadcast, "main")

	require.NoError(t, f.toggles.Set("main", false))

	report, err := f.driver.Frame()
	require.NoError(t, err)
	assert.Equal(t, FrameReport{Rendered: 1}, report)

	pass := f.lastPass(t, "main")
	assert.True(t, pass.ClearOnly())
	assert.Empty(t, pass.Draws)

	require.NoError(t, f.toggles.Set("main", true))

	report, err = f.driver.Frame()
	require.NoError(t, err)
	assert.Equal(t, FrameReport{Rendered: 1, Drawn: 1}, report)

	pass = f.lastPass(t, "main")
	assert.NotNil(t, pass.Pipeline)
	assert.Equal(t, triangleDraw, pass.Draws)
	assert.Equal(t, uint32(800), pass.Width)
	assert.Equal(t, uint32(600), pass.Height)

	require.NoError(t, f.driver.Resize("main", 0, 600))

	config := f.backend.Surface("main").Current()
	assert.Equal(t, uint32(1), config.Width)
	assert.Equal(t, uint32(600), config.Height)

	_, err = f.driver.Frame()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), f.lastPass(t, "main").Width)
}

func TestDriverWindowsAreIndependent(t *testing.T) {
	f := newFixture(t, ResizeBroadcast, "a", "b")

	require.NoError(t, f.toggles.Set("a", false))

	report, err := f.driver.Frame()
	require.NoError(t, err)
	assert.Equal(t, FrameReport{Rendered: 2, Drawn: 1}, report)

	pass := f.lastPass(t, "a")
	assert.True(t, pass.ClearOnly())
	assert.Equal(t, triangleDraw, f.lastPass(t, "b").Draws)

	require.NoError(t, f.driver.Resize("b", 300, 200))
	assert.Equal(t, uint32(800), f.backend.Surface("a").Current().Width)
	assert.Equal(t, uint32(300), f.backend.Surface("b").Current().Width)
}

func TestDriverSkippedFrameDoesNotAffectOthers(t *testing.T) {
	f := newFixture(t, ResizeBroadcast, "a", "b")

	f.backend.Surface("a").FailAcquire(1)

	report, err := f.driver.Frame()
	require.NoError(t, err, "skipped frames are not errors")
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Rendered)
	assert.Len(t, f.passes("b"), 1)
	assert.Empty(t, f.passes("a"))

	report, err = f.driver.Frame()
	require.NoError(t, err)
	assert.Equal(t, FrameReport{Rendered: 2, Drawn: 2}, report)

	assert.Equal(t, uint64(1), f.driver.Stats().SkippedFrames)
}

func TestDriverFailureDoesNotAffectOthers(t *testing.T) {
	f := newFixture(t, ResizeBroadcast, "a", "b")

	// presenting fails as the device refuses submissions of a released device
	f.backend.Device().Release()

	report, err := f.driver.Frame()
	require.Error(t, err)
	assert.Equal(t, 2, report.Failed)
	assert.Contains(t, err.Error(), `render "a"`)
	assert.Contains(t, err.Error(), `render "b"`)
}

func TestDriverIgnoresReleasedContext(t *testing.T) {
	f := newFixture(t, ResizeBroadcast, "main")

	ctx, _, _ := f.registry.Get("main")
	ctx.Release()

	report, err := f.driver.Frame()
	require.NoError(t, err)
	assert.Equal(t, FrameReport{}, report)

	assert.NoError(t, f.driver.Resize("main", 100, 100))
}

func TestDriverResizeUnknownWindow(t *testing.T) {
	f := newFixture(t, ResizeBroadcast, "main")

	require.NoError(t, f.driver.Resize("other", 100, 100))
	assert.Equal(t, uint32(800), f.backend.Surface("main").Current().Width)
}

func TestDriverResizeUnlabeled(t *testing.T) {
	t.Run("broadcast", func(t *testing.T) {
		f := newFixture(t, ResizeBroadcast, "a", "b")

		require.NoError(t, f.driver.Resize("", 320, 240))
		assert.Equal(t, uint32(320), f.backend.Surface("a").Current().Width)
		assert.Equal(t, uint32(320), f.backend.Surface("b").Current().Width)
	})

	t.Run("drop", func(t *testing.T) {
		f := newFixture(t, ResizeDrop, "a", "b")

		require.NoError(t, f.driver.Resize("", 320, 240))
		assert.Equal(t, uint32(800), f.backend.Surface("a").Current().Width)
		assert.Equal(t, uint32(800), f.backend.Surface("b").Current().Width)
	})
}

func TestDriverFrameWithoutWindows(t *testing.T) {
	f := newFixture(t, ResizeBroadcast)

	report, err := f.driver.Frame()
	require.NoError(t, err)
	assert.Equal(t, FrameReport{}, report)
}

func TestDriverConcurrentToggleAndFrame(t *testing.T) {
	f := newFixture(t, ResizeBroadcast, "a", "b")
	require.NoError(t, f.driver.Resize("", 100, 100))

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for idx := range 100 {
			assert.NoError(t, f.toggles.Set("a", idx%2 == 0))
			assert.NoError(t, f.driver.Resize("", 100+idx, 100+idx))
		}
	}()

	go func() {
		defer wg.Done()
		for range 100 {
			_, err := f.driver.Frame()
			assert.NoError(t, err)
		}
	}()

	wg.Wait()

	for _, pass := range f.passes("a") {
		assert.Equal(t, pass.Width, pass.Height, "pass must see a consistent size")
		if pass.ClearOnly() {
			assert.Empty(t, pass.Draws)
		} else {
			assert.Equal(t, triangleDraw, pass.Draws)
		}
	}
}

func TestDriverStatsTick(t *testing.T) {
	f := newFixture(t, ResizeBroadcast, "main")

	now := time.Unix(0, 0)
	f.driver.now = func() time.Time {
		now = now.Add(10 * time.Millisecond)
		return now
	}

	for range 60 {
		_, err := f.driver.Frame()
		require.NoError(t, err)
	}

	stats := f.driver.Stats()
	assert.Equal(t, uint64(60), stats.FrameCount)
	assert.Equal(t, 10*time.Millisecond, stats.Delta)
	assert.InDelta(t, 100.0, stats.FPS(), 0.001)
}

func TestParseResizePolicy(t *testing.T) {
	policy, err := ParseResizePolicy("drop")
	require.NoError(t, err)
	assert.Equal(t, ResizeDrop, policy)

	policy, err = ParseResizePolicy("")
	require.NoError(t, err)
	assert.Equal(t, ResizeBroadcast, policy)

	_, err = ParseResizePolicy("focused")
	assert.Error(t, err)
}
