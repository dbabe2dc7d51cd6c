package orion

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/oliverbestmann/twinframe/pulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	config, err := ParseConfig(nil)
	require.NoError(t, err)

	require.Len(t, config.Windows, 1)
	assert.Equal(t, WindowConfig{Label: "main", Title: "Twinframe", Width: 800, Height: 600}, config.Windows[0])
	assert.False(t, config.Draw)

	opts, err := config.ContextOptions()
	require.NoError(t, err)
	assert.Equal(t, pulse.PresentModeFifo, opts.PresentMode)
	assert.Equal(t, pulse.ColorWhite, opts.ClearColor)

	policy, err := config.ResizePolicy()
	require.NoError(t, err)
	assert.Equal(t, ResizeBroadcast, policy)

	level, err := config.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestParseConfig(t *testing.T) {
	config, err := ParseConfig([]byte(`
draw = true
clear_color = [0.0, 0.0, 0.0]
present_mode = "mailbox"
unlabeled_resize = "drop"
log_level = "debug"
force_fallback_adapter = true

[[windows]]
label = "left"
width = 400

[[windows]]
label = "right"
title = "Right"
height = 300
`))

	require.NoError(t, err)

	assert.True(t, config.Draw)
	assert.True(t, config.ForceFallbackAdapter)
	assert.Equal(t, []WindowConfig{
		{Label: "left", Title: "Twinframe", Width: 400, Height: 600},
		{Label: "right", Title: "Right", Width: 800, Height: 300},
	}, config.Windows)

	opts, err := config.ContextOptions()
	require.NoError(t, err)
	assert.Equal(t, pulse.PresentModeMailbox, opts.PresentMode)
	assert.Equal(t, pulse.ColorBlack, opts.ClearColor)

	policy, _ := config.ResizePolicy()
	assert.Equal(t, ResizeDrop, policy)

	level, _ := config.SlogLevel()
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParseConfigInvalid(t *testing.T) {
	cases := map[string]string{
		"syntax":          `draw = `,
		"present mode":    `present_mode = "vsync"`,
		"resize policy":   `unlabeled_resize = "focused"`,
		"log level":       `log_level = "loud"`,
		"clear color":     `clear_color = [1, 1, 1, 1, 1]`,
		"negative size":   "[[windows]]\nlabel = \"main\"\nwidth = -1",
		"duplicate label": "[[windows]]\nlabel = \"main\"\n[[windows]]\nlabel = \"main\"",
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		require.NoError(t, err)
		assert.Len(t, config.Windows, 1)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "twinframe.toml")
		require.NoError(t, os.WriteFile(path, []byte("draw = true\n"), 0o644))

		config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.True(t, config.Draw)
	})
}

func TestNewApp(t *testing.T) {
	f := newFixture(t, ResizeBroadcast)
	shell := &fakeShell{}

	app, err := NewApp(Config{Draw: true}, f.backend, shell, nil)
	require.NoError(t, err)

	draw, err := app.Toggles.Get("main")
	require.NoError(t, err)
	assert.True(t, draw)

	require.NoError(t, app.Close())
	assert.ErrorIs(t, app.Main.Call(t.Context(), func() error { return nil }), ErrMainThreadStopped)

	_, err = NewApp(Config{PresentMode: "vsync"}, f.backend, shell, nil)
	assert.Error(t, err)
}
