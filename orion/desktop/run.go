//go:build !js

// Package desktop runs the renderer with native glfw windows.
package desktop

import (
	"context"
	"fmt"

	"github.com/oliverbestmann/twinframe/glimpse"
	"github.com/oliverbestmann/twinframe/orion"
	"github.com/oliverbestmann/twinframe/pulse"
	"github.com/oliverbestmann/twinframe/pulse/native"
)

// Run opens the configured windows and renders them until all of them are
// closed. Must be called from the main goroutine.
func Run(config orion.Config) error {
	config = config.WithDefaults()

	shell, err := glimpse.NewShell()
	if err != nil {
		return err
	}

	defer shell.Terminate()

	backend := native.New(native.Options{
		ForceFallbackAdapter: config.ForceFallbackAdapter,
	})

	defer backend.Release()

	app, err := orion.NewApp(config, backend, shellAdapter{shell}, shell.Wake)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	defer app.Close()

	l := &loop{app: app, shell: shell, config: config}

	for _, win := range config.Windows {
		if err := l.openWindow(glimpse.WindowOptions(win)); err != nil {
			return err
		}
	}

	return shell.Run(l)
}

// shellAdapter exposes glimpse windows as surface targets.
type shellAdapter struct {
	*glimpse.Shell
}

func (s shellAdapter) Window(label string) (pulse.SurfaceTarget, bool) {
	win, ok := s.Shell.Window(label)
	if !ok {
		return nil, false
	}

	return win, true
}

// initWindow creates the graphics context of the window in the background,
// the main thread picks up the work in loop.Idle.
func initWindow(app *orion.App, label string) {
	app.Commands.Go("init", func(c *orion.Commands) error {
		return c.InitWindow(context.Background(), label)
	})
}
