//go:build !js

package desktop

import (
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/twinframe/glimpse"
	"github.com/oliverbestmann/twinframe/orion"
)

// loop forwards the events of the shell to the app.
type loop struct {
	app    *orion.App
	shell  *glimpse.Shell
	config orion.Config

	// number of windows opened so far, used for labels of new windows
	opened int
}

var _ glimpse.EventHandler = (*loop)(nil)

func (l *loop) Idle() {
	l.app.Main.Process()
}

func (l *loop) Resized(label string, width, height int) {
	if err := l.app.Driver.Resize(label, width, height); err != nil {
		slog.Warn("Resize failed", slog.String("window", label), slog.Any("err", err))
	}
}

func (l *loop) KeyPressed(label string, key glimpse.Key) {
	slog.Debug("Key pressed", slog.String("window", label), slog.String("key", key.String()))

	switch key {
	case glimpse.KeyT, glimpse.KeySpace:
		l.app.Commands.Go("toggle", func(c *orion.Commands) error {
			return c.Toggle(label)
		})

	case glimpse.KeyA:
		draw, err := l.app.Toggles.Get(label)
		if err != nil {
			slog.Warn("Read render state failed", slog.Any("err", err))
			return
		}

		l.app.Commands.Go("toggle all", func(c *orion.Commands) error {
			return c.ToggleAll(!draw)
		})

	case glimpse.KeyN:
		err := l.openWindow(glimpse.WindowOptions{
			Label:  l.nextLabel(),
			Title:  "Twinframe",
			Width:  640,
			Height: 480,
		})

		if err != nil {
			slog.Warn("Open window failed", slog.Any("err", err))
		}

	case glimpse.KeyEscape:
		l.shell.Close(label)
	}
}

func (l *loop) Closed(label string) {
	if err := l.app.Commands.CloseWindow(label); err != nil {
		slog.Warn("Close window failed", slog.String("window", label), slog.Any("err", err))
	}
}

func (l *loop) Frame() bool {
	report, err := l.app.Driver.Frame()
	if err != nil {
		slog.Warn("Frame failed", slog.Any("err", err))
	}

	return report.Rendered > 0
}

func (l *loop) openWindow(opts glimpse.WindowOptions) error {
	if _, err := l.shell.OpenWindow(opts); err != nil {
		return err
	}

	l.opened++

	initWindow(l.app, opts.Label)

	return nil
}

func (l *loop) nextLabel() string {
	for {
		label := fmt.Sprintf("window-%d", l.opened)
		if _, exists := l.shell.Window(label); !exists {
			return label
		}

		l.opened++
	}
}
