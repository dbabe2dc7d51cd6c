package orion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/twinframe/pulse"
)

var ErrUnknownWindow = errors.New("unknown window")

// Shell is the part of the windowing shell the commands need.
type Shell interface {
	// Window looks up a window by its label. Only called on the main thread.
	Window(label string) (pulse.SurfaceTarget, bool)

	// Reload asks the shell to refresh the content of the window.
	// May be called from any goroutine.
	Reload(label string) error
}

// Commands are the operations the shell can invoke. They may be called from
// any goroutine except the main thread.
type Commands struct {
	backend  pulse.Backend
	shell    Shell
	main     *MainThread
	registry *Registry
	toggles  *Toggles
	opts     pulse.ContextOptions
}

func NewCommands(
	backend pulse.Backend,
	shell Shell,
	main *MainThread,
	registry *Registry,
	toggles *Toggles,
	opts pulse.ContextOptions,
) *Commands {
	return &Commands{
		backend:  backend,
		shell:    shell,
		main:     main,
		registry: registry,
		toggles:  toggles,
		opts:     opts,
	}
}

// InitWindow creates a graphics context for the window and registers it.
// A context already registered for the window is replaced.
func (c *Commands) InitWindow(ctx context.Context, label string) error {
	slog.Info("Initializing window", slog.String("window", label))

	err := c.main.Call(ctx, func() error {
		target, ok := c.shell.Window(label)
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownWindow, label)
		}

		gc, err := pulse.NewGraphicsContext(c.backend, target, c.opts)
		if err != nil {
			return err
		}

		if err := c.registry.Insert(label, gc); err != nil {
			gc.Release()
			return fmt.Errorf("register graphics context: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("init window %q: %w", label, err)
	}

	return nil
}

// ToggleRendering switches the window between drawing the triangle and only
// clearing, then asks the shell to reload the window.
func (c *Commands) ToggleRendering(label string, draw bool) error {
	slog.Info("Toggling rendering",
		slog.String("window", label),
		slog.Bool("draw", draw),
	)

	if err := c.toggles.Set(label, draw); err != nil {
		return fmt.Errorf("toggle rendering of %q: %w", label, err)
	}

	return c.reload(label)
}

// ToggleAll switches every window, current and future, to the same state.
func (c *Commands) ToggleAll(draw bool) error {
	slog.Info("Toggling rendering of all windows", slog.Bool("draw", draw))

	if err := c.toggles.SetAll(draw); err != nil {
		return fmt.Errorf("toggle rendering: %w", err)
	}

	labels, err := c.registry.Labels()
	if err != nil {
		return fmt.Errorf("list graphics contexts: %w", err)
	}

	var failures []error
	for _, label := range labels {
		if err := c.reload(label); err != nil {
			failures = append(failures, err)
		}
	}

	return errors.Join(failures...)
}

// Toggle flips the current state of the window.
func (c *Commands) Toggle(label string) error {
	draw, err := c.toggles.Get(label)
	if err != nil {
		return fmt.Errorf("toggle rendering of %q: %w", label, err)
	}

	return c.ToggleRendering(label, !draw)
}

// CloseWindow releases the context of the window and forgets its state.
func (c *Commands) CloseWindow(label string) error {
	if err := c.registry.Remove(label); err != nil {
		return fmt.Errorf("close window %q: %w", label, err)
	}

	if err := c.toggles.Forget(label); err != nil {
		return fmt.Errorf("close window %q: %w", label, err)
	}

	return nil
}

func (c *Commands) reload(label string) error {
	// only windows with a renderer need to be refreshed
	_, ok, err := c.registry.Get(label)
	if err != nil {
		return fmt.Errorf("lookup graphics context: %w", err)
	}

	if !ok {
		return nil
	}

	if err := c.shell.Reload(label); err != nil {
		return fmt.Errorf("reload window %q: %w", label, err)
	}

	return nil
}

// Go runs the command in a new goroutine and logs its failure. Input
// callbacks on the main thread use this, as commands must not block it.
func (c *Commands) Go(name string, command func(*Commands) error) {
	go func() {
		logFailure(command(c), "Command %s failed", name)
	}()
}
