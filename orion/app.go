package orion

import (
	"github.com/oliverbestmann/twinframe/pulse"
)

// App bundles the renderer state shared between the event thread
// and the command goroutines.
type App struct {
	Registry *Registry
	Toggles  *Toggles
	Driver   *Driver
	Commands *Commands
	Main     *MainThread
}

// NewApp wires up the application. wake is called whenever work is queued
// for the main thread.
func NewApp(config Config, backend pulse.Backend, shell Shell, wake func()) (*App, error) {
	config = config.WithDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts, err := config.ContextOptions()
	if err != nil {
		return nil, err
	}

	policy, err := config.ResizePolicy()
	if err != nil {
		return nil, err
	}

	registry := NewRegistry()
	toggles := NewToggles(config.Draw)
	main := NewMainThread(wake)

	return &App{
		Registry: registry,
		Toggles:  toggles,
		Driver:   NewDriver(registry, toggles, policy),
		Commands: NewCommands(backend, shell, main, registry, toggles, opts),
		Main:     main,
	}, nil
}

// Close stops the main thread executor and releases all graphics contexts.
func (a *App) Close() error {
	a.Main.Stop()
	return a.Registry.Clear()
}
