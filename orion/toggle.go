package orion

import (
	"maps"
)

// Toggles holds the render state of each window: drawing the triangle or
// only clearing. Windows without an explicit state use the default.
type Toggles struct {
	state guarded[toggleState]
}

type toggleState struct {
	fallback bool
	windows  map[string]bool
}

// ToggleSnapshot is a consistent copy of all toggles, taken once per frame.
type ToggleSnapshot struct {
	fallback bool
	windows  map[string]bool
}

// NewToggles creates the toggle state with every window set to draw.
// Use false to start all windows idle.
func NewToggles(draw bool) *Toggles {
	t := &Toggles{}
	t.state.value = toggleState{fallback: draw, windows: map[string]bool{}}
	return t
}

// Set changes the render state of a single window.
func (t *Toggles) Set(label string, draw bool) error {
	return t.state.with(func(state *toggleState) {
		state.windows[label] = draw
	})
}

// SetAll changes the render state of every window, including windows
// that are created later.
func (t *Toggles) SetAll(draw bool) error {
	return t.state.with(func(state *toggleState) {
		state.fallback = draw

		for label := range state.windows {
			state.windows[label] = draw
		}
	})
}

// Forget drops the explicit state of a window.
func (t *Toggles) Forget(label string) error {
	return t.state.with(func(state *toggleState) {
		delete(state.windows, label)
	})
}

func (t *Toggles) Get(label string) (draw bool, err error) {
	err = t.state.with(func(state *toggleState) {
		draw = lookupToggle(state.windows, state.fallback, label)
	})

	return
}

func (t *Toggles) Snapshot() (snapshot ToggleSnapshot, err error) {
	err = t.state.with(func(state *toggleState) {
		snapshot = ToggleSnapshot{
			fallback: state.fallback,
			windows:  maps.Clone(state.windows),
		}
	})

	return
}

// Draw returns true if the window should draw the triangle.
func (s ToggleSnapshot) Draw(label string) bool {
	return lookupToggle(s.windows, s.fallback, label)
}

func lookupToggle(windows map[string]bool, fallback bool, label string) bool {
	draw, ok := windows[label]
	if !ok {
		return fallback
	}

	return draw
}
