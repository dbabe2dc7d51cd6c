//go:build !js

package glimpse

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var ErrDuplicateWindow = errors.New("window label already in use")

var glfwToKey = map[glfw.Key]Key{
	glfw.KeyA:      KeyA,
	glfw.KeyN:      KeyN,
	glfw.KeyT:      KeyT,
	glfw.KeySpace:  KeySpace,
	glfw.KeyEscape: KeyEscape,
}

type glfwWindow struct {
	label string
	win   *glfw.Window
}

func (g *glfwWindow) Label() string {
	return g.label
}

func (g *glfwWindow) GetSize() (uint32, uint32) {
	width, height := g.win.GetFramebufferSize()
	return uint32(max(width, 0)), uint32(max(height, 0))
}

func (g *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(g.win)
}

// Shell owns all glfw windows. Except for Reload and Wake, its methods
// must be called on the main thread.
type Shell struct {
	windows map[string]*glfwWindow
	closing []string
	handler EventHandler

	// labels queued by Reload, guarded by mu
	mu      sync.Mutex
	reloads []string
}

func NewShell() (*Shell, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	return &Shell{windows: map[string]*glfwWindow{}}, nil
}

// OpenWindow creates a new window. The window has no surface until
// a graphics context is created for it.
func (s *Shell) OpenWindow(opts WindowOptions) (Window, error) {
	if _, exists := s.windows[opts.Label]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateWindow, opts.Label)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window %q: %w", opts.Label, err)
	}

	w := &glfwWindow{label: opts.Label, win: win}
	s.windows[opts.Label] = w

	s.configureCallbacks(w)

	slog.Info("Window opened",
		slog.String("window", opts.Label),
		slog.Int("width", opts.Width),
		slog.Int("height", opts.Height),
	)

	return w, nil
}

func (s *Shell) Window(label string) (Window, bool) {
	w, ok := s.windows[label]
	if !ok {
		return nil, false
	}

	return w, true
}

// Labels returns the sorted labels of all open windows.
func (s *Shell) Labels() []string {
	labels := make([]string, 0, len(s.windows))
	for label := range s.windows {
		labels = append(labels, label)
	}

	slices.Sort(labels)

	return labels
}

// Close requests the window to be closed at the end of the current event poll.
func (s *Shell) Close(label string) {
	if w, ok := s.windows[label]; ok {
		w.win.SetShouldClose(true)
		s.closing = append(s.closing, label)
	}
}

// Reload requests a refresh of the window: its current size is applied
// and a new frame is rendered. Safe to call from any goroutine.
func (s *Shell) Reload(label string) error {
	s.mu.Lock()
	s.reloads = append(s.reloads, label)
	s.mu.Unlock()

	s.Wake()

	return nil
}

// Wake interrupts the shell if it is waiting for events.
// Safe to call from any goroutine.
func (s *Shell) Wake() {
	glfw.PostEmptyEvent()
}

// Run processes events until all windows are closed.
func (s *Shell) Run(handler EventHandler) error {
	s.handler = handler
	defer func() { s.handler = nil }()

	for len(s.windows) > 0 {
		glfw.PollEvents()

		s.destroyClosed()

		handler.Idle()

		for _, label := range s.takeReloads() {
			if w, ok := s.windows[label]; ok {
				width, height := w.win.GetFramebufferSize()
				handler.Resized(label, width, height)
			}
		}

		if !handler.Frame() {
			// nothing to render, sleep until something happens
			glfw.WaitEventsTimeout(0.25)
		}
	}

	slog.Info("All windows closed")

	return nil
}

// Terminate destroys all remaining windows and shuts down glfw.
func (s *Shell) Terminate() {
	for label, w := range s.windows {
		w.win.Destroy()
		delete(s.windows, label)
	}

	glfw.Terminate()
}

func (s *Shell) takeReloads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	reloads := s.reloads
	s.reloads = nil

	return reloads
}

func (s *Shell) destroyClosed() {
	closing := s.closing
	s.closing = nil

	for _, label := range closing {
		w, ok := s.windows[label]
		if !ok {
			continue
		}

		if s.handler != nil {
			s.handler.Closed(label)
		}

		w.win.Destroy()
		delete(s.windows, label)

		slog.Info("Window closed", slog.String("window", label))
	}
}

func (s *Shell) configureCallbacks(w *glfwWindow) {
	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if s.handler != nil {
			s.handler.Resized(w.label, width, height)
		}
	})

	w.win.SetCloseCallback(func(_ *glfw.Window) {
		s.closing = append(s.closing, w.label)
	})

	w.win.SetKeyCallback(func(_ *glfw.Window, glfwKey glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}

		key, ok := keyOf(glfwKey, scancode)
		if !ok {
			return
		}

		if s.handler != nil {
			s.handler.KeyPressed(w.label, key)
		}
	})
}

func keyOf(glfwKey glfw.Key, scancode int) (key Key, ok bool) {
	key, ok = glfwToKey[glfwKey]
	if !ok {
		slog.Debug(
			"Unhandled key",
			slog.String("key", glfw.GetKeyName(glfwKey, scancode)),
		)
	}

	return
}
