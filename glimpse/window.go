package glimpse

import "github.com/cogentcore/webgpu/wgpu"

// Window is a native window identified by a unique label.
type Window interface {
	Label() string

	// GetSize returns the size of the drawable area in pixels.
	GetSize() (uint32, uint32)

	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

type WindowOptions struct {
	Label  string
	Title  string
	Width  int
	Height int
}

// EventHandler receives the events of all windows of a Shell. All methods
// are called on the main thread and must not block on work that
// needs the main thread.
type EventHandler interface {
	// Idle is called once per loop iteration after events were polled.
	Idle()

	// Resized is called with the new drawable size of a window.
	Resized(label string, width, height int)

	KeyPressed(label string, key Key)

	// Closed is called before the window is destroyed.
	Closed(label string)

	// Frame renders all windows. Returns false if nothing was rendered,
	// the shell then waits for new events.
	Frame() bool
}
