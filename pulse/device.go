package pulse

import (
	"sync/atomic"
)

// Device is a logical GPU device together with its command queue.
// A Device may back the surfaces of more than one window, see Shared.
type Device interface {
	Releaser

	// CreateRenderPipeline compiles the shader stages and fixed function state
	// described by desc. Intermediate shader modules are owned by the implementation.
	CreateRenderPipeline(desc *PipelineDescriptor) (Pipeline, error)

	// Submit encodes the given pass into a command buffer targeting the frame
	// and submits it to the queue. It does not present the frame.
	Submit(frame Frame, pass *RenderPass) error
}

// Pipeline is a compiled render pipeline. It is immutable after construction.
type Pipeline interface {
	Releaser
}

// Surface is the presentable target bound to a single window.
type Surface interface {
	Releaser

	// Capabilities as reported by the platform for the adapter
	// this surface was created against. The order is significant.
	Capabilities() SurfaceCapabilities

	// Configure (re)configures the surface for rendering with device.
	Configure(device Device, config SurfaceConfig) error

	// AcquireFrame returns the next presentable image of the surface.
	AcquireFrame() (Frame, error)
}

// Frame is an image acquired from a Surface. It must either be presented
// or released.
type Frame interface {
	Releaser

	Width() uint32
	Height() uint32

	// Present hands the frame back to the platform for display. A presented
	// frame does not need to be released.
	Present() error
}

// SurfaceTarget is the window side of a surface: something that has a size and
// can be turned into a platform surface by a Backend.
type SurfaceTarget interface {
	Label() string
	GetSize() (uint32, uint32)
}

// Backend creates surfaces and negotiates devices able to render to them.
// All methods must be called from the thread that owns GPU object creation.
type Backend interface {
	// Open creates a surface for the target and returns it together with
	// a device that is compatible with it. The caller owns one reference
	// of the returned shared device.
	Open(target SurfaceTarget) (Surface, *Shared[Device], error)
}

// Shared is a reference counted handle. The wrapped value is
// released once the last reference is released.
type Shared[T Releaser] struct {
	value T
	refs  atomic.Int32
}

// NewShared wraps value into a Shared handle holding one reference.
func NewShared[T Releaser](value T) *Shared[T] {
	s := &Shared[T]{value: value}
	s.refs.Store(1)
	return s
}

// Retain acquires another reference and returns the handle.
func (s *Shared[T]) Retain() *Shared[T] {
	if s.refs.Add(1) <= 1 {
		panic("retain of released shared handle")
	}

	return s
}

func (s *Shared[T]) Value() T {
	return s.value
}

// Refs returns the number of outstanding references.
func (s *Shared[T]) Refs() int {
	return int(s.refs.Load())
}

// Release drops one reference.
func (s *Shared[T]) Release() {
	switch refs := s.refs.Add(-1); {
	case refs == 0:
		s.value.Release()

	case refs < 0:
		panic("shared handle released too often")
	}
}

type Releaser interface {
	Release()
}

type ReleaseGuard struct {
	delegate Releaser
}

func NewReleaseGuard(delegate Releaser) ReleaseGuard {
	return ReleaseGuard{delegate: delegate}
}

func (r *ReleaseGuard) Keep() {
	r.delegate = nil
}

func (r *ReleaseGuard) Release() {
	if r.delegate != nil {
		r.delegate.Release()
		r.delegate = nil
	}
}
