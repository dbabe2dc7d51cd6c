package pulsetest

import (
	"errors"
	"slices"
	"sync"

	"github.com/oliverbestmann/twinframe/pulse"
)

type Surface struct {
	label   string
	formats []pulse.TextureFormat

	mu          sync.Mutex
	configs     []pulse.SurfaceConfig
	current     pulse.SurfaceConfig
	failures    int
	presented   int
	discarded   int
	released    bool
	onAcquire   func()
	onConfigure func()
}

var _ pulse.Surface = (*Surface)(nil)

func (s *Surface) Capabilities() pulse.SurfaceCapabilities {
	return pulse.SurfaceCapabilities{
		Formats:    slices.Clone(s.formats),
		AlphaModes: []pulse.AlphaMode{1, 2},
	}
}

func (s *Surface) Configure(device pulse.Device, config pulse.SurfaceConfig) error {
	s.mu.Lock()
	hook := s.onConfigure
	s.mu.Unlock()

	if hook != nil {
		hook()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return errors.New("configure of released surface")
	}

	if config.Width == 0 || config.Height == 0 {
		return errors.New("surface size must not be zero")
	}

	s.configs = append(s.configs, config)
	s.current = config

	return nil
}

func (s *Surface) AcquireFrame() (pulse.Frame, error) {
	s.mu.Lock()
	hook := s.onAcquire
	s.mu.Unlock()

	if hook != nil {
		hook()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failures > 0 {
		s.failures--
		return nil, ErrAcquire
	}

	if s.released {
		return nil, errors.New("acquire from released surface")
	}

	return &Frame{surface: s, width: s.current.Width, height: s.current.Height}, nil
}

// FailAcquire lets the next n calls to AcquireFrame fail with ErrAcquire.
func (s *Surface) FailAcquire(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures = n
}

// OnAcquire installs a hook that runs at the start of every AcquireFrame.
func (s *Surface) OnAcquire(hook func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onAcquire = hook
}

// OnConfigure installs a hook that runs at the start of every Configure.
func (s *Surface) OnConfigure(hook func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onConfigure = hook
}

// Configs returns every configuration applied to the surface.
func (s *Surface) Configs() []pulse.SurfaceConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.configs)
}

// Current returns the configuration last applied to the surface.
func (s *Surface) Current() pulse.SurfaceConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

// Presented returns the number of frames presented to the surface.
func (s *Surface) Presented() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.presented
}

// Discarded returns the number of frames released without being presented.
func (s *Surface) Discarded() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.discarded
}

func (s *Surface) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.released
}

func (s *Surface) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.released = true
}

type Frame struct {
	surface   *Surface
	width     uint32
	height    uint32
	submitted bool
	done      bool
}

func (f *Frame) Width() uint32 {
	return f.width
}

func (f *Frame) Height() uint32 {
	return f.height
}

func (f *Frame) Present() error {
	if f.done {
		return errors.New("frame already finished")
	}

	if !f.submitted {
		return errors.New("present without submitted commands")
	}

	f.done = true

	f.surface.mu.Lock()
	defer f.surface.mu.Unlock()

	f.surface.presented++

	return nil
}

func (f *Frame) Release() {
	if f.done {
		return
	}

	f.done = true

	f.surface.mu.Lock()
	defer f.surface.mu.Unlock()

	f.surface.discarded++
}
