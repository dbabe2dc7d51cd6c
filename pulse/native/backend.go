//go:build !js

package native

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/twinframe/pulse"
)

var forceFallbackAdapter = os.Getenv("WGPU_FORCE_FALLBACK_ADAPTER") == "1"

func init() {
	runtime.LockOSThread()

	switch strings.ToUpper(os.Getenv("WGPU_LOG_LEVEL")) {
	case "OFF":
		wgpu.SetLogLevel(wgpu.LogLevelOff)
	case "ERROR":
		wgpu.SetLogLevel(wgpu.LogLevelError)
	case "WARN":
		wgpu.SetLogLevel(wgpu.LogLevelWarn)
	case "INFO":
		wgpu.SetLogLevel(wgpu.LogLevelInfo)
	case "DEBUG":
		wgpu.SetLogLevel(wgpu.LogLevelDebug)
	case "TRACE":
		wgpu.SetLogLevel(wgpu.LogLevelTrace)
	}
}

// SurfaceSource is implemented by windows that can describe their
// platform surface to webgpu.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

type Options struct {
	ForceFallbackAdapter bool
}

// Backend owns the webgpu instance. The first negotiated device is kept
// and handed out again for every later surface its adapter can render to.
type Backend struct {
	instance *wgpu.Instance
	opts     Options

	mu     sync.Mutex
	device *pulse.Shared[pulse.Device]
}

var _ pulse.Backend = (*Backend)(nil)

func New(opts Options) *Backend {
	opts.ForceFallbackAdapter = opts.ForceFallbackAdapter || forceFallbackAdapter

	return &Backend{
		instance: wgpu.CreateInstance(nil),
		opts:     opts,
	}
}

func (b *Backend) Open(target pulse.SurfaceTarget) (surf pulse.Surface, dev *pulse.Shared[pulse.Device], err error) {
	source, ok := target.(SurfaceSource)
	if !ok {
		return nil, nil, pulse.NewConstructionError(pulse.StageSurface,
			fmt.Errorf("window %q can not provide a webgpu surface", target.Label()))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// create a Surface based on the window
	s := &Surface{surface: b.instance.CreateSurface(source.SurfaceDescriptor())}

	defer func() {
		if err != nil {
			s.Release()
		}
	}()

	if b.device != nil {
		shared := b.device.Value().(*Device)

		caps := s.surface.GetCapabilities(shared.adapter)
		if len(caps.Formats) > 0 {
			slog.Debug("Reuse device for new surface", slog.String("window", target.Label()))
			s.adapter = shared.adapter
			return s, b.device.Retain(), nil
		}

		slog.Info("Shared adapter can not render to surface, negotiate a new device",
			slog.String("window", target.Label()))
	}

	device, err := b.requestDevice(s.surface)
	if err != nil {
		return nil, nil, err
	}

	s.adapter = device.adapter

	shared := pulse.NewShared[pulse.Device](device)

	if b.device == nil {
		// keep a reference for the next window
		b.device = shared.Retain()
	}

	return s, shared, nil
}

func (b *Backend) requestDevice(surface *wgpu.Surface) (*Device, error) {
	dev := &Device{}

	devGuard := pulse.NewReleaseGuard(dev)
	defer devGuard.Release()

	// create an adapter that can render to the Surface
	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.opts.ForceFallbackAdapter,
		CompatibleSurface:    surface,
	})

	if err != nil {
		return nil, pulse.NewConstructionError(pulse.StageAdapter, err)
	}

	if adapter == nil {
		return nil, pulse.NewConstructionError(pulse.StageAdapter, errors.New("no appropriate adapter found"))
	}

	dev.adapter = adapter

	dev.device, err = dev.adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})

	if err != nil {
		return nil, pulse.NewConstructionError(pulse.StageDevice, err)
	}

	dev.queue = dev.device.GetQueue()
	dev.shaders = newShaderCache(dev.device)

	devGuard.Keep()

	return dev, nil
}

// Release drops the reference to the shared device and the instance.
// Contexts still holding the device keep it alive.
func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device != nil {
		b.device.Release()
		b.device = nil
	}

	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
