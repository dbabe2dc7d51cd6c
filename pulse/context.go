package pulse

import (
	"fmt"
	"log/slog"
	"sync"
)

// ContextOptions tune the construction of a GraphicsContext.
type ContextOptions struct {
	// Color the surface is cleared to every frame.
	// The zero value is opaque white.
	ClearColor Color

	PresentMode PresentMode
}

// GraphicsContext renders into the surface of one window. The device is shared
// with other contexts, surface and pipeline are owned exclusively.
//
// Resize and Render may be called concurrently.
type GraphicsContext struct {
	label string

	surface  Surface
	device   *Shared[Device]
	pipeline Pipeline

	clearColor Color

	// held shared by Render and Resize, exclusively by Release.
	lifetime sync.RWMutex

	// guards config and released
	mu       sync.Mutex
	config   SurfaceConfig
	released bool
}

// NewGraphicsContext creates a surface for the target, negotiates a device,
// builds the pipeline and configures the surface to the current size of the
// target. It must be called on the thread that owns GPU object creation.
func NewGraphicsContext(backend Backend, target SurfaceTarget, opts ContextOptions) (*GraphicsContext, error) {
	width, height := target.GetSize()
	if width == 0 || height == 0 {
		return nil, NewConstructionError(StageSize,
			fmt.Errorf("window %q has no drawable area (%dx%d)", target.Label(), width, height))
	}

	surface, device, err := backend.Open(target)
	if err != nil {
		return nil, NewConstructionError(StageSurface, err)
	}

	surfaceGuard := NewReleaseGuard(surface)
	defer surfaceGuard.Release()

	deviceGuard := NewReleaseGuard(device)
	defer deviceGuard.Release()

	caps := surface.Capabilities()

	pipeline, format, err := BuildPipeline(device.Value(), caps)
	if err != nil {
		return nil, err
	}

	pipelineGuard := NewReleaseGuard(pipeline)
	defer pipelineGuard.Release()

	config := SurfaceConfig{
		Format:      format,
		Width:       width,
		Height:      height,
		PresentMode: opts.PresentMode,
	}

	if len(caps.AlphaModes) > 0 {
		config.AlphaMode = caps.AlphaModes[0]
	}

	if err := surface.Configure(device.Value(), config); err != nil {
		return nil, NewConstructionError(StageSurface, fmt.Errorf("configure surface: %w", err))
	}

	surfaceGuard.Keep()
	deviceGuard.Keep()
	pipelineGuard.Keep()

	slog.Info("Graphics context created",
		slog.String("window", target.Label()),
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
		slog.Any("format", format),
	)

	return &GraphicsContext{
		label:      target.Label(),
		surface:    surface,
		device:     device,
		pipeline:   pipeline,
		clearColor: opts.ClearColor,
		config:     config,
	}, nil
}

func (c *GraphicsContext) Label() string {
	return c.label
}

// Config returns a copy of the current surface configuration.
func (c *GraphicsContext) Config() SurfaceConfig {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.config
}

// Resize reconfigures the surface to the given size. Dimensions below 1
// are clamped to 1.
func (c *GraphicsContext) Resize(width, height int) error {
	c.lifetime.RLock()
	defer c.lifetime.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return ErrReleased
	}

	c.config.Width = ClampDimension(width)
	c.config.Height = ClampDimension(height)

	slog.Debug("Resize surface",
		slog.String("window", c.label),
		slog.Int("width", int(c.config.Width)),
		slog.Int("height", int(c.config.Height)),
	)

	if err := c.surface.Configure(c.device.Value(), c.config); err != nil {
		return fmt.Errorf("configure surface of %q: %w", c.label, err)
	}

	return nil
}

// Render draws one frame. The frame is cleared in any case, the triangle is
// only drawn if shouldDraw is set. Returns an error wrapping ErrFrameSkipped
// if no image could be acquired from the surface.
func (c *GraphicsContext) Render(shouldDraw bool) error {
	c.lifetime.RLock()
	defer c.lifetime.RUnlock()

	// the config lock is only held for reading the current size,
	// never while talking to the gpu.
	c.mu.Lock()
	config, released := c.config, c.released
	c.mu.Unlock()

	if released {
		return ErrReleased
	}

	frame, err := c.surface.AcquireFrame()
	if err != nil {
		return fmt.Errorf("%w: acquire surface texture of %q: %w", ErrFrameSkipped, c.label, err)
	}

	frameGuard := NewReleaseGuard(frame)
	defer frameGuard.Release()

	pass := c.recordPass(config, shouldDraw)

	if err := c.device.Value().Submit(frame, &pass); err != nil {
		return fmt.Errorf("submit frame of %q: %w", c.label, err)
	}

	if err := frame.Present(); err != nil {
		return fmt.Errorf("present frame of %q: %w", c.label, err)
	}

	// we do not need to release the frame if present was successful
	frameGuard.Keep()

	return nil
}

func (c *GraphicsContext) recordPass(config SurfaceConfig, shouldDraw bool) RenderPass {
	pass := RenderPass{
		Label:      "Clear",
		ClearColor: c.clearColor,
		Width:      config.Width,
		Height:     config.Height,
	}

	if shouldDraw {
		pass.Label = "Triangle"
		pass.Pipeline = c.pipeline
		pass.Draws = []DrawCall{{VertexCount: 3, InstanceCount: 1}}
	}

	return pass
}

// Release frees the surface and pipeline and drops the reference to the device.
// It waits for a Render or Resize in progress. Releasing twice is a no-op.
func (c *GraphicsContext) Release() {
	c.lifetime.Lock()
	defer c.lifetime.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return
	}

	c.released = true

	c.pipeline.Release()
	c.surface.Release()
	c.device.Release()

	slog.Info("Graphics context released", slog.String("window", c.label))
}
