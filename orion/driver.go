package orion

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oliverbestmann/twinframe/pulse"
)

// ResizePolicy decides what happens to a resize event that does not say
// which window was resized.
type ResizePolicy int

const (
	// ResizeBroadcast resizes every registered context.
	ResizeBroadcast ResizePolicy = iota

	// ResizeDrop ignores the event.
	ResizeDrop
)

func ParseResizePolicy(name string) (ResizePolicy, error) {
	switch name {
	case "", "broadcast":
		return ResizeBroadcast, nil
	case "drop":
		return ResizeDrop, nil
	default:
		return 0, fmt.Errorf("unknown resize policy %q", name)
	}
}

// FrameReport summarizes one frame tick.
type FrameReport struct {
	// windows that presented a frame
	Rendered int

	// windows that presented a frame containing the triangle
	Drawn int

	// windows that could not acquire an image
	Skipped int

	// windows that failed otherwise
	Failed int
}

// Driver reacts to the shell's frame and resize events.
type Driver struct {
	registry *Registry
	toggles  *Toggles
	policy   ResizePolicy

	mu    sync.Mutex
	times FrameTimes
	now   func() time.Time
}

func NewDriver(registry *Registry, toggles *Toggles, policy ResizePolicy) *Driver {
	return &Driver{
		registry: registry,
		toggles:  toggles,
		policy:   policy,
		now:      time.Now,
	}
}

// Frame renders every registered window once. The toggles are read once
// for the whole frame. A failing window does not keep the others from rendering.
func (d *Driver) Frame() (FrameReport, error) {
	var report FrameReport

	toggles, err := d.toggles.Snapshot()
	if err != nil {
		return report, fmt.Errorf("read render toggles: %w", err)
	}

	entries, err := d.registry.Entries()
	if err != nil {
		return report, fmt.Errorf("list graphics contexts: %w", err)
	}

	var failures []error

	for _, entry := range entries {
		draw := toggles.Draw(entry.Label)

		slog.Debug("Render window",
			slog.String("window", entry.Label),
			slog.Bool("draw", draw),
		)

		err := entry.Context.Render(draw)

		switch {
		case err == nil:
			report.Rendered++
			if draw {
				report.Drawn++
			}

		case errors.Is(err, pulse.ErrReleased):
			// window closed while we were rendering

		case errors.Is(err, pulse.ErrFrameSkipped):
			report.Skipped++
			slog.Warn("Skip frame", slog.String("window", entry.Label), slog.Any("err", err))

		default:
			report.Failed++
			failures = append(failures, fmt.Errorf("render %q: %w", entry.Label, err))
		}
	}

	d.tick(report)

	return report, errors.Join(failures...)
}

func (d *Driver) tick(report FrameReport) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if report.Skipped > 0 {
		d.times.SkippedFrames++
	}

	if d.times.Tick(d.now()) {
		slog.Debug("Frame statistics",
			slog.Float64("fps", d.times.FPS()),
			slog.Duration("max", d.times.MaxDuration),
			slog.Uint64("skipped", d.times.SkippedFrames),
		)
	}
}

// Stats returns a copy of the frame statistics.
func (d *Driver) Stats() FrameTimes {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.times
}

// Resize applies a new drawable size to the window. An empty label is
// handled according to the ResizePolicy. Resizing a window without
// a context is not an error.
func (d *Driver) Resize(label string, width, height int) error {
	if label == "" {
		return d.resizeUnlabeled(width, height)
	}

	ctx, ok, err := d.registry.Get(label)
	if err != nil {
		return fmt.Errorf("lookup graphics context: %w", err)
	}

	if !ok {
		slog.Debug("Ignore resize of window without renderer", slog.String("window", label))
		return nil
	}

	return resizeContext(label, ctx, width, height)
}

func (d *Driver) resizeUnlabeled(width, height int) error {
	if d.policy == ResizeDrop {
		slog.Debug("Drop resize event without window")
		return nil
	}

	entries, err := d.registry.Entries()
	if err != nil {
		return fmt.Errorf("list graphics contexts: %w", err)
	}

	var failures []error
	for _, entry := range entries {
		if err := resizeContext(entry.Label, entry.Context, width, height); err != nil {
			failures = append(failures, err)
		}
	}

	return errors.Join(failures...)
}

func resizeContext(label string, ctx *pulse.GraphicsContext, width, height int) error {
	err := ctx.Resize(width, height)
	if errors.Is(err, pulse.ErrReleased) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("resize %q: %w", label, err)
	}

	return nil
}
