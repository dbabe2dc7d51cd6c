// Package pulsetest provides an in-memory pulse.Backend that records every
// configuration and submitted render pass instead of talking to a GPU.
package pulsetest

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/oliverbestmann/twinframe/pulse"
)

var ErrAcquire = errors.New("surface outdated")

// Target is a window stand-in with a fixed label and a mutable size.
type Target struct {
	mu     sync.Mutex
	label  string
	width  uint32
	height uint32
}

func NewTarget(label string, width, height uint32) *Target {
	return &Target{label: label, width: width, height: height}
}

func (t *Target) Label() string {
	return t.label
}

func (t *Target) GetSize() (uint32, uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.width, t.height
}

func (t *Target) SetSize(width, height uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.width, t.height = width, height
}

// Backend hands out one shared Device for all surfaces, like a real
// backend does when a single adapter serves every window.
type Backend struct {
	mu sync.Mutex

	// Formats reported by new surfaces, in this order.
	Formats []pulse.TextureFormat

	// If set, Open fails with this error.
	OpenErr error

	// If set, the device fails to create pipelines with this error.
	PipelineErr error

	device   *Device
	shared   *pulse.Shared[pulse.Device]
	surfaces map[string][]*Surface
}

var _ pulse.Backend = (*Backend)(nil)

func NewBackend() *Backend {
	return &Backend{
		Formats:  []pulse.TextureFormat{23, 24},
		surfaces: map[string][]*Surface{},
	}
}

func (b *Backend) Open(target pulse.SurfaceTarget) (pulse.Surface, *pulse.Shared[pulse.Device], error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.OpenErr != nil {
		return nil, nil, pulse.NewConstructionError(pulse.StageAdapter, b.OpenErr)
	}

	surface := &Surface{
		label:   target.Label(),
		formats: slices.Clone(b.Formats),
	}

	if b.surfaces == nil {
		b.surfaces = map[string][]*Surface{}
	}

	b.surfaces[target.Label()] = append(b.surfaces[target.Label()], surface)

	if b.shared == nil || b.shared.Refs() == 0 {
		b.device = &Device{pipelineErr: b.PipelineErr}
		b.shared = pulse.NewShared[pulse.Device](b.device)
		return surface, b.shared, nil
	}

	return surface, b.shared.Retain(), nil
}

// Device returns the device shared by all surfaces, nil before the first Open.
func (b *Backend) Device() *Device {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.device
}

// Surface returns the most recent surface opened for label.
func (b *Backend) Surface(label string) *Surface {
	b.mu.Lock()
	defer b.mu.Unlock()

	surfaces := b.surfaces[label]
	if len(surfaces) == 0 {
		return nil
	}

	return surfaces[len(surfaces)-1]
}

// Surfaces returns every surface ever opened for label.
func (b *Backend) Surfaces(label string) []*Surface {
	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Clone(b.surfaces[label])
}

// Submission is a render pass as seen by the device.
type Submission struct {
	Surface string
	Pass    pulse.RenderPass
}

type Device struct {
	mu          sync.Mutex
	pipelineErr error
	pipelines   []*Pipeline
	submissions []Submission
	released    bool
}

var _ pulse.Device = (*Device)(nil)

func (d *Device) CreateRenderPipeline(desc *pulse.PipelineDescriptor) (pulse.Pipeline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pipelineErr != nil {
		return nil, d.pipelineErr
	}

	pipeline := &Pipeline{Descriptor: *desc}
	d.pipelines = append(d.pipelines, pipeline)

	return pipeline, nil
}

func (d *Device) Submit(target pulse.Frame, pass *pulse.RenderPass) error {
	fr, ok := target.(*Frame)
	if !ok {
		return fmt.Errorf("unexpected frame type %T", target)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return errors.New("submit to released device")
	}

	recorded := *pass
	recorded.Draws = slices.Clone(pass.Draws)

	d.submissions = append(d.submissions, Submission{Surface: fr.surface.label, Pass: recorded})
	fr.submitted = true

	return nil
}

// Submissions returns all passes submitted so far.
func (d *Device) Submissions() []Submission {
	d.mu.Lock()
	defer d.mu.Unlock()

	return slices.Clone(d.submissions)
}

// SubmissionsFor returns the passes submitted to the surface of label.
func (d *Device) SubmissionsFor(label string) []pulse.RenderPass {
	d.mu.Lock()
	defer d.mu.Unlock()

	var passes []pulse.RenderPass
	for _, sub := range d.submissions {
		if sub.Surface == label {
			passes = append(passes, sub.Pass)
		}
	}

	return passes
}

func (d *Device) Pipelines() []*Pipeline {
	d.mu.Lock()
	defer d.mu.Unlock()

	return slices.Clone(d.pipelines)
}

func (d *Device) Released() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.released
}

func (d *Device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.released = true
}

type Pipeline struct {
	Descriptor pulse.PipelineDescriptor

	mu       sync.Mutex
	released bool
}

func (p *Pipeline) Released() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.released
}

func (p *Pipeline) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.released = true
}
