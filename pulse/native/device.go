//go:build !js

package native

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/twinframe/pulse"
)

// Device encapsulates the adapter, the logical device and its queue.
type Device struct {
	adapter *wgpu.Adapter
	device  *wgpu.Device
	queue   *wgpu.Queue
	shaders *shaderCache
}

var _ pulse.Device = (*Device)(nil)

type pipeline struct {
	*wgpu.RenderPipeline
}

func (d *Device) CreateRenderPipeline(desc *pulse.PipelineDescriptor) (pulse.Pipeline, error) {
	// keeps the module from being evicted while the pipeline is created
	d.shaders.mu.Lock()
	defer d.shaders.mu.Unlock()

	shader, err := d.shaders.get(desc.Label+".Shader", desc.ShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}

	layout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label: desc.Label + ".Layout",
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	defer layout.Release()

	rp, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: desc.VertexEntry,
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: desc.FragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    wgpu.TextureFormat(desc.TargetFormat),
					Blend:     &wgpu.BlendStateReplace,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	return pipeline{RenderPipeline: rp}, nil
}

func (d *Device) Submit(target pulse.Frame, pass *pulse.RenderPass) error {
	fr, ok := target.(*frame)
	if !ok {
		return errors.New("frame was not acquired from a webgpu surface")
	}

	slog.Debug("Submit render pass",
		slog.String("label", pass.Label),
		slog.Int("draws", len(pass.Draws)),
	)

	enc, err := d.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: pass.Label,
	})
	if err != nil {
		return err
	}

	defer enc.Release()

	r, g, b, a := pass.ClearColor.Components()

	rp := enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: pass.Label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       fr.view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: r, G: g, B: b, A: a},
			},
		},
	})

	passGuard := pulse.NewReleaseGuard(rp)
	defer passGuard.Release()

	if pass.Pipeline != nil {
		pl, ok := pass.Pipeline.(pipeline)
		if !ok {
			return errors.New("pipeline was not created by a webgpu device")
		}

		rp.SetPipeline(pl.RenderPipeline)
	}

	for _, draw := range pass.Draws {
		rp.Draw(draw.VertexCount, draw.InstanceCount, draw.FirstVertex, draw.FirstInstance)
	}

	rp.End()

	// must release pass before finishing the encoder
	passGuard.Release()

	// encode into a command buffer
	buf, err := enc.Finish(&wgpu.CommandBufferDescriptor{Label: pass.Label})
	if err != nil {
		return err
	}

	defer buf.Release()

	d.queue.Submit(buf)

	return nil
}

func (d *Device) Release() {
	if d.shaders != nil {
		d.shaders.purge()
		d.shaders = nil
	}

	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}

	if d.device != nil {
		d.device.Release()
		d.device = nil
	}

	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
}
