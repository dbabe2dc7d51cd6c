//go:build !js

package native

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/twinframe/pulse"
)

// Surface is the webgpu surface of a single window.
type Surface struct {
	surface *wgpu.Surface

	// the adapter the surface is rendered with. Owned by the device.
	adapter *wgpu.Adapter
}

var _ pulse.Surface = (*Surface)(nil)

func (s *Surface) Capabilities() pulse.SurfaceCapabilities {
	caps := s.surface.GetCapabilities(s.adapter)

	var result pulse.SurfaceCapabilities

	for _, format := range caps.Formats {
		result.Formats = append(result.Formats, pulse.TextureFormat(format))
	}

	for _, mode := range caps.AlphaModes {
		result.AlphaModes = append(result.AlphaModes, pulse.AlphaMode(mode))
	}

	return result
}

func (s *Surface) Configure(device pulse.Device, config pulse.SurfaceConfig) error {
	dev, ok := device.(*Device)
	if !ok {
		return errors.New("device is not a webgpu device")
	}

	presentMode, err := presentModeOf(config.PresentMode)
	if err != nil {
		return err
	}

	s.surface.Configure(s.adapter, dev.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      wgpu.TextureFormat(config.Format),
		Width:       config.Width,
		Height:      config.Height,
		PresentMode: presentMode,
		AlphaMode:   wgpu.CompositeAlphaMode(config.AlphaMode),
	})

	return nil
}

func (s *Surface) AcquireFrame() (pulse.Frame, error) {
	// get the surface texture (the actual screen)
	texture, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("create view: %w", err)
	}

	return &frame{surface: s.surface, texture: texture, view: view}, nil
}

func (s *Surface) Release() {
	if s.surface != nil {
		s.surface.Release()
		s.surface = nil
	}
}

type frame struct {
	surface *wgpu.Surface
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (f *frame) Width() uint32 {
	return f.texture.GetWidth()
}

func (f *frame) Height() uint32 {
	return f.texture.GetHeight()
}

func (f *frame) Present() error {
	f.surface.Present()
	f.Release()
	return nil
}

func (f *frame) Release() {
	if f.view != nil {
		f.view.Release()
		f.view = nil
	}

	if f.texture != nil {
		f.texture.Release()
		f.texture = nil
	}
}

func presentModeOf(mode pulse.PresentMode) (wgpu.PresentMode, error) {
	switch mode {
	case pulse.PresentModeFifo:
		return wgpu.PresentModeFifo, nil
	case pulse.PresentModeMailbox:
		return wgpu.PresentModeMailbox, nil
	case pulse.PresentModeImmediate:
		return wgpu.PresentModeImmediate, nil
	default:
		return 0, fmt.Errorf("unsupported present mode %s", mode)
	}
}
