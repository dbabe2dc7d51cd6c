package pulse

import (
	"errors"
	"fmt"
	"log/slog"
)

var errNoSurfaceFormat = errors.New("surface reports no supported formats")

// PipelineDescriptor describes a render pipeline without vertex buffers.
// Both stages live in the same WGSL module.
type PipelineDescriptor struct {
	Label string

	ShaderSource  string
	VertexEntry   string
	FragmentEntry string

	// Format of the single color target
	TargetFormat TextureFormat
}

// TrianglePipeline is the configuration of the pipeline that draws the
// single procedural triangle.
type TrianglePipeline struct {
	TargetFormat TextureFormat
}

// Specialize builds the pipeline on the given device.
func (conf TrianglePipeline) Specialize(dev Device) (Pipeline, error) {
	slog.Info(
		"Create RenderPipeline for triangle",
		slog.Any("format", conf.TargetFormat),
	)

	pipeline, err := dev.CreateRenderPipeline(&PipelineDescriptor{
		Label:         fmt.Sprintf("Triangle.%d", conf.TargetFormat),
		ShaderSource:  triangleShaderCode,
		VertexEntry:   triangleVertexEntry,
		FragmentEntry: triangleFragmentEntry,
		TargetFormat:  conf.TargetFormat,
	})

	if err != nil {
		return nil, fmt.Errorf("build triangle pipeline: %w", err)
	}

	return pipeline, nil
}

// ChooseFormat picks the surface format to render to. This is always the first
// format the platform reports, the order of the capabilities is authoritative.
func ChooseFormat(caps SurfaceCapabilities) (TextureFormat, error) {
	if len(caps.Formats) == 0 {
		return 0, errNoSurfaceFormat
	}

	return caps.Formats[0], nil
}

// BuildPipeline negotiates the output format from the surface capabilities and
// compiles the triangle pipeline for it on dev.
func BuildPipeline(dev Device, caps SurfaceCapabilities) (Pipeline, TextureFormat, error) {
	format, err := ChooseFormat(caps)
	if err != nil {
		return nil, 0, NewConstructionError(StageFormat, err)
	}

	pipeline, err := TrianglePipeline{TargetFormat: format}.Specialize(dev)
	if err != nil {
		return nil, 0, NewConstructionError(StagePipeline, err)
	}

	return pipeline, format, nil
}
