package pulse

import (
	"errors"
	"fmt"
)

var (
	// ErrConstruction matches every ConstructionError.
	ErrConstruction = errors.New("graphics context construction failed")

	// ErrFrameSkipped is returned by Render if no image could be acquired from the
	// surface. The frame is dropped, a later resize is expected to restore the surface.
	ErrFrameSkipped = errors.New("frame skipped")

	// ErrReleased is returned for operations on a released GraphicsContext.
	ErrReleased = errors.New("graphics context released")
)

type Stage string

const (
	StageSize     Stage = "size"
	StageSurface  Stage = "surface"
	StageAdapter  Stage = "adapter"
	StageDevice   Stage = "device"
	StageFormat   Stage = "format"
	StagePipeline Stage = "pipeline"
)

// ConstructionError is returned if a GraphicsContext could not be created.
// The window stays without a renderer.
type ConstructionError struct {
	Stage Stage
	Err   error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct graphics context (%s): %s", e.Stage, e.Err)
}

func (e *ConstructionError) Unwrap() []error {
	return []error{ErrConstruction, e.Err}
}

// NewConstructionError wraps err as a failure in the given stage.
// Errors that already are a ConstructionError are returned unchanged.
func NewConstructionError(stage Stage, err error) error {
	var ce *ConstructionError
	if errors.As(err, &ce) {
		return err
	}

	return &ConstructionError{Stage: stage, Err: err}
}
