package pulse

// RenderPass holds all the commands recorded for one frame. It targets
// the color attachment of a single acquired Frame.
type RenderPass struct {
	Label string

	// The color attachment is cleared to this color on load
	ClearColor Color

	// Size of the target as configured when the pass was recorded
	Width  uint32
	Height uint32

	// Pipeline to bind before the draws. Nil for a clear only pass.
	Pipeline Pipeline

	Draws []DrawCall
}

// DrawCall is a non-indexed draw of procedural vertices.
type DrawCall struct {
	VertexCount   uint32
	InstanceCount uint32
	FirstVertex   uint32
	FirstInstance uint32
}

// ClearOnly returns true if the pass does nothing but clear its target.
func (p *RenderPass) ClearOnly() bool {
	return p.Pipeline == nil && len(p.Draws) == 0
}
