package pulse

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
)

//go:embed triangle.wgsl
var triangleShaderCode string

const (
	triangleVertexEntry   = "vs_main"
	triangleFragmentEntry = "fs_main"
)

// TriangleShaderSource returns the WGSL source of the procedural triangle.
func TriangleShaderSource() string {
	return triangleShaderCode
}

var validateTriangleShader = sync.OnceValue(func() error {
	if _, err := naga.Compile(triangleShaderCode); err != nil {
		return fmt.Errorf("compile triangle shader: %w", err)
	}

	return nil
})

// ValidateShader compiles the embedded shader offline to SPIR-V.
// It does not need a GPU and is only evaluated once per process.
func ValidateShader() error {
	return validateTriangleShader()
}
