package pulse

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// TextureFormat is a backend texture format value. The core never interprets
// it, it only passes the platform's choice along.
type TextureFormat uint32

// AlphaMode is a backend composite alpha mode value.
type AlphaMode uint32

type PresentMode uint32

const (
	PresentModeFifo PresentMode = iota
	PresentModeMailbox
	PresentModeImmediate
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeFifo:
		return "fifo"
	case PresentModeMailbox:
		return "mailbox"
	case PresentModeImmediate:
		return "immediate"
	default:
		return fmt.Sprintf("PresentMode(%d)", uint32(m))
	}
}

// ParsePresentMode parses the lower case name of a present mode.
// The empty string maps to PresentModeFifo.
func ParsePresentMode(name string) (PresentMode, error) {
	switch strings.ToLower(name) {
	case "", "fifo":
		return PresentModeFifo, nil
	case "mailbox":
		return PresentModeMailbox, nil
	case "immediate":
		return PresentModeImmediate, nil
	default:
		return 0, fmt.Errorf("unknown present mode %q", name)
	}
}

// SurfaceCapabilities lists what a surface supports, in platform order.
type SurfaceCapabilities struct {
	Formats    []TextureFormat
	AlphaModes []AlphaMode
}

// SurfaceConfig describes how a surface is configured.
// Width and Height are never zero.
type SurfaceConfig struct {
	Format      TextureFormat
	Width       uint32
	Height      uint32
	PresentMode PresentMode
	AlphaMode   AlphaMode
}

// ClampDimension maps a requested surface dimension to a valid one.
// A surface of size zero can not be configured, so anything below 1 becomes 1.
func ClampDimension[T constraints.Integer](value T) uint32 {
	if value < 1 {
		return 1
	}

	return uint32(value)
}
