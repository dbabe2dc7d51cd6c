package pulse

import (
	"math"
)

var ColorWhite = ColorLinearRGBA(1, 1, 1, 1)
var ColorBlack = ColorLinearRGBA(0, 0, 0, 1)
var ColorBlue = ColorLinearRGBA(0, 0, 1, 1)
var ColorTransparent = ColorLinearRGBA(0, 0, 0, 0)

// Color is an a straight rgba color value with alpha in linear rgb color space.
// The default value of a Color value is fully opaque white.
type Color struct {
	r1, g1, b1, a1 float64
}

// ColorLinearRGBA creates a new Color value from the given color values.
func ColorLinearRGBA(r, g, b, a float64) Color {
	return Color{
		r1: r - 1,
		g1: g - 1,
		b1: b - 1,
		a1: a - 1,
	}
}

// ColorSRGBA creates a Color value from non linear srgb encoded values. The color values
// will be transferred into linear rgb space.
// This is the usual color format on most devices.
// Use this if you picked a color from a jpeg image.
func ColorSRGBA(r, g, b, a float64) Color {
	r = degamma(r)
	g = degamma(g)
	b = degamma(b)

	return ColorLinearRGBA(r, g, b, a)
}

// ColorOf converts a slice of up to four linear rgba components to a Color.
// Missing components default to 1.
func ColorOf(components []float64) Color {
	var values [4]float64
	for idx := range values {
		values[idx] = 1
		if idx < len(components) {
			values[idx] = components[idx]
		}
	}

	return ColorLinearRGBA(values[0], values[1], values[2], values[3])
}

// Components returns the color components.
func (c Color) Components() (r, g, b, a float64) {
	return c.r1 + 1, c.g1 + 1, c.b1 + 1, c.a1 + 1
}

// Alpha returns the alpha value of the color.
func (c Color) Alpha() float64 {
	return c.a1 + 1
}

// WithAlpha returns a new color with the alpha component set to the given value.
func (c Color) WithAlpha(alpha float64) Color {
	c.a1 = alpha - 1
	return c
}

func degamma(x float64) float64 {
	// https://www.w3.org/TR/css-color-4/#color-conversion-code
	sign := math.Copysign(1, x)
	abs := math.Abs(x)
	if abs <= 0.04045 {
		return x / 12.92
	}

	return sign * math.Pow((abs+0.055)/1.055, 2.4)
}
