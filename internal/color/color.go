// Package color provides the color space math used by the icon pipeline:
// sRGB transfer functions, relative luminance and color literals tagged
// with the space their components are expressed in.
package color

import "fmt"

// ColorSpace identifies how RGB components are encoded.
type ColorSpace uint8

const (
	// ColorSpaceGamma means components are sRGB gamma-encoded.
	ColorSpaceGamma ColorSpace = iota
	// ColorSpaceLinear means components are linear light.
	ColorSpaceLinear
)

// String returns "gamma" or "linear".
func (s ColorSpace) String() string {
	switch s {
	case ColorSpaceGamma:
		return "gamma"
	case ColorSpaceLinear:
		return "linear"
	default:
		return fmt.Sprintf("ColorSpace(%d)", uint8(s))
	}
}

// ColorF32 represents a color with float32 components in [0,1].
// RGB components are in the color space indicated by context.
// Alpha is always linear (never gamma-encoded).
type ColorF32 struct {
	R, G, B, A float32
}

// ColorU8 represents a color with uint8 components in [0,255].
// Alpha is always linear.
type ColorU8 struct {
	R, G, B, A uint8
}

// Tagged is a color that carries the space its RGB components are in.
// Converting between spaces is always explicit through In.
type Tagged struct {
	C     ColorF32
	Space ColorSpace
}

// In returns the color expressed in the requested space.
func (t Tagged) In(space ColorSpace) ColorF32 {
	switch {
	case t.Space == space:
		return t.C
	case space == ColorSpaceLinear:
		return SRGBToLinearColor(t.C)
	default:
		return LinearToSRGBColor(t.C)
	}
}

// Gamma returns an opaque gamma-encoded color from 8-bit components.
func Gamma(r, g, b uint8) Tagged {
	return Tagged{C: U8ToF32(ColorU8{R: r, G: g, B: b, A: 255}), Space: ColorSpaceGamma}
}

// Catalog backgrounds. Light icons are shown on Dark and vice versa.
var (
	// Dark is the GitHub dark theme canvas, #0d1117.
	Dark = Gamma(0x0d, 0x11, 0x17)
	// Light is plain white, #ffffff.
	Light = Gamma(0xff, 0xff, 0xff)
)
