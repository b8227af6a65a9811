package color

import "math"

// SRGBToLinear converts an sRGB component to linear (EOTF).
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4)
func SRGBToLinear(s float32) float32 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return float32(math.Pow(float64((s+0.055)/1.055), 2.4))
}

// LinearToSRGB converts a linear component to sRGB (OETF).
// Formula: if l <= 0.0031308: l*12.92; else: 1.055*pow(l, 1/2.4)-0.055
func LinearToSRGB(l float32) float32 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*float32(math.Pow(float64(l), 1.0/2.4)) - 0.055
}

// SRGBToLinearColor converts RGB from sRGB to linear; alpha is untouched.
func SRGBToLinearColor(c ColorF32) ColorF32 {
	return ColorF32{
		R: SRGBToLinear(c.R),
		G: SRGBToLinear(c.G),
		B: SRGBToLinear(c.B),
		A: c.A,
	}
}

// LinearToSRGBColor converts RGB from linear to sRGB; alpha is untouched.
func LinearToSRGBColor(c ColorF32) ColorF32 {
	return ColorF32{
		R: LinearToSRGB(c.R),
		G: LinearToSRGB(c.G),
		B: LinearToSRGB(c.B),
		A: c.A,
	}
}

// U8ToF32 maps each component from [0,255] to [0,1].
func U8ToF32(c ColorU8) ColorF32 {
	return ColorF32{
		R: float32(c.R) / 255.0,
		G: float32(c.G) / 255.0,
		B: float32(c.B) / 255.0,
		A: float32(c.A) / 255.0,
	}
}

// F32ToU8 maps each component from [0,1] to [0,255] using Quantize.
func F32ToU8(c ColorF32) ColorU8 {
	return ColorU8{
		R: Quantize(c.R),
		G: Quantize(c.G),
		B: Quantize(c.B),
		A: Quantize(c.A),
	}
}

// Quantize scales v to [0,255], rounds half to even and clamps.
func Quantize(v float32) uint8 {
	q := math.RoundToEven(float64(v) * 255)
	if q <= 0 {
		return 0
	}
	if q >= 255 {
		return 255
	}
	return uint8(q)
}

// RelativeLuminance returns the Rec. 709 luminance of a linear color.
func RelativeLuminance(c ColorF32) float32 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}
