package color

import "math"

// sRGBToLinearLUT maps every sRGB byte to its linear value.
var sRGBToLinearLUT [256]float32

func init() {
	for i := range sRGBToLinearLUT {
		sRGBToLinearLUT[i] = SRGBToLinearSlow(uint8(i))
	}
}

// SRGBToLinearFast converts an sRGB byte to linear using a lookup table.
//
// Classification touches every sampled pixel of every icon, so the per-byte
// transfer function is precomputed once.
//
//	r := SRGBToLinearFast(128) // ~0.2159 (not 0.5!)
func SRGBToLinearFast(s uint8) float32 {
	return sRGBToLinearLUT[s]
}

// SRGBToLinearSlow converts an sRGB byte to linear in float64 precision.
// Used to build the table and as the reference in tests.
func SRGBToLinearSlow(s uint8) float32 {
	sf := float64(s) / 255.0
	if sf <= 0.04045 {
		return float32(sf / 12.92)
	}
	return float32(math.Pow((sf+0.055)/1.055, 2.4))
}
