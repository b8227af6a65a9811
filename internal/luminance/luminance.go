// Package luminance decides whether an icon reads as light or dark by
// averaging its visible pixels.
package luminance

import (
	"github.com/gogpu/iconmine/internal/color"
	"github.com/gogpu/iconmine/internal/image"
)

const (
	// DefaultMinAlpha is the alpha below which a pixel is ignored.
	DefaultMinAlpha = 0.1

	// Threshold is the luminance at or above which an icon is light.
	Threshold = 0.5

	// MinCoverage is the weighted coverage below which an icon is treated
	// as empty and classified dark.
	MinCoverage = 1e-5
)

// Options tune sampling. The zero value samples every pixel and ignores none;
// DefaultOptions applies the usual alpha threshold.
type Options struct {
	// MinAlpha in [0,1]: pixels with lower alpha are ignored. Values are
	// clamped; 0 keeps every pixel.
	MinAlpha float32
	// Stride samples every Stride-th column and row. Values below 1 mean 1.
	Stride int
}

// DefaultOptions samples every pixel with DefaultMinAlpha.
func DefaultOptions() Options {
	return Options{MinAlpha: DefaultMinAlpha, Stride: 1}
}

func (o Options) normalized() Options {
	o.MinAlpha = min(max(o.MinAlpha, 0), 1)
	if o.Stride < 1 {
		o.Stride = 1
	}
	return o
}

// Result is the outcome of a classification.
type Result struct {
	// Average is the alpha-weighted mean of the retained pixels, treated as
	// linear. Opaque black when nothing was retained.
	Average color.ColorF32
	// Coverage is total alpha weight over the number of sampled positions.
	Coverage float32
	// Luminance of Average.
	Luminance float32
	// Light is true when Luminance >= Threshold and the icon is not empty.
	Light bool
}

// Classify samples buf and computes its average luminance.
//
// space is the active rendering color space. In linear mode gamma-encoded
// pixels are decoded before averaging; in gamma mode the encoded values are
// averaged directly.
func Classify(buf *image.ImageBuf, space color.ColorSpace, opts Options) Result {
	opts = opts.normalized()
	res := Result{Average: color.ColorF32{A: 1}}
	if buf == nil {
		return res
	}

	w, h, s := buf.Width(), buf.Height(), opts.Stride
	sample := straightSampler(buf, space == color.ColorSpaceLinear)

	var sumR, sumG, sumB, weight float64
	for y := 0; y < h; y += s {
		for x := 0; x < w; x += s {
			c := sample(x, y)
			if c.A < opts.MinAlpha {
				continue
			}
			a := float64(c.A)
			sumR += float64(c.R) * a
			sumG += float64(c.G) * a
			sumB += float64(c.B) * a
			weight += a
		}
	}

	samples := ceilDiv(w, s) * ceilDiv(h, s)
	if samples > 0 {
		res.Coverage = float32(weight / float64(samples))
	}
	if weight > 0 {
		res.Average = color.ColorF32{
			R: float32(sumR / weight),
			G: float32(sumG / weight),
			B: float32(sumB / weight),
			A: 1,
		}
	}
	res.Luminance = color.RelativeLuminance(res.Average)
	res.Light = res.Coverage >= MinCoverage && res.Luminance >= Threshold
	return res
}

// IsLight is Classify reduced to its verdict.
func IsLight(buf *image.ImageBuf, space color.ColorSpace, opts Options) bool {
	return Classify(buf, space, opts).Light
}

// straightSampler returns a reader of straight-alpha pixels, decoded to
// linear when requested. Straight 8-bit sources go through the lookup table.
func straightSampler(buf *image.ImageBuf, linear bool) func(x, y int) color.ColorF32 {
	switch {
	case !linear:
		return buf.Straight
	case buf.Format().IsPremultiplied():
		return func(x, y int) color.ColorF32 {
			return color.SRGBToLinearColor(buf.Straight(x, y))
		}
	default:
		return func(x, y int) color.ColorF32 {
			r, g, b, a := buf.RGBA(x, y)
			return color.ColorF32{
				R: color.SRGBToLinearFast(r),
				G: color.SRGBToLinearFast(g),
				B: color.SRGBToLinearFast(b),
				A: float32(a) / 255,
			}
		}
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
