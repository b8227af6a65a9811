// Package composite flattens an icon onto a solid background.
package composite

import (
	"errors"

	"github.com/gogpu/iconmine/internal/color"
	"github.com/gogpu/iconmine/internal/image"
	"github.com/gogpu/iconmine/internal/parallel"
)

// ErrNilSource is returned when there is no source raster to composite.
var ErrNilSource = errors.New("composite: nil source")

// Over composites src over the opaque background bg and returns an RGB8
// buffer.
//
// Blending happens in linear light when space is linear and on the encoded
// values otherwise. The result is always gamma-encoded.
func Over(src *image.ImageBuf, bg color.Tagged, space color.ColorSpace) (*image.ImageBuf, error) {
	return OverParallel(src, bg, space, nil)
}

// OverParallel is Over with rows split across pool. A nil pool runs on the
// calling goroutine. The output is identical either way.
func OverParallel(src *image.ImageBuf, bg color.Tagged, space color.ColorSpace, pool *parallel.WorkerPool) (*image.ImageBuf, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	dst, err := image.NewImageBuf(src.Width(), src.Height(), image.FormatRGB8)
	if err != nil {
		return nil, err
	}

	b := newBlender(bg, space)
	if pool == nil || pool.Workers() < 2 || src.Height() < 2 {
		b.rows(src, dst, 0, src.Height())
		return dst, nil
	}

	bands := min(pool.Workers(), src.Height())
	step := (src.Height() + bands - 1) / bands
	work := make([]func(), 0, bands)
	for y0 := 0; y0 < src.Height(); y0 += step {
		y1 := min(y0+step, src.Height())
		work = append(work, func() { b.rows(src, dst, y0, y1) })
	}
	pool.ExecuteAll(work)
	return dst, nil
}

type blender struct {
	linear bool
	bg     color.ColorF32 // in the working space
}

func newBlender(bg color.Tagged, space color.ColorSpace) blender {
	linear := space == color.ColorSpaceLinear
	work := color.ColorSpaceGamma
	if linear {
		work = color.ColorSpaceLinear
	}
	return blender{linear: linear, bg: bg.In(work)}
}

func (b blender) rows(src, dst *image.ImageBuf, y0, y1 int) {
	for y := y0; y < y1; y++ {
		out := dst.RowBytes(y)
		for x := range src.Width() {
			c := b.pixel(src.Straight(x, y))
			out[x*3] = c.R
			out[x*3+1] = c.G
			out[x*3+2] = c.B
		}
	}
}

// pixel blends one straight-alpha, gamma-encoded source pixel.
func (b blender) pixel(s color.ColorF32) color.ColorU8 {
	if b.linear {
		s = color.SRGBToLinearColor(s)
	}
	a := s.A
	// Explicit conversions keep each product rounded, so the result does
	// not depend on whether the target fuses multiply-add.
	o := color.ColorF32{
		R: float32(s.R*a) + float32(b.bg.R*(1-a)),
		G: float32(s.G*a) + float32(b.bg.G*(1-a)),
		B: float32(s.B*a) + float32(b.bg.B*(1-a)),
		A: 1,
	}
	if b.linear {
		o = color.LinearToSRGBColor(o)
	}
	return color.F32ToU8(o)
}
