package iconmine

import (
	stdcolor "image/color"
	"runtime"

	"github.com/gogpu/iconmine/blit"
	"github.com/gogpu/iconmine/internal/color"
	"github.com/gogpu/iconmine/internal/luminance"
)

// ColorSpace selects how pixels are averaged and blended.
type ColorSpace = color.ColorSpace

const (
	// ColorSpaceGamma works on gamma-encoded values directly.
	ColorSpaceGamma = color.ColorSpaceGamma
	// ColorSpaceLinear decodes to linear light before any arithmetic.
	ColorSpaceLinear = color.ColorSpaceLinear
)

// Option configures a Miner.
//
// Example:
//
//	m := iconmine.New(src,
//	    iconmine.WithColorSpace(iconmine.ColorSpaceLinear),
//	    iconmine.WithWorkers(4),
//	)
type Option func(*options)

type options struct {
	space        color.ColorSpace
	workers      int
	prefix       string
	minAlpha     float32
	stride       int
	dark, light  color.Tagged
	allVariants  bool
	blitters     []blit.Blitter
	targetBudget uint64
}

func defaultOptions() options {
	return options{
		space:    color.ColorSpaceGamma,
		workers:  runtime.GOMAXPROCS(0),
		minAlpha: luminance.DefaultMinAlpha,
		stride:   1,
		dark:     color.Dark,
		light:    color.Light,
	}
}

// WithColorSpace sets the active rendering color space for the run.
func WithColorSpace(space ColorSpace) Option {
	return func(o *options) {
		o.space = space
	}
}

// WithWorkers bounds the number of icons processed at once.
// Values below 1 select GOMAXPROCS; 1 processes icons one after another.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithPrefix keeps only identifiers starting with prefix, compared
// case-insensitively.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithMinAlpha sets the alpha below which the classifier ignores a pixel.
// The default is 0.1; 0 counts every pixel. Values are clamped to [0,1].
func WithMinAlpha(a float32) Option {
	return func(o *options) {
		o.minAlpha = a
	}
}

// WithSampleStride makes the classifier sample every n-th column and row.
func WithSampleStride(n int) Option {
	return func(o *options) {
		o.stride = n
	}
}

// WithBackgrounds replaces the backgrounds light and dark icons are flattened
// onto. Colors are read as gamma-encoded; alpha is ignored.
func WithBackgrounds(dark, light stdcolor.Color) Option {
	return func(o *options) {
		o.dark = tagged(dark)
		o.light = tagged(light)
	}
}

// WithAllVariants renders every member of a family, not only the primary and
// secondary. Extra variants are written to the sink with RoleVariant and do
// not appear in the catalog entries.
func WithAllVariants(all bool) Option {
	return func(o *options) {
		o.allVariants = all
	}
}

// WithBlitters fixes the blitters tried for textures the CPU cannot read.
// By default the registered blitters are used in priority order.
func WithBlitters(b ...blit.Blitter) Option {
	return func(o *options) {
		o.blitters = b
	}
}

// WithTargetBudget bounds the bytes held by off-screen scratch targets.
// Zero selects blit.DefaultBudget.
func WithTargetBudget(bytes uint64) Option {
	return func(o *options) {
		o.targetBudget = bytes
	}
}

func tagged(c stdcolor.Color) color.Tagged {
	n := stdcolor.NRGBAModel.Convert(c).(stdcolor.NRGBA)
	return color.Gamma(n.R, n.G, n.B)
}

func rgba(t color.Tagged) stdcolor.RGBA {
	u := color.F32ToU8(t.In(color.ColorSpaceGamma))
	return stdcolor.RGBA{R: u.R, G: u.G, B: u.B, A: 255}
}
