// Package texture turns host textures into CPU rasters the classifier and
// compositor can read.
package texture

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/iconmine/asset"
	"github.com/gogpu/iconmine/blit"
	"github.com/gogpu/iconmine/internal/color"
	"github.com/gogpu/iconmine/internal/image"
)

// ErrNilTexture is returned when there is no texture to extract.
var ErrNilTexture = errors.New("texture: nil texture")

// Raster is a CPU-readable view of one texture. Release it once the pixels
// have been consumed; the view must not be used afterwards.
type Raster struct {
	img      *image.ImageBuf
	fastPath bool
	release  func()
	once     sync.Once
}

// Image returns the pixels.
func (r *Raster) Image() *image.ImageBuf { return r.img }

// FastPath reports whether the pixels alias the texture's own storage.
func (r *Raster) FastPath() bool { return r.fastPath }

// Release returns any intermediate copy to its pool. Safe to call twice.
func (r *Raster) Release() {
	r.once.Do(func() {
		if r.release != nil {
			r.release()
		}
		r.img = nil
	})
}

// Config wires an Extractor.
type Config struct {
	// Space is the active rendering color space. It picks the scratch
	// target's read/write convention.
	Space color.ColorSpace
	// Targets supplies scratch targets. Nil creates a pool with the
	// default budget.
	Targets *blit.Pool
	// Buffers recycles the CPU copies made by the fallback. Nil creates one.
	Buffers *image.Pool
	// Blitters are tried in order. Nil uses blit.Blitters() on each call.
	Blitters []blit.Blitter
	Logger   *slog.Logger
}

// Extractor produces Rasters. It is safe for concurrent use.
type Extractor struct {
	cfg Config
}

// NewExtractor creates an Extractor.
func NewExtractor(cfg Config) *Extractor {
	if cfg.Targets == nil {
		cfg.Targets = blit.NewPool(0)
	}
	if cfg.Buffers == nil {
		cfg.Buffers = image.NewPool(8)
	}
	if cfg.Logger == nil {
		cfg.Logger = blit.Logger()
	}
	return &Extractor{cfg: cfg}
}

// Targets returns the scratch pool in use.
func (e *Extractor) Targets() *blit.Pool { return e.cfg.Targets }

// Readable reports whether tex can be wrapped without a copy: CPU-readable,
// uncompressed 8-bit color with its pixels present.
func Readable(tex asset.Texture) bool {
	if !tex.Readable() || !asset.Is8BitColor(tex.Format()) {
		return false
	}
	want, _ := asset.DataSize(tex.Format(), tex.Width(), tex.Height())
	return len(tex.Pixels()) >= want
}

// Extract returns the pixels of tex.
func (e *Extractor) Extract(tex asset.Texture) (*Raster, error) {
	if tex == nil {
		return nil, ErrNilTexture
	}
	if Readable(tex) {
		img, err := image.FromRaw(tex.Pixels(), tex.Width(), tex.Height(), bufFormat(tex.Format(), tex.Premultiplied()), 0)
		if err != nil {
			return nil, fmt.Errorf("texture: wrap %s: %w", tex.Name(), err)
		}
		return &Raster{img: img, fastPath: true}, nil
	}

	e.cfg.Logger.Debug("texture not readable, rendering to scratch target",
		"texture", tex.Name(), "format", tex.Format().String(), "readable", tex.Readable())
	return e.fallback(tex)
}

// fallback renders tex into a scratch target and copies it out. The target
// is released on every path, including a panicking blitter.
func (e *Extractor) fallback(tex asset.Texture) (*Raster, error) {
	tgt, err := e.cfg.Targets.Acquire(tex.Width(), tex.Height(), targetFormat(e.cfg.Space))
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", tex.Name(), err)
	}
	defer func() {
		if err := e.cfg.Targets.Release(tgt); err != nil {
			e.cfg.Logger.Warn("release scratch target", "texture", tex.Name(), "err", err)
		}
	}()

	blitters := e.cfg.Blitters
	if blitters == nil {
		blitters = blit.Blitters()
	}
	used, err := blit.Run(blitters, tex, tgt)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}

	buf, err := e.cfg.Buffers.Get(tgt.Width, tgt.Height, image.FormatRGBA8.WithPremultiplied(tgt.Premultiplied))
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", tex.Name(), err)
	}
	copy(buf.Data(), tgt.Data)

	e.cfg.Logger.Debug("texture extracted via fallback", "texture", tex.Name(), "blitter", used)
	return &Raster{img: buf, release: func() { e.cfg.Buffers.Put(buf) }}, nil
}

func targetFormat(space color.ColorSpace) gputypes.TextureFormat {
	if space == color.ColorSpaceLinear {
		return gputypes.TextureFormatRGBA8Unorm
	}
	return gputypes.TextureFormatRGBA8UnormSrgb
}

func bufFormat(f gputypes.TextureFormat, premul bool) image.Format {
	if asset.IsBGRA(f) {
		return image.FormatBGRA8.WithPremultiplied(premul)
	}
	return image.FormatRGBA8.WithPremultiplied(premul)
}
