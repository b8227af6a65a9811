package asset

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Texture is a source icon as the host holds it.
type Texture interface {
	gpucontext.Texture

	// Name is the identifier the texture was loaded under.
	Name() string

	// Format is the storage format of Pixels.
	Format() gputypes.TextureFormat

	// Readable reports whether Pixels may be read directly by the CPU.
	Readable() bool

	// Premultiplied reports whether color channels are multiplied by alpha.
	Premultiplied() bool

	// Pixels returns the raw storage, tightly packed rows for uncompressed
	// formats and row-major blocks for block-compressed formats.
	Pixels() []byte
}

// ErrInvalidTexture is returned when a texture's size and payload disagree.
var ErrInvalidTexture = errors.New("asset: invalid texture")

// TextureOption configures a texture built by NewTexture.
type TextureOption func(*memTexture)

// Unreadable marks the texture as not CPU-readable, forcing the fallback
// extraction path.
func Unreadable() TextureOption {
	return func(t *memTexture) { t.readable = false }
}

// PremultipliedAlpha marks the texture's color as premultiplied.
func PremultipliedAlpha() TextureOption {
	return func(t *memTexture) { t.premul = true }
}

type memTexture struct {
	name          string
	width, height int
	format        gputypes.TextureFormat
	pixels        []byte
	readable      bool
	premul        bool
}

// NewTexture wraps pixels as a readable, straight-alpha texture.
// pixels is not copied.
func NewTexture(name string, width, height int, format gputypes.TextureFormat, pixels []byte, opts ...TextureOption) (Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %s is %dx%d", ErrInvalidTexture, name, width, height)
	}
	want, ok := DataSize(format, width, height)
	if !ok {
		return nil, fmt.Errorf("%w: %s has unsupported format %v", ErrInvalidTexture, name, format)
	}
	if len(pixels) != want {
		return nil, fmt.Errorf("%w: %s has %d bytes, want %d", ErrInvalidTexture, name, len(pixels), want)
	}

	t := &memTexture{
		name:     name,
		width:    width,
		height:   height,
		format:   format,
		pixels:   pixels,
		readable: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *memTexture) Width() int                     { return t.width }
func (t *memTexture) Height() int                    { return t.height }
func (t *memTexture) Name() string                   { return t.name }
func (t *memTexture) Format() gputypes.TextureFormat { return t.format }
func (t *memTexture) Readable() bool                 { return t.readable }
func (t *memTexture) Premultiplied() bool            { return t.premul }
func (t *memTexture) Pixels() []byte                 { return t.pixels }
