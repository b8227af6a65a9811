package image

import (
	"errors"

	"github.com/gogpu/iconmine/internal/color"
)

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrInvalidStride is returned when stride is less than minimum required.
	ErrInvalidStride = errors.New("image: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// ImageBuf is a row-major 8-bit pixel buffer with an optional row stride.
//
// Buffers are safe for concurrent reads. Writers need external
// synchronization.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// NewImageBuf allocates a zeroed buffer.
func NewImageBuf(width, height int, format Format) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	stride := format.RowBytes(width)
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromRaw wraps existing data without copying.
// The caller must keep data alive and unmodified for the buffer's lifetime.
// A stride of 0 means tightly packed rows.
func FromRaw(data []byte, width, height int, format Format, stride int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	minStride := format.RowBytes(width)
	if stride == 0 {
		stride = minStride
	}
	if stride < minStride {
		return nil, ErrInvalidStride
	}

	requiredSize := stride*(height-1) + minStride
	if len(data) < requiredSize {
		return nil, ErrDataTooSmall
	}

	return &ImageBuf{
		data:   data[:requiredSize],
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Clone creates a deep copy of the image buffer.
func (b *ImageBuf) Clone() *ImageBuf {
	c := *b
	c.data = append([]byte(nil), b.data...)
	return &c
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int { return b.width }

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int { return b.height }

// Stride returns the number of bytes per row including padding.
func (b *ImageBuf) Stride() int { return b.stride }

// Format returns the pixel format.
func (b *ImageBuf) Format() Format { return b.format }

// Data returns the raw pixel data slice.
func (b *ImageBuf) Data() []byte { return b.data }

// RowBytes returns the pixel bytes of row y, or nil if y is out of bounds.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.format.RowBytes(b.width)]
}

// PixelOffset returns the byte offset of pixel (x, y), or -1 when out of bounds.
func (b *ImageBuf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*b.format.BytesPerPixel()
}

// RGBA returns the stored components of (x, y) in RGBA order.
// Premultiplied formats are returned as stored. RGB8 reports alpha 255.
// Out of bounds coordinates return zeros.
func (b *ImageBuf) RGBA(x, y int) (r, g, bl, a uint8) {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return 0, 0, 0, 0
	}
	p := b.data[off:]
	switch b.format {
	case FormatRGB8:
		return p[0], p[1], p[2], 255
	case FormatRGBA8, FormatRGBAPremul:
		return p[0], p[1], p[2], p[3]
	case FormatBGRA8, FormatBGRAPremul:
		return p[2], p[1], p[0], p[3]
	}
	return 0, 0, 0, 0
}

// SetRGBA stores components given in RGBA order at (x, y).
func (b *ImageBuf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return ErrOutOfBounds
	}
	p := b.data[off:]
	switch b.format {
	case FormatRGB8:
		p[0], p[1], p[2] = r, g, bl
	case FormatRGBA8, FormatRGBAPremul:
		p[0], p[1], p[2], p[3] = r, g, bl, a
	case FormatBGRA8, FormatBGRAPremul:
		p[0], p[1], p[2], p[3] = bl, g, r, a
	}
	return nil
}

// Straight returns pixel (x, y) normalized to [0,1] with straight alpha.
// Premultiplied pixels are divided by their alpha; fully transparent pixels
// come back as transparent black. RGB stays in the buffer's own encoding.
func (b *ImageBuf) Straight(x, y int) color.ColorF32 {
	r, g, bl, a := b.RGBA(x, y)
	c := color.U8ToF32(color.ColorU8{R: r, G: g, B: bl, A: a})
	if !b.format.IsPremultiplied() {
		return c
	}
	if a == 0 {
		return color.ColorF32{}
	}
	return color.ColorF32{
		R: min(c.R/c.A, 1),
		G: min(c.G/c.A, 1),
		B: min(c.B/c.A, 1),
		A: c.A,
	}
}

// Clear sets all bytes to zero.
func (b *ImageBuf) Clear() {
	clear(b.data)
}

// Fill sets every pixel to the given components in RGBA order.
func (b *ImageBuf) Fill(r, g, bl, a uint8) {
	for y := range b.height {
		for x := range b.width {
			_ = b.SetRGBA(x, y, r, g, bl, a)
		}
	}
}

// ByteSize returns the total size of the image data in bytes.
func (b *ImageBuf) ByteSize() int { return len(b.data) }
