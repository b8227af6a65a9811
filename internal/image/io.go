package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// ErrEmptyData is returned when image data is empty.
var ErrEmptyData = errors.New("image: empty data")

// DecodePNG decodes a PNG stream into a straight-alpha RGBA8 buffer.
func DecodePNG(r io.Reader) (*ImageBuf, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode PNG: %w", err)
	}
	return FromStdImage(img)
}

// DecodePNGBytes is DecodePNG over a byte slice.
func DecodePNGBytes(data []byte) (*ImageBuf, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return DecodePNG(bytes.NewReader(data))
}

// EncodePNG encodes the image as PNG to the given writer.
func (b *ImageBuf) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.ToStdImage()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// EncodeToBytes encodes the image to PNG format and returns the bytes.
func (b *ImageBuf) EncodeToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromStdImage copies img into a new straight-alpha RGBA8 buffer.
func FromStdImage(img image.Image) (*ImageBuf, error) {
	bounds := img.Bounds()
	buf, err := NewImageBuf(bounds.Dx(), bounds.Dy(), FormatRGBA8)
	if err != nil {
		return nil, err
	}

	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := range buf.height {
			start := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(buf.RowBytes(y), nrgba.Pix[start:start+buf.width*4])
		}
		return buf, nil
	}

	dst := &image.NRGBA{Pix: buf.data, Stride: buf.stride, Rect: image.Rect(0, 0, buf.width, buf.height)}
	draw.Draw(dst, dst.Rect, img, bounds.Min, draw.Src)
	return buf, nil
}

// ToStdImage converts the buffer to a standard library image.
// RGB8 becomes an opaque *image.RGBA, straight formats become *image.NRGBA
// and premultiplied formats become *image.RGBA.
func (b *ImageBuf) ToStdImage() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)

	switch b.format {
	case FormatRGB8:
		rgba := image.NewRGBA(rect)
		for y := range b.height {
			row := b.RowBytes(y)
			dst := rgba.Pix[y*rgba.Stride:]
			for x := range b.width {
				dst[x*4] = row[x*3]
				dst[x*4+1] = row[x*3+1]
				dst[x*4+2] = row[x*3+2]
				dst[x*4+3] = 255
			}
		}
		return rgba

	case FormatRGBAPremul, FormatBGRAPremul:
		rgba := image.NewRGBA(rect)
		b.copyRGBA(rgba.Pix, rgba.Stride)
		return rgba

	default:
		nrgba := image.NewNRGBA(rect)
		b.copyRGBA(nrgba.Pix, nrgba.Stride)
		return nrgba
	}
}

// copyRGBA writes 4-channel pixels into pix in RGBA order.
func (b *ImageBuf) copyRGBA(pix []byte, stride int) {
	swizzle := b.format.Info().Swizzled
	for y := range b.height {
		row := b.RowBytes(y)
		dst := pix[y*stride : y*stride+b.width*4]
		if !swizzle {
			copy(dst, row)
			continue
		}
		for x := 0; x < len(row); x += 4 {
			dst[x] = row[x+2]
			dst[x+1] = row[x+1]
			dst[x+2] = row[x]
			dst[x+3] = row[x+3]
		}
	}
}
