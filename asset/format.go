package asset

import "github.com/gogpu/gputypes"

// BlockInfo describes the storage unit of a texture format. Uncompressed
// formats use 1x1 blocks.
type BlockInfo struct {
	Width, Height int
	Bytes         int
}

var blockInfo = map[gputypes.TextureFormat]BlockInfo{
	gputypes.TextureFormatRGBA8Unorm:       {1, 1, 4},
	gputypes.TextureFormatRGBA8UnormSrgb:   {1, 1, 4},
	gputypes.TextureFormatBGRA8Unorm:       {1, 1, 4},
	gputypes.TextureFormatBGRA8UnormSrgb:   {1, 1, 4},
	gputypes.TextureFormatBC1RGBAUnorm:     {4, 4, 8},
	gputypes.TextureFormatBC1RGBAUnormSrgb: {4, 4, 8},
	gputypes.TextureFormatBC2RGBAUnorm:     {4, 4, 16},
	gputypes.TextureFormatBC2RGBAUnormSrgb: {4, 4, 16},
	gputypes.TextureFormatBC3RGBAUnorm:     {4, 4, 16},
	gputypes.TextureFormatBC3RGBAUnormSrgb: {4, 4, 16},
	gputypes.TextureFormatBC7RGBAUnorm:     {4, 4, 16},
	gputypes.TextureFormatBC7RGBAUnormSrgb: {4, 4, 16},
}

// Block returns the block layout of f, or false for formats icons are
// never stored in.
func Block(f gputypes.TextureFormat) (BlockInfo, bool) {
	b, ok := blockInfo[f]
	return b, ok
}

// IsCompressed reports whether f is block-compressed.
func IsCompressed(f gputypes.TextureFormat) bool {
	b, ok := blockInfo[f]
	return ok && (b.Width > 1 || b.Height > 1)
}

// Is8BitColor reports whether f stores one byte per channel in RGBA or
// BGRA order, the layouts the CPU can consume without decoding.
func Is8BitColor(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		return true
	}
	return false
}

// IsBGRA reports whether red and blue are swapped in f.
func IsBGRA(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatBGRA8Unorm || f == gputypes.TextureFormatBGRA8UnormSrgb
}

// DataSize returns the payload size of a width x height texture in f.
func DataSize(f gputypes.TextureFormat, width, height int) (int, bool) {
	b, ok := blockInfo[f]
	if !ok {
		return 0, false
	}
	bw := (width + b.Width - 1) / b.Width
	bh := (height + b.Height - 1) / b.Height
	return bw * bh * b.Bytes, true
}

// RowPitch returns the bytes in one row of blocks.
func RowPitch(f gputypes.TextureFormat, width int) int {
	b, ok := blockInfo[f]
	if !ok {
		return 0
	}
	return (width + b.Width - 1) / b.Width * b.Bytes
}
