//go:build !nogpu

package gpu

import "github.com/gogpu/gputypes"

// srgbPairs maps each linear format to its sRGB sibling.
var srgbPairs = map[gputypes.TextureFormat]gputypes.TextureFormat{
	gputypes.TextureFormatRGBA8Unorm:   gputypes.TextureFormatRGBA8UnormSrgb,
	gputypes.TextureFormatBGRA8Unorm:   gputypes.TextureFormatBGRA8UnormSrgb,
	gputypes.TextureFormatBC1RGBAUnorm: gputypes.TextureFormatBC1RGBAUnormSrgb,
	gputypes.TextureFormatBC2RGBAUnorm: gputypes.TextureFormatBC2RGBAUnormSrgb,
	gputypes.TextureFormatBC3RGBAUnorm: gputypes.TextureFormatBC3RGBAUnormSrgb,
	gputypes.TextureFormatBC7RGBAUnorm: gputypes.TextureFormatBC7RGBAUnormSrgb,
}

func isSRGB(f gputypes.TextureFormat) bool {
	for _, s := range srgbPairs {
		if s == f {
			return true
		}
	}
	return false
}

// withSRGB returns the sibling of f with the requested sRGB-ness, or f when
// it has none.
func withSRGB(f gputypes.TextureFormat, srgb bool) gputypes.TextureFormat {
	for lin, s := range srgbPairs {
		switch f {
		case lin, s:
			if srgb {
				return s
			}
			return lin
		}
	}
	return f
}
