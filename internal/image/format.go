// Package image holds the CPU pixel buffers that flow through the icon
// pipeline: extracted source rasters and their opaque composites.
package image

// Format represents a pixel storage format.
type Format uint8

const (
	// FormatRGB8 is 24-bit RGB with no alpha. Composites use it.
	FormatRGB8 Format = iota

	// FormatRGBA8 is 32-bit RGBA with straight alpha.
	FormatRGBA8

	// FormatRGBAPremul is 32-bit RGBA with premultiplied alpha.
	FormatRGBAPremul

	// FormatBGRA8 is 32-bit BGRA with straight alpha.
	FormatBGRA8

	// FormatBGRAPremul is 32-bit BGRA with premultiplied alpha.
	FormatBGRAPremul

	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	BytesPerPixel   int
	HasAlpha        bool
	IsPremultiplied bool
	// Swizzled is true when red and blue are stored swapped.
	Swizzled bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatRGB8:       {BytesPerPixel: 3},
	FormatRGBA8:      {BytesPerPixel: 4, HasAlpha: true},
	FormatRGBAPremul: {BytesPerPixel: 4, HasAlpha: true, IsPremultiplied: true},
	FormatBGRA8:      {BytesPerPixel: 4, HasAlpha: true, Swizzled: true},
	FormatBGRAPremul: {BytesPerPixel: 4, HasAlpha: true, IsPremultiplied: true, Swizzled: true},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int { return f.Info().BytesPerPixel }

// HasAlpha returns true if this format has an alpha channel.
func (f Format) HasAlpha() bool { return f.Info().HasAlpha }

// IsPremultiplied returns true if alpha is premultiplied.
func (f Format) IsPremultiplied() bool { return f.Info().IsPremultiplied }

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool { return f < formatCount }

// RowBytes calculates the number of bytes needed for a row of the given width.
func (f Format) RowBytes(width int) int { return width * f.BytesPerPixel() }

// ImageBytes calculates the total number of bytes needed for an image.
func (f Format) ImageBytes(width, height int) int { return f.RowBytes(width) * height }

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatRGB8:
		return "RGB8"
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGBAPremul:
		return "RGBAPremul"
	case FormatBGRA8:
		return "BGRA8"
	case FormatBGRAPremul:
		return "BGRAPremul"
	default:
		return "Unknown"
	}
}

// WithPremultiplied returns the 4-channel format with the same channel order
// and the requested alpha convention. RGB8 is returned unchanged.
func (f Format) WithPremultiplied(premul bool) Format {
	switch f {
	case FormatRGBA8, FormatRGBAPremul:
		if premul {
			return FormatRGBAPremul
		}
		return FormatRGBA8
	case FormatBGRA8, FormatBGRAPremul:
		if premul {
			return FormatBGRAPremul
		}
		return FormatBGRA8
	default:
		return f
	}
}
