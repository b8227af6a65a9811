package color

import (
	"errors"
	"fmt"
)

// ErrInvalidHex is returned by ParseHex for malformed input.
var ErrInvalidHex = errors.New("color: invalid hex color")

// ParseHex parses a gamma-encoded color in one of the forms "RGB", "RGBA",
// "RRGGBB" or "RRGGBBAA", with or without a leading '#'. Alpha defaults to
// opaque.
func ParseHex(hex string) (Tagged, error) {
	s := hex
	if s != "" && s[0] == '#' {
		s = s[1:]
	}

	var r, g, b, a uint32
	a = 255
	var ok bool

	switch len(s) {
	case 3: // RGB
		ok = parseHex(s[0:1], &r) && parseHex(s[1:2], &g) && parseHex(s[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4: // RGBA
		ok = parseHex(s[0:1], &r) && parseHex(s[1:2], &g) && parseHex(s[2:3], &b) && parseHex(s[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6: // RRGGBB
		ok = parseHex(s[0:2], &r) && parseHex(s[2:4], &g) && parseHex(s[4:6], &b)
	case 8: // RRGGBBAA
		ok = parseHex(s[0:2], &r) && parseHex(s[2:4], &g) && parseHex(s[4:6], &b) && parseHex(s[6:8], &a)
	}
	if !ok {
		return Tagged{}, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}

	return Tagged{
		C:     U8ToF32(ColorU8{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}), //nolint:gosec // at most 255
		Space: ColorSpaceGamma,
	}, nil
}

// Hex formats the gamma-encoded form of t as "#rrggbb".
func (t Tagged) Hex() string {
	u := F32ToU8(t.In(ColorSpaceGamma))
	return fmt.Sprintf("#%02x%02x%02x", u.R, u.G, u.B)
}

// parseHex accumulates the hex digits of s into val and reports whether
// every digit was valid.
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}
