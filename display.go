package iconmine

import "math"

// MaxDisplaySize is the longest side, in pixels, of an icon in the catalog.
const MaxDisplaySize = 64

// DisplaySize scales width x height so the longer side is at most
// MaxDisplaySize, keeping the aspect ratio. Sides round half to even and
// never drop below 1. Smaller icons keep their size.
func DisplaySize(width, height int) (int, int) {
	largest := float64(max(width, height))
	if largest <= 0 {
		return 1, 1
	}
	scale := min(largest, MaxDisplaySize) / largest
	w := max(1, int(math.RoundToEven(float64(width)*scale)))
	h := max(1, int(math.RoundToEven(float64(height)*scale)))
	return w, h
}
