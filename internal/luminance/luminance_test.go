package luminance

import (
	"math"
	"testing"

	"github.com/gogpu/iconmine/internal/color"
	"github.com/gogpu/iconmine/internal/image"
)

func floatNear(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func solid(t *testing.T, w, h int, f image.Format, r, g, b, a uint8) *image.ImageBuf {
	t.Helper()
	buf, err := image.NewImageBuf(w, h, f)
	if err != nil {
		t.Fatal(err)
	}
	buf.Fill(r, g, b, a)
	return buf
}

func TestClassifySolid(t *testing.T) {
	tests := []struct {
		name       string
		r, g, b, a uint8
		space      color.ColorSpace
		want       bool
	}{
		{"white linear", 255, 255, 255, 255, color.ColorSpaceLinear, true},
		{"black linear", 0, 0, 0, 255, color.ColorSpaceLinear, false},
		{"mid gray gamma", 128, 128, 128, 255, color.ColorSpaceGamma, true},
		{"mid gray linear", 128, 128, 128, 255, color.ColorSpaceLinear, false},
		{"transparent white", 255, 255, 255, 0, color.ColorSpaceLinear, false},
		{"below min alpha", 255, 255, 255, 20, color.ColorSpaceGamma, false},
		{"pure green", 0, 255, 0, 255, color.ColorSpaceLinear, true},
		{"pure blue", 0, 0, 255, 255, color.ColorSpaceLinear, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := solid(t, 8, 8, image.FormatRGBA8, tt.r, tt.g, tt.b, tt.a)
			if got := IsLight(buf, tt.space, DefaultOptions()); got != tt.want {
				res := Classify(buf, tt.space, DefaultOptions())
				t.Errorf("IsLight = %v, want %v (%+v)", got, tt.want, res)
			}
		})
	}
}

func TestClassifyEmpty(t *testing.T) {
	buf := solid(t, 16, 16, image.FormatRGBA8, 255, 255, 255, 0)
	res := Classify(buf, color.ColorSpaceLinear, DefaultOptions())
	if res.Coverage != 0 || res.Light {
		t.Errorf("transparent icon: %+v", res)
	}
	if res.Average != (color.ColorF32{A: 1}) {
		t.Errorf("Average = %v, want opaque black", res.Average)
	}
	if Classify(nil, color.ColorSpaceLinear, DefaultOptions()).Light {
		t.Error("nil buffer classified light")
	}
}

// Raising every channel never lowers the luminance.
func TestClassifyMonotonic(t *testing.T) {
	for _, space := range []color.ColorSpace{color.ColorSpaceGamma, color.ColorSpaceLinear} {
		prev := float32(-1)
		flips := 0
		prevLight := false
		for v := 0; v < 256; v += 5 {
			buf := solid(t, 4, 4, image.FormatRGBA8, uint8(v), uint8(v), uint8(v), 200)
			res := Classify(buf, space, DefaultOptions())
			if res.Luminance < prev {
				t.Fatalf("%v: luminance decreased at %d: %v < %v", space, v, res.Luminance, prev)
			}
			if res.Light != prevLight {
				flips++
				prevLight = res.Light
			}
			prev = res.Luminance
		}
		if flips != 1 {
			t.Errorf("%v: verdict flipped %d times, want 1", space, flips)
		}
	}
}

func TestClassifyAlphaWeighting(t *testing.T) {
	buf, _ := image.NewImageBuf(2, 1, image.FormatRGBA8)
	_ = buf.SetRGBA(0, 0, 255, 255, 255, 255)
	_ = buf.SetRGBA(1, 0, 0, 0, 0, 51)

	res := Classify(buf, color.ColorSpaceGamma, DefaultOptions())
	// (1*1 + 0*0.2) / 1.2
	if !floatNear(res.Average.R, 1/1.2, 1e-5) {
		t.Errorf("Average.R = %v", res.Average.R)
	}
	if !floatNear(res.Coverage, 0.6, 1e-5) {
		t.Errorf("Coverage = %v, want 0.6", res.Coverage)
	}
}

func TestClassifyMinAlpha(t *testing.T) {
	buf, _ := image.NewImageBuf(2, 1, image.FormatRGBA8)
	_ = buf.SetRGBA(0, 0, 0, 0, 0, 255)
	_ = buf.SetRGBA(1, 0, 255, 255, 255, 64) // alpha ~0.25

	if IsLight(buf, color.ColorSpaceGamma, Options{MinAlpha: 0.5}) {
		t.Error("faint white pixel should be ignored at MinAlpha 0.5")
	}
	res := Classify(buf, color.ColorSpaceGamma, Options{MinAlpha: 0.1})
	if res.Average.R <= 0 {
		t.Errorf("faint white pixel should count at MinAlpha 0.1: %+v", res)
	}
}

func TestClassifyZeroMinAlpha(t *testing.T) {
	buf, _ := image.NewImageBuf(1, 1, image.FormatRGBA8)
	_ = buf.SetRGBA(0, 0, 255, 255, 255, 13) // alpha ~0.05

	if IsLight(buf, color.ColorSpaceGamma, DefaultOptions()) {
		t.Error("pixel below DefaultMinAlpha should be ignored")
	}
	res := Classify(buf, color.ColorSpaceGamma, Options{MinAlpha: 0})
	if !res.Light || !floatNear(res.Coverage, 13.0/255, 1e-6) {
		t.Errorf("MinAlpha 0 should keep the faint pixel: %+v", res)
	}
	if got := Classify(buf, color.ColorSpaceGamma, Options{MinAlpha: -1}); got != res {
		t.Errorf("negative MinAlpha = %+v, want same as 0 %+v", got, res)
	}
}

func TestClassifyStrideCoverage(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		stride int
	}{
		{"stride 1", 5, 5, 1},
		{"stride 2 odd size", 5, 5, 2},
		{"stride 3", 7, 4, 3},
		{"stride larger than image", 3, 3, 10},
		{"stride zero", 3, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := solid(t, tt.w, tt.h, image.FormatRGBA8, 255, 255, 255, 255)
			res := Classify(buf, color.ColorSpaceLinear, Options{Stride: tt.stride})
			if !floatNear(res.Coverage, 1, 1e-6) {
				t.Errorf("Coverage = %v, want 1", res.Coverage)
			}
			if !res.Light {
				t.Error("opaque white should be light")
			}
		})
	}
}

func TestClassifyPremultipliedMatchesStraight(t *testing.T) {
	straight := solid(t, 4, 4, image.FormatRGBA8, 255, 255, 255, 128)
	premul := solid(t, 4, 4, image.FormatBGRAPremul, 128, 128, 128, 128)

	for _, space := range []color.ColorSpace{color.ColorSpaceGamma, color.ColorSpaceLinear} {
		a := Classify(straight, space, DefaultOptions())
		b := Classify(premul, space, DefaultOptions())
		if !floatNear(a.Luminance, b.Luminance, 1e-4) || a.Light != b.Light {
			t.Errorf("%v: straight %+v, premul %+v", space, a, b)
		}
	}
}

func BenchmarkClassify64(b *testing.B) {
	buf, _ := image.NewImageBuf(64, 64, image.FormatRGBA8)
	buf.Fill(200, 120, 40, 255)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Classify(buf, color.ColorSpaceLinear, DefaultOptions())
	}
}
