//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"

	"github.com/gogpu/iconmine/asset"
	"github.com/gogpu/iconmine/blit"
)

func TestShaderCompiles(t *testing.T) {
	spirv, err := naga.Compile(blitWGSL)
	if err != nil {
		t.Fatalf("naga.Compile: %v", err)
	}
	if len(spirv) == 0 || len(spirv)%4 != 0 {
		t.Errorf("SPIR-V length = %d", len(spirv))
	}
}

func TestRegistered(t *testing.T) {
	if b := blit.Lookup(blit.NameGPU); b == nil || b.Name() != blit.NameGPU {
		t.Fatalf("Lookup(%q) = %v", blit.NameGPU, b)
	}
	if got := blit.Best(); got != blit.NameGPU {
		t.Errorf("Best() = %q, want %q", got, blit.NameGPU)
	}
	bs := blit.Blitters()
	if len(bs) < 2 || bs[0].Name() != blit.NameGPU || bs[len(bs)-1].Name() != blit.NameSoftware {
		t.Errorf("priority order wrong: %d blitters", len(bs))
	}
}

func TestWithSRGB(t *testing.T) {
	tests := []struct {
		in   gputypes.TextureFormat
		srgb bool
		want gputypes.TextureFormat
	}{
		{gputypes.TextureFormatRGBA8Unorm, true, gputypes.TextureFormatRGBA8UnormSrgb},
		{gputypes.TextureFormatRGBA8UnormSrgb, false, gputypes.TextureFormatRGBA8Unorm},
		{gputypes.TextureFormatBGRA8UnormSrgb, true, gputypes.TextureFormatBGRA8UnormSrgb},
		{gputypes.TextureFormatBC7RGBAUnorm, true, gputypes.TextureFormatBC7RGBAUnormSrgb},
		{gputypes.TextureFormatBC1RGBAUnormSrgb, false, gputypes.TextureFormatBC1RGBAUnorm},
		{gputypes.TextureFormatR8Unorm, true, gputypes.TextureFormatR8Unorm},
	}
	for _, tt := range tests {
		if got := withSRGB(tt.in, tt.srgb); got != tt.want {
			t.Errorf("withSRGB(%v, %v) = %v, want %v", tt.in, tt.srgb, got, tt.want)
		}
	}
	if !isSRGB(gputypes.TextureFormatRGBA8UnormSrgb) || isSRGB(gputypes.TextureFormatRGBA8Unorm) {
		t.Error("isSRGB misclassifies RGBA8")
	}
}

func TestAlign(t *testing.T) {
	for _, tt := range []struct{ n, a, want uint32 }{
		{0, 256, 0}, {1, 256, 256}, {256, 256, 256}, {257, 256, 512}, {5, 4, 8},
	} {
		if got := align(tt.n, tt.a); got != tt.want {
			t.Errorf("align(%d, %d) = %d, want %d", tt.n, tt.a, got, tt.want)
		}
	}
}

func TestSupports(t *testing.T) {
	b := New()
	for f, want := range map[gputypes.TextureFormat]bool{
		gputypes.TextureFormatRGBA8Unorm:   true,
		gputypes.TextureFormatBGRA8Unorm:   true,
		gputypes.TextureFormatBC3RGBAUnorm: true,
		gputypes.TextureFormatBC7RGBAUnorm: true,
		gputypes.TextureFormatR8Unorm:      false,
	} {
		if got := b.Supports(f); got != want {
			t.Errorf("Supports(%v) = %v, want %v", f, got, want)
		}
	}
}

func newBlitter(t *testing.T) *Blitter {
	t.Helper()
	b := New()
	if !b.Available() {
		t.Skip("no GPU adapter available")
	}
	t.Cleanup(b.Close)
	return b
}

func TestBlitPreservesBytes(t *testing.T) {
	b := newBlitter(t)

	const w, h = 70, 3 // row pitch 280 forces padded readback rows
	px := make([]byte, w*h*4)
	for i := range px {
		px[i] = byte(i * 7)
	}
	for i := 3; i < len(px); i += 4 {
		px[i] = 255
	}
	tex, err := asset.NewTexture("gradient", w, h, gputypes.TextureFormatRGBA8UnormSrgb, px, asset.Unreadable())
	if err != nil {
		t.Fatal(err)
	}

	for _, format := range []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb} {
		pool := blit.NewPool(0)
		dst, err := pool.Acquire(w, h, format)
		if err != nil {
			t.Fatal(err)
		}
		if err := b.Blit(tex, dst); err != nil {
			t.Fatalf("%v: Blit: %v", format, err)
		}
		for i := range px {
			if d := int(dst.Data[i]) - int(px[i]); d < -1 || d > 1 {
				t.Fatalf("%v: byte %d = %d, want %d", format, i, dst.Data[i], px[i])
			}
		}
		if err := pool.Release(dst); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBlitRepeated(t *testing.T) {
	b := newBlitter(t)
	tex, err := asset.NewTexture("dot", 3, 2, gputypes.TextureFormatRGBA8Unorm, make([]byte, 3*2*4), asset.Unreadable())
	if err != nil {
		t.Fatal(err)
	}
	pool := blit.NewPool(0)
	// Each blit records, finishes and submits its own encoder.
	for i := range 64 {
		dst, err := pool.Acquire(3, 2, gputypes.TextureFormatRGBA8Unorm)
		if err != nil {
			t.Fatal(err)
		}
		if err := b.Blit(tex, dst); err != nil {
			t.Fatalf("blit %d: %v", i, err)
		}
		if err := pool.Release(dst); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBlitBGRASwizzles(t *testing.T) {
	b := newBlitter(t)
	tex, err := asset.NewTexture("bgra", 1, 1, gputypes.TextureFormatBGRA8Unorm, []byte{10, 20, 30, 255}, asset.Unreadable())
	if err != nil {
		t.Fatal(err)
	}
	dst, err := blit.NewPool(0).Acquire(1, 1, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Blit(tex, dst); err != nil {
		t.Fatal(err)
	}
	if got := dst.Data[:4]; got[0] != 30 || got[1] != 20 || got[2] != 10 || got[3] != 255 {
		t.Errorf("pixel = %v, want [30 20 10 255]", got)
	}
}

func TestBlitAfterClose(t *testing.T) {
	b := New()
	b.Close()
	tex, err := asset.NewTexture("x", 1, 1, gputypes.TextureFormatRGBA8Unorm, []byte{0, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	dst := &blit.Target{Width: 1, Height: 1, Format: gputypes.TextureFormatRGBA8Unorm, Data: make([]byte, 4)}
	if err := b.Blit(tex, dst); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}
