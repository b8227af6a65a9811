package blit

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/iconmine/asset"
)

type stubBlitter struct {
	name  string
	err   error
	calls int
}

func (s *stubBlitter) Name() string                         { return s.name }
func (s *stubBlitter) Supports(gputypes.TextureFormat) bool { return true }
func (s *stubBlitter) Blit(_ asset.Texture, dst *Target) error {
	s.calls++
	if s.err == nil {
		dst.Data[0] = 42
	}
	return s.err
}

func texture(t *testing.T, w, h int, f gputypes.TextureFormat, px []byte, opts ...asset.TextureOption) asset.Texture {
	t.Helper()
	tex, err := asset.NewTexture("test", w, h, f, px, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return tex
}

func target(w, h int) *Target {
	return &Target{Width: w, Height: h, Format: gputypes.TextureFormatRGBA8UnormSrgb, Data: make([]byte, w*h*4)}
}

func TestBlittersPriority(t *testing.T) {
	gpu := &stubBlitter{name: NameGPU}
	extra := &stubBlitter{name: "aaa-extra"}
	Register(NameGPU, func() Blitter { return gpu })
	Register(extra.name, func() Blitter { return extra })
	t.Cleanup(func() {
		Unregister(NameGPU)
		Unregister(extra.name)
	})

	var names []string
	for _, b := range Blitters() {
		names = append(names, b.Name())
	}
	want := []string{NameGPU, NameSoftware, "aaa-extra"}
	if len(names) != len(want) {
		t.Fatalf("Blitters = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Blitters = %v, want %v", names, want)
		}
	}
	if Best() != NameGPU {
		t.Errorf("Best = %q", Best())
	}
	if Lookup(NameSoftware) == nil || Lookup("missing") != nil {
		t.Error("Lookup")
	}
}

func TestRunFallsThrough(t *testing.T) {
	tex := texture(t, 1, 1, gputypes.TextureFormatRGBA8Unorm, []byte{1, 2, 3, 4})

	pass := &stubBlitter{name: "pass", err: ErrFallbackToCPU}
	broken := &stubBlitter{name: "broken", err: errors.New("device lost")}
	good := &stubBlitter{name: "good"}

	dst := target(1, 1)
	name, err := Run([]Blitter{pass, broken, good}, tex, dst)
	if err != nil {
		t.Fatal(err)
	}
	if name != "good" || dst.Data[0] != 42 {
		t.Errorf("used %q, data %v", name, dst.Data)
	}
	if pass.calls != 1 || broken.calls != 1 {
		t.Errorf("calls: pass %d broken %d", pass.calls, broken.calls)
	}

	_, err = Run([]Blitter{pass, broken}, tex, target(1, 1))
	if !errors.Is(err, ErrNoBlitter) {
		t.Errorf("err = %v, want ErrNoBlitter", err)
	}

	if _, err := Run([]Blitter{good}, tex, target(2, 1)); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("size mismatch err = %v", err)
	}
}

func TestSoftwareCopy(t *testing.T) {
	tests := []struct {
		name   string
		format gputypes.TextureFormat
		px     []byte
		want   []byte
	}{
		{"rgba", gputypes.TextureFormatRGBA8UnormSrgb, []byte{1, 2, 3, 4, 5, 6, 7, 8}, []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{"bgra", gputypes.TextureFormatBGRA8Unorm, []byte{1, 2, 3, 4, 5, 6, 7, 8}, []byte{3, 2, 1, 4, 7, 6, 5, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex := texture(t, 2, 1, tt.format, tt.px, asset.Unreadable(), asset.PremultipliedAlpha())
			dst := target(2, 1)
			if err := Software().Blit(tex, dst); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(dst.Data, tt.want) {
				t.Errorf("Data = %v, want %v", dst.Data, tt.want)
			}
			if !dst.Premultiplied {
				t.Error("premultiplied flag not carried")
			}
		})
	}
}

func TestSoftwareSupports(t *testing.T) {
	sw := Software()
	for _, f := range []gputypes.TextureFormat{
		gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb,
		gputypes.TextureFormatBC1RGBAUnormSrgb, gputypes.TextureFormatBC2RGBAUnorm, gputypes.TextureFormatBC3RGBAUnorm,
	} {
		if !sw.Supports(f) {
			t.Errorf("Supports(%v) = false", f)
		}
	}
	if sw.Supports(gputypes.TextureFormatBC7RGBAUnorm) {
		t.Error("BC7 should need the GPU")
	}
}
