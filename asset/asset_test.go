package asset

import (
	"bytes"
	"errors"
	stdimage "image"
	"image/color"
	"image/png"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/gogpu/gputypes"
)

func TestDataSize(t *testing.T) {
	tests := []struct {
		name   string
		format gputypes.TextureFormat
		w, h   int
		want   int
		ok     bool
	}{
		{"rgba", gputypes.TextureFormatRGBA8UnormSrgb, 16, 16, 1024, true},
		{"bgra odd", gputypes.TextureFormatBGRA8Unorm, 3, 5, 60, true},
		{"bc1 exact", gputypes.TextureFormatBC1RGBAUnorm, 8, 8, 32, true},
		{"bc1 partial blocks", gputypes.TextureFormatBC1RGBAUnorm, 5, 3, 16, true},
		{"bc3", gputypes.TextureFormatBC3RGBAUnormSrgb, 16, 16, 256, true},
		{"unknown", gputypes.TextureFormatR8Unorm, 4, 4, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DataSize(tt.format, tt.w, tt.h)
			if got != tt.want || ok != tt.ok {
				t.Errorf("DataSize = %d, %v, want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFormatPredicates(t *testing.T) {
	if !IsCompressed(gputypes.TextureFormatBC2RGBAUnorm) || IsCompressed(gputypes.TextureFormatRGBA8Unorm) {
		t.Error("IsCompressed")
	}
	if !Is8BitColor(gputypes.TextureFormatBGRA8UnormSrgb) || Is8BitColor(gputypes.TextureFormatBC1RGBAUnorm) {
		t.Error("Is8BitColor")
	}
	if !IsBGRA(gputypes.TextureFormatBGRA8Unorm) || IsBGRA(gputypes.TextureFormatRGBA8Unorm) {
		t.Error("IsBGRA")
	}
	if RowPitch(gputypes.TextureFormatBC1RGBAUnorm, 9) != 24 {
		t.Errorf("RowPitch = %d", RowPitch(gputypes.TextureFormatBC1RGBAUnorm, 9))
	}
}

func TestNewTextureValidation(t *testing.T) {
	if _, err := NewTexture("a", 2, 2, gputypes.TextureFormatRGBA8Unorm, make([]byte, 15)); !errors.Is(err, ErrInvalidTexture) {
		t.Errorf("short payload: %v", err)
	}
	if _, err := NewTexture("a", 0, 2, gputypes.TextureFormatRGBA8Unorm, nil); !errors.Is(err, ErrInvalidTexture) {
		t.Errorf("zero size: %v", err)
	}
	tex, err := NewTexture("a", 2, 2, gputypes.TextureFormatRGBA8Unorm, make([]byte, 16), Unreadable(), PremultipliedAlpha())
	if err != nil {
		t.Fatal(err)
	}
	if tex.Readable() || !tex.Premultiplied() {
		t.Errorf("options not applied: readable=%v premul=%v", tex.Readable(), tex.Premultiplied())
	}
}

func TestDumpRoundTrip(t *testing.T) {
	px := make([]byte, 16)
	for i := range px {
		px[i] = byte(i * 13)
	}
	src, err := NewTexture("Icons/x.asset", 4, 4, gputypes.TextureFormatBC1RGBAUnormSrgb, px, Unreadable(), PremultipliedAlpha())
	if err != nil {
		t.Fatal(err)
	}
	data, err := EncodeDump(src)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ReadDump(bytes.NewReader(data), "Icons/x.asset")
	if err != nil {
		t.Fatal(err)
	}
	if got.Format() != src.Format() || got.Width() != 4 || got.Height() != 4 {
		t.Errorf("header = %v %dx%d", got.Format(), got.Width(), got.Height())
	}
	if got.Readable() || !got.Premultiplied() {
		t.Errorf("flags lost: readable=%v premul=%v", got.Readable(), got.Premultiplied())
	}
	if !bytes.Equal(got.Pixels(), px) {
		t.Error("payload differs")
	}
}

func TestReadDumpRejects(t *testing.T) {
	good, _ := NewTexture("x", 1, 1, gputypes.TextureFormatRGBA8Unorm, []byte{1, 2, 3, 4})
	data, _ := EncodeDump(good)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", append([]byte("NOPE"), data[4:]...)},
		{"truncated payload", data[:len(data)-1]},
		{"bad version", func() []byte { d := slices.Clone(data); d[4] = 9; return d }()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadDump(bytes.NewReader(tt.data), "x"); !errors.Is(err, ErrBadDump) {
				t.Errorf("err = %v, want ErrBadDump", err)
			}
		})
	}
}

func pngBytes(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := stdimage.NewNRGBA(stdimage.Rect(0, 0, 2, 2))
	for y := range 2 {
		for x := range 2 {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDir(t *testing.T) {
	tex, _ := NewTexture("b.asset", 1, 1, gputypes.TextureFormatBGRA8Unorm, []byte{1, 2, 3, 4}, Unreadable())
	dump, _ := EncodeDump(tex)

	fsys := fstest.MapFS{
		"Icons/a.png":   {Data: pngBytes(t, color.NRGBA{R: 10, G: 20, B: 30, A: 40})},
		"Icons/b.asset": {Data: dump},
		"notes.txt":     {Data: []byte("hi")},
	}
	d := NewDir(fsys)

	names, err := d.Enumerate()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(names, []string{"Icons/a.png", "Icons/b.asset", "notes.txt"}) {
		t.Errorf("Enumerate = %v", names)
	}

	a, err := d.Load("Icons/a.png")
	if err != nil {
		t.Fatal(err)
	}
	if a.Format() != gputypes.TextureFormatRGBA8UnormSrgb || !a.Readable() || a.Premultiplied() {
		t.Errorf("png texture = %v readable=%v premul=%v", a.Format(), a.Readable(), a.Premultiplied())
	}
	if !bytes.Equal(a.Pixels()[:4], []byte{10, 20, 30, 40}) {
		t.Errorf("png pixels = %v", a.Pixels()[:4])
	}

	b, err := d.Load("Icons/b.asset")
	if err != nil {
		t.Fatal(err)
	}
	if b.Readable() || b.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("dump texture = %v readable=%v", b.Format(), b.Readable())
	}

	if _, err := d.Load("Icons/missing.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: %v", err)
	}
	if _, err := d.Load("notes.txt"); err == nil {
		t.Error("text file loaded")
	}
}
