package blit

import (
	"encoding/binary"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/iconmine/asset"
)

func bc1Block(c0, c1 uint16, idx uint32) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint16(b[0:], c0)
	binary.LittleEndian.PutUint16(b[2:], c1)
	binary.LittleEndian.PutUint32(b[4:], idx)
	return b
}

// repeat builds a 16-pixel index word with the same 2-bit index everywhere.
func repeat2(i uint32) uint32 {
	var v uint32
	for p := range 16 {
		v |= i << (2 * p)
	}
	return v
}

func pixel(dst *Target, x, y int) [4]byte {
	o := (y*dst.Width + x) * 4
	return [4]byte(dst.Data[o : o+4])
}

func TestBC1(t *testing.T) {
	tests := []struct {
		name   string
		c0, c1 uint16
		idx    uint32
		want   [4]byte
	}{
		{"endpoint 0", 0xffff, 0x0000, 0, [4]byte{255, 255, 255, 255}},
		{"endpoint 1", 0xffff, 0x0000, 1, [4]byte{0, 0, 0, 255}},
		{"two thirds", 0xffff, 0x0000, 2, [4]byte{170, 170, 170, 255}},
		{"pure red", 0xf800, 0x0000, 0, [4]byte{255, 0, 0, 255}},
		{"three color mid", 0x0000, 0xffff, 2, [4]byte{127, 127, 127, 255}},
		{"punch through", 0x0000, 0xffff, 3, [4]byte{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex := texture(t, 4, 4, gputypes.TextureFormatBC1RGBAUnorm, bc1Block(tt.c0, tt.c1, repeat2(tt.idx)))
			dst := target(4, 4)
			if err := Software().Blit(tex, dst); err != nil {
				t.Fatal(err)
			}
			for y := range 4 {
				for x := range 4 {
					if got := pixel(dst, x, y); got != tt.want {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, tt.want)
					}
				}
			}
		})
	}
}

func TestBC1ClipsPartialBlocks(t *testing.T) {
	// 6x5 needs 2x2 blocks; block (1,1) is white, the rest black.
	var px []byte
	for i := range 4 {
		c0 := uint16(0x0000)
		if i == 3 {
			c0 = 0xffff
		}
		px = append(px, bc1Block(c0, 0x0000, 0)...)
	}
	tex := texture(t, 6, 5, gputypes.TextureFormatBC1RGBAUnormSrgb, px)
	dst := target(6, 5)
	if err := Software().Blit(tex, dst); err != nil {
		t.Fatal(err)
	}
	if got := pixel(dst, 5, 4); got[0] != 255 {
		t.Errorf("bottom-right = %v, want white", got)
	}
	if got := pixel(dst, 3, 3); got[0] != 0 {
		t.Errorf("(3,3) = %v, want black", got)
	}
}

func TestBC2Alpha(t *testing.T) {
	b := make([]byte, 16)
	var alpha uint64
	for p := range 16 {
		alpha |= uint64(p) << (4 * p)
	}
	binary.LittleEndian.PutUint64(b, alpha)
	copy(b[8:], bc1Block(0x0000, 0xffff, 0))

	tex := texture(t, 4, 4, gputypes.TextureFormatBC2RGBAUnorm, b)
	dst := target(4, 4)
	if err := Software().Blit(tex, dst); err != nil {
		t.Fatal(err)
	}
	for p := range 16 {
		got := pixel(dst, p%4, p/4)
		if got[3] != byte(p*17) {
			t.Errorf("pixel %d alpha = %d, want %d", p, got[3], p*17)
		}
		// Four-color mode regardless of endpoint order.
		if got[0] != 0 {
			t.Errorf("pixel %d color = %v", p, got)
		}
	}
}

func TestBC3Alpha(t *testing.T) {
	tests := []struct {
		name   string
		a0, a1 byte
		idx    uint64
		want   byte
	}{
		{"endpoint 0", 255, 0, 0, 255},
		{"endpoint 1", 255, 0, 1, 0},
		{"eight step", 255, 0, 2, 218},
		{"six step", 0, 255, 2, 51},
		{"six step zero", 0, 255, 6, 0},
		{"six step full", 10, 200, 7, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := make([]byte, 16)
			b[0], b[1] = tt.a0, tt.a1
			var bits uint64
			for p := range 16 {
				bits |= tt.idx << (3 * p)
			}
			for i := range 6 {
				b[2+i] = byte(bits >> (8 * i))
			}
			copy(b[8:], bc1Block(0xffff, 0x0000, 0))

			tex := texture(t, 4, 4, gputypes.TextureFormatBC3RGBAUnormSrgb, b)
			dst := target(4, 4)
			if err := Software().Blit(tex, dst); err != nil {
				t.Fatal(err)
			}
			if got := pixel(dst, 2, 3); got[3] != tt.want || got[0] != 255 {
				t.Errorf("pixel = %v, want alpha %d on white", got, tt.want)
			}
		})
	}
}

func TestSoftwareRejectsShortPayload(t *testing.T) {
	tex := fakeTexture{w: 4, h: 4, f: gputypes.TextureFormatBC1RGBAUnorm, px: make([]byte, 4)}
	if err := Software().Blit(tex, target(4, 4)); err == nil {
		t.Error("short payload accepted")
	}
}

type fakeTexture struct {
	w, h int
	f    gputypes.TextureFormat
	px   []byte
}

var _ asset.Texture = fakeTexture{}

func (f fakeTexture) Width() int                     { return f.w }
func (f fakeTexture) Height() int                    { return f.h }
func (f fakeTexture) Name() string                   { return "fake" }
func (f fakeTexture) Format() gputypes.TextureFormat { return f.f }
func (f fakeTexture) Readable() bool                 { return false }
func (f fakeTexture) Premultiplied() bool            { return false }
func (f fakeTexture) Pixels() []byte                 { return f.px }
