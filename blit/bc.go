package blit

import (
	"encoding/binary"

	"github.com/gogpu/gputypes"
)

// A decoder expands one compressed 4x4 block into 16 RGBA pixels,
// row-major.
type decoder struct {
	blockBytes int
	decode     func(block []byte, out *[64]byte)
}

var (
	bc1 = &decoder{8, func(b []byte, out *[64]byte) { decodeColor(b, out, true) }}
	bc2 = &decoder{16, decodeBC2}
	bc3 = &decoder{16, decodeBC3}
)

func blockDecoder(f gputypes.TextureFormat) *decoder {
	switch f {
	case gputypes.TextureFormatBC1RGBAUnorm, gputypes.TextureFormatBC1RGBAUnormSrgb:
		return bc1
	case gputypes.TextureFormatBC2RGBAUnorm, gputypes.TextureFormatBC2RGBAUnormSrgb:
		return bc2
	case gputypes.TextureFormatBC3RGBAUnorm, gputypes.TextureFormatBC3RGBAUnormSrgb:
		return bc3
	}
	return nil
}

// decodeBlocks writes every block of src into dst, clipping blocks that
// overhang the right and bottom edges.
func decodeBlocks(dst *Target, src []byte, d *decoder, rowPitch int) {
	var px [64]byte
	bw := (dst.Width + 3) / 4
	bh := (dst.Height + 3) / 4
	for by := range bh {
		for bx := range bw {
			off := by*rowPitch + bx*d.blockBytes
			d.decode(src[off:off+d.blockBytes], &px)
			for py := range 4 {
				y := by*4 + py
				if y >= dst.Height {
					break
				}
				for pxi := range 4 {
					x := bx*4 + pxi
					if x >= dst.Width {
						break
					}
					o := (y*dst.Width + x) * 4
					copy(dst.Data[o:o+4], px[(py*4+pxi)*4:])
				}
			}
		}
	}
}

func rgb565(c uint16) [3]int {
	r := int(c>>11) & 0x1f
	g := int(c>>5) & 0x3f
	b := int(c) & 0x1f
	return [3]int{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2}
}

// decodeColor expands an 8-byte BC1 color block. With punchThrough, a
// block whose first endpoint is not greater than the second uses the
// three-color mode with transparent black; BC2 and BC3 color blocks never do.
func decodeColor(b []byte, out *[64]byte, punchThrough bool) {
	c0 := binary.LittleEndian.Uint16(b[0:])
	c1 := binary.LittleEndian.Uint16(b[2:])
	idx := binary.LittleEndian.Uint32(b[4:])

	e0, e1 := rgb565(c0), rgb565(c1)
	var pal [4][4]int
	pal[0] = [4]int{e0[0], e0[1], e0[2], 255}
	pal[1] = [4]int{e1[0], e1[1], e1[2], 255}
	if c0 > c1 || !punchThrough {
		for i := range 3 {
			pal[2][i] = (2*e0[i] + e1[i]) / 3
			pal[3][i] = (e0[i] + 2*e1[i]) / 3
		}
		pal[2][3], pal[3][3] = 255, 255
	} else {
		for i := range 3 {
			pal[2][i] = (e0[i] + e1[i]) / 2
		}
		pal[2][3] = 255
		pal[3] = [4]int{0, 0, 0, 0}
	}

	for i := range 16 {
		p := pal[(idx>>(2*i))&3]
		out[i*4] = byte(p[0])
		out[i*4+1] = byte(p[1])
		out[i*4+2] = byte(p[2])
		out[i*4+3] = byte(p[3])
	}
}

// decodeBC2: 64 bits of explicit 4-bit alpha, then a color block.
func decodeBC2(b []byte, out *[64]byte) {
	decodeColor(b[8:], out, false)
	alpha := binary.LittleEndian.Uint64(b[0:])
	for i := range 16 {
		out[i*4+3] = byte((alpha>>(4*i))&0xf) * 17
	}
}

// decodeBC3: two alpha endpoints, 48 bits of 3-bit indices, then a color block.
func decodeBC3(b []byte, out *[64]byte) {
	decodeColor(b[8:], out, false)

	a0, a1 := int(b[0]), int(b[1])
	var pal [8]int
	pal[0], pal[1] = a0, a1
	if a0 > a1 {
		for i := 1; i <= 6; i++ {
			pal[i+1] = ((7-i)*a0 + i*a1) / 7
		}
	} else {
		for i := 1; i <= 4; i++ {
			pal[i+1] = ((5-i)*a0 + i*a1) / 5
		}
		pal[6], pal[7] = 0, 255
	}

	var bits uint64
	for i := range 6 {
		bits |= uint64(b[2+i]) << (8 * i)
	}
	for i := range 16 {
		out[i*4+3] = byte(pal[(bits>>(3*i))&7])
	}
}
