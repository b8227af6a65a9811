package blit

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/iconmine/asset"
)

type software struct{}

// Software returns the CPU blitter. It copies 8-bit RGBA and BGRA
// textures and decodes BC1, BC2 and BC3 blocks.
func Software() Blitter { return software{} }

func (software) Name() string { return NameSoftware }

func (software) Supports(f gputypes.TextureFormat) bool {
	return asset.Is8BitColor(f) || blockDecoder(f) != nil
}

func (software) Blit(src asset.Texture, dst *Target) error {
	f := src.Format()
	px := src.Pixels()
	want, ok := asset.DataSize(f, src.Width(), src.Height())
	if !ok {
		return ErrFallbackToCPU
	}
	if len(px) < want {
		return fmt.Errorf("blit: %s has %d bytes, want %d", src.Name(), len(px), want)
	}

	switch {
	case asset.Is8BitColor(f):
		copyRGBA(dst.Data, px, asset.IsBGRA(f))
	case blockDecoder(f) != nil:
		decodeBlocks(dst, px, blockDecoder(f), asset.RowPitch(f, src.Width()))
	default:
		return ErrFallbackToCPU
	}
	dst.Premultiplied = src.Premultiplied()
	return nil
}

func copyRGBA(dst, src []byte, swizzle bool) {
	n := min(len(dst), len(src))
	if !swizzle {
		copy(dst, src[:n])
		return
	}
	for i := 0; i+3 < n; i += 4 {
		dst[i] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i]
		dst[i+3] = src[i+3]
	}
}
