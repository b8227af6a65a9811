//go:build !nogpu

// Package gpu registers a wgpu-backed blitter for textures the CPU cannot
// read directly.
//
// The blitter uploads the source texture, draws it into an off-screen
// target with a full-screen triangle and reads the target back. Block
// compressed formats are decoded by the GPU when the adapter supports BC
// compression, which also covers BC7.
//
// If no adapter is available the blitter reports blit.ErrFallbackToCPU
// and extraction continues with the software blitter.
//
// Usage:
//
//	import _ "github.com/gogpu/iconmine/gpu" // enable GPU extraction
package gpu

import "github.com/gogpu/iconmine/blit"

var shared = New()

func init() {
	blit.Register(blit.NameGPU, func() blit.Blitter { return shared })
}
