// Package blit copies source textures into CPU-readable scratch targets.
//
// Textures that cannot be read directly (compressed, or flagged as not
// CPU-accessible) are rendered into a Target acquired from a budgeted Pool
// and read back. A Blitter performs the copy; blitters are registered by
// name and tried in priority order, the GPU blitter first when the gpu
// package is linked in, then the software blitter:
//
//	import _ "github.com/gogpu/iconmine/gpu" // enables GPU blits
//
// A blitter that cannot handle a texture returns ErrFallbackToCPU and the
// next one is tried.
package blit
