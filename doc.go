// Package iconmine extracts a collection of bitmap icons into color-correct,
// opaque PNG renditions plus the data a catalog needs to list them.
//
// # Overview
//
// A [Miner] reads identifiers from an [asset.Source], groups them into
// families of high-density ("@2x") and standard variants, and renders the
// resolved variants of every family:
//
//   - the pixels are materialized into a CPU-readable buffer, rendering the
//     texture through an off-screen target when it is compressed or not
//     readable;
//   - the icon is classified light or dark from its coverage-weighted
//     average luminance;
//   - it is flattened onto the contrasting background with gamma-correct
//     alpha compositing and encoded as a PNG without an alpha channel.
//
// Finished icons are handed to a [Sink] as they complete. Once every icon
// has been processed the sink receives one [Entry] per family, in catalog
// order.
//
// # Quick Start
//
//	src := asset.NewDir(os.DirFS("icons"))
//	m := iconmine.New(src, iconmine.WithColorSpace(iconmine.ColorSpaceLinear))
//	report, err := m.Run(ctx, catalog.NewDir("out"))
//
// # Color spaces
//
// The active color space decides how pixels are averaged and blended. In
// [ColorSpaceLinear] gamma-encoded samples are decoded before any
// arithmetic and re-encoded afterwards; in [ColorSpaceGamma] the encoded
// values are used as they are.
//
// # GPU fallback
//
// Textures the CPU cannot read are copied by the highest-priority blitter
// registered with package blit. Import github.com/gogpu/iconmine/gpu for a
// wgpu-backed blitter; the software blitter is always available.
//
// # Logging
//
// iconmine is silent by default. See [SetLogger].
package iconmine
