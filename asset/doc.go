// Package asset describes where icons come from.
//
// A Source enumerates icon identifiers and loads each one as a Texture.
// Textures report their GPU format, whether their pixels are CPU-readable
// and whether color is premultiplied by alpha; the extraction stage picks
// a fast path or a render fallback from those facts.
//
// Two implementations ship with the package: an in-memory texture built
// with NewTexture, and Dir, which serves PNG files and texture dumps from
// an fs.FS.
package asset
