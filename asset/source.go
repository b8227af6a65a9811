package asset

import "errors"

// ErrNotFound is returned by Source.Load for identifiers with no texture.
var ErrNotFound = errors.New("asset: not found")

// Source is the host capability the miner reads icons from.
//
// Implementations must be safe for concurrent Load calls.
type Source interface {
	// Enumerate returns every identifier the source knows about.
	Enumerate() ([]string, error)

	// Load returns the texture for name. A missing texture is reported as
	// (nil, nil) or an error wrapping ErrNotFound.
	Load(name string) (Texture, error)
}
