package blit

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/iconmine/asset"
)

// ErrFallbackToCPU indicates a blitter cannot handle this texture.
// The caller moves on to the next blitter.
var ErrFallbackToCPU = errors.New("blit: falling back to next blitter")

// ErrNoBlitter is returned when no registered blitter handled a texture.
var ErrNoBlitter = errors.New("blit: no blitter could copy texture")

// Blitter renders a source texture into a scratch target.
//
// Implementations must be safe for concurrent use.
type Blitter interface {
	// Name identifies the blitter in the registry and in logs.
	Name() string

	// Supports reports whether the blitter can read textures of format f.
	Supports(f gputypes.TextureFormat) bool

	// Blit copies src into dst, which has the same dimensions. The stored
	// bytes keep the source's color encoding; BGRA sources are swizzled to
	// RGBA and dst.Premultiplied is set from the source.
	Blit(src asset.Texture, dst *Target) error
}

// Registered blitter names, highest priority first.
const (
	NameGPU      = "gpu"
	NameSoftware = "software"
)

var priority = []string{NameGPU, NameSoftware}

var registry = gpucontext.NewRegistry[Blitter](gpucontext.WithPriority(priority...))

func init() {
	sw := Software()
	Register(NameSoftware, func() Blitter { return sw })
}

// Register adds or replaces a named blitter factory.
// The factory is called on every lookup and should return a shared instance.
func Register(name string, factory func() Blitter) {
	registry.Register(name, factory)
}

// Unregister removes a named blitter.
func Unregister(name string) {
	registry.Unregister(name)
}

// Lookup returns the blitter registered under name, or nil.
func Lookup(name string) Blitter {
	return registry.Get(name)
}

// Best returns the name of the highest-priority registered blitter.
func Best() string {
	return registry.BestName()
}

// Blitters returns every registered blitter in priority order. Names
// outside the built-in priority list follow in lexical order.
func Blitters() []Blitter {
	names := registry.Available()
	slices.SortFunc(names, func(a, b string) int {
		ia, ib := slices.Index(priority, a), slices.Index(priority, b)
		switch {
		case ia >= 0 && ib >= 0:
			return ia - ib
		case ia >= 0:
			return -1
		case ib >= 0:
			return 1
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	})

	out := make([]Blitter, 0, len(names))
	for _, n := range names {
		if b := registry.Get(n); b != nil {
			out = append(out, b)
		}
	}
	return out
}

// Run tries each blitter in order until one succeeds. Failures other than
// ErrFallbackToCPU are logged and the next blitter is tried.
func Run(blitters []Blitter, src asset.Texture, dst *Target) (string, error) {
	if src == nil || dst == nil {
		return "", fmt.Errorf("%w: nil texture or target", ErrNoBlitter)
	}
	if src.Width() != dst.Width || src.Height() != dst.Height {
		return "", fmt.Errorf("%w: %s is %dx%d, target %dx%d", ErrInvalidTarget,
			src.Name(), src.Width(), src.Height(), dst.Width, dst.Height)
	}

	var errs []error
	for _, b := range blitters {
		if !b.Supports(src.Format()) {
			continue
		}
		err := b.Blit(src, dst)
		if err == nil {
			return b.Name(), nil
		}
		if !errors.Is(err, ErrFallbackToCPU) {
			Logger().Warn("blit failed, trying next blitter",
				"blitter", b.Name(), "texture", src.Name(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
		}
	}
	if len(errs) == 0 {
		return "", fmt.Errorf("%w: %s (%v)", ErrNoBlitter, src.Name(), src.Format())
	}
	return "", fmt.Errorf("%w: %s (%v): %w", ErrNoBlitter, src.Name(), src.Format(), errors.Join(errs...))
}
