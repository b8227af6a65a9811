package iconmine

import (
	"context"
	"image"
	stdcolor "image/color"
	"path"
	"strings"
)

// Role tells a Sink why an icon was rendered.
type Role uint8

const (
	// RolePrimary is the variant shown large in the catalog.
	RolePrimary Role = iota
	// RoleSecondary is the companion shown at half size.
	RoleSecondary
	// RoleVariant is any other family member, rendered with WithAllVariants.
	RoleVariant
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleSecondary:
		return "secondary"
	case RoleVariant:
		return "variant"
	default:
		return "unknown"
	}
}

// Icon is one rendered icon.
type Icon struct {
	// Identifier is the name the icon was loaded under.
	Identifier string
	// Name is the base name of Identifier without its extension.
	Name string

	Width, Height int

	// Light is true when the icon was classified light. Light icons are
	// flattened onto the dark background.
	Light bool
	// Background is the color the icon was flattened onto.
	Background stdcolor.RGBA

	// Image is the opaque composited raster.
	Image *image.RGBA
	// PNG is Image encoded without an alpha channel.
	PNG []byte

	Role Role
}

// Entry is one catalog row.
type Entry struct {
	Primary *Icon
	// Secondary is nil for single-member families. It may be the same icon
	// as Primary when the family resolves that way.
	Secondary *Icon

	// DisplayWidth and DisplayHeight size the primary in the catalog. The
	// secondary is shown at half of them.
	DisplayWidth, DisplayHeight int
}

// Report summarizes a run.
type Report struct {
	// Families is the number of families found after filtering.
	Families int
	// Icons is the number of icons handed to the sink.
	Icons int
	// Missing lists identifiers the source had no texture for.
	Missing []string
	// Failures lists icons that could not be produced.
	Failures []*IconError
}

// Sink receives the results of a run.
type Sink interface {
	// WriteIcon is called once per rendered icon, possibly concurrently.
	WriteIcon(ctx context.Context, icon *Icon) error

	// WriteCatalog is called once, after every icon, with one entry per
	// family whose primary was rendered, in family order.
	WriteCatalog(ctx context.Context, entries []Entry) error
}

// iconName strips the directory and extension from an identifier.
func iconName(identifier string) string {
	base := path.Base(identifier)
	if dot := strings.LastIndexByte(base, '.'); dot >= 0 {
		return base[:dot]
	}
	return base
}
