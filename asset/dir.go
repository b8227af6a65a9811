package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/iconmine/internal/image"
)

// Dir serves icons from a file system. Identifiers are slash-separated
// paths relative to the root. PNG files load as readable sRGB RGBA8
// textures; texture dumps load as recorded.
type Dir struct {
	fsys fs.FS
}

// NewDir returns a Source over fsys.
func NewDir(fsys fs.FS) *Dir {
	return &Dir{fsys: fsys}
}

// Enumerate lists every regular file under the root.
func (d *Dir) Enumerate() ([]string, error) {
	var names []string
	err := fs.WalkDir(d.fsys, ".", func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.Type().IsRegular() {
			names = append(names, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("asset: enumerate: %w", err)
	}
	return names, nil
}

// Load opens name and decodes it according to its extension.
func (d *Dir) Load(name string) (Texture, error) {
	f, err := d.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("asset: open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		buf, err := image.DecodePNG(f)
		if err != nil {
			return nil, fmt.Errorf("asset: %s: %w", name, err)
		}
		return NewTexture(name, buf.Width(), buf.Height(), gputypes.TextureFormatRGBA8UnormSrgb, buf.Data())
	case DumpExt:
		return ReadDump(f, name)
	default:
		return nil, fmt.Errorf("asset: %s: unsupported file type", name)
	}
}
