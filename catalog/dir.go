package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gogpu/iconmine"
)

// Subdirectories and file names under the root.
const (
	ImageDir  = "img"
	MetaDir   = "meta"
	ReadmeMD  = "README.md"
	dirPerm   = 0o755
	filePerm  = 0o644
	maxDetail = 512
)

// Errors returned by WriteIcon.
var (
	// ErrEmptyName is returned for icons without a name.
	ErrEmptyName = errors.New("catalog: icon has no name")

	// ErrNameClash is returned when an icon's files would overwrite those
	// of a different identifier with the same name, for example Foo.png
	// and Foo.asset. The first identifier written keeps the name.
	ErrNameClash = errors.New("catalog: name already written by another icon")
)

// Option configures a Dir.
type Option func(*Dir)

// WithTitle sets the README heading.
func WithTitle(title string) Option {
	return func(d *Dir) {
		d.title = title
	}
}

// WithSnippet sets the code block shown on each description page. format
// receives the icon name once; lang tags the fence. An empty format drops
// the block.
func WithSnippet(lang, format string) Option {
	return func(d *Dir) {
		d.snippetLang = lang
		d.snippetFmt = format
	}
}

// WithPreview also renders a contact sheet of every primary icon to file,
// relative to the root unless absolute.
func WithPreview(file string) Option {
	return func(d *Dir) {
		d.preview = file
	}
}

// Dir is an iconmine.Sink writing to a directory tree.
// WriteIcon is safe for concurrent use.
type Dir struct {
	root        string
	title       string
	snippetLang string
	snippetFmt  string
	preview     string

	mu     sync.Mutex
	owners map[string]string // folded name -> identifier
}

var _ iconmine.Sink = (*Dir)(nil)

// NewDir returns a sink rooted at root. Directories are created on first
// write.
func NewDir(root string, opts ...Option) *Dir {
	d := &Dir{
		root:        root,
		title:       "Editor Built-in Icons",
		snippetLang: "csharp",
		snippetFmt:  `EditorGUIUtility.IconContent("%s")`,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Root returns the output directory.
func (d *Dir) Root() string { return d.root }

// WriteIcon writes the icon's PNG and description page.
func (d *Dir) WriteIcon(ctx context.Context, icon *iconmine.Icon) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if icon.Name == "" {
		return fmt.Errorf("%w: %s", ErrEmptyName, icon.Identifier)
	}
	if err := d.claim(icon); err != nil {
		return err
	}
	if err := d.write(imagePath(icon.Name), icon.PNG); err != nil {
		return err
	}
	return d.write(metaPath(icon.Name), []byte(d.description(icon)))
}

// WriteCatalog writes README.md and, if configured, the preview sheet.
func (d *Dir) WriteCatalog(ctx context.Context, entries []iconmine.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.write(ReadmeMD, []byte(d.readme(entries))); err != nil {
		return err
	}
	if d.preview == "" || len(entries) == 0 {
		return nil
	}

	sheet, err := renderPreview(entries)
	if err != nil {
		return fmt.Errorf("catalog: preview: %w", err)
	}
	name := d.preview
	if !filepath.IsAbs(name) {
		name = filepath.Join(d.root, name)
	}
	return writeFile(name, sheet)
}

// claim reserves the icon's file names for its identifier. Names are folded
// so case-insensitive file systems see no clash either.
func (d *Dir) claim(icon *iconmine.Icon) error {
	key := strings.ToLower(icon.Name)
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.owners == nil {
		d.owners = make(map[string]string)
	}
	if owner, ok := d.owners[key]; ok && owner != icon.Identifier {
		return fmt.Errorf("%w: %s and %s both map to %s", ErrNameClash, owner, icon.Identifier, imagePath(icon.Name))
	}
	d.owners[key] = icon.Identifier
	return nil
}

// write stores data at the slash-separated path rel under the root.
func (d *Dir) write(rel string, data []byte) error {
	return writeFile(filepath.Join(d.root, filepath.FromSlash(rel)), data)
}

func writeFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), dirPerm); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := os.WriteFile(name, data, filePerm); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	return nil
}

func imagePath(name string) string { return ImageDir + "/" + name + ".png" }

func metaPath(name string) string { return MetaDir + "/" + name + ".md" }
