package asset

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/gputypes"
)

// DumpExt is the extension of texture dump files.
const DumpExt = ".asset"

// Texture dump layout, little-endian:
//
//	magic   [4]byte "ITEX"
//	version uint32  (1)
//	format  uint32  gputypes.TextureFormat
//	width   uint32
//	height  uint32
//	flags   uint32  bit 0 readable, bit 1 premultiplied
//	size    uint32  payload length
//	payload [size]byte
const dumpVersion = 1

var dumpMagic = [4]byte{'I', 'T', 'E', 'X'}

const (
	flagReadable uint32 = 1 << iota
	flagPremultiplied
)

// ErrBadDump is returned for streams that are not texture dumps.
var ErrBadDump = errors.New("asset: malformed texture dump")

type dumpHeader struct {
	Magic   [4]byte
	Version uint32
	Format  uint32
	Width   uint32
	Height  uint32
	Flags   uint32
	Size    uint32
}

// WriteDump serializes t.
func WriteDump(w io.Writer, t Texture) error {
	var flags uint32
	if t.Readable() {
		flags |= flagReadable
	}
	if t.Premultiplied() {
		flags |= flagPremultiplied
	}
	px := t.Pixels()
	h := dumpHeader{
		Magic:   dumpMagic,
		Version: dumpVersion,
		Format:  uint32(t.Format()),
		Width:   uint32(t.Width()),  //nolint:gosec // icon sizes fit in uint32
		Height:  uint32(t.Height()), //nolint:gosec // icon sizes fit in uint32
		Flags:   flags,
		Size:    uint32(len(px)), //nolint:gosec // payload of a validated texture
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("asset: write dump header: %w", err)
	}
	if _, err := w.Write(px); err != nil {
		return fmt.Errorf("asset: write dump payload: %w", err)
	}
	return nil
}

// ReadDump parses a texture dump and names the result.
func ReadDump(r io.Reader, name string) (Texture, error) {
	var h dumpHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadDump, name, err)
	}
	if h.Magic != dumpMagic {
		return nil, fmt.Errorf("%w: %s: bad magic %q", ErrBadDump, name, h.Magic[:])
	}
	if h.Version != dumpVersion {
		return nil, fmt.Errorf("%w: %s: version %d", ErrBadDump, name, h.Version)
	}

	format := gputypes.TextureFormat(h.Format)
	want, ok := DataSize(format, int(h.Width), int(h.Height))
	if !ok || uint32(want) != h.Size { //nolint:gosec // DataSize of uint32 dimensions
		return nil, fmt.Errorf("%w: %s: %d payload bytes for %v %dx%d", ErrBadDump, name, h.Size, format, h.Width, h.Height)
	}

	px := make([]byte, h.Size)
	if _, err := io.ReadFull(r, px); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadDump, name, err)
	}

	var opts []TextureOption
	if h.Flags&flagReadable == 0 {
		opts = append(opts, Unreadable())
	}
	if h.Flags&flagPremultiplied != 0 {
		opts = append(opts, PremultipliedAlpha())
	}
	return NewTexture(name, int(h.Width), int(h.Height), format, px, opts...)
}

// EncodeDump is WriteDump into a new byte slice.
func EncodeDump(t Texture) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDump(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
