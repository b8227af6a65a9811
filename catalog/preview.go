package catalog

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/iconmine"
)

// Contact sheet geometry, in pixels.
const (
	sheetColumns = 8
	cellWidth    = 96
	thumbSize    = iconmine.MaxDisplaySize
	labelHeight  = 16
	cellPad      = 8
	cellHeight   = thumbSize + labelHeight + cellPad
	labelSize    = 10
)

var (
	sheetBackground = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	labelColor      = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// renderPreview draws every primary at its display size on its own
// background, with its name below, and returns the encoded PNG.
func renderPreview(entries []iconmine.Entry) ([]byte, error) {
	sheet := newSheet(len(entries))
	if err := drawSheet(sheet, entries); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, sheet); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newSheet(n int) *image.RGBA {
	cols := min(n, sheetColumns)
	rows := (n + sheetColumns - 1) / sheetColumns
	sheet := image.NewRGBA(image.Rect(0, 0, cols*cellWidth, rows*cellHeight))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(sheetBackground), image.Point{}, draw.Src)
	return sheet
}

func drawSheet(sheet *image.RGBA, entries []iconmine.Entry) error {
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return err
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    labelSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return err
	}
	defer func() { _ = face.Close() }()

	labels, err := newLabeler(goregular.TTF, labelSize)
	if err != nil {
		return err
	}

	d := &font.Drawer{Dst: sheet, Src: image.NewUniform(labelColor), Face: face}
	maxLabel := fixed.I(cellWidth - 4)
	ascent := face.Metrics().Ascent.Ceil()

	for i, e := range entries {
		cell := image.Pt((i%sheetColumns)*cellWidth, (i/sheetColumns)*cellHeight)
		thumb := thumbRect(cell, e.DisplayWidth, e.DisplayHeight)

		bg := image.Rect(cell.X+(cellWidth-thumbSize)/2, cell.Y+cellPad/2, cell.X+(cellWidth+thumbSize)/2, cell.Y+cellPad/2+thumbSize)
		draw.Draw(sheet, bg, image.NewUniform(e.Primary.Background), image.Point{}, draw.Src)
		if e.Primary.Image != nil {
			draw.CatmullRom.Scale(sheet, thumb, e.Primary.Image, e.Primary.Image.Bounds(), draw.Over, nil)
		}

		text := labels.fit(e.Primary.Name, maxLabel)
		w := labels.advance(text)
		d.Dot = fixed.Point26_6{
			X: fixed.I(cell.X) + (fixed.I(cellWidth)-w)/2,
			Y: fixed.I(cell.Y + cellPad/2 + thumbSize + ascent),
		}
		d.DrawString(text)
	}
	return nil
}

// thumbRect centers a w x h thumbnail in the thumbnail area of the cell at
// origin.
func thumbRect(origin image.Point, w, h int) image.Rectangle {
	w, h = min(max(w, 1), thumbSize), min(max(h, 1), thumbSize)
	x := origin.X + (cellWidth-w)/2
	y := origin.Y + cellPad/2 + (thumbSize-h)/2
	return image.Rect(x, y, x+w, y+h)
}
