package catalog

import (
	"bytes"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

const ellipsis = "…"

// labeler fits icon names into a fixed width using shaped advances.
// Not safe for concurrent use.
type labeler struct {
	face   *font.Face
	shaper shaping.HarfbuzzShaper
	size   fixed.Int26_6
}

func newLabeler(ttf []byte, size float64) (*labeler, error) {
	face, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, err
	}
	return &labeler{face: face, size: fixed.Int26_6(size * 64)}, nil
}

// advance returns the shaped width of s.
func (l *labeler) advance(s string) fixed.Int26_6 {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0
	}
	out := l.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      l.face,
		Size:      l.size,
		Script:    language.LookupScript(runes[0]),
		Language:  language.NewLanguage("en"),
	})
	return out.Advance
}

// fit returns s, or its longest prefix followed by an ellipsis, whose
// advance is at most width.
func (l *labeler) fit(s string, width fixed.Int26_6) string {
	if l.advance(s) <= width {
		return s
	}
	runes := []rune(s)
	lo, hi := 0, len(runes)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if l.advance(string(runes[:mid])+ellipsis) <= width {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo]) + ellipsis
}
