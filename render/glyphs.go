package render

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// glyphPt is the face size numerals are shaped at. Stamping scales the
// finished bitmap, so text is never re-shaped per frame.
const glyphPt = 24

// GlyphCache pre-renders the numeral for every palette index into a
// reusable bitmap at init. Theme or palette changes regenerate the
// whole cache atomically; there is no partial invalidation.
type GlyphCache struct {
	source *text.GoTextFaceSource
	imgs   []*ebiten.Image
}

func NewGlyphCache() (*GlyphCache, error) {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load numeral font: %w", err)
	}
	return &GlyphCache{source: s}, nil
}

// Build renders numerals 1..count in the given color, replacing any
// previous set wholesale.
func (gc *GlyphCache) Build(count int, clr color.Color) {
	face := &text.GoTextFace{Source: gc.source, Size: glyphPt}
	imgs := make([]*ebiten.Image, count)
	for i := 0; i < count; i++ {
		label := strconv.Itoa(i + 1)
		w, h := text.Measure(label, face, 0)
		img := ebiten.NewImage(int(w)+2, int(h)+2)
		op := &text.DrawOptions{}
		op.GeoM.Translate(1, 1)
		op.ColorScale.ScaleWithColor(clr)
		text.Draw(img, label, face, op)
		imgs[i] = img
	}
	old := gc.imgs
	gc.imgs = imgs
	for _, img := range old {
		if img != nil {
			img.Deallocate()
		}
	}
}

// Glyph returns the bitmap for a palette index, nil when out of range.
func (gc *GlyphCache) Glyph(index int) *ebiten.Image {
	if index < 0 || index >= len(gc.imgs) {
		return nil
	}
	return gc.imgs[index]
}

// Dispose releases every cached bitmap. The cache is scoped to one
// renderer instance and must not outlive it.
func (gc *GlyphCache) Dispose() {
	for _, img := range gc.imgs {
		if img != nil {
			img.Deallocate()
		}
	}
	gc.imgs = nil
}
