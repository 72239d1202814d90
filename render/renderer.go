// Package render draws the cell grid as a stack of independently
// dirty-tracked layers: background, highlight, per-cell borders,
// correct fill, incorrect (tinted) fill, numerals, outer border. The
// fill layers live in world space and are only redrawn on bulk events;
// optimistic per-cell paints stamp straight into them. The detail
// layers live in screen space and are redrawn with visible-range
// culling, so per-frame cost is bounded by the visible cells, never the
// grid.
package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/cellfill/config"
	"github.com/milk9111/cellfill/grid"
	"github.com/milk9111/cellfill/viewport"
)

// BaseCellSize is the world-space edge of one cell in pixels. The fill
// layer is rasterized at this density and scaled by the viewport zoom.
const BaseCellSize = 16

// LOD thresholds in on-screen cell pixels. Below them the draw calls
// are skipped entirely.
const (
	borderMinPx  = 6
	numeralMinPx = 14
)

const outerBorderWidth = 2

type Renderer struct {
	grid *grid.Grid
	view *viewport.Viewport

	theme    config.Theme
	selected int
	hint     bool

	// palette resolved to concrete colors: opaque for correct fills,
	// premultiplied translucent for incorrect tints
	opaque []color.RGBA
	tinted []color.RGBA

	bgColor        color.RGBA
	borderColor    color.RGBA
	outerColor     color.RGBA
	highlightColor color.RGBA
	numeralColor   color.RGBA

	// world-space fill layer (correct + incorrect cells)
	fill *ebiten.Image
	// screen-space detail layers: highlight+borders sit under the fill,
	// numerals sit over it
	under *ebiten.Image
	over  *ebiten.Image

	white  *ebiten.Image
	glyphs *GlyphCache

	flags Flags

	// last composited viewport, to detect motion for the culled layers
	lastPanX, lastPanY, lastZoom float64

	screenW, screenH int
}

// New builds a renderer for a grid and palette. Failing to prepare the
// glyph cache or layer surfaces is fatal to the engine instance; the
// caller falls back to a placeholder state.
func New(g *grid.Grid, palette grid.Palette, view *viewport.Viewport, theme config.Theme) (*Renderer, error) {
	glyphs, err := NewGlyphCache()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		grid:   g,
		view:   view,
		fill:   ebiten.NewImage(g.Width*BaseCellSize, g.Height*BaseCellSize),
		white:  ebiten.NewImage(1, 1),
		glyphs: glyphs,
	}
	r.white.Fill(color.White)
	r.setPalette(palette, theme)
	r.applyTheme(theme)
	r.MarkFilledDirty()
	r.MarkHighlightBorderTextDirty()
	return r, nil
}

// Dispose releases the renderer's GPU surfaces. The instance is dead
// afterwards; recovery is a full reinitialization.
func (r *Renderer) Dispose() {
	r.glyphs.Dispose()
	r.fill.Deallocate()
	if r.under != nil {
		r.under.Deallocate()
		r.over.Deallocate()
	}
	r.white.Deallocate()
}

// Named dirty setters. The renderer clears flags only after the
// corresponding redraw pass.

func (r *Renderer) MarkFilledDirty()              { r.flags.filled = true }
func (r *Renderer) MarkHighlightBorderTextDirty() { r.flags.highlightBorderText = true }
func (r *Renderer) MarkTransformDirty()           { r.flags.transform = true }

// SetSelected changes the highlighted color index.
func (r *Renderer) SetSelected(index int) {
	if index == r.selected {
		return
	}
	r.selected = index
	r.MarkHighlightBorderTextDirty()
}

// SetHint toggles highlighting of cells matching the selected color.
func (r *Renderer) SetHint(on bool) {
	if on == r.hint {
		return
	}
	r.hint = on
	r.MarkHighlightBorderTextDirty()
}

func (r *Renderer) Hint() bool { return r.hint }

// SetTheme swaps the theme: the glyph cache is regenerated wholesale
// and every layer group is redrawn. Idempotent and atomic; there is no
// partially themed state.
func (r *Renderer) SetTheme(palette grid.Palette, theme config.Theme) {
	r.setPalette(palette, theme)
	r.applyTheme(theme)
	r.MarkFilledDirty()
	r.MarkHighlightBorderTextDirty()
}

func (r *Renderer) setPalette(palette grid.Palette, theme config.Theme) {
	r.opaque = make([]color.RGBA, len(palette))
	r.tinted = make([]color.RGBA, len(palette))
	a := theme.IncorrectAlpha
	for i := range palette {
		pr, pg, pb, _ := palette.RGBA(i)
		r.opaque[i] = color.RGBA{R: pr, G: pg, B: pb, A: 0xff}
		// premultiplied translucent tint, low enough that the numeral
		// stays legible through it
		r.tinted[i] = color.RGBA{
			R: uint8(float64(pr) * a),
			G: uint8(float64(pg) * a),
			B: uint8(float64(pb) * a),
			A: uint8(255 * a),
		}
	}
}

func (r *Renderer) applyTheme(theme config.Theme) {
	r.theme = theme
	r.bgColor = config.ParseHexColor(theme.CellUnfilled)
	r.borderColor = config.ParseHexColor(theme.Border)
	r.outerColor = config.ParseHexColor(theme.OuterBorder)
	hl := config.ParseHexColor(theme.Highlight)
	// highlight is translucent so the numeral and tint read through it
	fullAlpha := 255.0
	r.highlightColor = color.RGBA{
		R: uint8(float64(hl.R) * 0.45),
		G: uint8(float64(hl.G) * 0.45),
		B: uint8(float64(hl.B) * 0.45),
		A: uint8(fullAlpha * 0.45),
	}
	r.numeralColor = config.ParseHexColor(theme.Numeral)
	r.glyphs.Build(len(r.opaque), r.numeralColor)
}

// Resize recreates the screen-space layers when the container changes.
func (r *Renderer) Resize(w, h int) {
	if w == r.screenW && h == r.screenH {
		return
	}
	if r.under != nil {
		r.under.Deallocate()
		r.over.Deallocate()
	}
	r.screenW, r.screenH = w, h
	r.under = ebiten.NewImage(w, h)
	r.over = ebiten.NewImage(w, h)
	r.MarkHighlightBorderTextDirty()
}

// PaintCellNow stamps one cell into the fill layer immediately, outside
// the dirty-redraw path, so a brush application is visible the same
// frame with O(1) work. The stamp replaces the previous pixels
// wholesale; repainting never blends with an earlier tint.
func (r *Renderer) PaintCellNow(col, row, colorIndex int, correct bool) {
	if colorIndex < 0 || colorIndex >= len(r.opaque) {
		return
	}
	c := r.tinted[colorIndex]
	if correct {
		c = r.opaque[colorIndex]
	}
	r.cellRect(col, row).Fill(c)
}

func (r *Renderer) cellRect(col, row int) *ebiten.Image {
	x, y := col*BaseCellSize, row*BaseCellSize
	return r.fill.SubImage(image.Rect(x, y, x+BaseCellSize, y+BaseCellSize)).(*ebiten.Image)
}

// redrawFill rebuilds the whole fill layer from canonical grid state.
// Only bulk events reach here (initial load, stroke commit, theme
// change); per-paint feedback goes through PaintCellNow instead.
func (r *Renderer) redrawFill() {
	r.fill.Clear()
	for row := 0; row < r.grid.Height; row++ {
		for col := 0; col < r.grid.Width; col++ {
			cell := r.grid.AtCell(col, row)
			if cell.Applied == grid.Unfilled {
				continue
			}
			if cell.Applied < 0 || cell.Applied >= len(r.opaque) {
				continue
			}
			if cell.Correct() {
				r.cellRect(col, row).Fill(r.opaque[cell.Applied])
			} else {
				r.cellRect(col, row).Fill(r.tinted[cell.Applied])
			}
		}
	}
}

// redrawDetail rebuilds the screen-space layers over the visible cell
// range only: highlight and per-cell borders underneath the fill,
// numerals above it. LOD gates borders and numerals by on-screen cell
// size.
func (r *Renderer) redrawDetail() {
	if r.under == nil {
		return
	}
	r.under.Clear()
	r.over.Clear()

	px := r.view.CellScreenSize()
	drawBorders := px > borderMinPx
	drawNumerals := px > numeralMinPx
	drawHighlight := r.hint && r.selected >= 0

	if !drawBorders && !drawNumerals && !drawHighlight {
		return
	}

	minCol, minRow, maxCol, maxRow := r.view.VisibleCells(float64(r.screenW), float64(r.screenH))
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			sx, sy := r.view.GridToScreen(col, row)
			cell := r.grid.AtCell(col, row)
			correct := cell.Correct()

			if drawHighlight && !correct && cell.Target == r.selected {
				op := &ebiten.DrawImageOptions{}
				op.GeoM.Scale(px, px)
				op.GeoM.Translate(sx, sy)
				op.ColorScale.ScaleWithColor(r.highlightColor)
				r.under.DrawImage(r.white, op)
			}

			if drawBorders {
				vector.StrokeRect(r.under, float32(sx), float32(sy), float32(px), float32(px), 1, r.borderColor, false)
			}

			if drawNumerals && !correct {
				if g := r.glyphs.Glyph(cell.Target); g != nil {
					gw := float64(g.Bounds().Dx())
					gh := float64(g.Bounds().Dy())
					scale := px * 0.7 / gh
					op := &ebiten.DrawImageOptions{}
					op.Filter = ebiten.FilterLinear
					op.GeoM.Scale(scale, scale)
					op.GeoM.Translate(sx+(px-gw*scale)/2, sy+(px-gh*scale)/2)
					r.over.DrawImage(g, op)
				}
			}
		}
	}
}

// Draw runs once per display frame: process dirty groups, then
// composite. The stack's position/scale is reapplied unconditionally
// every frame so it can never lag the viewport.
func (r *Renderer) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	r.Resize(w, h)

	if r.flags.filled {
		r.redrawFill()
	}
	moved := r.view.PanX != r.lastPanX || r.view.PanY != r.lastPanY || r.view.Zoom != r.lastZoom
	if r.flags.highlightBorderText || r.flags.transform || moved {
		r.redrawDetail()
	}
	r.flags.clear()
	r.lastPanX, r.lastPanY, r.lastZoom = r.view.PanX, r.view.PanY, r.view.Zoom

	screen.Fill(config.ParseHexColor(r.theme.Background))

	gridW := float64(r.grid.Width) * BaseCellSize
	gridH := float64(r.grid.Height) * BaseCellSize

	// background: the unfilled cell color under the whole grid
	bgOp := &ebiten.DrawImageOptions{}
	bgOp.GeoM.Scale(gridW*r.view.Zoom, gridH*r.view.Zoom)
	bgOp.GeoM.Translate(r.view.PanX, r.view.PanY)
	bgOp.ColorScale.ScaleWithColor(r.bgColor)
	screen.DrawImage(r.white, bgOp)

	// highlight + borders (screen space, already positioned)
	screen.DrawImage(r.under, nil)

	// fill layer, scaled and panned in one affine update
	fillOp := &ebiten.DrawImageOptions{}
	fillOp.GeoM.Scale(r.view.Zoom, r.view.Zoom)
	fillOp.GeoM.Translate(r.view.PanX, r.view.PanY)
	screen.DrawImage(r.fill, fillOp)

	// numerals
	screen.DrawImage(r.over, nil)

	// outer border
	vector.StrokeRect(screen,
		float32(r.view.PanX), float32(r.view.PanY),
		float32(gridW*r.view.Zoom), float32(gridH*r.view.Zoom),
		outerBorderWidth, r.outerColor, false)
}
