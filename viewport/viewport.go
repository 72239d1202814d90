// Package viewport holds the zoom/pan state of the cell grid and the
// screen<->grid coordinate math. All inputs and outputs are in screen
// pixels except cell coordinates, which are column/row indices.
package viewport

import (
	"math"

	"github.com/milk9111/cellfill/common"
)

const (
	DefaultMinZoom = 0.1
	DefaultMaxZoom = 12.0
)

type Viewport struct {
	Zoom float64
	PanX float64
	PanY float64

	MinZoom float64
	MaxZoom float64

	// grid geometry, fixed after New
	Cols     int
	Rows     int
	CellSize float64
}

func New(cols, rows int, cellSize float64) *Viewport {
	return &Viewport{
		Zoom:     1,
		MinZoom:  DefaultMinZoom,
		MaxZoom:  DefaultMaxZoom,
		Cols:     cols,
		Rows:     rows,
		CellSize: cellSize,
	}
}

func (v *Viewport) worldW() float64 { return float64(v.Cols) * v.CellSize }
func (v *Viewport) worldH() float64 { return float64(v.Rows) * v.CellSize }

// ScreenToGrid maps a screen point to the cell under it. ok is false
// when the point falls outside the grid.
func (v *Viewport) ScreenToGrid(x, y float64) (col, row int, ok bool) {
	gx := (x - v.PanX) / v.Zoom
	gy := (y - v.PanY) / v.Zoom
	col = int(math.Floor(gx / v.CellSize))
	row = int(math.Floor(gy / v.CellSize))
	if col < 0 || row < 0 || col >= v.Cols || row >= v.Rows {
		return 0, 0, false
	}
	return col, row, true
}

// GridToScreen returns the screen position of a cell's top-left corner.
func (v *Viewport) GridToScreen(col, row int) (x, y float64) {
	x = float64(col)*v.CellSize*v.Zoom + v.PanX
	y = float64(row)*v.CellSize*v.Zoom + v.PanY
	return x, y
}

// CellScreenSize returns the on-screen edge length of one cell.
func (v *Viewport) CellScreenSize() float64 {
	return v.CellSize * v.Zoom
}

// PanBy translates the view by a screen-pixel delta.
func (v *Viewport) PanBy(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// ZoomAtPoint scales the zoom by factor, clamped to [MinZoom, MaxZoom],
// keeping the world point under the anchor fixed on screen. It reports
// whether the zoom actually changed.
func (v *Viewport) ZoomAtPoint(anchorX, anchorY, factor float64) bool {
	newZoom := common.Clamp(v.Zoom*factor, v.MinZoom, v.MaxZoom)
	if newZoom == v.Zoom {
		return false
	}
	worldX := (anchorX - v.PanX) / v.Zoom
	worldY := (anchorY - v.PanY) / v.Zoom
	v.Zoom = newZoom
	v.PanX = anchorX - worldX*newZoom
	v.PanY = anchorY - worldY*newZoom
	return true
}

// FitToContainer picks the zoom that fits the whole grid inside a
// container of the given size, leaving margin pixels on each side, and
// centers the grid.
func (v *Viewport) FitToContainer(w, h, margin float64) {
	zw := (w - margin*2) / v.worldW()
	zh := (h - margin*2) / v.worldH()
	z := math.Min(zw, zh)
	v.Zoom = common.Clamp(z, v.MinZoom, v.MaxZoom)
	v.PanX = (w - v.worldW()*v.Zoom) / 2
	v.PanY = (h - v.worldH()*v.Zoom) / 2
}

// VisibleCells inverts the current transform on the container rectangle
// and returns the covered cell range, clamped to grid bounds and padded
// by one cell. Iterating it bounds per-frame detail work to the visible
// cells.
func (v *Viewport) VisibleCells(w, h float64) (minCol, minRow, maxCol, maxRow int) {
	x0 := (0 - v.PanX) / v.Zoom / v.CellSize
	y0 := (0 - v.PanY) / v.Zoom / v.CellSize
	x1 := (w - v.PanX) / v.Zoom / v.CellSize
	y1 := (h - v.PanY) / v.Zoom / v.CellSize

	minCol = common.ClampInt(int(math.Floor(x0))-1, 0, v.Cols-1)
	minRow = common.ClampInt(int(math.Floor(y0))-1, 0, v.Rows-1)
	maxCol = common.ClampInt(int(math.Ceil(x1))+1, 0, v.Cols-1)
	maxRow = common.ClampInt(int(math.Ceil(y1))+1, 0, v.Rows-1)
	return minCol, minRow, maxCol, maxRow
}
