// Package paint applies the brush to the grid. During a drag stroke the
// canonical grid is left untouched; affected cells are stamped into the
// fill layer immediately and remembered in a pending set, which is
// committed to the grid exactly once when the stroke ends.
package paint

import "github.com/milk9111/cellfill/grid"

const (
	MinBrushSize = 1
	MaxBrushSize = 3
)

// ImmediateDrawer receives optimistic per-cell draws so feedback never
// waits for a full redraw pass. Implemented by the renderer.
type ImmediateDrawer interface {
	PaintCellNow(col, row, colorIndex int, correct bool)
}

// Engine owns brush application and the per-stroke pending set.
type Engine struct {
	grid      *grid.Grid
	drawer    ImmediateDrawer
	brushSize int

	// pending applied colors for the active stroke, keyed by cell index
	pending map[int]int
}

func NewEngine(g *grid.Grid, drawer ImmediateDrawer) *Engine {
	return &Engine{
		grid:      g,
		drawer:    drawer,
		brushSize: MinBrushSize,
		pending:   make(map[int]int),
	}
}

// SetBrushSize clamps to the supported footprint range.
func (e *Engine) SetBrushSize(size int) {
	if size < MinBrushSize {
		size = MinBrushSize
	}
	if size > MaxBrushSize {
		size = MaxBrushSize
	}
	e.brushSize = size
}

func (e *Engine) BrushSize() int { return e.brushSize }

// footprint returns the clipped cell rectangle covered by the brush at
// (col,row). Odd sizes center on the cell; even sizes anchor their
// top-left there, since an even square has no center cell.
func (e *Engine) footprint(col, row int) (c0, r0, c1, r1 int) {
	size := e.brushSize
	if size%2 == 1 {
		half := size / 2
		c0, r0 = col-half, row-half
	} else {
		c0, r0 = col, row
	}
	c1 = c0 + size - 1
	r1 = r0 + size - 1

	if c0 < 0 {
		c0 = 0
	}
	if r0 < 0 {
		r0 = 0
	}
	if c1 >= e.grid.Width {
		c1 = e.grid.Width - 1
	}
	if r1 >= e.grid.Height {
		r1 = e.grid.Height - 1
	}
	return c0, r0, c1, r1
}

// Apply stamps the brush footprint at (col,row) with colorIndex.
// Already-correct cells and cells that already carry colorIndex (in the
// grid or in this stroke's pending set) are skipped. Every newly touched
// cell is drawn immediately and added to the pending set. Returns the
// indices touched by this call.
func (e *Engine) Apply(col, row, colorIndex int) []int {
	c0, r0, c1, r1 := e.footprint(col, row)
	if c1 < c0 || r1 < r0 {
		return nil
	}

	var touched []int
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			idx := e.grid.Index(c, r)
			cell := e.grid.At(idx)
			if cell.Correct() {
				continue
			}
			if cell.Applied == colorIndex {
				continue
			}
			if prev, ok := e.pending[idx]; ok && prev == colorIndex {
				continue
			}
			e.pending[idx] = colorIndex
			touched = append(touched, idx)
			if e.drawer != nil {
				e.drawer.PaintCellNow(c, r, colorIndex, cell.Target == colorIndex)
			}
		}
	}
	return touched
}

// PendingCount returns the number of cells touched so far this stroke.
func (e *Engine) PendingCount() int { return len(e.pending) }

// Commit writes the stroke's pending set to the canonical grid in one
// transition and clears it. Returns the indices whose canonical state
// changed; empty strokes commit nothing.
func (e *Engine) Commit() []int {
	if len(e.pending) == 0 {
		return nil
	}
	changed := make([]int, 0, len(e.pending))
	for idx, colorIndex := range e.pending {
		if e.grid.Apply(idx, colorIndex) {
			changed = append(changed, idx)
		}
	}
	e.pending = make(map[int]int)
	return changed
}

// Abandon drops the pending set without committing. Only used when the
// whole engine instance is torn down; in-progress strokes otherwise
// always resolve through Commit.
func (e *Engine) Abandon() {
	e.pending = make(map[int]int)
}
