// Package gesture classifies pointer activity into panning, painting,
// and pinch-zooming. One unified gesture serves all three without a
// mode toggle: the cell under the first press discriminates paint from
// pan, and a second pointer always means pinch.
package gesture

import "github.com/milk9111/cellfill/common"

type Mode int

const (
	Idle Mode = iota
	Pan
	Paint
	Pinch
)

func (m Mode) String() string {
	switch m {
	case Pan:
		return "pan"
	case Paint:
		return "paint"
	case Pinch:
		return "pinch"
	default:
		return "idle"
	}
}

// TapThreshold is the maximum accumulated drag distance, in screen
// pixels, for a pan release to resolve as a tap.
const TapThreshold = 15.0

// Target is what a recognized gesture drives. The game wires it to the
// viewport and the paint engine.
type Target interface {
	// CellAt maps a screen point to a cell; ok is false outside the grid.
	CellAt(x, y float64) (col, row int, ok bool)
	// CanStartPaint reports whether pressing this cell starts a paint
	// stroke: not yet correct and its target matches the selected color.
	CanStartPaint(col, row int) bool
	// PaintAt applies the brush at a cell (optimistic draw only).
	PaintAt(col, row int)
	// CommitStroke commits the stroke's touched set to canonical state.
	CommitStroke()
	// PanBy translates the viewport by a screen delta.
	PanBy(dx, dy float64)
	// ZoomAt scales the viewport about a screen anchor.
	ZoomAt(x, y, factor float64)
}

type pointerState struct {
	id   int
	x, y float64
}

// Recognizer is the pointer-gesture state machine. It is fed normalized
// pointer events (mouse or touch) and never touches the platform input
// API itself, which keeps it testable headlessly.
type Recognizer struct {
	target Target

	mode     Mode
	pointers []pointerState // press order, at most the first two matter

	// single-pointer move baseline
	lastX, lastY float64

	// accumulated drag distance for tap detection
	dragDist float64

	// last sampled cell during a paint stroke
	lastCol, lastRow int
	haveCell         bool

	// pinch baseline
	pinchDist float64
	pinched   bool // suppresses tap resolution after a pinch
}

func NewRecognizer(target Target) *Recognizer {
	return &Recognizer{target: target}
}

func (r *Recognizer) Mode() Mode { return r.mode }

func (r *Recognizer) find(id int) int {
	for i := range r.pointers {
		if r.pointers[i].id == id {
			return i
		}
	}
	return -1
}

// PointerDown feeds a press. The first pointer picks pan or paint; a
// second one cancels either and starts a pinch. Pointers beyond the
// second are ignored.
func (r *Recognizer) PointerDown(id int, x, y float64) {
	if r.find(id) >= 0 {
		return
	}
	r.pointers = append(r.pointers, pointerState{id: id, x: x, y: y})

	switch len(r.pointers) {
	case 1:
		r.lastX, r.lastY = x, y
		r.dragDist = 0
		r.pinched = false
		r.haveCell = false
		if col, row, ok := r.target.CellAt(x, y); ok && r.target.CanStartPaint(col, row) {
			r.mode = Paint
			r.target.PaintAt(col, row)
			r.lastCol, r.lastRow = col, row
			r.haveCell = true
		} else {
			r.mode = Pan
		}
	case 2:
		// A paint stroke interrupted by a pinch still commits; there is
		// no rollback path for applied cells.
		if r.mode == Paint {
			r.target.CommitStroke()
		}
		r.mode = Pinch
		r.pinched = true
		r.pinchDist = common.Dist(r.pointers[0].x, r.pointers[0].y, x, y)
	}
}

// PointerMove feeds a position update for a held pointer.
func (r *Recognizer) PointerMove(id int, x, y float64) {
	i := r.find(id)
	if i < 0 {
		return
	}
	r.pointers[i].x = x
	r.pointers[i].y = y
	if i > 1 {
		return
	}

	switch r.mode {
	case Paint:
		if i != 0 {
			return
		}
		r.dragDist += common.Dist(r.lastX, r.lastY, x, y)
		r.lastX, r.lastY = x, y
		col, row, ok := r.target.CellAt(x, y)
		if !ok {
			return
		}
		if r.haveCell && col == r.lastCol && row == r.lastRow {
			return
		}
		r.target.PaintAt(col, row)
		r.lastCol, r.lastRow = col, row
		r.haveCell = true
	case Pan:
		if i != 0 {
			return
		}
		r.dragDist += common.Dist(r.lastX, r.lastY, x, y)
		r.target.PanBy(x-r.lastX, y-r.lastY)
		r.lastX, r.lastY = x, y
	case Pinch:
		if len(r.pointers) < 2 {
			return
		}
		p0, p1 := r.pointers[0], r.pointers[1]
		dist := common.Dist(p0.x, p0.y, p1.x, p1.y)
		if r.pinchDist > 0 && dist > 0 {
			midX := (p0.x + p1.x) / 2
			midY := (p0.y + p1.y) / 2
			r.target.ZoomAt(midX, midY, dist/r.pinchDist)
		}
		r.pinchDist = dist
	}
}

// PointerUp feeds a release. The last pointer up resolves the gesture:
// a short pan becomes a tap that paints the release cell, and a paint
// stroke commits its touched set exactly once.
func (r *Recognizer) PointerUp(id int, x, y float64) {
	i := r.find(id)
	if i < 0 {
		return
	}
	r.pointers = append(r.pointers[:i], r.pointers[i+1:]...)

	if len(r.pointers) > 0 {
		// Two pointers down to one: keep interacting with the survivor.
		// Reset the baseline so the pan doesn't jump to the gap between
		// the two previous positions.
		if len(r.pointers) == 1 {
			r.lastX, r.lastY = r.pointers[0].x, r.pointers[0].y
			r.mode = Pan
		} else if r.mode == Pinch {
			// the surviving pair changed; rebaseline so the next move
			// doesn't zoom against the departed pointer's distance
			r.pinchDist = common.Dist(r.pointers[0].x, r.pointers[0].y,
				r.pointers[1].x, r.pointers[1].y)
		}
		return
	}

	switch r.mode {
	case Pan:
		if !r.pinched && r.dragDist < TapThreshold {
			// A deliberate click on a non-matching cell still paints:
			// the tap is its own one-cell stroke.
			if col, row, ok := r.target.CellAt(x, y); ok {
				r.target.PaintAt(col, row)
				r.target.CommitStroke()
			}
		}
	case Paint:
		r.target.CommitStroke()
	}
	r.mode = Idle
	r.haveCell = false
}

// PointerCancel handles losing a pointer (leave/cancel). It resolves the
// stroke identically to a release; paint strokes are never silently
// aborted.
func (r *Recognizer) PointerCancel(id int, x, y float64) {
	r.PointerUp(id, x, y)
}
