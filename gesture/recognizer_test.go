package gesture

import (
	"math"
	"testing"
)

// fakeTarget backs the recognizer with a simple 10x10 grid at 32 screen
// pixels per cell and records every call it receives.
type fakeTarget struct {
	paintable func(col, row int) bool

	paints  [][2]int
	commits int
	panDX   float64
	panDY   float64
	panOps  int
	zooms   []zoomCall
}

type zoomCall struct {
	x, y, factor float64
}

func (f *fakeTarget) CellAt(x, y float64) (int, int, bool) {
	col := int(math.Floor(x / 32))
	row := int(math.Floor(y / 32))
	if col < 0 || row < 0 || col >= 10 || row >= 10 {
		return 0, 0, false
	}
	return col, row, true
}

func (f *fakeTarget) CanStartPaint(col, row int) bool {
	if f.paintable == nil {
		return true
	}
	return f.paintable(col, row)
}

func (f *fakeTarget) PaintAt(col, row int) { f.paints = append(f.paints, [2]int{col, row}) }
func (f *fakeTarget) CommitStroke()        { f.commits++ }

func (f *fakeTarget) PanBy(dx, dy float64) {
	f.panDX += dx
	f.panDY += dy
	f.panOps++
}

func (f *fakeTarget) ZoomAt(x, y, factor float64) {
	f.zooms = append(f.zooms, zoomCall{x, y, factor})
}

func TestPaintStrokeCommitsOnce(t *testing.T) {
	ft := &fakeTarget{}
	r := NewRecognizer(ft)

	// drag across five cells in one row
	r.PointerDown(0, 16, 16)
	for x := 48.0; x <= 144; x += 32 {
		r.PointerMove(0, x, 16)
	}
	if r.Mode() != Paint {
		t.Fatalf("mode = %v, want paint", r.Mode())
	}
	if ft.commits != 0 {
		t.Fatalf("committed mid-stroke")
	}
	r.PointerUp(0, 144, 16)

	if len(ft.paints) != 5 {
		t.Fatalf("painted %d cells, want 5: %v", len(ft.paints), ft.paints)
	}
	if ft.commits != 1 {
		t.Fatalf("commits = %d, want 1", ft.commits)
	}
	if ft.panOps != 0 {
		t.Fatalf("paint stroke panned the view")
	}
	if r.Mode() != Idle {
		t.Fatalf("mode = %v after release, want idle", r.Mode())
	}
}

func TestPaintSameCellNotResampled(t *testing.T) {
	ft := &fakeTarget{}
	r := NewRecognizer(ft)

	r.PointerDown(0, 16, 16)
	// jitter inside the same cell
	r.PointerMove(0, 17, 15)
	r.PointerMove(0, 20, 20)
	r.PointerUp(0, 20, 20)

	if len(ft.paints) != 1 {
		t.Fatalf("painted %d times inside one cell, want 1", len(ft.paints))
	}
}

func TestPanWhenCellNotPaintable(t *testing.T) {
	ft := &fakeTarget{paintable: func(int, int) bool { return false }}
	r := NewRecognizer(ft)

	r.PointerDown(0, 16, 16)
	if r.Mode() != Pan {
		t.Fatalf("mode = %v, want pan", r.Mode())
	}
	r.PointerMove(0, 46, 26)
	r.PointerMove(0, 76, 36)
	r.PointerUp(0, 76, 36)

	if ft.panDX != 60 || ft.panDY != 20 {
		t.Fatalf("pan = (%v,%v), want (60,20)", ft.panDX, ft.panDY)
	}
	// drag exceeded the tap threshold, so the release must not paint
	if len(ft.paints) != 0 {
		t.Fatalf("long pan painted on release: %v", ft.paints)
	}
	if ft.commits != 0 {
		t.Fatalf("long pan committed a stroke")
	}
}

func TestTapPaintsReleaseCell(t *testing.T) {
	ft := &fakeTarget{paintable: func(int, int) bool { return false }}
	r := NewRecognizer(ft)

	r.PointerDown(0, 70, 70)
	r.PointerMove(0, 74, 72) // under the threshold
	r.PointerUp(0, 74, 72)

	if len(ft.paints) != 1 || ft.paints[0] != [2]int{2, 2} {
		t.Fatalf("paints = %v, want [[2 2]]", ft.paints)
	}
	if ft.commits != 1 {
		t.Fatalf("commits = %d, want 1", ft.commits)
	}
}

func TestTapOutsideGridDoesNothing(t *testing.T) {
	ft := &fakeTarget{paintable: func(int, int) bool { return false }}
	r := NewRecognizer(ft)

	r.PointerDown(0, -5, -5)
	r.PointerUp(0, -5, -5)

	if len(ft.paints) != 0 || ft.commits != 0 {
		t.Fatalf("off-grid tap painted: paints=%v commits=%d", ft.paints, ft.commits)
	}
}

func TestPinchZoomsAtMidpoint(t *testing.T) {
	ft := &fakeTarget{paintable: func(int, int) bool { return false }}
	r := NewRecognizer(ft)

	r.PointerDown(1, 100, 100)
	r.PointerDown(2, 200, 100)
	if r.Mode() != Pinch {
		t.Fatalf("mode = %v, want pinch", r.Mode())
	}

	// spread: distance 100 -> 150
	r.PointerMove(2, 250, 100)
	if len(ft.zooms) != 1 {
		t.Fatalf("zooms = %d, want 1", len(ft.zooms))
	}
	z := ft.zooms[0]
	if z.x != 175 || z.y != 100 {
		t.Fatalf("zoom anchor = (%v,%v), want midpoint (175,100)", z.x, z.y)
	}
	if math.Abs(z.factor-1.5) > 1e-9 {
		t.Fatalf("factor = %v, want 1.5", z.factor)
	}

	// contract: 150 -> 75, factor relative to the previous distance
	r.PointerMove(2, 175, 100)
	z = ft.zooms[1]
	if math.Abs(z.factor-0.5) > 1e-9 {
		t.Fatalf("second factor = %v, want 0.5", z.factor)
	}
	if ft.panOps != 0 {
		t.Fatalf("pinch leaked pan calls")
	}
}

func TestSecondPointerCommitsActiveStroke(t *testing.T) {
	ft := &fakeTarget{}
	r := NewRecognizer(ft)

	r.PointerDown(1, 16, 16)
	r.PointerMove(1, 48, 16)
	if r.Mode() != Paint {
		t.Fatalf("mode = %v, want paint", r.Mode())
	}

	r.PointerDown(2, 200, 200)
	if r.Mode() != Pinch {
		t.Fatalf("mode = %v, want pinch", r.Mode())
	}
	if ft.commits != 1 {
		t.Fatalf("stroke not committed on pinch entry: commits=%d", ft.commits)
	}

	// releasing both must not double-commit or tap-paint
	r.PointerUp(2, 200, 200)
	r.PointerUp(1, 16, 16)
	if ft.commits != 1 {
		t.Fatalf("commits = %d after release, want 1", ft.commits)
	}
	if len(ft.paints) != 2 {
		t.Fatalf("paints = %v, tap fired after pinch", ft.paints)
	}
}

func TestPinchToOnePointerContinuesAsPan(t *testing.T) {
	ft := &fakeTarget{paintable: func(int, int) bool { return false }}
	r := NewRecognizer(ft)

	r.PointerDown(1, 100, 100)
	r.PointerDown(2, 200, 100)
	r.PointerUp(2, 200, 100)

	if r.Mode() != Pan {
		t.Fatalf("mode = %v after pinch shrank, want pan", r.Mode())
	}

	// the baseline resets to the survivor: no jump to the released finger
	r.PointerMove(1, 110, 100)
	if ft.panDX != 10 || ft.panDY != 0 {
		t.Fatalf("pan = (%v,%v), want (10,0)", ft.panDX, ft.panDY)
	}

	// and the final release is never a tap, even with a tiny drag
	r.PointerUp(1, 110, 100)
	if len(ft.paints) != 0 || ft.commits != 0 {
		t.Fatalf("post-pinch release painted: paints=%v commits=%d", ft.paints, ft.commits)
	}
}

func TestPinchSurvivorPairRebaselines(t *testing.T) {
	ft := &fakeTarget{paintable: func(int, int) bool { return false }}
	r := NewRecognizer(ft)

	// three pointers: the pinch pair is the first two, distance 300
	r.PointerDown(1, 0, 100)
	r.PointerDown(2, 300, 100)
	r.PointerDown(3, 300, 200)

	// lifting the first promotes the third into the pair (distance 100)
	r.PointerUp(1, 0, 100)
	if r.Mode() != Pinch {
		t.Fatalf("mode = %v, want pinch", r.Mode())
	}

	before := len(ft.zooms)
	r.PointerMove(3, 300, 250)
	if len(ft.zooms) != before+1 {
		t.Fatalf("zooms = %d, want %d", len(ft.zooms), before+1)
	}
	z := ft.zooms[len(ft.zooms)-1]
	// factor relative to the new pair's distance, not the departed one's
	if math.Abs(z.factor-1.5) > 1e-9 {
		t.Fatalf("factor = %v, want 1.5", z.factor)
	}
	if z.x != 300 || z.y != 175 {
		t.Fatalf("anchor = (%v,%v), want (300,175)", z.x, z.y)
	}
}

func TestCancelResolvesLikeRelease(t *testing.T) {
	ft := &fakeTarget{}
	r := NewRecognizer(ft)

	r.PointerDown(0, 16, 16)
	r.PointerMove(0, 48, 16)
	r.PointerCancel(0, 48, 16)

	if ft.commits != 1 {
		t.Fatalf("cancel dropped the stroke: commits=%d", ft.commits)
	}
	if r.Mode() != Idle {
		t.Fatalf("mode = %v after cancel, want idle", r.Mode())
	}
}

func TestThirdPointerIgnored(t *testing.T) {
	ft := &fakeTarget{paintable: func(int, int) bool { return false }}
	r := NewRecognizer(ft)

	r.PointerDown(1, 100, 100)
	r.PointerDown(2, 200, 100)
	r.PointerDown(3, 150, 200)
	if r.Mode() != Pinch {
		t.Fatalf("mode = %v, want pinch", r.Mode())
	}

	before := len(ft.zooms)
	r.PointerMove(3, 150, 250)
	if len(ft.zooms) != before {
		t.Fatalf("third pointer drove a zoom")
	}
}

func TestUnknownPointerEventsIgnored(t *testing.T) {
	ft := &fakeTarget{}
	r := NewRecognizer(ft)

	r.PointerMove(7, 50, 50)
	r.PointerUp(7, 50, 50)
	if len(ft.paints) != 0 || ft.commits != 0 || r.Mode() != Idle {
		t.Fatalf("stray events changed state")
	}
}
