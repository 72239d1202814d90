package viewport

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestScreenToGrid(t *testing.T) {
	v := New(10, 10, 16)
	v.Zoom = 2
	v.PanX = 100
	v.PanY = 50

	cases := []struct {
		name     string
		x, y     float64
		col, row int
		ok       bool
	}{
		{"origin_cell", 100, 50, 0, 0, true},
		{"inside_cell", 131, 81, 0, 0, true},
		{"next_cell", 132, 82, 1, 1, true},
		{"last_cell", 100 + 10*32 - 1, 50 + 10*32 - 1, 9, 9, true},
		{"left_of_grid", 99, 50, 0, 0, false},
		{"below_grid", 100, 50 + 10*32, 0, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			col, row, ok := v.ScreenToGrid(c.x, c.y)
			if col != c.col || row != c.row || ok != c.ok {
				t.Fatalf("ScreenToGrid(%v,%v) = %d,%d,%v, want %d,%d,%v",
					c.x, c.y, col, row, ok, c.col, c.row, c.ok)
			}
		})
	}
}

func TestGridToScreenInverse(t *testing.T) {
	v := New(20, 15, 16)
	v.Zoom = 1.75
	v.PanX = -33.5
	v.PanY = 12.25

	// GridToScreen is a left inverse of ScreenToGrid for every in-bounds cell
	for row := 0; row < v.Rows; row++ {
		for col := 0; col < v.Cols; col++ {
			x, y := v.GridToScreen(col, row)
			half := v.CellScreenSize() / 2
			gc, gr, ok := v.ScreenToGrid(x+half, y+half)
			if !ok || gc != col || gr != row {
				t.Fatalf("cell (%d,%d) round-tripped to (%d,%d,%v)", col, row, gc, gr, ok)
			}
		}
	}
}

func TestZoomAtPointKeepsAnchorFixed(t *testing.T) {
	v := New(50, 50, 16)
	v.Zoom = 1
	v.PanX = 0
	v.PanY = 0

	if !v.ZoomAtPoint(100, 100, 1.5) {
		t.Fatalf("zoom should have changed")
	}
	if v.Zoom != 1.5 {
		t.Fatalf("zoom = %v, want 1.5", v.Zoom)
	}
	if math.Abs(v.PanX-(-50)) > epsilon || math.Abs(v.PanY-(-50)) > epsilon {
		t.Fatalf("pan = (%v,%v), want (-50,-50)", v.PanX, v.PanY)
	}

	// the world point under the anchor must stay under the anchor
	worldX := (100 - v.PanX) / v.Zoom
	worldY := (100 - v.PanY) / v.Zoom
	v.ZoomAtPoint(100, 100, 0.7)
	if math.Abs((100-v.PanX)/v.Zoom-worldX) > epsilon || math.Abs((100-v.PanY)/v.Zoom-worldY) > epsilon {
		t.Fatalf("anchor world point drifted")
	}
}

func TestZoomClamping(t *testing.T) {
	v := New(10, 10, 16)
	v.MinZoom = 0.5
	v.MaxZoom = 4

	v.Zoom = 4
	if v.ZoomAtPoint(0, 0, 2) {
		t.Fatalf("zoom at max should not change")
	}
	if v.Zoom != 4 {
		t.Fatalf("zoom mutated at max: %v", v.Zoom)
	}

	v.Zoom = 1
	if !v.ZoomAtPoint(0, 0, 100) {
		t.Fatalf("zoom toward max should clamp but still change")
	}
	if v.Zoom != 4 {
		t.Fatalf("zoom = %v, want clamp to 4", v.Zoom)
	}

	v.Zoom = 0.5
	if v.ZoomAtPoint(0, 0, 0.1) {
		t.Fatalf("zoom at min should not change")
	}
}

func TestPanBy(t *testing.T) {
	v := New(10, 10, 16)
	v.PanBy(5, -3)
	v.PanBy(-2, 10)
	if v.PanX != 3 || v.PanY != 7 {
		t.Fatalf("pan = (%v,%v), want (3,7)", v.PanX, v.PanY)
	}
}

func TestFitToContainer(t *testing.T) {
	v := New(10, 20, 16) // world 160x320
	v.FitToContainer(800, 800, 40)

	// height is the constraining axis: (800-80)/320 = 2.25
	if math.Abs(v.Zoom-2.25) > epsilon {
		t.Fatalf("zoom = %v, want 2.25", v.Zoom)
	}
	// grid centered: panX = (800 - 160*2.25)/2 = 220, panY = (800 - 320*2.25)/2 = 40
	if math.Abs(v.PanX-220) > epsilon || math.Abs(v.PanY-40) > epsilon {
		t.Fatalf("pan = (%v,%v), want (220,40)", v.PanX, v.PanY)
	}
}

func TestVisibleCells(t *testing.T) {
	v := New(100, 100, 16)

	t.Run("whole_grid_visible", func(t *testing.T) {
		v.Zoom = 0.5
		v.PanX, v.PanY = 0, 0
		minCol, minRow, maxCol, maxRow := v.VisibleCells(1000, 1000)
		if minCol != 0 || minRow != 0 || maxCol != 99 || maxRow != 99 {
			t.Fatalf("range = (%d,%d)-(%d,%d)", minCol, minRow, maxCol, maxRow)
		}
	})

	t.Run("zoomed_in_corner", func(t *testing.T) {
		v.Zoom = 4
		v.PanX, v.PanY = 0, 0
		minCol, minRow, maxCol, maxRow := v.VisibleCells(320, 320)
		// 320/4/16 = 5 cells visible, plus one cell of padding
		if minCol != 0 || minRow != 0 {
			t.Fatalf("min = (%d,%d), want (0,0)", minCol, minRow)
		}
		if maxCol != 6 || maxRow != 6 {
			t.Fatalf("max = (%d,%d), want (6,6)", maxCol, maxRow)
		}
	})

	t.Run("panned_off_left", func(t *testing.T) {
		v.Zoom = 1
		v.PanX, v.PanY = -160, 0
		minCol, _, _, _ := v.VisibleCells(320, 320)
		if minCol != 9 {
			t.Fatalf("minCol = %d, want 9", minCol)
		}
	})
}
