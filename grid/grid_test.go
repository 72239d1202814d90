package grid

import "testing"

func mustGrid(t *testing.T, w, h int, targets []int) *Grid {
	t.Helper()
	g, err := New(w, h, targets)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name    string
		w, h    int
		targets int
		wantErr bool
	}{
		{"ok_small", 3, 3, 9, false},
		{"ok_max", MaxDim, MaxDim, MaxDim * MaxDim, false},
		{"zero_width", 0, 3, 0, true},
		{"too_wide", MaxDim + 1, 3, (MaxDim + 1) * 3, true},
		{"target_mismatch", 3, 3, 8, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New(c.w, c.h, make([]int, c.targets))
			if (err != nil) != c.wantErr {
				t.Fatalf("New(%d,%d) err=%v wantErr=%v", c.w, c.h, err, c.wantErr)
			}
		})
	}
}

func TestApplyProtectsCorrectCells(t *testing.T) {
	g := mustGrid(t, 3, 3, []int{0, 0, 1, 1, 0, 0, 0, 1, 0})

	idx := g.Index(0, 0)
	if !g.Apply(idx, 0) {
		t.Fatalf("first correct apply should change the cell")
	}
	if !g.At(idx).Correct() {
		t.Fatalf("cell should be correct after applying its target")
	}

	// once correct, any further application is a no-op
	for _, c := range []int{1, 0, 5} {
		if g.Apply(idx, c) {
			t.Fatalf("apply(%d) to correct cell should be a no-op", c)
		}
	}
	if got := g.At(idx).Applied; got != 0 {
		t.Fatalf("correct cell mutated: applied=%d", got)
	}
}

func TestApplyIdempotentAndReplaces(t *testing.T) {
	g := mustGrid(t, 3, 3, []int{0, 0, 1, 1, 0, 0, 0, 1, 0})
	idx := g.Index(2, 0) // target 1

	if !g.Apply(idx, 0) {
		t.Fatalf("incorrect apply should still change the cell")
	}
	if g.At(idx).Correct() {
		t.Fatalf("cell should be incorrect")
	}
	if g.Apply(idx, 0) {
		t.Fatalf("reapplying the same color should be a no-op")
	}

	// a new color replaces the stored one wholesale
	if !g.Apply(idx, 1) {
		t.Fatalf("replacing an incorrect fill should change the cell")
	}
	if got := g.At(idx).Applied; got != 1 {
		t.Fatalf("applied=%d, want 1", got)
	}
	if !g.At(idx).Correct() {
		t.Fatalf("cell should now be correct")
	}
}

func TestRestore(t *testing.T) {
	targets := []int{0, 1, 0, 1}
	g, err := Restore(2, 2, targets, []int{0, 0, Unfilled, 1})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	want := []struct {
		applied int
		correct bool
	}{
		{0, true},
		{0, false},
		{Unfilled, false},
		{1, true},
	}
	for i, w := range want {
		c := g.At(i)
		if c.Applied != w.applied || c.Correct() != w.correct {
			t.Fatalf("cell %d: applied=%d correct=%v, want %d %v", i, c.Applied, c.Correct(), w.applied, w.correct)
		}
	}
}

func TestAppliedColorsRoundTrip(t *testing.T) {
	g := mustGrid(t, 2, 2, []int{0, 1, 1, 0})
	g.Apply(0, 0)
	g.Apply(3, 1)

	applied := g.AppliedColors()
	g2, err := Restore(2, 2, []int{0, 1, 1, 0}, applied)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	for i := 0; i < g.Len(); i++ {
		if g.At(i) != g2.At(i) {
			t.Fatalf("cell %d differs after round trip", i)
		}
	}
}

func TestPaletteRGBA(t *testing.T) {
	p := Palette{0xe63946, 0x000000, 0xffffff}
	r, g, b, a := p.RGBA(0)
	if r != 0xe6 || g != 0x39 || b != 0x46 || a != 0xff {
		t.Fatalf("RGBA(0) = %d,%d,%d,%d", r, g, b, a)
	}
}
