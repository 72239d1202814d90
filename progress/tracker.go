// Package progress derives completion state from the grid. Recomputes
// are debounced behind canonical mutations, so a drag stroke costs one
// linear pass after its commit, not one per pointer move.
package progress

import (
	"time"

	"github.com/milk9111/cellfill/grid"
)

// DefaultDebounce is how long after the last canonical mutation the
// recompute runs.
const DefaultDebounce = 300 * time.Millisecond

// ColorProgress is one palette entry's completion count.
type ColorProgress struct {
	Filled int
	Total  int
}

func (c ColorProgress) Done() bool { return c.Total > 0 && c.Filled == c.Total }

// Snapshot is the result of one recompute pass.
type Snapshot struct {
	Correct  int
	Total    int
	PerColor []ColorProgress
}

// Percent returns overall completion in [0,100].
func (s Snapshot) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

// Tracker debounces recomputes and detects completion transitions.
type Tracker struct {
	grid     *grid.Grid
	colors   int
	debounce time.Duration

	dirty   bool
	dirtyAt time.Time

	snapshot     Snapshot
	completedSet []bool
	overallDone  bool
}

func NewTracker(g *grid.Grid, paletteSize int, debounce time.Duration) *Tracker {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	t := &Tracker{
		grid:         g,
		colors:       paletteSize,
		debounce:     debounce,
		completedSet: make([]bool, paletteSize),
	}
	// initial pass so restored projects report progress immediately,
	// without firing completion feedback for already-done colors
	t.recompute()
	for i, pc := range t.snapshot.PerColor {
		t.completedSet[i] = pc.Done()
	}
	t.overallDone = t.snapshot.Correct == t.snapshot.Total
	return t
}

// Snapshot returns the most recent computed state.
func (t *Tracker) Snapshot() Snapshot { return t.snapshot }

// MarkDirty schedules a recompute. Called on every canonical commit;
// repeated calls push the debounce window out.
func (t *Tracker) MarkDirty(now time.Time) {
	t.dirty = true
	t.dirtyAt = now
}

// Event is one-shot completion feedback from a recompute.
type Event struct {
	// ColorDone holds palette indices that just became complete.
	ColorDone []int
	// AllDone fires exactly once, on the not-100% to 100% transition.
	AllDone bool
}

// Update runs the recompute once the debounce window has elapsed and
// returns completion transitions. Call once per tick.
func (t *Tracker) Update(now time.Time) (Event, bool) {
	if !t.dirty || now.Sub(t.dirtyAt) < t.debounce {
		return Event{}, false
	}
	t.dirty = false
	t.recompute()

	var ev Event
	for i, pc := range t.snapshot.PerColor {
		if pc.Done() && !t.completedSet[i] {
			t.completedSet[i] = true
			ev.ColorDone = append(ev.ColorDone, i)
		}
	}
	if !t.overallDone && t.snapshot.Total > 0 && t.snapshot.Correct == t.snapshot.Total {
		t.overallDone = true
		ev.AllDone = true
	}
	return ev, true
}

// recompute walks the grid once, accumulating overall and per-color
// counts in the same pass. O(cells), independent of palette size.
func (t *Tracker) recompute() {
	per := make([]ColorProgress, t.colors)
	correct := 0
	n := t.grid.Len()
	for i := 0; i < n; i++ {
		cell := t.grid.At(i)
		if cell.Target >= 0 && cell.Target < t.colors {
			per[cell.Target].Total++
			if cell.Correct() {
				per[cell.Target].Filled++
			}
		}
		if cell.Correct() {
			correct++
		}
	}
	t.snapshot = Snapshot{Correct: correct, Total: n, PerColor: per}
}

// CompletedColors reports which palette entries are fully filled, for
// hiding them from the active palette UI.
func (t *Tracker) CompletedColors() []bool {
	out := make([]bool, len(t.completedSet))
	copy(out, t.completedSet)
	return out
}
