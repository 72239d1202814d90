package grid

import "fmt"

// Unfilled marks a cell that has no applied color yet.
const Unfilled = -1

const (
	MaxDim    = 200
	MaxColors = 200
)

// Cell is one grid unit: the color it should become and the color the
// user has applied so far (Unfilled if none).
type Cell struct {
	Target  int
	Applied int
}

// Correct reports whether the applied color matches the target.
func (c Cell) Correct() bool {
	return c.Applied != Unfilled && c.Applied == c.Target
}

// Grid is the canonical cell state, row-major, fixed shape after creation.
// It is written only through Apply; everything else reads.
type Grid struct {
	Width  int
	Height int
	cells  []Cell
}

// New builds a grid from row-major target color indices.
func New(width, height int, targets []int) (*Grid, error) {
	if width <= 0 || height <= 0 || width > MaxDim || height > MaxDim {
		return nil, fmt.Errorf("invalid grid dimensions: %dx%d", width, height)
	}
	if len(targets) != width*height {
		return nil, fmt.Errorf("target count %d does not match %dx%d", len(targets), width, height)
	}
	cells := make([]Cell, len(targets))
	for i, t := range targets {
		cells[i] = Cell{Target: t, Applied: Unfilled}
	}
	return &Grid{Width: width, Height: height, cells: cells}, nil
}

// Restore rebuilds a grid including previously applied colors, e.g. from
// a saved project. Applied entries shorter than the grid are ignored.
func Restore(width, height int, targets, applied []int) (*Grid, error) {
	g, err := New(width, height, targets)
	if err != nil {
		return nil, err
	}
	for i := range applied {
		if i >= len(g.cells) {
			break
		}
		g.cells[i].Applied = applied[i]
	}
	return g, nil
}

func (g *Grid) Len() int { return len(g.cells) }

func (g *Grid) Index(col, row int) int { return row*g.Width + col }

func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.Width && row < g.Height
}

func (g *Grid) At(idx int) Cell { return g.cells[idx] }

func (g *Grid) AtCell(col, row int) Cell { return g.cells[g.Index(col, row)] }

// Apply sets the applied color of the cell at idx. It reports whether
// anything changed: correct cells are permanently protected, and
// reapplying the same color is a no-op. The applied color always
// replaces what was there, never blends.
func (g *Grid) Apply(idx, colorIndex int) bool {
	c := &g.cells[idx]
	if c.Correct() {
		return false
	}
	if c.Applied == colorIndex {
		return false
	}
	c.Applied = colorIndex
	return true
}

// AppliedColors returns the row-major applied color indices, Unfilled
// where nothing has been painted. Used for project snapshots.
func (g *Grid) AppliedColors() []int {
	out := make([]int, len(g.cells))
	for i, c := range g.cells {
		out[i] = c.Applied
	}
	return out
}

// Palette is an ordered color list indexed by target/applied indices.
// Colors are 0xRRGGBB.
type Palette []uint32

func (p Palette) RGBA(i int) (r, g, b, a uint8) {
	c := p[i]
	return uint8(c >> 16), uint8(c >> 8), uint8(c), 0xff
}
