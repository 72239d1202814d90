package render

// Flags tracks which layer groups need a redraw this frame. The
// renderer owns the struct and is the only clearer; any component may
// set a flag through the named setters on Renderer, which keeps the
// redraw contract in one place instead of ad hoc booleans.
type Flags struct {
	filled              bool
	highlightBorderText bool
	transform           bool
}

func (f *Flags) any() bool {
	return f.filled || f.highlightBorderText || f.transform
}

func (f *Flags) clear() {
	f.filled = false
	f.highlightBorderText = false
	f.transform = false
}
