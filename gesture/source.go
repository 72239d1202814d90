package gesture

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// WheelZoomFactor is the per-notch zoom step for desktop mouse wheels.
const WheelZoomFactor = 1.1

const maxTouchSlots = 9 // pointer 0 = mouse, 1-9 = touch

// Source polls Ebitengine mouse and touch state once per tick and feeds
// normalized pointer events into a Recognizer. Touch IDs are mapped to
// stable pointer slots so the recognizer never sees platform IDs.
type Source struct {
	rec    *Recognizer
	target Target

	// IgnoreAt suppresses new pointer-downs over UI chrome when it
	// reports true. Moves and releases always pass through so an active
	// gesture can't get stuck.
	IgnoreAt func(x, y int) bool

	mouseDown bool

	touchUsed [maxTouchSlots + 1]bool
	touchMap  [maxTouchSlots + 1]ebiten.TouchID
	lastX     [maxTouchSlots + 1]int
	lastY     [maxTouchSlots + 1]int

	touchBuf    []ebiten.TouchID
	releasedBuf []ebiten.TouchID
}

func NewSource(rec *Recognizer, target Target) *Source {
	return &Source{rec: rec, target: target}
}

// Update reads the current input state. Call once per game tick.
func (s *Source) Update() {
	s.updateMouse()
	s.updateTouches()
	s.updateWheel()
}

func (s *Source) updateMouse() {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	switch {
	case pressed && !s.mouseDown:
		if s.IgnoreAt != nil && s.IgnoreAt(mx, my) {
			return
		}
		s.mouseDown = true
		s.rec.PointerDown(0, x, y)
	case pressed && s.mouseDown:
		s.rec.PointerMove(0, x, y)
	case !pressed && s.mouseDown:
		s.mouseDown = false
		s.rec.PointerUp(0, x, y)
	}
}

func (s *Source) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i <= maxTouchSlots; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i <= maxTouchSlots; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

func (s *Source) updateTouches() {
	for _, tid := range inpututil.AppendJustPressedTouchIDs(s.touchBuf[:0]) {
		x, y := ebiten.TouchPosition(tid)
		if s.IgnoreAt != nil && s.IgnoreAt(x, y) {
			continue
		}
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		s.lastX[slot], s.lastY[slot] = x, y
		s.rec.PointerDown(slot, float64(x), float64(y))
	}

	for _, tid := range ebiten.AppendTouchIDs(s.touchBuf[:0]) {
		slot := s.findSlot(tid)
		if slot < 0 {
			continue
		}
		x, y := ebiten.TouchPosition(tid)
		if x != s.lastX[slot] || y != s.lastY[slot] {
			s.lastX[slot], s.lastY[slot] = x, y
			s.rec.PointerMove(slot, float64(x), float64(y))
		}
	}

	// A released touch no longer reports a position; resolve it at the
	// last known one.
	for _, tid := range inpututil.AppendJustReleasedTouchIDs(s.releasedBuf[:0]) {
		slot := s.findSlot(tid)
		if slot < 0 {
			continue
		}
		s.touchUsed[slot] = false
		s.rec.PointerUp(slot, float64(s.lastX[slot]), float64(s.lastY[slot]))
	}
}

func (s *Source) findSlot(tid ebiten.TouchID) int {
	for i := 1; i <= maxTouchSlots; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	return -1
}

func (s *Source) updateWheel() {
	_, wy := ebiten.Wheel()
	if wy == 0 {
		return
	}
	mx, my := ebiten.CursorPosition()
	if s.IgnoreAt != nil && s.IgnoreAt(mx, my) {
		return
	}
	factor := WheelZoomFactor
	if wy < 0 {
		factor = 1 / WheelZoomFactor
	}
	s.target.ZoomAt(float64(mx), float64(my), factor)
}
