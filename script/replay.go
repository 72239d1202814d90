// Package script runs user-supplied Tengo scripts that drive the
// engine with synthetic interactions. A script executes once at load
// and records a timeline of actions; the Player then replays them
// tick by tick through the same gesture path a finger would take.
// Used for demos and for exercising the input pipeline headlessly.
package script

import (
	"fmt"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

type actionKind int

const (
	actionSelectColor actionKind = iota
	actionBrush
	actionHint
	actionTap
	actionStroke
	actionPan
	actionZoom
	actionWait
)

type action struct {
	kind   actionKind
	n      int
	on     bool
	f      float64
	dx, dy float64
	cells  [][2]int
}

// Driver is the surface a replayed script drives. The game implements
// it on top of the gesture recognizer so scripted strokes run through
// the exact pointer path.
type Driver interface {
	SelectColor(index int)
	SetBrush(size int)
	SetHint(on bool)
	TapCell(col, row int)
	StrokeCells(cells [][2]int)
	Pan(dx, dy float64)
	ZoomBy(factor float64)
}

// Player replays a recorded timeline. Zero value is an exhausted player.
type Player struct {
	actions []action
	pos     int
	waiting int
}

// Load compiles and runs a script file, recording its timeline.
//
// Script globals:
//
//	select_color(i)   brush(size)      hint(bool)
//	tap(col, row)     stroke([[c,r], ...])
//	pan(dx, dy)       zoom(factor)     wait(ticks)
func Load(path string) (*Player, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	var actions []action
	record := func(a action) {
		actions = append(actions, a)
	}

	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap("math", "rand", "fmt"))

	add := func(name string, fn tengo.CallableFunc) {
		// Add only fails on a reserved name; ours are fixed.
		if err := s.Add(name, &tengo.UserFunction{Name: name, Value: fn}); err != nil {
			panic("script: add builtin " + name + ": " + err.Error())
		}
	}

	add("select_color", func(args ...tengo.Object) (tengo.Object, error) {
		n, err := oneInt(args)
		if err != nil {
			return nil, err
		}
		record(action{kind: actionSelectColor, n: n})
		return tengo.UndefinedValue, nil
	})
	add("brush", func(args ...tengo.Object) (tengo.Object, error) {
		n, err := oneInt(args)
		if err != nil {
			return nil, err
		}
		record(action{kind: actionBrush, n: n})
		return tengo.UndefinedValue, nil
	})
	add("hint", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		record(action{kind: actionHint, on: !args[0].IsFalsy()})
		return tengo.UndefinedValue, nil
	})
	add("tap", func(args ...tengo.Object) (tengo.Object, error) {
		c, r, err := twoInts(args)
		if err != nil {
			return nil, err
		}
		record(action{kind: actionTap, cells: [][2]int{{c, r}}})
		return tengo.UndefinedValue, nil
	})
	add("stroke", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		arr, ok := args[0].(*tengo.Array)
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "cells", Expected: "array"}
		}
		var cells [][2]int
		for _, el := range arr.Value {
			pair, ok := el.(*tengo.Array)
			if !ok || len(pair.Value) != 2 {
				return nil, tengo.ErrInvalidArgumentType{Name: "cells", Expected: "[col, row] pairs"}
			}
			c, okc := tengo.ToInt(pair.Value[0])
			r, okr := tengo.ToInt(pair.Value[1])
			if !okc || !okr {
				return nil, tengo.ErrInvalidArgumentType{Name: "cells", Expected: "[col, row] pairs"}
			}
			cells = append(cells, [2]int{c, r})
		}
		record(action{kind: actionStroke, cells: cells})
		return tengo.UndefinedValue, nil
	})
	add("pan", func(args ...tengo.Object) (tengo.Object, error) {
		dx, dy, err := twoFloats(args)
		if err != nil {
			return nil, err
		}
		record(action{kind: actionPan, dx: dx, dy: dy})
		return tengo.UndefinedValue, nil
	})
	add("zoom", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		f, ok := tengo.ToFloat64(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "factor", Expected: "float"}
		}
		record(action{kind: actionZoom, f: f})
		return tengo.UndefinedValue, nil
	})
	add("wait", func(args ...tengo.Object) (tengo.Object, error) {
		n, err := oneInt(args)
		if err != nil {
			return nil, err
		}
		record(action{kind: actionWait, n: n})
		return tengo.UndefinedValue, nil
	})

	if _, err := s.Run(); err != nil {
		return nil, fmt.Errorf("run script: %w", err)
	}
	return &Player{actions: actions}, nil
}

// Done reports whether the timeline is exhausted.
func (p *Player) Done() bool { return p == nil || p.pos >= len(p.actions) }

// Update replays due actions for this tick. Consecutive actions run in
// one tick until a wait is hit, matching how a script reads.
func (p *Player) Update(d Driver) {
	if p.Done() {
		return
	}
	if p.waiting > 0 {
		p.waiting--
		return
	}
	for p.pos < len(p.actions) {
		a := p.actions[p.pos]
		p.pos++
		switch a.kind {
		case actionSelectColor:
			d.SelectColor(a.n)
		case actionBrush:
			d.SetBrush(a.n)
		case actionHint:
			d.SetHint(a.on)
		case actionTap:
			d.TapCell(a.cells[0][0], a.cells[0][1])
		case actionStroke:
			d.StrokeCells(a.cells)
		case actionPan:
			d.Pan(a.dx, a.dy)
		case actionZoom:
			d.ZoomBy(a.f)
		case actionWait:
			p.waiting = a.n
			return
		}
	}
}

func oneInt(args []tengo.Object) (int, error) {
	if len(args) != 1 {
		return 0, tengo.ErrWrongNumArguments
	}
	n, ok := tengo.ToInt(args[0])
	if !ok {
		return 0, tengo.ErrInvalidArgumentType{Name: "first", Expected: "int"}
	}
	return n, nil
}

func twoInts(args []tengo.Object) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, tengo.ErrWrongNumArguments
	}
	a, oka := tengo.ToInt(args[0])
	b, okb := tengo.ToInt(args[1])
	if !oka || !okb {
		return 0, 0, tengo.ErrInvalidArgumentType{Name: "args", Expected: "int"}
	}
	return a, b, nil
}

func twoFloats(args []tengo.Object) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, tengo.ErrWrongNumArguments
	}
	a, oka := tengo.ToFloat64(args[0])
	b, okb := tengo.ToFloat64(args[1])
	if !oka || !okb {
		return 0, 0, tengo.ErrInvalidArgumentType{Name: "args", Expected: "float"}
	}
	return a, b, nil
}
