package script

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

type recordingDriver struct {
	log []string
}

func (d *recordingDriver) SelectColor(index int)      { d.log = append(d.log, fmt.Sprintf("select %d", index)) }
func (d *recordingDriver) SetBrush(size int)          { d.log = append(d.log, fmt.Sprintf("brush %d", size)) }
func (d *recordingDriver) SetHint(on bool)            { d.log = append(d.log, fmt.Sprintf("hint %v", on)) }
func (d *recordingDriver) TapCell(col, row int)       { d.log = append(d.log, fmt.Sprintf("tap %d,%d", col, row)) }
func (d *recordingDriver) Pan(dx, dy float64)         { d.log = append(d.log, fmt.Sprintf("pan %v,%v", dx, dy)) }
func (d *recordingDriver) ZoomBy(factor float64)      { d.log = append(d.log, fmt.Sprintf("zoom %v", factor)) }
func (d *recordingDriver) StrokeCells(cells [][2]int) {
	d.log = append(d.log, fmt.Sprintf("stroke %v", cells))
}

func loadScript(t *testing.T, src string) *Player {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.tengo")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return p
}

func TestReplayTimeline(t *testing.T) {
	p := loadScript(t, `
select_color(1)
brush(2)
stroke([[0, 0], [1, 0], [2, 0]])
wait(2)
tap(3, 3)
pan(10.5, -4)
zoom(1.5)
hint(false)
`)

	d := &recordingDriver{}

	// tick 1: everything up to and including the wait
	p.Update(d)
	want := []string{"select 1", "brush 2", "stroke [[0 0] [1 0] [2 0]]"}
	assertLog(t, d.log, want)
	if p.Done() {
		t.Fatalf("player done before the wait elapsed")
	}

	// ticks 2 and 3: waiting
	p.Update(d)
	p.Update(d)
	assertLog(t, d.log, want)

	// tick 4: the rest runs in one burst
	p.Update(d)
	want = append(want, "tap 3,3", "pan 10.5,-4", "zoom 1.5", "hint false")
	assertLog(t, d.log, want)
	if !p.Done() {
		t.Fatalf("player not done after the timeline drained")
	}

	// exhausted player is inert
	p.Update(d)
	assertLog(t, d.log, want)
}

func assertLog(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("log[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScriptLogicRuns(t *testing.T) {
	// the script language is real: loops and conditionals record too
	p := loadScript(t, `
for i := 0; i < 3; i++ {
	tap(i, i)
}
`)
	d := &recordingDriver{}
	p.Update(d)
	assertLog(t, d.log, []string{"tap 0,0", "tap 1,1", "tap 2,2"})
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.tengo")); err == nil {
			t.Fatalf("Load accepted a missing file")
		}
	})
	t.Run("bad_syntax", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.tengo")
		if err := os.WriteFile(path, []byte("tap(1,"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("Load accepted bad syntax")
		}
	})
	t.Run("bad_argument", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.tengo")
		if err := os.WriteFile(path, []byte(`tap("a", "b")`), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("Load accepted bad argument types")
		}
	})
}

func TestNilPlayerIsDone(t *testing.T) {
	var p *Player
	if !p.Done() {
		t.Fatalf("nil player should report done")
	}
}
