package main

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/milk9111/cellfill/celebrate"
	"github.com/milk9111/cellfill/config"
	"github.com/milk9111/cellfill/gesture"
	"github.com/milk9111/cellfill/grid"
	"github.com/milk9111/cellfill/paint"
	"github.com/milk9111/cellfill/progress"
	"github.com/milk9111/cellfill/project"
	"github.com/milk9111/cellfill/render"
	"github.com/milk9111/cellfill/script"
	"github.com/milk9111/cellfill/viewport"
)

const fitMargin = 24

// scriptPointer is the synthetic pointer slot used by replay scripts so
// it never collides with the mouse (0) or touch slots (1-9).
const scriptPointer = 100

type Game struct {
	cfg        config.Config
	configPath string

	proj    *project.Project
	grid    *grid.Grid
	palette grid.Palette

	view     *viewport.Viewport
	renderer *render.Renderer
	brush    *paint.Engine
	rec      *gesture.Recognizer
	source   *gesture.Source
	tracker  *progress.Tracker
	store    *project.Store
	confetti *celebrate.Confetti
	ui       *PaletteUI
	player   *script.Player
	watcher  *config.Watcher

	selected  int
	completed bool

	clipboardOK bool
	debug       bool

	screenW, screenH int
	initErr          error
}

func NewGame(cfg config.Config, configPath string, proj *project.Project, store *project.Store, player *script.Player, debug bool) *Game {
	g := &Game{
		cfg:        cfg,
		configPath: configPath,
		proj:       proj,
		store:      store,
		player:     player,
		debug:      debug,
		completed:  proj.Completed,
	}

	gr, err := proj.Grid()
	if err != nil {
		g.initErr = err
		return g
	}
	pal, err := proj.Colors()
	if err != nil {
		g.initErr = err
		return g
	}
	g.grid = gr
	g.palette = pal

	g.view = viewport.New(gr.Width, gr.Height, render.BaseCellSize)
	g.view.MinZoom = cfg.Zoom.Min
	g.view.MaxZoom = cfg.Zoom.Max

	renderer, err := render.New(gr, pal, g.view, cfg.Theme)
	if err != nil {
		// No rendering surface means no engine; stay in the placeholder
		// state until a full reinitialization.
		g.initErr = err
		return g
	}
	g.renderer = renderer
	g.renderer.SetHint(cfg.Hint)

	g.brush = paint.NewEngine(gr, renderer)
	g.brush.SetBrushSize(cfg.BrushSize)

	g.rec = gesture.NewRecognizer(g)
	g.source = gesture.NewSource(g.rec, g)

	debounce := time.Duration(cfg.DebounceMS) * time.Millisecond
	g.tracker = progress.NewTracker(gr, len(pal), debounce)

	g.confetti = celebrate.New()

	g.ui = NewPaletteUI(pal, g.selected, cfg.Hint,
		g.SelectColor,
		g.SetBrush,
		g.SetHint,
	)
	g.ui.SetProgress(g.tracker.Snapshot(), g.tracker.CompletedColors())
	g.source.IgnoreAt = g.ui.Contains

	if configPath != "" {
		w, err := config.NewWatcher(filepath.Dir(configPath))
		if err != nil {
			log.Printf("config watch: %v", err)
		} else {
			g.watcher = w
		}
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}

	return g
}

// gesture.Target

func (g *Game) CellAt(x, y float64) (int, int, bool) {
	return g.view.ScreenToGrid(x, y)
}

func (g *Game) CanStartPaint(col, row int) bool {
	cell := g.grid.AtCell(col, row)
	return !cell.Correct() && cell.Target == g.selected
}

func (g *Game) PaintAt(col, row int) {
	g.brush.Apply(col, row, g.selected)
}

func (g *Game) CommitStroke() {
	changed := g.brush.Commit()
	if len(changed) == 0 {
		return
	}
	g.renderer.MarkFilledDirty()
	g.renderer.MarkHighlightBorderTextDirty()
	g.tracker.MarkDirty(time.Now())
	g.queueSave()
}

func (g *Game) PanBy(dx, dy float64) {
	g.view.PanBy(dx, dy)
}

func (g *Game) ZoomAt(x, y, factor float64) {
	if g.view.ZoomAtPoint(x, y, factor) {
		g.renderer.MarkTransformDirty()
	}
}

// UI callbacks

func (g *Game) SelectColor(index int) {
	if index < 0 || index >= len(g.palette) {
		return
	}
	g.selected = index
	g.renderer.SetSelected(index)
}

func (g *Game) SetBrush(size int) {
	g.brush.SetBrushSize(size)
}

func (g *Game) SetHint(on bool) {
	g.renderer.SetHint(on)
}

// script.Driver: scripted strokes run through the recognizer so they
// exercise the same path as real pointers.

func (g *Game) TapCell(col, row int) {
	x, y := g.cellCenter(col, row)
	g.rec.PointerDown(scriptPointer, x, y)
	g.rec.PointerUp(scriptPointer, x, y)
}

func (g *Game) StrokeCells(cells [][2]int) {
	if len(cells) == 0 {
		return
	}
	x, y := g.cellCenter(cells[0][0], cells[0][1])
	g.rec.PointerDown(scriptPointer, x, y)
	for _, c := range cells[1:] {
		x, y = g.cellCenter(c[0], c[1])
		g.rec.PointerMove(scriptPointer, x, y)
	}
	g.rec.PointerUp(scriptPointer, x, y)
}

func (g *Game) Pan(dx, dy float64) {
	g.PanBy(dx, dy)
}

func (g *Game) ZoomBy(factor float64) {
	g.ZoomAt(float64(g.screenW)/2, float64(g.screenH)/2, factor)
}

func (g *Game) cellCenter(col, row int) (float64, float64) {
	x, y := g.view.GridToScreen(col, row)
	half := g.view.CellScreenSize() / 2
	return x + half, y + half
}

func (g *Game) queueSave() {
	g.store.Queue(project.Snapshot(g.proj.Name, g.grid, g.proj.Palette, g.completed))
}

func (g *Game) Update() error {
	if g.initErr != nil {
		return nil
	}

	g.pollConfigReload()

	g.source.Update()
	if g.player != nil {
		g.player.Update(g)
	}

	now := time.Now()
	if ev, ok := g.tracker.Update(now); ok {
		g.ui.SetProgress(g.tracker.Snapshot(), g.tracker.CompletedColors())
		for _, idx := range ev.ColorDone {
			r, gc, b, _ := g.palette.RGBA(idx)
			g.confetti.Burst(float64(g.screenW)/2, float64(g.screenH)/3, 40,
				[]color.RGBA{{R: r, G: gc, B: b, A: 0xff}})
		}
		if ev.AllDone {
			g.completed = true
			colors := make([]color.RGBA, len(g.palette))
			for i := range g.palette {
				r, gc, b, _ := g.palette.RGBA(i)
				colors[i] = color.RGBA{R: r, G: gc, B: b, A: 0xff}
			}
			g.confetti.Burst(float64(g.screenW)/2, float64(g.screenH)/3, 180, colors)
			g.ui.ShowCompleted()
			g.queueSave()
		}
	}

	g.store.Update(now)
	g.confetti.Update(1.0 / float64(ebiten.TPS()))

	g.handleKeys()
	g.ui.Update(g.screenH)
	return nil
}

// sameConfigFile matches a watcher event path against the configured
// file, tolerating "./x.yaml" vs "x.yaml" style differences.
func sameConfigFile(event, configPath string) bool {
	return filepath.Clean(event) == filepath.Clean(configPath)
}

func (g *Game) pollConfigReload() {
	if g.watcher == nil {
		return
	}
	select {
	case path, ok := <-g.watcher.Events:
		if !ok {
			g.watcher = nil
			return
		}
		if !sameConfigFile(path, g.configPath) {
			return
		}
		cfg, err := config.Load(g.configPath)
		if err != nil {
			log.Printf("config reload: %v", err)
			return
		}
		g.cfg = cfg
		g.renderer.SetTheme(g.palette, cfg.Theme)
		log.Printf("config reloaded from %s", g.configPath)
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("config watch: %v", err)
		}
	default:
	}
}

func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.renderer.SetHint(!g.renderer.Hint())
	}
	if inpututil.IsKeyJustPressed(ebiten.Key1) {
		g.brush.SetBrushSize(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.Key2) {
		g.brush.SetBrushSize(2)
	}
	if inpututil.IsKeyJustPressed(ebiten.Key3) {
		g.brush.SetBrushSize(3)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.view.FitToContainer(float64(g.screenW), float64(g.screenH-BarHeight), fitMargin)
		g.renderer.MarkTransformDirty()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) && g.clipboardOK {
		snap := g.tracker.Snapshot()
		summary := fmt.Sprintf("%s: %.0f%% (%d/%d cells)", g.proj.Name, snap.Percent(), snap.Correct, snap.Total)
		clipboard.Write(clipboard.FmtText, []byte(summary))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.initErr != nil {
		ebitenutil.DebugPrint(screen, "engine init failed: "+g.initErr.Error())
		return
	}
	g.renderer.Draw(screen)
	g.confetti.Draw(screen)
	g.ui.Draw(screen)
	if g.debug {
		snap := g.tracker.Snapshot()
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f  mode: %s  %.0f%%",
			ebiten.ActualFPS(), g.rec.Mode(), snap.Percent()))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.screenW || outsideHeight != g.screenH {
		g.screenW, g.screenH = outsideWidth, outsideHeight
		if g.view != nil {
			// container resize: recompute the viewport; the renderer
			// rebuilds its screen-space surfaces on the next draw
			g.view.FitToContainer(float64(outsideWidth), float64(outsideHeight-BarHeight), fitMargin)
			if g.renderer != nil {
				g.renderer.MarkTransformDirty()
			}
		}
	}
	return outsideWidth, outsideHeight
}

// Close flushes pending state on shutdown.
func (g *Game) Close() {
	if g.store != nil {
		g.store.Flush()
	}
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.renderer != nil {
		g.renderer.Dispose()
	}
}
