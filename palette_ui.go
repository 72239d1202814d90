package main

import (
	"fmt"
	"image/color"

	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/cellfill/grid"
	"github.com/milk9111/cellfill/paint"
	"github.com/milk9111/cellfill/progress"
)

// BarHeight is the screen-pixel height reserved for the palette bar at
// the bottom; pointer-downs inside it never reach the canvas.
const BarHeight = 64

// PaletteUI is the surrounding chrome: one swatch button per palette
// color with a remaining count, brush size buttons, a hint toggle, and
// the completion overlay.
type PaletteUI struct {
	ui   *ebitenui.UI
	root *widget.Container

	swatches     []*widget.Button
	counts       []*widget.Text
	donePanel    *widget.Container
	doneShowing  bool
	screenHeight int
}

func NewPaletteUI(
	palette grid.Palette,
	selected int,
	hintOn bool,
	onSelect func(int),
	onBrush func(int),
	onHint func(bool),
) *PaletteUI {
	p := &PaletteUI{}

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	barImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x14, G: 0x14, B: 0x1c, A: 230})
	btnTextColor := &widget.ButtonTextColor{Idle: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}

	bar := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(barImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 8, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(0, BarHeight),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionEnd,
			}),
		),
	)

	for i := range palette {
		i := i
		r, g, b, _ := palette.RGBA(i)
		swatchImg := imageui.NewNineSliceColor(color.NRGBA{R: r, G: g, B: b, A: 0xff})

		cell := widget.NewContainer(
			widget.ContainerOpts.Layout(widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(2),
			)),
		)
		btn := widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: swatchImg, Pressed: swatchImg}),
			widget.ButtonOpts.Text(fmt.Sprintf("%d", i+1), &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(34, 28)),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onSelect(i)
			}),
		)
		count := widget.NewText(
			widget.TextOpts.Text("", &face, color.NRGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff}),
			widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
		)
		cell.AddChild(btn)
		cell.AddChild(count)
		bar.AddChild(cell)
		p.swatches = append(p.swatches, btn)
		p.counts = append(p.counts, count)
	}

	ctrlImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff})
	for size := paint.MinBrushSize; size <= paint.MaxBrushSize; size++ {
		size := size
		bar.AddChild(widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: ctrlImg, Pressed: ctrlImg}),
			widget.ButtonOpts.Text(fmt.Sprintf("%dx", size), &face, btnTextColor),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onBrush(size)
			}),
		))
	}

	hintLabel := "hint:on"
	if !hintOn {
		hintLabel = "hint:off"
	}
	hintState := hintOn
	var hintBtn *widget.Button
	hintBtn = widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: ctrlImg, Pressed: ctrlImg}),
		widget.ButtonOpts.Text(hintLabel, &face, btnTextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			hintState = !hintState
			if hintState {
				hintBtn.Text().Label = "hint:on"
			} else {
				hintBtn.Text().Label = "hint:off"
			}
			onHint(hintState)
		}),
	)
	bar.AddChild(hintBtn)

	p.root = widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	p.root.AddChild(bar)

	p.donePanel = buildDonePanel(&face, func() { p.HideCompleted() })

	p.ui = &ebitenui.UI{Container: p.root}
	return p
}

func buildDonePanel(face *ebtext.Face, onDismiss func()) *widget.Container {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff})
	btnTextColor := &widget.ButtonTextColor{Idle: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)
	panel.AddChild(widget.NewText(
		widget.TextOpts.Text("Complete!", face, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	))
	panel.AddChild(widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
		widget.ButtonOpts.Text("Keep looking", face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onDismiss()
		}),
	))
	return panel
}

// SetProgress refreshes the per-color remaining counts and hides
// completed colors from the active palette.
func (p *PaletteUI) SetProgress(snap progress.Snapshot, completed []bool) {
	for i, count := range p.counts {
		if i >= len(snap.PerColor) {
			break
		}
		pc := snap.PerColor[i]
		if i < len(completed) && completed[i] {
			p.swatches[i].GetWidget().Disabled = true
			p.swatches[i].GetWidget().Visibility = widget.Visibility_Hide
			count.GetWidget().Visibility = widget.Visibility_Hide
			continue
		}
		count.Label = fmt.Sprintf("%d/%d", pc.Filled, pc.Total)
	}
}

// ShowCompleted pops the one-shot completion overlay.
func (p *PaletteUI) ShowCompleted() {
	if p.doneShowing {
		return
	}
	p.doneShowing = true
	p.root.AddChild(p.donePanel)
}

func (p *PaletteUI) HideCompleted() {
	if !p.doneShowing {
		return
	}
	p.doneShowing = false
	p.root.RemoveChild(p.donePanel)
}

// Contains reports whether a screen point is over UI chrome; the
// gesture source uses it to keep canvas strokes out of the bar.
func (p *PaletteUI) Contains(x, y int) bool {
	if p.doneShowing {
		return true
	}
	return y >= p.screenHeight-BarHeight
}

func (p *PaletteUI) Update(screenHeight int) {
	p.screenHeight = screenHeight
	p.ui.Update()
}

func (p *PaletteUI) Draw(screen *ebiten.Image) {
	p.ui.Draw(screen)
}
