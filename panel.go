package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/tilephys/common"
	"golang.org/x/image/font/basicfont"
)

const panelWidth = 180

// NewPanelUI builds the side panel: overlay toggles and stepping controls.
// Buttons use colored nine-slices and the built-in basic font, so no theme
// assets are needed.
func NewPanelUI(g *Game) *ebitenui.UI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := &widget.ButtonImage{
		Idle:    imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}),
		Hover:   imageui.NewNineSliceColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x50, A: 255}),
		Pressed: imageui.NewNineSliceColor(color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 255}),
	}

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	stretch := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true})

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 12, Bottom: 12, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth, common.BaseHeight),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchVertical:    true,
			}),
		),
	)

	panel.AddChild(widget.NewText(
		widget.TextOpts.Text("tilephys", &face, white),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	))

	button := func(label string, onClick func(b *widget.Button)) *widget.Button {
		var b *widget.Button
		b = widget.NewButton(
			widget.ButtonOpts.Image(btnImg),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(stretch),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick(b)
			}),
		)
		panel.AddChild(b)
		return b
	}

	toggle := func(name string, v *bool) {
		label := func() string {
			if *v {
				return name + ": on"
			}
			return name + ": off"
		}
		button(label(), func(b *widget.Button) {
			*v = !*v
			b.Text().Label = label()
		})
	}

	button("Pause / Resume", func(*widget.Button) { g.togglePause() })
	button("Step", func(*widget.Button) { g.stepOnce() })
	button("Select next", func(*widget.Button) { g.selectNext() })
	button("Copy solidity dump", func(*widget.Button) { g.copyDump() })
	button("Reload level", func(*widget.Button) { g.reloadLevel() })

	toggle("Tiles", &g.overlay.Tiles)
	toggle("Solids", &g.overlay.Solids)
	toggle("Platforms", &g.overlay.Platforms)
	toggle("Areas", &g.overlay.Areas)
	toggle("Labels", &g.overlay.Labels)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}
}
