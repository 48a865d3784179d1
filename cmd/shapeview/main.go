// Command shapeview steps through the frames of a sprite sheet and draws
// the solid each frame would get from its opaque pixels, with the boundary
// points of every direction marked.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/prefabs"
	"github.com/milk9111/tilephys/solid"
)

const (
	screenWidth  = 640
	screenHeight = 480
)

var dirColors = map[common.Direction]color.NRGBA{
	common.DirLeft:  {R: 255, G: 80, B: 80, A: 255},
	common.DirRight: {R: 80, G: 255, B: 80, A: 255},
	common.DirUp:    {R: 80, G: 160, B: 255, A: 255},
	common.DirDown:  {R: 255, G: 220, B: 60, A: 255},
}

type frame struct {
	img   *ebiten.Image
	solid *solid.Info
	err   error
}

type viewer struct {
	frames  []frame
	current int
	tick    int
	perFrm  int
	playing bool
	scale   float64
	show    map[common.Direction]bool
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.playing = !v.playing
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		v.advance(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		v.advance(-1)
	}
	for d, k := range map[common.Direction]ebiten.Key{
		common.DirLeft: ebiten.Key1, common.DirRight: ebiten.Key2,
		common.DirUp: ebiten.Key3, common.DirDown: ebiten.Key4,
	} {
		if inpututil.IsKeyJustPressed(k) {
			v.show[d] = !v.show[d]
		}
	}
	if v.playing && len(v.frames) > 1 {
		v.tick++
		if v.tick >= v.perFrm {
			v.tick = 0
			v.advance(1)
		}
	}
	return nil
}

func (v *viewer) advance(n int) {
	if len(v.frames) == 0 {
		return
	}
	v.current = (v.current + n + len(v.frames)) % len(v.frames)
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x00, 0x00, 0x00, 0xff})
	if len(v.frames) == 0 {
		ebitenutil.DebugPrint(screen, "no frames")
		return
	}
	f := v.frames[v.current]
	fw := float64(f.img.Bounds().Dx()) * 2 * v.scale
	fh := float64(f.img.Bounds().Dy()) * 2 * v.scale
	ox := (screenWidth - fw) / 2
	oy := (screenHeight - fh) / 2

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(2*v.scale, 2*v.scale)
	op.GeoM.Translate(ox, oy)
	op.Filter = ebiten.FilterNearest
	op.ColorScale.ScaleAlpha(0.5)
	screen.DrawImage(f.img, op)

	status := fmt.Sprintf("frame %d/%d  [space] play  [<-/->] step  [1-4] L R U D", v.current+1, len(v.frames))
	if f.err != nil {
		ebitenutil.DebugPrint(screen, status+"\n"+f.err.Error())
		return
	}

	px := float32(v.scale)
	for _, m := range f.solid.Maps() {
		a := m.Area()
		vector.StrokeRect(screen, float32(ox)+float32(a.X)*px, float32(oy)+float32(a.Y)*px, float32(a.W)*px, float32(a.H)*px, 1, color.White, false)
		for d, c := range dirColors {
			if !v.show[d] {
				continue
			}
			for _, p := range m.Dir(d) {
				vector.DrawFilledRect(screen, float32(ox)+float32(p.X)*px, float32(oy)+float32(p.Y)*px, px, px, c, false)
			}
		}
		status += fmt.Sprintf("\n%s: %d solid pixels in %v", m.ID(), m.Count(), a)
	}
	ebitenutil.DebugPrint(screen, status)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// loadFrames cuts the sheet into frames left to right, top to bottom, and
// builds a doubled solid for each one.
func loadFrames(sheet image.Image, frameW, frameH, count int) []frame {
	b := sheet.Bounds()
	if frameW <= 0 {
		frameW = b.Dx()
	}
	if frameH <= 0 {
		frameH = b.Dy()
	}
	cols := b.Dx() / frameW
	rows := b.Dy() / frameH
	maxFrames := cols * rows
	if count <= 0 || count > maxFrames {
		count = maxFrames
	}
	full := ebiten.NewImageFromImage(sheet)
	frames := make([]frame, count)
	for i := 0; i < count; i++ {
		col := i % cols
		row := i / cols
		r := image.Rect(b.Min.X+col*frameW, b.Min.Y+row*frameH, b.Min.X+col*frameW+frameW, b.Min.Y+row*frameH+frameH)
		info, err := solid.FromImage(fmt.Sprintf("frame%d", i), sheet, r, true)
		frames[i] = frame{img: full.SubImage(r).(*ebiten.Image), solid: info, err: err}
	}
	return frames
}

func main() {
	name := flag.String("image", "rock.png", "sheet in the prefab images directory")
	frameW := flag.Int("w", 0, "frame width in source pixels (0 = whole sheet)")
	frameH := flag.Int("h", 0, "frame height in source pixels (0 = whole sheet)")
	count := flag.Int("n", 0, "number of frames (0 = all)")
	fps := flag.Int("fps", 8, "playback rate")
	scale := flag.Float64("scale", 8, "screen pixels per frame pixel")
	flag.Parse()

	sheet, err := prefabs.LoadImage(*name)
	if err != nil {
		log.Fatal(err)
	}
	v := &viewer{
		frames: loadFrames(sheet, *frameW, *frameH, *count),
		perFrm: 1,
		scale:  *scale,
		show:   map[common.Direction]bool{common.DirLeft: true, common.DirRight: true, common.DirUp: true, common.DirDown: true},
	}
	if *fps > 0 {
		v.perFrm = max(60 / *fps, 1)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("shapeview: " + *name)
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
