package system

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
	"github.com/milk9111/tilephys/grid"
)

var (
	debugSolidTile     = color.NRGBA{R: 90, G: 90, B: 110, A: 200}
	debugStandableTile = color.NRGBA{R: 60, G: 160, B: 220, A: 160}
	debugSolidRect     = color.NRGBA{R: 50, G: 255, B: 50, A: 230}
	debugPlatformRect  = color.NRGBA{R: 255, G: 200, B: 40, A: 230}
	debugAreaRect      = color.NRGBA{R: 255, G: 60, B: 60, A: 200}
	debugFeet          = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// DebugOverlay draws the collision geometry of a simulation. It only reads
// state.
type DebugOverlay struct {
	Tiles     bool
	Solids    bool
	Platforms bool
	Areas     bool
	Labels    bool

	CamX, CamY float64
	Zoom       float64
}

func NewDebugOverlay() *DebugOverlay {
	return &DebugOverlay{Tiles: true, Solids: true, Platforms: true, Areas: true, Zoom: 1}
}

func (o *DebugOverlay) Draw(s *Sim, screen *ebiten.Image) {
	if o == nil || s == nil || screen == nil {
		return
	}
	if o.Zoom <= 0 {
		o.Zoom = 1
	}
	if o.Tiles {
		o.drawTiles(screen, s.Level.Standable, debugStandableTile)
		o.drawTiles(screen, s.Level.Solid, debugSolidTile)
	}
	ecs.ForEach(s.World, component.TransformComponent, func(e ecs.Entity, _ *component.Transform) {
		a := s.actor(e)
		if a == nil || a.frame() == nil {
			return
		}
		if o.Solids && a.isSolid() {
			o.strokeRect(screen, a.solidRect(), debugSolidRect)
			if a.hasFeet() {
				o.fillRect(screen, common.NewRect(a.feetX(), a.feetY(), 1, 1), debugFeet)
			}
		}
		if o.Platforms && a.hasPlatform() {
			o.strokeRect(screen, a.platformRect(), debugPlatformRect)
		}
		if o.Areas {
			for _, area := range a.frame().Areas {
				o.strokeRect(screen, a.areaRect(area), debugAreaRect)
			}
		}
		if o.Labels {
			sx, sy := o.toScreen(a.x(), a.y()-12)
			st, _ := s.isStanding(a)
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d %s", e.ID(), st), int(sx), int(sy))
		}
	})
}

func (o *DebugOverlay) drawTiles(screen *ebiten.Image, m *grid.Map, clr color.Color) {
	m.Each(func(p grid.TilePos, t *grid.Tile) {
		x0, y0 := p.X*grid.TileSize, p.Y*grid.TileSize
		if t.Count() == grid.TileSize*grid.TileSize {
			o.fillRect(screen, common.NewRect(x0, y0, grid.TileSize, grid.TileSize), clr)
			return
		}
		for ly := 0; ly < grid.TileSize; ly++ {
			for lx := 0; lx < grid.TileSize; lx++ {
				if t.Solid(lx, ly) {
					o.fillRect(screen, common.NewRect(x0+lx, y0+ly, 1, 1), clr)
				}
			}
		}
	})
}

func (o *DebugOverlay) toScreen(x, y int) (float32, float32) {
	return float32((float64(x) - o.CamX) * o.Zoom), float32((float64(y) - o.CamY) * o.Zoom)
}

func (o *DebugOverlay) fillRect(screen *ebiten.Image, r common.Rect, clr color.Color) {
	x, y := o.toScreen(r.X, r.Y)
	z := float32(o.Zoom)
	vector.DrawFilledRect(screen, x, y, float32(r.W)*z, float32(r.H)*z, clr, false)
}

func (o *DebugOverlay) strokeRect(screen *ebiten.Image, r common.Rect, clr color.Color) {
	if r.Empty() {
		return
	}
	x, y := o.toScreen(r.X, r.Y)
	z := float32(o.Zoom)
	vector.StrokeRect(screen, x, y, float32(r.W)*z, float32(r.H)*z, 1, clr, false)
}
