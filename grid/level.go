package grid

import (
	"slices"

	"github.com/milk9111/tilephys/common"
)

// Level is the static solidity of a level: pixels that block movement and
// pixels that can only be stood on.
type Level struct {
	Solid     *Map
	Standable *Map

	tiles []TilePlacement
	rects []SolidRect
	edits []areaEdit
}

// areaEdit is a runtime SetSolidArea call, replayed whenever the grid is
// repainted.
type areaEdit struct {
	rect  common.Rect
	solid bool
}

func NewLevel() *Level {
	return &Level{Solid: NewMap(), Standable: NewMap()}
}

// AddSolidRect paints the rectangle [x1,x2) x [y1,y2) solid. Rectangles on
// tile boundaries mark whole tiles all solid.
func (l *Level) AddSolidRect(x1, y1, x2, y2 int, surf SurfaceInfo) {
	aligned := common.FloorMod(x1, TileSize) == 0 && common.FloorMod(y1, TileSize) == 0 &&
		common.FloorMod(x2, TileSize) == 0 && common.FloorMod(y2, TileSize) == 0
	if !aligned {
		for y := y1; y < y2; y++ {
			for x := x1; x < x2; x++ {
				l.Solid.SetSolid(x, y, surf, true)
			}
		}
		return
	}

	for y := y1; y < y2; y += TileSize {
		for x := x1; x < x2; x += TileSize {
			p, _, _ := TileOf(x, y)
			t := l.Solid.InsertOrFind(p)
			t.AllSolid = true
			t.Surface.Friction = surf.Friction
			t.Surface.Traction = surf.Traction
			t.Surface.paintDamage(surf.Damage)
			if surf.Info != "" {
				t.Surface.Info = surf.Info
			}
		}
	}
}

// AddRect records a level solid rectangle and paints it. Recorded
// rectangles survive tile refreshes.
func (l *Level) AddRect(r SolidRect) {
	l.rects = append(l.rects, r)
	l.AddSolidRect(r.Rect.X, r.Rect.Y, r.Rect.X2(), r.Rect.Y2(), r.Surface)
}

// AddTileSolid paints the solidity of a placed tile. Foreground tiles are
// skipped and passthrough tiles go to the standable map.
func (l *Level) AddTileSolid(t TilePlacement) {
	def := t.Def
	if def == nil || t.ZOrder >= ForegroundZOrder {
		return
	}
	if def.AllSolid() && !def.Passthrough {
		l.AddSolidRect(t.X, t.Y, t.X+def.Width, t.Y+def.Height, def.Surface)
		return
	}
	if !def.HasSolid() {
		return
	}
	target := l.Solid
	if def.Passthrough {
		target = l.Standable
	}
	for y := 0; y < def.Height; y++ {
		for x := 0; x < def.Width; x++ {
			xpos := x
			if !t.FaceRight {
				xpos = def.Width - x - 1
			}
			if def.SolidAt(xpos, y) {
				target.SetSolid(t.X+x, t.Y+y, def.Surface, true)
			}
		}
	}
}

// AddTile inserts a tile after the tiles of its z-order and paints it.
func (l *Level) AddTile(t TilePlacement) {
	i, _ := slices.BinarySearchFunc(l.tiles, t.ZOrder+1, func(e TilePlacement, z int) int {
		return e.ZOrder - z
	})
	l.tiles = slices.Insert(l.tiles, i, t)
	l.AddTileSolid(t)
}

// RemoveTilesAt removes every tile covering the pixel and repaints the
// grid. It reports whether anything was removed.
func (l *Level) RemoveTilesAt(x, y int) bool {
	n := len(l.tiles)
	l.tiles = slices.DeleteFunc(l.tiles, func(t TilePlacement) bool {
		return t.Def != nil && t.Rect().Contains(x, y)
	})
	if len(l.tiles) == n {
		return false
	}
	l.RefreshTiles()
	return true
}

// RefreshTiles clears both maps and repaints every tile and level rect.
func (l *Level) RefreshTiles() {
	l.Solid.Clear()
	l.Standable.Clear()
	for _, t := range l.tiles {
		l.AddTileSolid(t)
	}
	for _, r := range l.rects {
		l.AddSolidRect(r.Rect.X, r.Rect.Y, r.Rect.X2(), r.Rect.Y2(), r.Surface)
	}
	for _, e := range l.edits {
		l.paintArea(e)
	}
}

func (l *Level) Tiles() []TilePlacement { return l.tiles }

func (l *Level) Rects() []SolidRect { return l.rects }

// Layers returns the distinct tile z-orders in ascending order.
func (l *Level) Layers() []int {
	var zs []int
	for _, t := range l.tiles {
		if len(zs) == 0 || zs[len(zs)-1] != t.ZOrder {
			zs = append(zs, t.ZOrder)
		}
	}
	return zs
}

// SetSolidArea paints or clears a rectangle with a neutral surface. The
// edit survives repaints and background rebuilds.
func (l *Level) SetSolidArea(r common.Rect, solid bool) {
	e := areaEdit{rect: r, solid: solid}
	l.edits = append(l.edits, e)
	l.paintArea(e)
}

func (l *Level) paintArea(e areaEdit) {
	surf := SurfaceInfo{Friction: 100, Traction: 100, Damage: 0}
	for y := e.rect.Y; y < e.rect.Y2(); y++ {
		for x := e.rect.X; x < e.rect.X2(); x++ {
			l.Solid.SetSolid(x, y, surf, e.solid)
		}
	}
}

func (l *Level) SolidAt(x, y int) (bool, *SurfaceInfo) {
	return l.Solid.IsSolid(x, y)
}

// StandableAt reports pixels that are solid or stand-only.
func (l *Level) StandableAt(x, y int) (bool, *SurfaceInfo) {
	if ok, surf := l.Solid.IsSolid(x, y); ok {
		return true, surf
	}
	return l.Standable.IsSolid(x, y)
}

// SolidInRect reports whether any pixel of r is solid.
func (l *Level) SolidInRect(r common.Rect) (bool, *SurfaceInfo) {
	for y := r.Y; y < r.Y2(); y++ {
		for x := r.X; x < r.X2(); x++ {
			if ok, surf := l.Solid.IsSolid(x, y); ok {
				return true, surf
			}
		}
	}
	return false, nil
}

func (l *Level) StandableInRect(r common.Rect) (bool, *SurfaceInfo) {
	for y := r.Y; y < r.Y2(); y++ {
		for x := r.X; x < r.X2(); x++ {
			if ok, surf := l.StandableAt(x, y); ok {
				return true, surf
			}
		}
	}
	return false, nil
}

// MayBeSolidInRect reports whether any solid tile entry overlaps r. A
// false result means r is certainly clear.
func (l *Level) MayBeSolidInRect(r common.Rect) bool {
	if r.W <= 0 || r.H <= 0 {
		return false
	}
	first, lx, ly := TileOf(r.X, r.Y)
	tilesX := (lx + r.W + TileSize - 1) / TileSize
	tilesY := (ly + r.H + TileSize - 1) / TileSize
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			if l.Solid.Find(TilePos{X: first.X + tx, Y: first.Y + ty}) != nil {
				return true
			}
		}
	}
	return false
}

// Bounds is the pixel rectangle covered by tile entries of either map. It
// is empty for an empty level.
func (l *Level) Bounds() common.Rect {
	var r common.Rect
	add := func(p TilePos, _ *Tile) {
		r = r.Union(common.NewRect(p.X*TileSize, p.Y*TileSize, TileSize, TileSize))
	}
	l.Solid.Each(add)
	l.Standable.Each(add)
	return r
}
