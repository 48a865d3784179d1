package grid

import "github.com/milk9111/tilephys/common"

type row struct {
	pos, neg []*Tile
}

// Map is a sparse grid of tiles. Rows and cells are split into a
// non-negative half indexed by n and a negative half indexed by -n-1, so
// lookups are two slice indexes with no hashing.
type Map struct {
	pos, neg []row
}

func NewMap() *Map {
	return &Map{}
}

func halfIndex(n int) (int, bool) {
	if n >= 0 {
		return n, true
	}
	return -(n + 1), false
}

func (m *Map) rowAt(y int, grow bool) *row {
	i, positive := halfIndex(y)
	rows := &m.neg
	if positive {
		rows = &m.pos
	}
	if i >= len(*rows) {
		if !grow {
			return nil
		}
		*rows = append(*rows, make([]row, i+1-len(*rows))...)
	}
	return &(*rows)[i]
}

func (r *row) cell(x int, grow bool) **Tile {
	i, positive := halfIndex(x)
	cells := &r.neg
	if positive {
		cells = &r.pos
	}
	if i >= len(*cells) {
		if !grow {
			return nil
		}
		*cells = append(*cells, make([]*Tile, i+1-len(*cells))...)
	}
	return &(*cells)[i]
}

// Find returns the tile at p or nil.
func (m *Map) Find(p TilePos) *Tile {
	if m == nil {
		return nil
	}
	r := m.rowAt(p.Y, false)
	if r == nil {
		return nil
	}
	c := r.cell(p.X, false)
	if c == nil {
		return nil
	}
	return *c
}

// InsertOrFind returns the tile at p, creating an empty one if needed.
func (m *Map) InsertOrFind(p TilePos) *Tile {
	c := m.rowAt(p.Y, true).cell(p.X, true)
	if *c == nil {
		*c = newTile()
	}
	return *c
}

// Erase drops the tile at p.
func (m *Map) Erase(p TilePos) {
	r := m.rowAt(p.Y, false)
	if r == nil {
		return
	}
	if c := r.cell(p.X, false); c != nil {
		*c = nil
	}
}

func (m *Map) Clear() {
	m.pos = nil
	m.neg = nil
}

// Each visits every tile in ascending y then ascending x order.
func (m *Map) Each(fn func(TilePos, *Tile)) {
	if m == nil {
		return
	}
	eachRow := func(r *row, y int) {
		for i := len(r.neg) - 1; i >= 0; i-- {
			if t := r.neg[i]; t != nil {
				fn(TilePos{X: -i - 1, Y: y}, t)
			}
		}
		for i, t := range r.pos {
			if t != nil {
				fn(TilePos{X: i, Y: y}, t)
			}
		}
	}
	for i := len(m.neg) - 1; i >= 0; i-- {
		eachRow(&m.neg[i], -i-1)
	}
	for i := range m.pos {
		eachRow(&m.pos[i], i)
	}
}

// Len returns the number of tiles present.
func (m *Map) Len() int {
	n := 0
	m.Each(func(TilePos, *Tile) { n++ })
	return n
}

// Merge folds other into m with its tiles shifted by a tile offset. Solid
// bits are ORed and surface values keep the larger of each.
func (m *Map) Merge(other *Map, tileOffsetX, tileOffsetY int) {
	other.Each(func(p TilePos, src *Tile) {
		dst := m.InsertOrFind(TilePos{X: p.X + tileOffsetX, Y: p.Y + tileOffsetY})
		dst.AllSolid = dst.AllSolid || src.AllSolid
		dst.Surface.merge(src.Surface)
		if !dst.AllSolid {
			for i := range dst.bits {
				dst.bits[i] |= src.bits[i]
			}
		}
	})
}

// SetSolid paints or clears one pixel. Painting a solid pixel overwrites
// friction and traction; damage follows the painted damage rule either way.
func (m *Map) SetSolid(x, y int, surf SurfaceInfo, solid bool) {
	p, lx, ly := TileOf(x, y)
	index := ly*TileSize + lx
	t := m.InsertOrFind(p)

	t.Surface.paintDamage(surf.Damage)

	if solid {
		t.Surface.Friction = surf.Friction
		t.Surface.Traction = surf.Traction
		t.set(index)
	} else {
		if t.AllSolid {
			t.AllSolid = false
			t.fill()
		}
		t.reset(index)
	}

	if surf.Info != "" {
		t.Surface.Info = surf.Info
	}
}

// IsSolid tests one pixel and returns the surface of the tile it hit.
func (m *Map) IsSolid(x, y int) (bool, *SurfaceInfo) {
	p, lx, ly := TileOf(x, y)
	t := m.Find(p)
	if t != nil && t.Solid(lx, ly) {
		return true, &t.Surface
	}
	return false, nil
}

// IsSolidPoints tests frame points placed at origin. Points of a frame
// facing left are mirrored across frameWidth. Consecutive points reuse the
// tile of the previous point until the walk leaves it.
func (m *Map) IsSolidPoints(origin common.Point, faceRight bool, frameWidth int, points []common.Point) (bool, *SurfaceInfo) {
	var (
		t        *Tile
		lx, ly   int
		resolved bool
	)
	sign := common.FacingSign(faceRight)
	for i, pt := range points {
		if resolved {
			lx += (pt.X - points[i-1].X) * sign
			ly += pt.Y - points[i-1].Y
			if lx < 0 || ly < 0 || lx >= TileSize || ly >= TileSize {
				resolved = false
			}
		}
		if !resolved {
			x := pt.X
			if !faceRight {
				x = frameWidth - 1 - pt.X
			}
			var p TilePos
			p, lx, ly = TileOf(origin.X+x, origin.Y+pt.Y)
			t = m.Find(p)
			resolved = true
		}
		if t != nil && t.Solid(lx, ly) {
			return true, &t.Surface
		}
	}
	return false, nil
}
