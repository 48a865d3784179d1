package grid

import (
	"fmt"
	"slices"
	"strings"

	"github.com/milk9111/tilephys/common"
)

// ForegroundZOrder is the first z-order drawn in front of entities. Tiles
// at or above it carry no solidity.
const ForegroundZOrder = 1000

// TileDef is the solidity of a tile graphic, shared by every placement.
type TileDef struct {
	ID            string
	Width, Height int
	Passthrough   bool
	Surface       SurfaceInfo

	allSolid bool
	solid    []bool
}

// ParseTileDef builds a definition from mask rows where '#' marks a solid
// pixel. Every row must be width pixels wide; no rows means no solidity.
func ParseTileDef(id string, width, height int, rows []string) (*TileDef, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid: tile %q: bad size %dx%d", id, width, height)
	}
	d := &TileDef{ID: id, Width: width, Height: height}
	if len(rows) == 0 {
		return d, nil
	}
	if len(rows) != height {
		return nil, fmt.Errorf("grid: tile %q: %d mask rows, want %d", id, len(rows), height)
	}
	d.solid = make([]bool, width*height)
	all := true
	for y, r := range rows {
		if len(r) != width {
			return nil, fmt.Errorf("grid: tile %q: row %d is %d wide, want %d", id, y, len(r), width)
		}
		for x := 0; x < width; x++ {
			d.solid[y*width+x] = r[x] == '#'
			all = all && r[x] == '#'
		}
	}
	d.allSolid = all
	return d, nil
}

// SolidTileDef returns a definition that is solid everywhere.
func SolidTileDef(id string, width, height int, surf SurfaceInfo) *TileDef {
	return &TileDef{ID: id, Width: width, Height: height, Surface: surf, allSolid: true}
}

// Named solid shapes for ShapeTileDef. Diagonals are filled below the line
// for solid tiles and are the line itself for passthrough tiles.
const (
	ShapeSolid                 = "solid"
	ShapeFlat                  = "flat"
	ShapeDiagonal              = "diagonal"
	ShapeReverseDiagonal       = "reverse_diagonal"
	ShapeUpwardDiagonal        = "upward_diagonal"
	ShapeUpwardReverseDiagonal = "upward_reverse_diagonal"
)

// ShapeTileDef builds a definition from named shapes, which are ORed
// together. A solid or flat passthrough tile is only its top row.
func ShapeTileDef(id string, width, height int, shapes []string, passthrough bool, surf SurfaceInfo) (*TileDef, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid: tile %q: bad size %dx%d", id, width, height)
	}
	d := &TileDef{ID: id, Width: width, Height: height, Passthrough: passthrough, Surface: surf}
	if len(shapes) == 0 {
		return d, nil
	}
	d.solid = make([]bool, width*height)
	paint := func(fn func(x, y int) bool) {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if fn(x, y) {
					d.solid[y*width+x] = true
				}
			}
		}
	}
	for _, shape := range shapes {
		switch shape {
		case ShapeSolid, ShapeFlat:
			if passthrough {
				paint(func(_, y int) bool { return y == 0 })
			} else {
				paint(func(_, _ int) bool { return true })
			}
		case ShapeDiagonal:
			paint(func(x, y int) bool { return y == x || (!passthrough && y >= x) })
		case ShapeReverseDiagonal:
			paint(func(x, y int) bool {
				r := width - (x + 1)
				return y == r || (!passthrough && y >= r)
			})
		case ShapeUpwardDiagonal:
			paint(func(x, y int) bool { return y == x || (!passthrough && y <= x) })
		case ShapeUpwardReverseDiagonal:
			paint(func(x, y int) bool {
				r := width - (x + 1)
				return y == r || (!passthrough && y <= r)
			})
		default:
			return nil, fmt.Errorf("grid: tile %q: unknown solid shape %q", id, shape)
		}
	}
	if !passthrough && !slices.Contains(d.solid, false) {
		d.allSolid = true
		d.solid = nil
	}
	return d, nil
}

func (d *TileDef) AllSolid() bool { return d.allSolid }

func (d *TileDef) HasSolid() bool { return d.allSolid || d.solid != nil }

func (d *TileDef) SolidAt(x, y int) bool {
	if x < 0 || y < 0 || x >= d.Width || y >= d.Height {
		return false
	}
	if d.allSolid {
		return true
	}
	return d.solid != nil && d.solid[y*d.Width+x]
}

// String renders the mask with '#' for solid pixels.
func (d *TileDef) String() string {
	var b strings.Builder
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			if d.SolidAt(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// TilePlacement is one tile placed in a level at pixel position (X, Y).
// ZOrder doubles as the layer the tile was built from.
type TilePlacement struct {
	X, Y      int
	ZOrder    int
	FaceRight bool
	Def       *TileDef
}

func (t TilePlacement) Rect() common.Rect {
	return common.NewRect(t.X, t.Y, t.Def.Width, t.Def.Height)
}

// SolidRect is a solid rectangle declared by the level itself.
type SolidRect struct {
	Rect    common.Rect
	Surface SurfaceInfo
}
