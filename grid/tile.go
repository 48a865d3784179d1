package grid

import (
	"fmt"
	"math/bits"

	"github.com/milk9111/tilephys/common"
)

// TileSize is the edge length of a grid tile in pixels.
const TileSize = 32

const tileWords = TileSize * TileSize / 64

// TilePos addresses a tile. Tile coordinates are pixel coordinates floor
// divided by TileSize.
type TilePos struct {
	X, Y int
}

func (p TilePos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// TileOf returns the tile containing the pixel and the pixel's offset
// inside it. Negative coordinates round toward negative infinity.
func TileOf(x, y int) (TilePos, int, int) {
	return TilePos{X: common.FloorDiv(x, TileSize), Y: common.FloorDiv(y, TileSize)},
		common.FloorMod(x, TileSize), common.FloorMod(y, TileSize)
}

// SurfaceInfo describes what standing on or touching a solid pixel does.
// Damage is -1 when nothing has painted a damage value yet.
type SurfaceInfo struct {
	Friction int
	Traction int
	Damage   int
	Info     string
}

// merge folds b into a, keeping the larger values.
func (a *SurfaceInfo) merge(b SurfaceInfo) {
	a.Friction = max(a.Friction, b.Friction)
	a.Traction = max(a.Traction, b.Traction)
	a.Damage = max(a.Damage, b.Damage)
	if b.Info != "" {
		a.Info = b.Info
	}
}

// paintDamage applies a damage value to a cell that may already carry one.
// An existing non-negative value keeps the smaller of the two.
func (a *SurfaceInfo) paintDamage(d int) {
	if a.Damage >= 0 {
		a.Damage = min(a.Damage, d)
	} else {
		a.Damage = d
	}
}

// Tile is the solidity of one TileSize square.
type Tile struct {
	AllSolid bool
	Surface  SurfaceInfo
	bits     [tileWords]uint64
}

func newTile() *Tile {
	return &Tile{Surface: SurfaceInfo{Damage: -1}}
}

// Solid reports whether the local pixel is solid.
func (t *Tile) Solid(lx, ly int) bool {
	if t == nil {
		return false
	}
	return t.AllSolid || t.test(ly*TileSize+lx)
}

// Any reports whether the tile holds at least one solid pixel.
func (t *Tile) Any() bool {
	if t.AllSolid {
		return true
	}
	for _, w := range t.bits {
		if w != 0 {
			return true
		}
	}
	return false
}

// Count returns the number of solid pixels.
func (t *Tile) Count() int {
	if t.AllSolid {
		return TileSize * TileSize
	}
	n := 0
	for _, w := range t.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

func (t *Tile) test(i int) bool {
	return t.bits[i>>6]&(1<<(uint(i)&63)) != 0
}

func (t *Tile) set(i int) {
	t.bits[i>>6] |= 1 << (uint(i) & 63)
}

func (t *Tile) reset(i int) {
	t.bits[i>>6] &^= 1 << (uint(i) & 63)
}

func (t *Tile) fill() {
	for i := range t.bits {
		t.bits[i] = ^uint64(0)
	}
}
