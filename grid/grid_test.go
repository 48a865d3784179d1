package grid

import (
	"io"
	"log/slog"
	"testing"

	"github.com/milk9111/tilephys/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileOfFloors(t *testing.T) {
	cases := []struct {
		x, y   int
		pos    TilePos
		lx, ly int
	}{
		{0, 0, TilePos{0, 0}, 0, 0},
		{31, 32, TilePos{0, 1}, 31, 0},
		{-1, -1, TilePos{-1, -1}, 31, 31},
		{-32, -33, TilePos{-1, -2}, 0, 31},
		{-33, 65, TilePos{-2, 2}, 31, 1},
	}
	for _, c := range cases {
		pos, lx, ly := TileOf(c.x, c.y)
		assert.Equal(t, c.pos, pos, "tile of (%d,%d)", c.x, c.y)
		assert.Equal(t, c.lx, lx)
		assert.Equal(t, c.ly, ly)
	}
}

func TestMapNegativeQuadrants(t *testing.T) {
	m := NewMap()
	surf := SurfaceInfo{Friction: 10, Traction: 20, Damage: 0}
	points := [][2]int{{-1, -1}, {-40, 5}, {5, -40}, {70, 70}}
	for _, p := range points {
		m.SetSolid(p[0], p[1], surf, true)
	}
	for _, p := range points {
		ok, got := m.IsSolid(p[0], p[1])
		require.True(t, ok, "(%d,%d)", p[0], p[1])
		assert.Equal(t, 10, got.Friction)
	}
	ok, _ := m.IsSolid(0, 0)
	assert.False(t, ok)
	ok, _ = m.IsSolid(-2, -1)
	assert.False(t, ok)

	var order []TilePos
	m.Each(func(p TilePos, _ *Tile) { order = append(order, p) })
	assert.Equal(t, []TilePos{{0, -2}, {-1, -1}, {-2, 0}, {2, 2}}, order)
	assert.Equal(t, 4, m.Len())

	m.Erase(TilePos{-1, -1})
	ok, _ = m.IsSolid(-1, -1)
	assert.False(t, ok)
	assert.Nil(t, m.Find(TilePos{-100, 100}))
}

func TestSetSolidDamageRule(t *testing.T) {
	cases := []struct {
		name    string
		damages []int
		want    int
	}{
		{"fresh_takes_value", []int{5}, 5},
		{"keeps_minimum", []int{5, 9, 3, 7}, 3},
		{"zero_sticks", []int{0, 4}, 0},
		{"negative_then_overwrite", []int{-3, 6}, 6},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := NewMap()
			for _, d := range c.damages {
				m.SetSolid(3, 3, SurfaceInfo{Damage: d}, true)
			}
			_, surf := m.IsSolid(3, 3)
			require.NotNil(t, surf)
			assert.Equal(t, c.want, surf.Damage)
		})
	}

	fresh := NewMap().InsertOrFind(TilePos{})
	assert.Equal(t, -1, fresh.Surface.Damage)
}

func TestSetSolidClearExpandsAllSolid(t *testing.T) {
	l := NewLevel()
	l.AddSolidRect(0, 0, 32, 32, SurfaceInfo{Friction: 1})
	tile := l.Solid.Find(TilePos{})
	require.True(t, tile.AllSolid)

	l.SetSolidArea(common.NewRect(4, 4, 2, 1), false)
	assert.False(t, tile.AllSolid)
	assert.Equal(t, TileSize*TileSize-2, tile.Count())
	ok, _ := l.SolidAt(4, 4)
	assert.False(t, ok)
	ok, _ = l.SolidAt(6, 4)
	assert.True(t, ok)
}

func TestMergeTakesMaximum(t *testing.T) {
	dst := NewMap()
	dst.SetSolid(0, 0, SurfaceInfo{Friction: 50, Traction: 5, Damage: 1, Info: "ice"}, true)

	src := NewMap()
	src.SetSolid(1, 0, SurfaceInfo{Friction: 10, Traction: 80, Damage: 4}, true)
	src.SetSolid(-1, 0, SurfaceInfo{Friction: 1, Damage: 0, Info: "mud"}, true)

	dst.Merge(src, 0, 0)
	_, surf := dst.IsSolid(1, 0)
	assert.Equal(t, SurfaceInfo{Friction: 50, Traction: 80, Damage: 4, Info: "ice"}, *surf)
	ok, _ := dst.IsSolid(0, 0)
	assert.True(t, ok)

	dst.Merge(src, 2, 1)
	ok, _ = dst.IsSolid(2*TileSize+1, TileSize)
	assert.True(t, ok)
	ok, shifted := dst.IsSolid(2*TileSize-1, TileSize)
	assert.True(t, ok)
	assert.Equal(t, "mud", shifted.Info)
}

func TestIsSolidPointsMirrorsAndCrossesTiles(t *testing.T) {
	m := NewMap()
	m.SetSolid(40, 10, SurfaceInfo{Traction: 7}, true)

	// A horizontal run that crosses from tile 0 into tile 1.
	var run []common.Point
	for x := 0; x < 12; x++ {
		run = append(run, common.Point{X: x, Y: 0})
	}
	ok, surf := m.IsSolidPoints(common.Point{X: 30, Y: 10}, true, 12, run)
	require.True(t, ok)
	assert.Equal(t, 7, surf.Traction)

	ok, _ = m.IsSolidPoints(common.Point{X: 41, Y: 10}, true, 12, run)
	assert.False(t, ok)

	// Facing left, frame x 11 lands on origin+0.
	ok, _ = m.IsSolidPoints(common.Point{X: 40, Y: 10}, false, 12, []common.Point{{X: 11, Y: 0}})
	assert.True(t, ok)
	ok, _ = m.IsSolidPoints(common.Point{X: 40, Y: 10}, true, 12, []common.Point{{X: 11, Y: 0}})
	assert.False(t, ok)

	// Mirrored walks run right to left from the far edge.
	ok, _ = m.IsSolidPoints(common.Point{X: 30, Y: 10}, false, 20, run)
	assert.True(t, ok)
}

func TestAddSolidRectPaths(t *testing.T) {
	surf := SurfaceInfo{Friction: 30, Traction: 40, Damage: 2}

	aligned := NewLevel()
	aligned.AddSolidRect(-32, 0, 32, 64, surf)
	assert.Equal(t, 4, aligned.Solid.Len())
	aligned.Solid.Each(func(_ TilePos, tile *Tile) {
		assert.True(t, tile.AllSolid)
		assert.Equal(t, 2, tile.Surface.Damage)
	})

	ragged := NewLevel()
	ragged.AddSolidRect(-2, 0, 3, 2, surf)
	ok, _ := ragged.SolidAt(-2, 1)
	assert.True(t, ok)
	ok, _ = ragged.SolidAt(3, 0)
	assert.False(t, ok)
	ragged.Solid.Each(func(_ TilePos, tile *Tile) {
		assert.False(t, tile.AllSolid)
	})
	assert.Equal(t, 10, ragged.Solid.Find(TilePos{-1, 0}).Count()+ragged.Solid.Find(TilePos{0, 0}).Count())
}

func TestAddTileSolid(t *testing.T) {
	ramp, err := ParseTileDef("ramp", 4, 2, []string{
		"#...",
		"##..",
	})
	require.NoError(t, err)

	ledge, err := ShapeTileDef("ledge", 32, 32, []string{ShapeSolid}, true, SurfaceInfo{})
	require.NoError(t, err)

	block := SolidTileDef("block", 32, 32, SurfaceInfo{Friction: 9})

	l := NewLevel()
	l.AddTile(TilePlacement{X: 0, Y: 0, FaceRight: true, Def: ramp})
	l.AddTile(TilePlacement{X: 10, Y: 0, FaceRight: false, Def: ramp})
	l.AddTile(TilePlacement{X: 64, Y: 0, FaceRight: true, Def: ledge})
	l.AddTile(TilePlacement{X: 128, Y: 0, ZOrder: ForegroundZOrder, FaceRight: true, Def: block})
	l.AddTile(TilePlacement{X: 0, Y: 64, ZOrder: -5, FaceRight: true, Def: block})

	assert.Equal(t, []int{-5, 0, ForegroundZOrder}, l.Layers())

	ok, _ := l.SolidAt(1, 1)
	assert.True(t, ok)
	ok, _ = l.SolidAt(2, 1)
	assert.False(t, ok)
	ok, _ = l.SolidAt(13, 0)
	assert.True(t, ok, "mirrored tile is solid on its right edge")
	ok, _ = l.SolidAt(10, 0)
	assert.False(t, ok)

	ok, _ = l.SolidAt(70, 0)
	assert.False(t, ok, "passthrough tiles are not solid")
	ok, _ = l.StandableAt(70, 0)
	assert.True(t, ok)
	ok, _ = l.StandableAt(70, 1)
	assert.False(t, ok)

	ok, _ = l.SolidAt(130, 5)
	assert.False(t, ok, "foreground tiles carry no solidity")

	assert.True(t, l.Solid.Find(TilePos{0, 2}).AllSolid)
}

func TestShapeTileDefDiagonals(t *testing.T) {
	d, err := ShapeTileDef("d", 3, 3, []string{ShapeDiagonal}, false, SurfaceInfo{})
	require.NoError(t, err)
	assert.Equal(t, "#..\n##.\n###\n", d.String())

	d, err = ShapeTileDef("d", 3, 3, []string{ShapeReverseDiagonal}, true, SurfaceInfo{})
	require.NoError(t, err)
	assert.Equal(t, "..#\n.#.\n#..\n", d.String())

	d, err = ShapeTileDef("d", 3, 3, []string{ShapeDiagonal, ShapeUpwardDiagonal}, false, SurfaceInfo{})
	require.NoError(t, err)
	assert.True(t, d.AllSolid())

	_, err = ShapeTileDef("d", 3, 3, []string{"spiral"}, false, SurfaceInfo{})
	assert.Error(t, err)
}

func TestMayBeSolidInRect(t *testing.T) {
	l := NewLevel()
	l.Solid.SetSolid(-33, 5, SurfaceInfo{}, true)

	assert.True(t, l.MayBeSolidInRect(common.NewRect(-40, 0, 8, 8)))
	assert.False(t, l.MayBeSolidInRect(common.NewRect(-32, 0, 8, 8)))
	assert.True(t, l.MayBeSolidInRect(common.NewRect(-70, 0, 7, 4)), "rect ending inside the tile")
	assert.False(t, l.MayBeSolidInRect(common.NewRect(-70, 0, 6, 4)))
	assert.False(t, l.MayBeSolidInRect(common.NewRect(-40, 0, 0, 8)))
}

func TestRemoveTilesAtRefreshes(t *testing.T) {
	block := SolidTileDef("block", 32, 32, SurfaceInfo{})
	l := NewLevel()
	l.AddRect(SolidRect{Rect: common.NewRect(100, 100, 4, 4)})
	l.AddTile(TilePlacement{X: 0, Y: 0, FaceRight: true, Def: block})

	assert.False(t, l.RemoveTilesAt(50, 50))
	assert.True(t, l.RemoveTilesAt(5, 5))
	ok, _ := l.SolidAt(5, 5)
	assert.False(t, ok)
	ok, _ = l.SolidAt(101, 101)
	assert.True(t, ok, "level rects survive refresh")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRebuilderSwapsLayers(t *testing.T) {
	block := SolidTileDef("block", 32, 32, SurfaceInfo{})
	ground := Layer{ZOrder: 0, Tiles: []TilePlacement{{X: 0, Y: 64, FaceRight: true, Def: block}}}
	deco := Layer{ZOrder: 5, Tiles: []TilePlacement{{X: 64, Y: 0, ZOrder: 5, FaceRight: true, Def: block}}}

	level := NewLevel()
	for _, l := range []Layer{ground, deco} {
		for _, tile := range l.Tiles {
			level.AddTile(tile)
		}
	}
	level.AddRect(SolidRect{Rect: common.NewRect(-10, -10, 3, 3)})

	rb := NewRebuilder(level, []Layer{ground, deco}, discardLogger())
	assert.True(t, rb.Complete(), "nothing to complete")

	rb.SetLayer(Layer{ZOrder: 5, Tiles: []TilePlacement{{X: 96, Y: 0, ZOrder: 5, FaceRight: true, Def: block}}})
	rb.Start([]int{5})
	rb.Start([]int{0})
	require.True(t, rb.InProgress())

	ok, _ := rb.Level().SolidAt(70, 5)
	assert.True(t, ok, "old grid is read until the swap")

	rb.Wait()
	require.True(t, rb.Complete())
	assert.True(t, rb.InProgress(), "queued follow-up started")

	next := rb.Level()
	assert.NotSame(t, level, next)
	ok, _ = next.SolidAt(70, 5)
	assert.False(t, ok)
	ok, _ = next.SolidAt(100, 5)
	assert.True(t, ok)
	ok, _ = next.SolidAt(10, 70)
	assert.True(t, ok, "untouched layer keeps its solidity")
	ok, _ = next.SolidAt(-9, -9)
	assert.True(t, ok)

	rb.Wait()
	require.True(t, rb.Complete())
	assert.False(t, rb.InProgress())
	ok, _ = rb.Level().SolidAt(10, 70)
	assert.True(t, ok)
}

func TestRebuildAllLayers(t *testing.T) {
	block := SolidTileDef("block", 32, 32, SurfaceInfo{})
	level := NewLevel()
	level.AddTile(TilePlacement{X: 0, Y: 0, ZOrder: 2, FaceRight: true, Def: block})

	rb := NewRebuilder(level, []Layer{{ZOrder: 2}}, discardLogger())
	rb.Start(nil)
	rb.Wait()
	require.True(t, rb.Complete())
	assert.Empty(t, rb.Level().Tiles())
	ok, _ := rb.Level().SolidAt(1, 1)
	assert.False(t, ok)
}

func TestSolidAreaEditsSurviveRepaints(t *testing.T) {
	block := SolidTileDef("block", 32, 32, SurfaceInfo{})
	level := NewLevel()
	level.AddTile(TilePlacement{X: 0, Y: 0, FaceRight: true, Def: block})
	level.AddTile(TilePlacement{X: 64, Y: 0, FaceRight: true, Def: block})
	level.SetSolidArea(common.NewRect(4, 4, 2, 1), false)
	level.SetSolidArea(common.NewRect(200, 200, 2, 2), true)

	require.True(t, level.RemoveTilesAt(70, 5))
	ok, _ := level.SolidAt(4, 4)
	assert.False(t, ok, "cleared pixel stays clear after a repaint")
	ok, _ = level.SolidAt(201, 201)
	assert.True(t, ok)

	rb := NewRebuilder(level, []Layer{{ZOrder: 0, Tiles: level.Tiles()}}, discardLogger())
	rb.Start(nil)
	rb.Level().SetSolidArea(common.NewRect(300, 300, 1, 1), true)
	rb.Wait()
	require.True(t, rb.Complete())

	next := rb.Level()
	require.NotSame(t, level, next)
	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{name: "cleared before the rebuild", x: 4, y: 4, want: false},
		{name: "tile neighbour of the cleared pixel", x: 6, y: 4, want: true},
		{name: "painted before the rebuild", x: 200, y: 200, want: true},
		{name: "painted while the worker ran", x: 300, y: 300, want: true},
		{name: "removed tile", x: 70, y: 5, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, _ := next.SolidAt(tt.x, tt.y)
			assert.Equal(t, tt.want, ok)
		})
	}
}
