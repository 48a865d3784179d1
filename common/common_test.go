package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloorDivMod(t *testing.T) {
	tests := []struct {
		a, b     int
		div, mod int
	}{
		{a: 7, b: 2, div: 3, mod: 1},
		{a: -7, b: 2, div: -4, mod: 1},
		{a: -8, b: 2, div: -4, mod: 0},
		{a: 0, b: 8, div: 0, mod: 0},
		{a: 7, b: -2, div: -4, mod: -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.div, FloorDiv(tt.a, tt.b), "%d div %d", tt.a, tt.b)
		assert.Equal(t, tt.mod, FloorMod(tt.a, tt.b), "%d mod %d", tt.a, tt.b)
	}
}

func TestCentiToPixelFloors(t *testing.T) {
	assert.Equal(t, 1, CentiToPixel(199))
	assert.Equal(t, -1, CentiToPixel(-1))
	assert.Equal(t, 300, PixelToCenti(3))
}

func TestRectFromCoordsIsInclusive(t *testing.T) {
	r := RectFromCoords(4, 6, 1, 2)
	assert.Equal(t, NewRect(1, 2, 4, 5), r)
	assert.True(t, r.Contains(4, 6))
	assert.False(t, r.Contains(5, 6))
}

func TestRectOverlap(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	tests := []struct {
		name  string
		b     Rect
		hit   bool
		inter Rect
	}{
		{name: "inside", b: NewRect(2, 2, 3, 3), hit: true, inter: NewRect(2, 2, 3, 3)},
		{name: "edge touching", b: NewRect(10, 0, 5, 5), hit: false},
		{name: "corner overlap", b: NewRect(9, 9, 5, 5), hit: true, inter: NewRect(9, 9, 1, 1)},
		{name: "empty", b: NewRect(3, 3, 0, 4), hit: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hit, a.Intersects(tt.b))
			if tt.hit {
				assert.Equal(t, tt.inter, a.Intersection(tt.b))
			}
		})
	}
	assert.Equal(t, NewRect(0, 0, 14, 14), a.Union(NewRect(9, 9, 5, 5)))
	assert.Equal(t, a, NewRect(0, 0, 0, 0).Union(a))
}

func TestDirectionMirror(t *testing.T) {
	assert.Equal(t, DirRight, DirLeft.Mirror(false))
	assert.Equal(t, DirLeft, DirLeft.Mirror(true))
	assert.Equal(t, DirUp, DirUp.Mirror(false))
	dx, dy := DirDown.Delta()
	assert.Equal(t, [2]int{0, 1}, [2]int{dx, dy})
	assert.Equal(t, -1, FacingSign(false))
}
