package common

import "fmt"

// Point is an integer pixel position.
type Point struct {
	X, Y int
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Rect is an integer pixel rectangle. X2 and Y2 are exclusive.
type Rect struct {
	X, Y, W, H int
}

func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectFromCoords builds a rect from inclusive corner coordinates.
func RectFromCoords(x1, y1, x2, y2 int) Rect {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Rect{X: x1, Y: y1, W: x2 - x1 + 1, H: y2 - y1 + 1}
}

func (r Rect) X2() int { return r.X + r.W }
func (r Rect) Y2() int { return r.Y + r.H }

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X2() && y < r.Y2()
}

// Intersects reports whether r and o share at least one pixel.
func (r Rect) Intersects(o Rect) bool {
	if r.X2() <= o.X || o.X2() <= r.X {
		return false
	}
	if r.Y2() <= o.Y || o.Y2() <= r.Y {
		return false
	}
	return !r.Empty() && !o.Empty()
}

// Intersection returns the overlap of r and o, with zero size when they
// do not overlap.
func (r Rect) Intersection(o Rect) Rect {
	x := max(r.X, o.X)
	y := max(r.Y, o.Y)
	w := max(0, min(r.X2(), o.X2())-x)
	h := max(0, min(r.Y2(), o.Y2())-y)
	return Rect{X: x, Y: y, W: w, H: h}
}

// Union returns the smallest rect covering r and o.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x := min(r.X, o.X)
	y := min(r.Y, o.Y)
	return Rect{X: x, Y: y, W: max(r.X2(), o.X2()) - x, H: max(r.Y2(), o.Y2()) - y}
}

func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}
