package solid

import (
	"fmt"
	"image"

	"github.com/milk9111/tilephys/common"
)

// Opaque reports whether the image pixel at (x, y) has any coverage.
// Pixels outside the image bounds are transparent.
func Opaque(img image.Image, x, y int) bool {
	if img == nil || !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return false
	}
	_, _, _, a := img.At(x, y).RGBA()
	return a != 0
}

// FromImage builds a solid from the opaque pixels of area in img, placed
// relative to the top left of area. Empty border rows and columns are
// trimmed first. With scale2x the result is doubled to match frame
// coordinates, and empty pixels in the lower half of an upscaled source
// pixel are filled when the source pixel below and the horizontal neighbor
// on that side are both opaque. That rounds off staircase edges.
func FromImage(id string, img image.Image, area image.Rectangle, scale2x bool) (*Info, error) {
	if img == nil {
		return nil, fmt.Errorf("solid: image %q: nil image", id)
	}
	if area.Empty() || !area.In(img.Bounds()) {
		return nil, fmt.Errorf("solid: image %q: area %v outside %v: %w", id, area, img.Bounds(), ErrEmptyArea)
	}
	src := trimTransparent(img, area)
	if src.Empty() {
		return nil, fmt.Errorf("solid: image %q: %w", id, ErrEmptyArea)
	}

	opaque := func(x, y int) bool { return Opaque(img, src.Min.X+x, src.Min.Y+y) }

	origin := src.Min.Sub(area.Min)
	if !scale2x {
		m := newMap(id, common.NewRect(origin.X, origin.Y, src.Dx(), src.Dy()), false)
		for y := 0; y < src.Dy(); y++ {
			for x := 0; x < src.Dx(); x++ {
				m.set(x, y, opaque(x, y))
			}
		}
		m.calculateSides(allDirections...)
		return NewInfo(m), nil
	}

	m := newMap(id, common.NewRect(origin.X*2, origin.Y*2, src.Dx()*2, src.Dy()*2), false)
	w, h := m.area.W, m.area.H
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			solid := opaque(x/2, y/2)
			if !solid && y&1 == 1 && y < h-1 && opaque(x/2, y/2+1) {
				if x&1 == 1 && x < w-1 && opaque(x/2+1, y/2) {
					solid = true
				} else if x&1 == 0 && x > 0 && opaque(x/2-1, y/2) {
					solid = true
				}
			}
			if solid {
				m.set(x, y, true)
			}
		}
	}
	m.calculateSides(allDirections...)
	return NewInfo(m), nil
}

// trimTransparent shrinks r until every edge row and column holds at least
// one opaque pixel.
func trimTransparent(img image.Image, r image.Rectangle) image.Rectangle {
	rowOpaque := func(y int) bool {
		for x := r.Min.X; x < r.Max.X; x++ {
			if Opaque(img, x, y) {
				return true
			}
		}
		return false
	}
	colOpaque := func(x int) bool {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			if Opaque(img, x, y) {
				return true
			}
		}
		return false
	}
	for r.Dy() > 0 && !rowOpaque(r.Max.Y-1) {
		r.Max.Y--
	}
	for r.Dy() > 0 && !rowOpaque(r.Min.Y) {
		r.Min.Y++
	}
	for r.Dx() > 0 && !colOpaque(r.Min.X) {
		r.Min.X++
	}
	for r.Dx() > 0 && !colOpaque(r.Max.X-1) {
		r.Max.X--
	}
	return r
}
