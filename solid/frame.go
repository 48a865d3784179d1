package solid

import (
	"image"

	"github.com/milk9111/tilephys/common"
)

// CollisionArea is a named interaction region of a frame, such as "attack"
// or "hurt". It takes no part in physical resolution.
type CollisionArea struct {
	Name         string
	Rect         common.Rect
	NoAlphaCheck bool
}

// Frame is the geometry of one animation frame in frame coordinates (the
// unmirrored top left of the frame is the origin).
type Frame struct {
	Name            string
	Width, Height   int
	Solid           *Info
	Platform        *Info
	PlatformOffsets []int
	Areas           []CollisionArea
	Body            common.Rect
	Pivots          map[string]common.Point
	// FeetX and FeetY locate the feet of frames without a solid.
	FeetX, FeetY int

	alpha []bool
}

// SetAlphaFromImage records which frame pixels are transparent. src is the
// frame's rectangle in img, scaled by scale into frame coordinates.
func (f *Frame) SetAlphaFromImage(img image.Image, src image.Rectangle, scale int) {
	if f == nil || img == nil || f.Width <= 0 || f.Height <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	f.alpha = make([]bool, f.Width*f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			f.alpha[y*f.Width+x] = !Opaque(img, src.Min.X+x/scale, src.Min.Y+y/scale)
		}
	}
}

// HasAlpha reports whether an alpha mask was recorded.
func (f *Frame) HasAlpha() bool {
	return f != nil && f.alpha != nil
}

// IsAlpha reports whether the frame pixel is transparent. The x coordinate
// is mirrored for frames drawn facing left. Frames without a mask are
// opaque everywhere inside their bounds.
func (f *Frame) IsAlpha(x, y int, faceRight bool) bool {
	if f == nil || x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return true
	}
	if !faceRight {
		x = f.Width - 1 - x
	}
	if f.alpha == nil {
		return false
	}
	return f.alpha[y*f.Width+x]
}

// AreasInsideFrame reports whether every collision area fits inside the
// frame bounds, which lets area tests skip pairs whose frames are apart.
func (f *Frame) AreasInsideFrame() bool {
	bounds := common.NewRect(0, 0, f.Width, f.Height)
	for _, a := range f.Areas {
		if a.Rect.X < bounds.X || a.Rect.Y < bounds.Y || a.Rect.X2() > bounds.X2() || a.Rect.Y2() > bounds.Y2() {
			return false
		}
	}
	return true
}

// Pivot returns a named pivot point in frame coordinates.
func (f *Frame) Pivot(name string) (common.Point, bool) {
	if f == nil || f.Pivots == nil {
		return common.Point{}, false
	}
	p, ok := f.Pivots[name]
	return p, ok
}
