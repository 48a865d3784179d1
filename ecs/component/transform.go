package component

import "github.com/milk9111/tilephys/common"

// Transform is the entity position in centipixels. The pixel position is
// the floor of X/100 and Y/100.
type Transform struct {
	X, Y     int
	FaceLeft bool
}

var TransformComponent = NewComponent[Transform]()

func (t *Transform) FaceRight() bool { return !t.FaceLeft }

func (t *Transform) PixelX() int { return common.CentiToPixel(t.X) }

func (t *Transform) PixelY() int { return common.CentiToPixel(t.Y) }

func (t *Transform) SetPixelX(x int) { t.X = common.PixelToCenti(x) }

func (t *Transform) SetPixelY(y int) { t.Y = common.PixelToCenti(y) }

// Move shifts the position by centipixels and reports whether the pixel
// position changed.
func (t *Transform) Move(dx, dy int) bool {
	px, py := t.PixelX(), t.PixelY()
	t.X += dx
	t.Y += dy
	return t.PixelX() != px || t.PixelY() != py
}
