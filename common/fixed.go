package common

// CentiPerPixel is the number of centipixels in a pixel. Positions,
// velocities and accelerations are stored in centipixels.
const CentiPerPixel = 100

// FloorDiv divides a by b rounding toward negative infinity.
func FloorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// FloorMod is the remainder matching FloorDiv; it has the sign of b.
func FloorMod(a, b int) int {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// CentiToPixel converts centipixels to whole pixels, flooring.
func CentiToPixel(c int) int {
	return FloorDiv(c, CentiPerPixel)
}

// PixelToCenti converts whole pixels to centipixels.
func PixelToCenti(p int) int {
	return p * CentiPerPixel
}

func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// FacingSign is 1 when facing right, -1 otherwise.
func FacingSign(faceRight bool) int {
	if faceRight {
		return 1
	}
	return -1
}
