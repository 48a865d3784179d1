package common

// Direction is a one pixel movement direction used to select boundary
// point sets. DirNone selects every solid point.
type Direction uint8

const (
	DirNone Direction = iota
	DirLeft
	DirRight
	DirUp
	DirDown

	DirectionCount = 5
)

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return "none"
	}
}

// Delta is the neighbor offset a boundary point is tested against.
func (d Direction) Delta() (int, int) {
	switch d {
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	default:
		return 0, 0
	}
}

// Mirror swaps left and right for an entity that does not face right.
func (d Direction) Mirror(faceRight bool) Direction {
	if faceRight {
		return d
	}
	switch d {
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	}
	return d
}
