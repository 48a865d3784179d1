package component

import "github.com/milk9111/tilephys/common"

// Footing tracks feet and platform geometry between ticks.
type Footing struct {
	PrevFeetX, PrevFeetY int
	HasPrevFeet          bool
	LastMoveX, LastMoveY int
	PrevPlatformRect     common.Rect
}

var FootingComponent = NewComponent[Footing]()
