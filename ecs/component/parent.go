package component

import "github.com/milk9111/tilephys/common"

// Parent attaches an entity to a pivot of another one. RelX flips with the
// parent's facing.
type Parent struct {
	Entity     uint64
	Pivot      string
	RelX, RelY int

	PrevPivot    common.Point
	HasPrevPivot bool
}

var ParentComponent = NewComponent[Parent]()
