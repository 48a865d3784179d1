package component

import "github.com/milk9111/tilephys/solid"

// Animation selects the current frame geometry of an entity. Frames are
// shared with every entity of the same type.
type Animation struct {
	Type    string
	Frames  map[string]*solid.Frame
	Current string
}

var AnimationComponent = NewComponent[Animation]()

// Frame returns the current frame, or nil.
func (a *Animation) Frame() *solid.Frame {
	if a == nil {
		return nil
	}
	return a.Frames[a.Current]
}
