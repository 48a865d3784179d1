package component

import (
	"github.com/milk9111/tilephys/common"
	"github.com/tanema/gween"
)

// PlatformPath moves an entity along waypoints, in pixels, one tween per
// axis and leg. Ticks is the duration of each leg.
type PlatformPath struct {
	Points []common.Point
	Ticks  int
	Loop   bool

	Leg    int
	Done   bool
	TweenX *gween.Tween
	TweenY *gween.Tween
}

var PlatformPathComponent = NewComponent[PlatformPath]()
