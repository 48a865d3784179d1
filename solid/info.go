package solid

import (
	"errors"

	"github.com/milk9111/tilephys/common"
)

var (
	ErrEmptyArea  = errors.New("solid: empty area")
	ErrBadOffsets = errors.New("solid: bad offsets")
)

// Info is the logical solid of a frame: one or more maps whose bounding
// area is their union. It is shared by every entity showing the frame.
type Info struct {
	area common.Rect
	maps []*Map
}

// NewInfo composes maps into one shape. It returns nil for no maps.
func NewInfo(maps ...*Map) *Info {
	var kept []*Map
	for _, m := range maps {
		if m != nil {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	info := &Info{maps: kept, area: kept[0].area}
	for _, m := range kept[1:] {
		info.area = info.area.Union(m.area)
	}
	return info
}

// Area is the union of the maps' areas in frame coordinates.
func (i *Info) Area() common.Rect {
	if i == nil {
		return common.Rect{}
	}
	return i.area
}

func (i *Info) Maps() []*Map {
	if i == nil {
		return nil
	}
	return i.maps
}

// SolidAt tests a frame coordinate and reports the id of the map that was
// hit.
func (i *Info) SolidAt(x, y int) (bool, string) {
	if i == nil {
		return false, ""
	}
	for _, m := range i.maps {
		if m.SolidAt(x-m.area.X, y-m.area.Y) {
			return true, m.id
		}
	}
	return false, ""
}
