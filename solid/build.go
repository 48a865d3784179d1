package solid

import (
	"fmt"

	"github.com/milk9111/tilephys/common"
)

// Shape variants for RectSpec.Shape.
const (
	ShapeDefault = ""
	ShapeRect    = "rect"
	ShapeFlat    = "flat"
)

// RectSpec describes a solid declared by rectangle. Area and Offsets are in
// source pixels; the built shape is twice the size.
type RectSpec struct {
	Area      common.Rect
	FeetWidth int
	HasFeet   bool
	Shape     string
	Offsets   []int
}

// FromSpec builds the body and legs maps for a rectangle solid. The legs
// are a downward taper below the body that lets feet slide over small
// steps; the body then has no bottom boundary of its own.
func FromSpec(spec RectSpec) (*Info, error) {
	if spec.Area.W <= 0 || spec.Area.H <= 0 {
		return nil, fmt.Errorf("solid: rect %v: %w", spec.Area, ErrEmptyArea)
	}
	if len(spec.Offsets) == 1 {
		return nil, fmt.Errorf("solid: rect %v: %w: need at least two offsets", spec.Area, ErrBadOffsets)
	}
	area := common.NewRect(spec.Area.X*2, spec.Area.Y*2, spec.Area.W*2, spec.Area.H*2)

	legsHeight := area.W/2 + 1 - spec.FeetWidth
	if !spec.HasFeet || len(spec.Offsets) > 0 || spec.Shape == ShapeRect || legsHeight < 0 {
		legsHeight = 0
	}

	if spec.Shape == ShapeFlat {
		legsHeight = 0
		area = common.NewRect(area.X, area.Y+area.H-1, area.W, 1)
	}

	var maps []*Map
	if legsHeight < area.H {
		body := newMap("body", common.NewRect(area.X, area.Y, area.W, area.H-legsHeight), true)
		body.applyOffsets(spec.Offsets)
		body.calculateSides(common.DirUp, common.DirLeft, common.DirRight, common.DirNone)
		if legsHeight == 0 {
			body.calculateSides(common.DirDown)
		}
		maps = append(maps, body)
	} else {
		legsHeight = area.H
	}

	if legsHeight > 0 {
		legs := newMap("legs", common.NewRect(area.X, area.Y2()-legsHeight, area.W, legsHeight), false)
		for y := 0; y < legs.area.H-1; y++ {
			for x := y; x < legs.area.W-y; x++ {
				legs.set(x, y, true)
			}
		}
		if area.H <= legsHeight {
			legs.calculateSides(common.DirUp)
		}
		legs.calculateSides(common.DirDown, common.DirLeft, common.DirRight, common.DirNone)
		maps = append(maps, legs)
	}

	return NewInfo(maps...), nil
}

// PlatformFromArea builds the one pixel high platform map. Only x and width
// are doubled.
func PlatformFromArea(area common.Rect) (*Info, error) {
	if area.W <= 0 {
		return nil, fmt.Errorf("solid: platform %v: %w", area, ErrEmptyArea)
	}
	m := newMap("platform", common.NewRect(area.X*2, area.Y*2, area.W*2, 1), true)
	m.calculateSides(allDirections...)
	return NewInfo(m), nil
}
