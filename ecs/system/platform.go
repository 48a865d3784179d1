package system

import (
	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/ecs"
)

// platformRect is the world rectangle of the frame's platform. When the
// entity moved up last tick it is stretched down over the distance moved,
// so riders left behind by the move still land on it.
func (a *actor) platformRect() common.Rect {
	f := a.frame()
	if f == nil || f.Platform == nil {
		return common.Rect{}
	}
	area := f.Platform.Area()
	if area.Empty() {
		return common.Rect{}
	}
	h := area.H
	if a.footing.LastMoveY < 0 {
		h -= a.footing.LastMoveY
	}
	return common.NewRect(a.x()+area.X, a.y()+area.Y, area.W, h)
}

func (a *actor) hasPlatform() bool {
	return !a.platformRect().Empty()
}

// platformRectAt shifts the platform rect down by the ramp offset at x.
// Offsets are interpolated between evenly spaced points at 1024 fixed
// point.
func (a *actor) platformRectAt(x int) common.Rect {
	r := a.platformRect()
	f := a.frame()
	if f == nil || len(f.PlatformOffsets) == 0 {
		return r
	}
	if x < r.X || x >= r.X2() {
		return r
	}
	offsets := f.PlatformOffsets
	if len(offsets) == 1 {
		return r.Translate(0, offsets[0])
	}
	pos := (x - r.X) * 1024
	segWidth := (r.W * 1024) / (len(offsets) - 1)
	segment := min(pos/segWidth, len(offsets)-2)
	partial := pos - segment*segWidth
	offset := (partial*offsets[segment+1] + (segWidth-partial)*offsets[segment]) / segWidth
	return r.Translate(0, offset)
}

// platformSlopeAt is the ramp slope at x scaled so 45 is one pixel down
// per pixel across.
func (a *actor) platformSlopeAt(x int) int {
	f := a.frame()
	if f == nil || len(f.PlatformOffsets) <= 1 {
		return 0
	}
	r := a.platformRect()
	if x < r.X || x >= r.X2() {
		return 0
	}
	offsets := f.PlatformOffsets
	pos := (x - r.X) * 1024
	dx := (r.W * 1024) / (len(offsets) - 1)
	segment := min(pos/dx, len(offsets)-2)
	dy := (offsets[segment+1] - offsets[segment]) * 1024
	return (dy * 45) / dx
}

// mapPlatformPos maps x on last tick's platform onto this tick's, for
// platforms that change size, and returns how far a rider at x must move
// beyond the platform's own feet motion.
func (a *actor) mapPlatformPos(x int) int {
	cur := a.platformRect()
	prev := a.footing.PrevPlatformRect
	if cur.Empty() || prev.W <= 0 || x < prev.X || x >= prev.X2() {
		return 0
	}
	mapsTo := (1024 * (x - prev.X) * cur.W) / prev.W
	if mapsTo%1024 >= 512 {
		mapsTo = cur.X + mapsTo/1024 + 1
	} else {
		mapsTo = cur.X + mapsTo/1024
	}
	prevFeetX := a.feetX()
	if a.footing.HasPrevFeet {
		prevFeetX = a.footing.PrevFeetX
	}
	return mapsTo - x - (a.feetX() - prevFeetX)
}

// PlatformRect returns the platform rectangle of e in world pixels.
func PlatformRect(s *Sim, e ecs.Entity) common.Rect {
	if a := s.actor(e); a != nil {
		return a.platformRect()
	}
	return common.Rect{}
}

// PlatformRectAt returns the platform rectangle of e adjusted by the ramp
// offset at world x.
func PlatformRectAt(s *Sim, e ecs.Entity, x int) common.Rect {
	if a := s.actor(e); a != nil {
		return a.platformRectAt(x)
	}
	return common.Rect{}
}

func PlatformSlopeAt(s *Sim, e ecs.Entity, x int) int {
	if a := s.actor(e); a != nil {
		return a.platformSlopeAt(x)
	}
	return 0
}

func MapPlatformPos(s *Sim, e ecs.Entity, x int) int {
	if a := s.actor(e); a != nil {
		return a.mapPlatformPos(x)
	}
	return 0
}
