package system

import (
	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/ecs"
)

// forceStandingRange is how far an editor-forced entity searches down for
// ground when placed.
const forceStandingRange = 128

// maxStandingRetries bounds the re-descent after moving to standing ends
// above the level.
const maxStandingRetries = 8

var placementDirs = [...]common.Direction{common.DirUp, common.DirDown, common.DirLeft, common.DirRight}

// PlaceInLevel nudges a freshly spawned entity out of whatever it overlaps.
// It picks the first of up, down, left and right whose boundary is clear and
// walks that way until the entity is free, failing if the leading edge
// starts colliding first.
func PlaceInLevel(s *Sim, e ecs.Entity) bool {
	a := s.actor(e)
	if a == nil {
		return false
	}
	s.Refresh()
	ok := s.placeInLevel(a)
	s.reindex(a)
	return ok
}

func (s *Sim) placeInLevel(a *actor) bool {
	if a.body.EditorForceStanding && !s.moveToStanding(a, forceStandingRange) {
		return false
	}
	if hit, _ := s.entityCollides(a, common.DirNone); !hit {
		return true
	}
	for _, dir := range placementDirs {
		if hit, _ := s.entityCollides(a, dir); hit {
			continue
		}
		dx, dy := dir.Delta()
		for steps := 0; ; steps++ {
			if hit, _ := s.entityCollides(a, common.DirNone); !hit {
				return true
			}
			if steps >= s.maxPlacementSteps() {
				s.Log.Debug("placement gave up", "entity", s.describe(a.e), "dir", dir)
				return false
			}
			a.nudge(dx, dy)
			if hit, _ := s.entityCollides(a, dir); hit {
				return false
			}
		}
	}
	return false
}

// PlaceInLevelWithLargeDisplacement retries PlaceInLevel from points 4, 8,
// up to 128 pixels away in each direction. The position is restored when
// nothing works.
func PlaceInLevelWithLargeDisplacement(s *Sim, e ecs.Entity) bool {
	a := s.actor(e)
	if a == nil {
		return false
	}
	s.Refresh()
	defer s.reindex(a)
	if s.placeInLevel(a) {
		return true
	}
	x, y := a.t.X, a.t.Y
	for d := 4; d < 256; d *= 2 {
		for _, p := range [...]common.Point{{X: -d}, {X: d}, {Y: -d}, {Y: d}} {
			a.t.X, a.t.Y = x, y
			a.nudge(p.X, p.Y)
			if s.placeInLevel(a) {
				return true
			}
		}
	}
	a.t.X, a.t.Y = x, y
	s.Log.Info("entity could not be placed", "entity", s.describe(e))
	return false
}

// MoveToStanding drops e onto the first footing within maxDisplace pixels below.
// An entity already standing is first raised to the surface of what it
// stands in. On failure, or if the result overlaps something, y is
// restored.
func MoveToStanding(s *Sim, e ecs.Entity, maxDisplace int) bool {
	a := s.actor(e)
	if a == nil {
		return false
	}
	s.Refresh()
	ok := s.moveToStanding(a, maxDisplace)
	s.reindex(a)
	return ok
}

func (s *Sim) moveToStanding(a *actor, maxDisplace int) bool {
	startY := a.t.Y
	ok := s.descendToStanding(a, maxDisplace, maxStandingRetries)
	if !ok {
		a.t.Y = startY
		return false
	}
	if hit, _ := s.entityCollides(a, common.DirNone); hit {
		a.t.Y = startY
		return false
	}
	return true
}

func (s *Sim) standing(a *actor) bool {
	st, _ := s.isStanding(a)
	return st != NotStanding
}

func (s *Sim) descendToStanding(a *actor, maxDisplace, retries int) bool {
	startY := a.t.Y
	for n := 0; n < maxDisplace; n++ {
		if !s.standing(a) {
			a.nudge(0, 1)
			continue
		}
		if n > 0 {
			return true
		}
		// Standing straight away may mean a cave ceiling; climb to the
		// surface.
		for i := 0; i < maxDisplace; i++ {
			a.nudge(0, -1)
			if s.standing(a) {
				continue
			}
			a.nudge(0, 1)
			if s.Bounds.Empty() || a.y() >= s.Bounds.Y || retries == 0 {
				return true
			}
			// Above the level: go back under the solid and look for the
			// ground below it.
			for j := 0; j < maxDisplace; j++ {
				a.nudge(0, 1)
				if !s.standing(a) {
					return s.descendToStanding(a, maxDisplace, retries-1)
				}
			}
			return true
		}
		return true
	}
	a.t.Y = startY
	return false
}
