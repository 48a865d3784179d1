package system

import (
	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/ecs"
)

// StandingStatus is ordered: a larger value is a firmer footing.
type StandingStatus int

const (
	NotStanding StandingStatus = iota
	StandingBackFoot
	StandingFrontFoot
)

func (st StandingStatus) String() string {
	switch st {
	case StandingBackFoot:
		return "back_foot"
	case StandingFrontFoot:
		return "front_foot"
	default:
		return "not_standing"
	}
}

// IsStanding probes below the front foot, then the back foot. Entities
// falling through platforms only stand on solids.
func IsStanding(s *Sim, e ecs.Entity) (StandingStatus, CollisionInfo) {
	a := s.actor(e)
	if a == nil {
		return NotStanding, CollisionInfo{}
	}
	return s.isStanding(a)
}

func (s *Sim) isStanding(a *actor) (StandingStatus, CollisionInfo) {
	if !a.hasFeet() {
		return NotStanding, CollisionInfo{}
	}
	allow := SolidAndPlatforms
	if a.state.FallThrough > 0 {
		allow = SolidOnly
	}
	fx, fy := a.feetX(), a.feetY()
	width := a.body.FeetWidth
	if width < 1 {
		if ok, info := s.pointStandable(a, fx, fy, allow); ok {
			return StandingFrontFoot, info
		}
		return NotStanding, CollisionInfo{}
	}
	facing := common.FacingSign(a.faceRight())
	if ok, info := s.pointStandable(a, fx+width*facing, fy, allow); ok {
		return StandingFrontFoot, info
	}
	if ok, info := s.pointStandable(a, fx-width*facing, fy, allow); ok {
		return StandingBackFoot, info
	}
	return NotStanding, CollisionInfo{}
}

// StandableResult is what IsStandable reports about a hit.
type StandableResult struct {
	Friction int
	Traction int
	AdjustY  int
}

// IsStandable tests whether a world point rests on e's body: its image for
// image collision entities, else its body rect. Failing that, a point in
// the band swept by the frame platform since last tick counts. Passthrough
// bodies only offer the platform band.
func IsStandable(s *Sim, e ecs.Entity, x, y int) (bool, StandableResult) {
	a := s.actor(e)
	if a == nil {
		return false, StandableResult{}
	}
	return a.isStandable(x, y)
}

func (a *actor) isStandable(x, y int) (bool, StandableResult) {
	res := StandableResult{Friction: a.body.SurfaceFriction, Traction: a.body.SurfaceTraction}
	if !a.body.Passthrough && a.pointCollides(x, y) {
		if a.kind.UsesImage() {
			for res.AdjustY = 0; a.pointCollides(x, y-res.AdjustY-1); res.AdjustY-- {
			}
		} else {
			res.AdjustY = y - a.bodyRect().Y
		}
		return true, res
	}

	f := a.frame()
	if f == nil || f.Platform == nil {
		return false, StandableResult{}
	}
	area := f.Platform.Area()
	y1, y2 := a.y()+area.Y, a.state.PreviousY+area.Y
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	if y < y1 || y > y2 {
		return false, StandableResult{}
	}
	if x < a.x()+area.X || x >= a.x()+area.X+area.W {
		return false, StandableResult{}
	}
	res.AdjustY = a.y() + area.Y - y
	return true, res
}

// bodyRect is the frame's body rect in world space, mirrored for facing.
func (a *actor) bodyRect() common.Rect {
	f := a.frame()
	if f == nil {
		return common.Rect{}
	}
	b := f.Body
	x := a.x() + b.X
	if !a.faceRight() {
		x = a.x() + f.Width - b.X - b.W
	}
	return common.NewRect(x, a.y()+b.Y, b.W, b.H)
}

func (a *actor) pointCollides(x, y int) bool {
	if a.kind.UsesImage() {
		return !a.frame().IsAlpha(x-a.x(), y-a.y(), a.faceRight())
	}
	return a.bodyRect().Contains(x, y)
}
