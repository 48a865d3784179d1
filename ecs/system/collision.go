package system

import (
	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/grid"
)

// CollisionInfo describes what a query hit. The zero value means nothing,
// or the level when a query reported a hit.
type CollisionInfo struct {
	Friction    int
	Traction    int
	Damage      int
	SurfaceInfo string

	// AdjustY is how far below a platform's top the probe point was.
	AdjustY int
	// Platform is set when the hit can be stood on but not walked into.
	Platform bool

	CollideWith       ecs.Entity
	AreaID            string
	CollideWithAreaID string
}

func (c *CollisionInfo) readSurface(surf *grid.SurfaceInfo) {
	if c == nil || surf == nil {
		return
	}
	c.Friction = surf.Friction
	c.Traction = surf.Traction
	c.Damage = surf.Damage
	c.SurfaceInfo = surf.Info
}

// AllowPlatform selects whether point queries accept stand-only surfaces.
type AllowPlatform bool

const (
	SolidOnly         AllowPlatform = false
	SolidAndPlatforms AllowPlatform = true
)

const nonSolidAlphaStep = 2

// PointStandable reports whether an entity could stand on the world pixel
// (x, y): solid or stand-only level pixels, another entity's platform, or
// another entity's solid. Image collision entities are stood on where
// IsStandable says so.
func PointStandable(s *Sim, e ecs.Entity, x, y int, allow AllowPlatform) (bool, CollisionInfo) {
	a := s.actor(e)
	if a == nil {
		return false, CollisionInfo{}
	}
	return s.pointStandable(a, x, y, allow)
}

func (s *Sim) pointStandable(a *actor, x, y int, allow AllowPlatform) (bool, CollisionInfo) {
	var info CollisionInfo
	var hit bool
	var surf *grid.SurfaceInfo
	if allow == SolidAndPlatforms {
		hit, surf = s.Level.StandableAt(x, y)
	} else {
		hit, surf = s.Level.SolidAt(x, y)
	}
	if hit {
		info.readSurface(surf)
		if solid, _ := s.Level.SolidAt(x, y); !solid {
			info.Platform = true
		}
		return true, info
	}

	for _, obj := range s.candidates(common.NewRect(x, y, 1, 1), a.e) {
		if allow == SolidAndPlatforms || obj.body.SolidPlatform {
			r := obj.platformRectAt(x)
			if obj.hasPlatform() && r.Contains(x, y) {
				info.CollideWith = obj.e
				info.Friction = obj.body.SurfaceFriction
				info.Traction = obj.body.SurfaceTraction
				info.AdjustY = y - r.Y
				info.Platform = !obj.body.SolidPlatform
				return true, info
			}
		}

		if !a.layer.SolidWith(obj.layer) {
			continue
		}
		if obj.kind.UsesImage() {
			if ok, res := obj.isStandable(x, y); ok {
				info.CollideWith = obj.e
				info.Friction = res.Friction
				info.Traction = res.Traction
				info.AdjustY = res.AdjustY
				return true, info
			}
			continue
		}
		if !obj.solidRect().Contains(x, y) {
			continue
		}
		fx := x - obj.x()
		if !obj.faceRight() {
			fx = obj.x() + obj.frameWidth() - x - 1
		}
		if ok, area := obj.solid().SolidAt(fx, y-obj.y()); ok {
			info.CollideWith = obj.e
			info.CollideWithAreaID = area
			info.Friction = obj.body.SurfaceFriction
			info.Traction = obj.body.SurfaceTraction
			return true, info
		}
	}
	return false, info
}

// EntityCollides reports whether e's solid, tested with the boundary set of
// dir, overlaps the level or another solid entity.
func EntityCollides(s *Sim, e ecs.Entity, dir common.Direction) (bool, CollisionInfo) {
	a := s.actor(e)
	if a == nil {
		return false, CollisionInfo{}
	}
	return s.entityCollides(a, dir)
}

func (s *Sim) entityCollides(a *actor, dir common.Direction) (bool, CollisionInfo) {
	var info CollisionInfo
	if !a.isSolid() {
		return false, info
	}
	if !a.body.IgnoreLevelCollisions {
		if hit, li := s.entityCollidesWithLevel(a, dir); hit {
			return true, li
		}
	}
	for _, obj := range s.candidates(a.solidRect(), a.e) {
		if hit, oi := s.entityCollidesWithEntity(a, obj); hit {
			oi.CollideWith = obj.e
			return true, oi
		}
	}
	return false, info
}

// EntityCollidesWithLevel tests only the level grid.
func EntityCollidesWithLevel(s *Sim, e ecs.Entity, dir common.Direction) (bool, CollisionInfo) {
	a := s.actor(e)
	if a == nil {
		return false, CollisionInfo{}
	}
	return s.entityCollidesWithLevel(a, dir)
}

func (s *Sim) entityCollidesWithLevel(a *actor, dir common.Direction) (bool, CollisionInfo) {
	var info CollisionInfo
	sol := a.solid()
	if sol == nil {
		return false, info
	}
	dir = dir.Mirror(a.faceRight())
	if !s.Level.MayBeSolidInRect(a.solidRect()) {
		return false, info
	}
	origin := common.Point{X: a.x(), Y: a.y()}
	for _, m := range sol.Maps() {
		if hit, surf := s.Level.Solid.IsSolidPoints(origin, a.faceRight(), a.frameWidth(), m.Dir(dir)); hit {
			info.readSurface(surf)
			info.AreaID = m.ID()
			return true, info
		}
	}
	return false, info
}

// EntityCollidesWithEntity tests two solids pixel by pixel over the overlap
// of their solid rects. Entities whose dimensions do not meet never
// collide.
func EntityCollidesWithEntity(s *Sim, e, other ecs.Entity) (bool, CollisionInfo) {
	a, b := s.actor(e), s.actor(other)
	if a == nil || b == nil || e == other {
		return false, CollisionInfo{}
	}
	hit, info := s.entityCollidesWithEntity(a, b)
	if hit {
		info.CollideWith = other
	}
	return hit, info
}

func (s *Sim) entityCollidesWithEntity(a, b *actor) (bool, CollisionInfo) {
	var info CollisionInfo
	if !a.layer.SolidWith(b.layer) || !a.isSolid() || !b.isSolid() {
		return false, info
	}
	ra, rb := a.solidRect(), b.solidRect()
	if !ra.Intersects(rb) {
		return false, info
	}
	area := ra.Intersection(rb)
	for y := area.Y; y < area.Y2(); y++ {
		for x := area.X; x < area.X2(); x++ {
			ok, id := a.solidAtWorld(x, y)
			if !ok {
				continue
			}
			if ok2, id2 := b.solidAtWorld(x, y); ok2 {
				info.AreaID = id
				info.CollideWithAreaID = id2
				return true, info
			}
		}
	}
	return false, info
}

// solidAtWorld tests a world pixel against the solid shape, or against the
// alpha mask for image collision entities.
func (a *actor) solidAtWorld(x, y int) (bool, string) {
	fx := x - a.x()
	if !a.faceRight() {
		fx = a.x() + a.frameWidth() - 1 - x
	}
	fy := y - a.y()
	if a.usesImage() {
		// The mask mirrors itself, so it takes the unmirrored offset.
		return !a.frame().IsAlpha(x-a.x(), fy, a.faceRight()), "image"
	}
	return a.solid().SolidAt(fx, fy)
}

// IsFlightpathClear reports whether area holds no level tile and no other
// entity's solid.
func IsFlightpathClear(s *Sim, e ecs.Entity, area common.Rect) bool {
	if s.Level.MayBeSolidInRect(area) {
		return false
	}
	for _, obj := range s.candidates(area, e) {
		if obj.isSolid() && obj.solidRect().Intersects(area) {
			return false
		}
	}
	return true
}

// NonSolidCollidesWithLevel tests the opaque pixels of e's frame against
// the level, sampling every other pixel.
func NonSolidCollidesWithLevel(s *Sim, e ecs.Entity) bool {
	a := s.actor(e)
	if a == nil {
		return false
	}
	return s.nonSolidCollidesWithLevel(a)
}

func (s *Sim) nonSolidCollidesWithLevel(a *actor) bool {
	f := a.frame()
	if f == nil || !s.Level.MayBeSolidInRect(a.frameRect()) {
		return false
	}
	for y := 0; y < f.Height; y += nonSolidAlphaStep {
		for x := 0; x < f.Width; x += nonSolidAlphaStep {
			if f.IsAlpha(x, y, a.faceRight()) {
				continue
			}
			if hit, _ := s.Level.SolidAt(a.x()+x, a.y()+y); hit {
				return true
			}
		}
	}
	return false
}
