package system

import (
	"fmt"

	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
)

// MovementSystem integrates forces and resolves every movable entity
// against the level and the entities already processed this tick.
type MovementSystem struct {
	sim *Sim
}

func NewMovementSystem(s *Sim) *MovementSystem {
	return &MovementSystem{sim: s}
}

func (ms *MovementSystem) Update(w *ecs.World) {
	if ms == nil || ms.sim == nil || w == nil {
		return
	}
	s := ms.sim
	s.Refresh()
	ecs.ForEach4(w, component.TransformComponent, component.AnimationComponent, component.PhysicsBodyComponent, component.MovementComponent,
		func(e ecs.Entity, _ *component.Transform, _ *component.Animation, _ *component.PhysicsBody, mv *component.Movement) {
			a := s.actor(e)
			if a == nil {
				return
			}
			switch mv.Kind {
			case component.MovementImage:
				return
			case component.MovementStatic:
				s.processStatic(a)
			default:
				s.processKinematic(a)
			}
			s.reindex(a)
		})
}

// resolution is the state of one entity's pass through the pipeline.
type resolution struct {
	s *Sim
	a *actor

	startedStanding bool
	stand           CollisionInfo
	firedFeet       bool

	standingOn ecs.Entity
	on         *actor

	evx, evy       int
	platformMotion int

	collideInfo      CollisionInfo
	jumpOnInfo       CollisionInfo
	verticalLanded   bool
	horizontalLanded bool
}

// processStatic keeps feet and support bookkeeping current so riders of
// static platforms see consistent motion.
func (s *Sim) processStatic(a *actor) {
	s.begin(a)
}

func (s *Sim) processKinematic(a *actor) {
	if hit, info := s.entityCollides(a, common.DirNone); hit {
		if s.Editor {
			s.Log.Warn("entity collides at tick start, frozen", "entity", s.describe(a.e))
			return
		}
		with := "the level"
		if info.CollideWith != 0 {
			with = s.describe(info.CollideWith)
		}
		s.fatal(fmt.Sprintf("entity %s collides with %s at start of tick\n%s", s.describe(a.e), with, DebugSolidityDump(s, a.e)))
		return
	}

	r := s.begin(a)
	r.integrate()
	r.applyFriction()
	r.effectiveVelocity()
	r.shortcut()
	r.moveVertical()
	r.resnap()
	r.moveHorizontal()
	r.resolveSupport()

	if a.state.FallThrough > 0 {
		a.state.FallThrough--
	}
}

// begin runs the steps shared by static and kinematic entities: parent
// positioning, feet bookkeeping and the standing check.
func (s *Sim) begin(a *actor) *resolution {
	s.positionFromParent(a)
	a.recordFooting()

	r := &resolution{s: s, a: a}
	r.standingOn = a.supportEntity(s)
	r.on = s.actor(r.standingOn)
	if r.on == nil {
		r.standingOn = 0
	}

	st, stand := s.isStanding(a)
	r.startedStanding = st != NotStanding
	r.stand = stand
	if !r.startedStanding && r.on != nil {
		r.stand.Traction = r.on.body.SurfaceTraction
		r.stand.Friction = r.on.body.SurfaceFriction
	} else if r.on == nil && r.startedStanding && stand.CollideWith != 0 && a.vel.Y >= 0 {
		s.Emit(EventCollideFeet, a.e, collisionEvent(stand))
		r.firedFeet = true
	}

	if !s.Bounds.Empty() && !s.Bounds.Contains(a.x(), a.y()) {
		s.Emit(EventOutsideLevel, a.e, CollisionEvent{})
	}

	a.state.PreviousY = a.y()
	if r.startedStanding && a.vel.Y > 0 {
		a.vel.Y = 0
	}
	if inv, ok := ecs.Get(s.World, a.e, component.InvulnerableComponent); ok && inv.Ticks > 0 {
		inv.Ticks--
	}
	if r.stand.Damage != 0 {
		s.Emit(EventCollideDamage, a.e, CollisionEvent{Damage: r.stand.Damage})
	}
	return r
}

// positionFromParent keeps a child at a fixed offset from its parent's
// pivot. The first tick only records the pivot.
func (s *Sim) positionFromParent(a *actor) {
	p, ok := ecs.Get(s.World, a.e, component.ParentComponent)
	if !ok {
		return
	}
	parent := ecs.Entity(p.Entity)
	pa := s.actor(parent)
	if parent == 0 || !ecs.IsAlive(s.World, parent) || pa == nil {
		ecs.Remove(s.World, a.e, component.ParentComponent)
		return
	}
	pos := pa.pivot(p.Pivot)
	if p.HasPrevPivot {
		a.setMid(pos.X+p.RelX*common.FacingSign(pa.faceRight()), pos.Y+p.RelY)
	}
	p.PrevPivot = pos
	p.HasPrevPivot = true
}

func (a *actor) recordFooting() {
	f := a.footing
	fx, fy := a.feetX(), a.feetY()
	if f.HasPrevFeet {
		f.LastMoveX = fx - f.PrevFeetX
		f.LastMoveY = fy - f.PrevFeetY
	}
	f.PrevFeetX, f.PrevFeetY = fx, fy
	f.HasPrevFeet = true
	f.PrevPlatformRect = a.platformRect()
}

func (r *resolution) integrate() {
	a := r.a
	var accel component.Acceleration
	if acc, ok := ecs.Get(r.s.World, a.e, component.AccelerationComponent); ok {
		accel = *acc
	}
	shift := 0
	if g, ok := ecs.Get(r.s.World, a.e, component.GravityScaleComponent); ok {
		shift = g.Shift
	}

	traction := a.body.TractionInAir
	switch {
	case r.stand.Traction != 0:
		traction = (r.stand.Traction * a.body.Traction) / 1000
	case a.state.Underwater:
		traction = a.body.TractionInWater
	}
	a.vel.X += (accel.X * traction * common.FacingSign(a.faceRight())) / 1000

	if (r.on == nil && !r.startedStanding) || accel.Y < 0 {
		scale := 1000
		if a.state.Underwater {
			scale = a.body.TractionInWater
		}
		a.vel.Y += accel.Y * (shift + scale) / 1000
	}
}

func (r *resolution) applyFriction() {
	a := r.a
	if a.body.Friction == 0 {
		return
	}
	air := r.s.Config.AirResistance
	if a.state.Underwater {
		air = r.s.Config.WaterResistance
	}
	friction := ((r.stand.Friction + air) * a.body.Friction) / 1000
	vertical := (air * a.body.Friction) / 1000
	if a.vel.Y > 0 && !a.state.Underwater {
		vertical /= 2
	}
	a.vel.X = (a.vel.X * (1000 - friction)) / 1000
	a.vel.Y = (a.vel.Y * (1000 - vertical)) / 1000
}

// effectiveVelocity adds the support's motion since last tick to our own.
func (r *resolution) effectiveVelocity() {
	a := r.a
	r.evx, r.evy = a.vel.X, a.vel.Y
	if r.evy > 0 && (r.on != nil || r.startedStanding) {
		r.evy = 0
	}
	if r.on != nil {
		r.platformMotion = r.on.platformMotionX(r.s) + r.on.mapPlatformPos(a.feetX())*common.CentiPerPixel
		r.evx += (r.on.feetX()-a.support.PrevFeetX)*common.CentiPerPixel + r.platformMotion
		r.evy += (r.on.feetY() - a.support.PrevFeetY) * common.CentiPerPixel
	}
	if r.stand.CollideWith != r.standingOn && r.stand.AdjustY != 0 {
		r.evy = r.stand.AdjustY * common.CentiPerPixel
	}
}

// shortcut moves entities that need no stepping in one go.
func (r *resolution) shortcut() {
	a := r.a
	if r.evx == 0 && r.evy == 0 {
		return
	}
	switch {
	case !a.isSolid() && !a.body.ObjectLevelCollisions:
		a.t.Move(r.evx, r.evy)
		r.evx, r.evy = 0, 0
	case !a.hasFeet() && a.isSolid():
		a.t.Move(r.evx, r.evy)
		if IsFlightpathClear(r.s, a.e, a.solidRect()) {
			r.evx, r.evy = 0, 0
		} else {
			a.t.Move(-r.evx, -r.evy)
		}
	}
}

func (r *resolution) collides(dir common.Direction) bool {
	hit, _ := r.s.entityCollides(r.a, dir)
	return hit
}

func (r *resolution) checkLevelContact() {
	if r.a.body.ObjectLevelCollisions && r.s.nonSolidCollidesWithLevel(r.a) {
		r.s.Emit(EventCollideLevel, r.a.e, CollisionEvent{})
	}
}

// moveVertical steps y one pixel at a time. Landing on a corner slides the
// entity a pixel sideways when that frees it.
func (r *resolution) moveVertical() {
	s, a := r.s, r.a
	collide, stuck := false, false
	dir := 1
	if r.evy < 0 {
		dir = -1
	}
	for left := common.Abs(r.evy); left > 0 && !collide && !a.body.IgnoreCollide; left -= common.CentiPerPixel {
		amount := min(left, common.CentiPerPixel)
		if !a.t.Move(0, amount*dir) {
			break
		}
		r.checkLevelContact()

		if r.evy > 0 {
			if hit, info := s.entityCollides(a, common.DirDown); hit {
				r.collideInfo = info
				a.t.Move(common.CentiPerPixel, 0)
				if r.collides(common.DirDown) || r.collides(common.DirRight) {
					a.t.Move(-2*common.CentiPerPixel, 0)
					if r.collides(common.DirDown) || r.collides(common.DirLeft) {
						a.t.Move(common.CentiPerPixel, 0)
						a.t.Move(0, -amount*dir)
						collide, stuck = true, true
						break
					}
				}
			}
		} else if hit, info := s.entityCollides(a, common.DirUp); hit {
			r.collideInfo = info
			collide = true
			a.t.Move(0, -amount*dir)
			break
		}

		if r.evy > 0 {
			if st, info := s.isStanding(a); st != NotStanding {
				r.jumpOnInfo = info
				if info.CollideWith == 0 || info.CollideWith != r.standingOn {
					collide = true
					r.collideInfo = info
				}
				break
			}
		}
	}

	if stuck {
		s.Emit(EventStuck, a.e, CollisionEvent{})
	}
	if !collide {
		return
	}
	if r.evy > 0 {
		r.verticalLanded = true
	}
	if !r.firedFeet && (r.evy < 0 || !r.startedStanding) {
		typ := EventCollideFeet
		if r.evy < 0 {
			typ = EventCollideHead
		}
		s.Emit(typ, a.e, collisionEvent(r.collideInfo))
		r.firedFeet = true
	}
	if r.collideInfo.Damage != 0 || r.jumpOnInfo.Damage != 0 {
		s.Emit(EventCollideDamage, a.e, CollisionEvent{Damage: max(r.collideInfo.Damage, r.jumpOnInfo.Damage)})
	}
}

// supportTarget returns the highest platform top under either foot, if a
// foot is over the support's platform.
func (r *resolution) supportTarget() (int, bool) {
	if r.on == nil {
		return 0, false
	}
	a := r.a
	area := r.on.platformRect()
	target, found := 0, false
	for _, foot := range []int{a.feetX() - a.body.FeetWidth, a.feetX() + a.body.FeetWidth} {
		if foot < area.X || foot >= area.X2() {
			continue
		}
		y := r.on.platformRectAt(foot).Y
		if !found || y < target {
			target, found = y, true
		}
	}
	return target, found
}

func (r *resolution) onSupportPlatform() bool {
	return r.on != nil && r.a.state.FallThrough == 0 && r.a.vel.Y >= 0
}

// stepToSupport moves y pixel by pixel until the feet reach target,
// stopping short of a collision when check is set.
func (r *resolution) stepToSupport(target int, check bool) {
	a := r.a
	delta := target - a.feetY()
	dir, dirName := 1, common.DirDown
	if delta <= 0 {
		dir, dirName = -1, common.DirUp
	}
	for n := 0; n != delta; n += dir {
		a.t.Move(0, dir*common.CentiPerPixel)
		if check && r.collides(dirName) {
			a.t.Move(0, -dir*common.CentiPerPixel)
			break
		}
	}
}

// resnap keeps an entity that started the tick on a platform on top of it.
func (r *resolution) resnap() {
	if !r.onSupportPlatform() {
		return
	}
	if target, ok := r.supportTarget(); ok {
		r.stepToSupport(target, true)
	}
}

func (r *resolution) resolveSupport() {
	s, a := r.s, r.a
	var stand CollisionInfo
	if a.vel.Y >= 0 {
		_, stand = s.isStanding(a)
	}
	newOn := stand.CollideWith
	if newOn != 0 && newOn != r.standingOn {
		if v, ok := ecs.Get(s.World, newOn, component.VelocityComponent); ok && r.evy < v.Y {
			newOn = 0
		}
	}

	if r.on != nil && r.standingOn != newOn {
		a.vel.X += r.on.footing.LastMoveX*common.CentiPerPixel + r.platformMotion
		a.vel.Y += r.on.footing.LastMoveY * common.CentiPerPixel
	}

	var support *actor
	if newOn != 0 {
		support = s.actor(newOn)
	}
	if support != nil && newOn != r.standingOn {
		a.vel.X -= support.footing.LastMoveX*common.CentiPerPixel + support.platformMotionX(s)
		a.vel.Y = 0
		s.Emit(EventJumpedOn, newOn, CollisionEvent{CollideWith: a.e, JumpedOnBy: a.e})
	}

	if support == nil {
		a.support.On = 0
		return
	}
	a.support.On = uint64(newOn)
	a.support.PrevFeetX = support.feetX()
	a.support.PrevFeetY = support.feetY()
}
