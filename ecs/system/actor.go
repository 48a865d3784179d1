package system

import (
	"errors"

	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
	"github.com/milk9111/tilephys/solid"
)

// DefaultLayer is used for entities without a CollisionLayer: dimension 0
// for everything.
var DefaultLayer = component.CollisionLayer{Solid: 1, WeakSolid: 1, Collide: 1, WeakCollide: 1}

// actor is the physics view of one entity. Mutable bookkeeping is added to
// the entity on first use.
type actor struct {
	e    ecs.Entity
	t    *component.Transform
	anim *component.Animation

	body  component.PhysicsBody
	layer component.CollisionLayer
	kind  component.MovementKind

	footing *component.Footing
	state   *component.MovementState
	support *component.Support
	vel     *component.Velocity
}

// ensure returns e's component of the given kind, adding a zero value when
// it has none.
func ensure[T any](w *ecs.World, e ecs.Entity, kind component.ComponentKind[T]) (*T, error) {
	if v, ok := ecs.Get(w, e, kind); ok {
		return v, nil
	}
	v := new(T)
	if err := ecs.Add(w, e, kind, v); err != nil {
		return nil, err
	}
	return v, nil
}

// actor returns nil for entities without a transform.
func (s *Sim) actor(e ecs.Entity) *actor {
	w := s.World
	t, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		return nil
	}
	a := &actor{e: e, t: t, layer: DefaultLayer}
	a.anim, _ = ecs.Get(w, e, component.AnimationComponent)
	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent); ok {
		a.body = *body
	}
	if layer, ok := ecs.Get(w, e, component.CollisionLayerComponent); ok {
		a.layer = *layer
	}
	if mv, ok := ecs.Get(w, e, component.MovementComponent); ok {
		a.kind = mv.Kind
	}
	var errs [4]error
	a.footing, errs[0] = ensure(w, e, component.FootingComponent)
	a.state, errs[1] = ensure(w, e, component.MovementStateComponent)
	a.support, errs[2] = ensure(w, e, component.SupportComponent)
	a.vel, errs[3] = ensure(w, e, component.VelocityComponent)
	if err := errors.Join(errs[:]...); err != nil {
		s.Log.Warn("entity skipped by physics", "entity", e, "err", err)
		return nil
	}
	return a
}

func (a *actor) frame() *solid.Frame { return a.anim.Frame() }

func (a *actor) faceRight() bool { return a.t.FaceRight() }

func (a *actor) x() int { return a.t.PixelX() }

func (a *actor) y() int { return a.t.PixelY() }

func (a *actor) setPixel(x, y int) {
	a.t.SetPixelX(x)
	a.t.SetPixelY(y)
}

// nudge moves by whole pixels, keeping the centipixel remainder.
func (a *actor) nudge(dx, dy int) {
	a.t.Move(dx*common.CentiPerPixel, dy*common.CentiPerPixel)
}

func (a *actor) usesImage() bool {
	return a.kind.UsesImage() && a.frame().HasAlpha()
}

// solid returns the solid shape of the current frame. Image collision
// entities have none; their alpha mask stands in.
func (a *actor) solid() *solid.Info {
	f := a.frame()
	if f == nil || a.kind.UsesImage() {
		return nil
	}
	return f.Solid
}

func (a *actor) isSolid() bool {
	return a.solid() != nil || a.usesImage()
}

func (a *actor) frameWidth() int {
	if f := a.frame(); f != nil {
		return f.Width
	}
	return 0
}

func (a *actor) frameRect() common.Rect {
	f := a.frame()
	if f == nil {
		return common.NewRect(a.x(), a.y(), 0, 0)
	}
	return common.NewRect(a.x(), a.y(), f.Width, f.Height)
}

// solidRect is the world rectangle of the solid area, mirrored for facing.
func (a *actor) solidRect() common.Rect {
	if a.usesImage() {
		return a.frameRect()
	}
	info := a.solid()
	if info == nil {
		return common.Rect{}
	}
	area := info.Area()
	x := a.x() + area.X
	if !a.faceRight() {
		x = a.x() + a.frameWidth() - area.X - area.W
	}
	return common.NewRect(x, a.y()+area.Y, area.W, area.H)
}

func (a *actor) hasFeet() bool {
	return a.body.HasFeet && a.solid() != nil
}

func (a *actor) feetX() int {
	if info := a.solid(); info != nil {
		area := info.Area()
		diff := area.X + area.W/2
		if a.faceRight() {
			return a.x() + diff
		}
		return a.x() + a.frameWidth() - diff
	}
	f := a.frame()
	if f == nil {
		return a.x()
	}
	if a.faceRight() {
		return a.x() + f.FeetX
	}
	return a.x() + f.Width - f.FeetX
}

func (a *actor) feetY() int {
	if info := a.solid(); info != nil {
		area := info.Area()
		return a.y() + area.Y + area.H
	}
	if f := a.frame(); f != nil {
		return a.y() + f.FeetY
	}
	return a.y()
}

// midpoint is the centre of the solid rect, or of the frame without one.
func (a *actor) midpoint() common.Point {
	if a.solid() != nil {
		r := a.solidRect()
		return common.Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
	}
	r := a.frameRect()
	return common.Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// setMid places the frame so its centre is at (x, y).
func (a *actor) setMid(x, y int) {
	f := a.frame()
	w, h := 0, 0
	if f != nil {
		w, h = f.Width, f.Height
	}
	a.setPixel(x-w/2, y-h/2)
}

// pivot returns a named frame pivot in world space. The empty name is the
// midpoint.
func (a *actor) pivot(name string) common.Point {
	if name == "" {
		return a.midpoint()
	}
	p, ok := a.frame().Pivot(name)
	if !ok {
		return a.midpoint()
	}
	if a.faceRight() {
		return common.Point{X: a.x() + p.X, Y: a.y() + p.Y}
	}
	return common.Point{X: a.x() + a.frameWidth() - p.X, Y: a.y() + p.Y}
}

func (a *actor) platformMotionX(s *Sim) int {
	if p, ok := ecs.Get(s.World, a.e, component.PlatformComponent); ok {
		return p.MotionX
	}
	return 0
}

func (a *actor) supportEntity(s *Sim) ecs.Entity {
	on := ecs.Entity(a.support.On)
	if on == 0 {
		return 0
	}
	if !ecs.IsAlive(s.World, on) {
		a.support.On = 0
		return 0
	}
	return on
}
