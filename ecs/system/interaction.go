package system

import (
	"cmp"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
	"github.com/milk9111/tilephys/solid"
)

const (
	maxAreaHits      = 16
	areaSampleStride = 2
)

// InteractionSystem raises collide_object events for overlapping named
// areas, such as an attack area meeting a hurt area. It never moves
// anything.
type InteractionSystem struct {
	sim *Sim
}

func NewInteractionSystem(s *Sim) *InteractionSystem {
	return &InteractionSystem{sim: s}
}

// AreaHit is one overlapping pair of named areas.
type AreaHit struct {
	Area, OtherArea string
}

type areaKey struct {
	e    ecs.Entity
	area string
}

type areaContact struct {
	with ecs.Entity
	area string
}

func (is *InteractionSystem) Update(w *ecs.World) {
	if is == nil || is.sim == nil || w == nil {
		return
	}
	s := is.sim

	var actors []*actor
	ecs.ForEach2(w, component.TransformComponent, component.AnimationComponent, func(e ecs.Entity, _ *component.Transform, anim *component.Animation) {
		f := anim.Frame()
		if f == nil || len(f.Areas) == 0 {
			return
		}
		if a := s.actor(e); a != nil && a.layer.WeakCollide != 0 {
			actors = append(actors, a)
		}
	})

	contacts := make(map[areaKey][]areaContact)
	for i, a := range actors {
		for _, b := range actors[i+1:] {
			if !a.layer.CollidesWith(b.layer) {
				continue
			}
			hits := areaCollisions(a, b)
			for _, h := range hits {
				ka := areaKey{a.e, h.Area}
				kb := areaKey{b.e, h.OtherArea}
				contacts[ka] = append(contacts[ka], areaContact{with: b.e, area: h.OtherArea})
				contacts[kb] = append(contacts[kb], areaContact{with: a.e, area: h.Area})
			}
		}
	}

	keys := make([]areaKey, 0, len(contacts))
	for k := range contacts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(x, y areaKey) int {
		if c := cmp.Compare(x.e.ID(), y.e.ID()); c != 0 {
			return c
		}
		return cmp.Compare(x.area, y.area)
	})
	for _, k := range keys {
		for i, c := range contacts[k] {
			evt := CollisionEvent{CollideWith: c.with, Area: k.area, CollideWithArea: c.area, Index: i}
			s.Emit(EventCollideObject, k.e, evt)
			s.Emit(CollideObjectEvent(k.area), k.e, evt)
		}
	}
}

// areaCollisions tests every named area of a against every one of b,
// sampling opaque pixels every other pixel unless an area skips the alpha
// check. At most 16 hits are reported.
func areaCollisions(a, b *actor) []AreaHit {
	fa, fb := a.frame(), b.frame()
	if fa == nil || fb == nil || len(fa.Areas) == 0 || len(fb.Areas) == 0 {
		return nil
	}
	if fa.AreasInsideFrame() && fb.AreasInsideFrame() && !toBB(a.frameRect()).Intersects(toBB(b.frameRect())) {
		return nil
	}

	var hits []AreaHit
	for _, areaA := range fa.Areas {
		ra := a.areaRect(areaA)
		for _, areaB := range fb.Areas {
			rb := b.areaRect(areaB)
			if ra.Empty() || rb.Empty() || !toBB(ra).Intersects(toBB(rb)) {
				continue
			}
			if !areasTouch(a, b, areaA, areaB, ra.Intersection(rb)) {
				continue
			}
			hits = append(hits, AreaHit{Area: areaA.Name, OtherArea: areaB.Name})
			if len(hits) == maxAreaHits {
				return hits
			}
		}
	}
	return hits
}

func areasTouch(a, b *actor, areaA, areaB solid.CollisionArea, r common.Rect) bool {
	for y := r.Y; y <= r.Y2(); y += areaSampleStride {
		for x := r.X; x <= r.X2(); x += areaSampleStride {
			if !areaA.NoAlphaCheck && a.frame().IsAlpha(x-a.x(), y-a.y(), a.faceRight()) {
				continue
			}
			if !areaB.NoAlphaCheck && b.frame().IsAlpha(x-b.x(), y-b.y(), b.faceRight()) {
				continue
			}
			return true
		}
	}
	return false
}

// areaRect is a named area in world space, mirrored for facing.
func (a *actor) areaRect(area solid.CollisionArea) common.Rect {
	x := a.x() + area.Rect.X
	if !a.faceRight() {
		x = a.x() + a.frameWidth() - area.Rect.X - area.Rect.W
	}
	return common.NewRect(x, a.y()+area.Rect.Y, area.Rect.W, area.Rect.H)
}

// toBB converts a pixel rect to a chipmunk box over its inclusive pixel
// extents.
func toBB(r common.Rect) cp.BB {
	return cp.BB{L: float64(r.X), B: float64(r.Y), R: float64(r.X2() - 1), T: float64(r.Y2() - 1)}
}

// EntityAreaCollisions is areaCollisions for two entity handles.
func EntityAreaCollisions(s *Sim, e, other ecs.Entity) []AreaHit {
	a, b := s.actor(e), s.actor(other)
	if a == nil || b == nil || e == other {
		return nil
	}
	return areaCollisions(a, b)
}
