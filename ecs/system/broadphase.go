package system

import (
	"cmp"
	"slices"

	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/ecs"
	"github.com/solarlune/resolv"
)

const (
	tagBody  = "body"
	tagProbe = "probe"

	// broadphaseMargin is the space kept around the level bounds, in
	// cells.
	broadphaseMargin = 16
)

// broadphase indexes the bounds of physical entities in a resolv space so
// queries only visit nearby candidates. resolv cells cannot hold negative
// coordinates, so the space is offset by origin; entities reaching outside
// the space are kept in a separate list and always returned.
type broadphase struct {
	cell   int
	origin common.Point
	space  *resolv.Space
	probe  *resolv.Object

	objects map[ecs.Entity]*resolv.Object
	outside map[ecs.Entity]struct{}
	bounds  common.Rect
}

func newBroadphase(levelBounds common.Rect, cell int) *broadphase {
	if cell <= 0 {
		cell = 64
	}
	b := &broadphase{
		cell:    cell,
		objects: make(map[ecs.Entity]*resolv.Object),
		outside: make(map[ecs.Entity]struct{}),
	}
	b.resize(levelBounds)
	return b
}

// resize rebuilds the space around new level bounds. Entities are re-added
// on the next sync.
func (b *broadphase) resize(levelBounds common.Rect) {
	margin := broadphaseMargin * b.cell
	if levelBounds.Empty() {
		levelBounds = common.NewRect(0, 0, b.cell, b.cell)
	}
	b.bounds = common.NewRect(levelBounds.X-margin, levelBounds.Y-margin, levelBounds.W+2*margin, levelBounds.H+2*margin)
	b.origin = common.Point{X: b.bounds.X, Y: b.bounds.Y}
	b.space = resolv.NewSpace(b.bounds.W, b.bounds.H, b.cell, b.cell)
	b.probe = resolv.NewObject(0, 0, 1, 1, tagProbe)
	b.space.Add(b.probe)
	clear(b.objects)
	clear(b.outside)
}

// update records the bounds of e. An empty rect removes it.
func (b *broadphase) update(e ecs.Entity, r common.Rect) {
	obj, ok := b.objects[e]
	if r.Empty() {
		if ok {
			b.space.Remove(obj)
			delete(b.objects, e)
		}
		delete(b.outside, e)
		return
	}
	if !ok {
		obj = resolv.NewObject(0, 0, 1, 1, tagBody)
		obj.Data = e
		b.space.Add(obj)
		b.objects[e] = obj
	}
	obj.X = float64(r.X - b.origin.X)
	obj.Y = float64(r.Y - b.origin.Y)
	obj.W = float64(r.W)
	obj.H = float64(r.H)
	obj.Update()

	inside := r.X >= b.bounds.X && r.Y >= b.bounds.Y && r.X2() <= b.bounds.X2() && r.Y2() <= b.bounds.Y2()
	if inside {
		delete(b.outside, e)
	} else {
		b.outside[e] = struct{}{}
	}
}

func (b *broadphase) remove(e ecs.Entity) {
	b.update(e, common.Rect{})
}

// query returns the entities whose recorded bounds may overlap r, in
// ascending entity order.
func (b *broadphase) query(r common.Rect) []ecs.Entity {
	if r.Empty() {
		return nil
	}
	var out []ecs.Entity
	for e := range b.outside {
		out = append(out, e)
	}
	b.probe.X = float64(r.X - b.origin.X)
	b.probe.Y = float64(r.Y - b.origin.Y)
	b.probe.W = float64(r.W)
	b.probe.H = float64(r.H)
	b.probe.Update()
	if c := b.probe.Check(0, 0, tagBody); c != nil {
		for _, obj := range c.Objects {
			if e, ok := obj.Data.(ecs.Entity); ok {
				out = append(out, e)
			}
		}
	}
	slices.SortFunc(out, func(a, b ecs.Entity) int { return cmp.Compare(a.ID(), b.ID()) })
	return slices.Compact(out)
}
