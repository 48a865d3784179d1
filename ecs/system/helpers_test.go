package system

import (
	"testing"

	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/config"
	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
	"github.com/milk9111/tilephys/grid"
	"github.com/milk9111/tilephys/solid"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t     *testing.T
	w     *ecs.World
	sim   *Sim
	moves *MovementSystem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := ecs.NewWorld()
	s := NewSim(w, grid.NewLevel(), config.Default(), nil)
	return &fixture{t: t, w: w, sim: s, moves: NewMovementSystem(s)}
}

func (f *fixture) level() *grid.Level { return f.sim.Level }

// legsFrame is a 16x16 walker: a 9 pixel body over tapering legs, feet
// tested 2 pixels either side of x+8 at y+16.
func legsFrame(t *testing.T) *solid.Frame {
	t.Helper()
	info, err := solid.FromSpec(solid.RectSpec{Area: common.NewRect(0, 0, 8, 8), HasFeet: true, FeetWidth: 2})
	require.NoError(t, err)
	return &solid.Frame{Name: "walk", Width: 16, Height: 16, Solid: info}
}

// boxFrame is a plain w x h solid; w and h must be even.
func boxFrame(t *testing.T, w, h int) *solid.Frame {
	t.Helper()
	info, err := solid.FromSpec(solid.RectSpec{Area: common.NewRect(0, 0, w/2, h/2), Shape: solid.ShapeRect})
	require.NoError(t, err)
	return &solid.Frame{Name: "box", Width: w, Height: h, Solid: info}
}

// platformFrame is a 32 pixel wide stand-only platform with no solid.
func platformFrame(t *testing.T, offsets ...int) *solid.Frame {
	t.Helper()
	info, err := solid.PlatformFromArea(common.NewRect(0, 0, 16, 1))
	require.NoError(t, err)
	return &solid.Frame{Name: "platform", Width: 32, Height: 8, Platform: info, PlatformOffsets: offsets}
}

func walkerBody() component.PhysicsBody {
	return component.PhysicsBody{HasFeet: true, FeetWidth: 2, Traction: 1000, TractionInAir: 1000}
}

func (f *fixture) spawn(x, y int, frame *solid.Frame, body component.PhysicsBody, kind component.MovementKind) ecs.Entity {
	f.t.Helper()
	e := ecs.CreateEntity(f.w)
	require.NoError(f.t, ecs.Add(f.w, e, component.TransformComponent, &component.Transform{X: x * 100, Y: y * 100}))
	anim := &component.Animation{Type: frame.Name, Frames: map[string]*solid.Frame{frame.Name: frame}, Current: frame.Name}
	require.NoError(f.t, ecs.Add(f.w, e, component.AnimationComponent, anim))
	b := body
	require.NoError(f.t, ecs.Add(f.w, e, component.PhysicsBodyComponent, &b))
	require.NoError(f.t, ecs.Add(f.w, e, component.MovementComponent, &component.Movement{Kind: kind}))
	return e
}

func (f *fixture) setVelocity(e ecs.Entity, vx, vy int) {
	v, err := ensure(f.w, e, component.VelocityComponent)
	require.NoError(f.t, err)
	v.X, v.Y = vx, vy
}

func (f *fixture) setAccel(e ecs.Entity, ax, ay int) {
	acc, err := ensure(f.w, e, component.AccelerationComponent)
	require.NoError(f.t, err)
	acc.X, acc.Y = ax, ay
}

func (f *fixture) movementState(e ecs.Entity) *component.MovementState {
	f.t.Helper()
	st, err := ensure(f.w, e, component.MovementStateComponent)
	require.NoError(f.t, err)
	return st
}

func (f *fixture) tick(n int) {
	for i := 0; i < n; i++ {
		f.moves.Update(f.w)
	}
}

func (f *fixture) transform(e ecs.Entity) *component.Transform {
	f.t.Helper()
	tr, ok := ecs.Get(f.w, e, component.TransformComponent)
	require.True(f.t, ok)
	return tr
}

func (f *fixture) pos(e ecs.Entity) (int, int) {
	tr := f.transform(e)
	return tr.PixelX(), tr.PixelY()
}

func (f *fixture) drain() []ecs.Event {
	return f.w.Events().Drain()
}

func eventsFor(events []ecs.Event, e ecs.Entity, typ string) []CollisionEvent {
	var out []CollisionEvent
	for _, evt := range events {
		if evt.Entity != e || evt.Type != typ {
			continue
		}
		data, _ := evt.Data.(CollisionEvent)
		out = append(out, data)
	}
	return out
}
