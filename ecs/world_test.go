package ecs

import (
	"testing"

	"github.com/milk9111/tilephys/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityLifecycle(t *testing.T) {
	tests := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
		alive        int
	}{
		{name: "single", create: 1, destroyIndex: 0, alive: 0},
		{name: "destroy middle", create: 3, destroyIndex: 1, alive: 2},
		{name: "no destroy", create: 2, destroyIndex: -1, alive: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, tt.create)
			for i := range ents {
				ents[i] = CreateEntity(w)
				assert.True(t, ents[i].Valid())
			}
			if tt.destroyIndex >= 0 {
				assert.True(t, DestroyEntity(w, ents[tt.destroyIndex]))
				assert.False(t, IsAlive(w, ents[tt.destroyIndex]))
			}
			assert.Len(t, Entities(w), tt.alive)
		})
	}
}

func TestComponentsOnMovingEntity(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	require.NoError(t, Add(w, e, component.TransformComponent, &component.Transform{X: 1250, Y: -50}))
	require.NoError(t, Add(w, e, component.VelocityComponent, &component.Velocity{X: 30}))

	tr, ok := Get(w, e, component.TransformComponent)
	require.True(t, ok)
	assert.Equal(t, 12, tr.PixelX())
	assert.Equal(t, -1, tr.PixelY())

	// Get hands out the stored value, not a copy.
	v, _ := Get(w, e, component.VelocityComponent)
	v.X = 99
	v2, _ := Get(w, e, component.VelocityComponent)
	assert.Equal(t, 99, v2.X)

	// Adding again replaces the value.
	require.NoError(t, Add(w, e, component.VelocityComponent, &component.Velocity{Y: 5}))
	v3, _ := Get(w, e, component.VelocityComponent)
	assert.Equal(t, component.Velocity{Y: 5}, *v3)

	assert.True(t, Remove(w, e, component.VelocityComponent))
	assert.False(t, Remove(w, e, component.VelocityComponent))
	assert.False(t, Has(w, e, component.VelocityComponent))
	assert.True(t, Has(w, e, component.TransformComponent))
}

func TestForEachIntersections(t *testing.T) {
	w := NewWorld()
	add := func(tr, vel, acc, body bool) Entity {
		e := CreateEntity(w)
		if tr {
			require.NoError(t, Add(w, e, component.TransformComponent, &component.Transform{}))
		}
		if vel {
			require.NoError(t, Add(w, e, component.VelocityComponent, &component.Velocity{}))
		}
		if acc {
			require.NoError(t, Add(w, e, component.AccelerationComponent, &component.Acceleration{}))
		}
		if body {
			require.NoError(t, Add(w, e, component.PhysicsBodyComponent, &component.PhysicsBody{}))
		}
		return e
	}
	static := add(true, false, false, true)
	falling := add(true, true, true, false)
	full := add(true, true, true, true)
	loose := add(false, true, false, true)
	gone := add(true, true, true, true)
	require.True(t, DestroyEntity(w, gone))

	collect1 := func() []Entity {
		var out []Entity
		ForEach(w, component.TransformComponent, func(e Entity, _ *component.Transform) { out = append(out, e) })
		return out
	}
	collect2 := func() []Entity {
		var out []Entity
		ForEach2(w, component.TransformComponent, component.VelocityComponent, func(e Entity, _ *component.Transform, _ *component.Velocity) {
			out = append(out, e)
		})
		return out
	}
	collect3 := func() []Entity {
		var out []Entity
		ForEach3(w, component.TransformComponent, component.VelocityComponent, component.AccelerationComponent,
			func(e Entity, _ *component.Transform, _ *component.Velocity, _ *component.Acceleration) { out = append(out, e) })
		return out
	}
	collect4 := func() []Entity {
		var out []Entity
		ForEach4(w, component.TransformComponent, component.VelocityComponent, component.AccelerationComponent, component.PhysicsBodyComponent,
			func(e Entity, _ *component.Transform, _ *component.Velocity, _ *component.Acceleration, _ *component.PhysicsBody) {
				out = append(out, e)
			})
		return out
	}

	tests := []struct {
		name    string
		collect func() []Entity
		want    []Entity
	}{
		{name: "transform", collect: collect1, want: []Entity{static, falling, full}},
		{name: "transform velocity", collect: collect2, want: []Entity{falling, full}},
		{name: "with acceleration", collect: collect3, want: []Entity{falling, full}},
		{name: "with body", collect: collect4, want: []Entity{full}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.collect())
		})
	}
	// loose has no transform but its body still counts.
	assert.Equal(t, 3, Count(w, component.PhysicsBodyComponent))
	assert.True(t, Has(w, loose, component.PhysicsBodyComponent))
}

func TestForEachMissingStore(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	require.NoError(t, Add(w, e, component.TransformComponent, &component.Transform{}))
	kind := component.NewComponentKind[component.Velocity]()

	called := false
	ForEach2(w, component.TransformComponent, kind, func(Entity, *component.Transform, *component.Velocity) { called = true })
	assert.False(t, called)
	assert.Zero(t, Count(w, kind))
}

func TestStaleHandles(t *testing.T) {
	w := NewWorld()
	old := CreateEntity(w)
	require.NoError(t, Add(w, old, component.VelocityComponent, &component.Velocity{X: 1}))
	require.True(t, DestroyEntity(w, old))
	assert.False(t, DestroyEntity(w, old), "second destroy")

	reused := CreateEntity(w)
	assert.Equal(t, old.ID(), reused.ID(), "slot reuse")
	assert.NotEqual(t, old, reused)
	assert.False(t, IsAlive(w, old))
	assert.False(t, Has(w, reused, component.VelocityComponent), "components leaked into reused slot")

	assert.ErrorIs(t, Add(w, old, component.VelocityComponent, &component.Velocity{}), ErrEntityNotAlive)
	_, ok := Get(w, old, component.VelocityComponent)
	assert.False(t, ok)
	assert.ErrorIs(t, Add(w, reused, component.VelocityComponent, nil), ErrNilComponent)
	assert.False(t, Entity(0).Valid())
}

func TestForEachAscendingOrder(t *testing.T) {
	w := NewWorld()
	ents := make([]Entity, 5)
	for i := range ents {
		ents[i] = CreateEntity(w)
	}
	for _, i := range []int{4, 1, 3, 0, 2} {
		require.NoError(t, Add(w, ents[i], component.VelocityComponent, &component.Velocity{X: i}))
	}
	Remove(w, ents[3], component.VelocityComponent)

	var got []int
	ForEach(w, component.VelocityComponent, func(_ Entity, v *component.Velocity) { got = append(got, v.X) })
	assert.Equal(t, []int{0, 1, 2, 4}, got)
	assert.Equal(t, 4, Count(w, component.VelocityComponent))
}

func TestEventQueueDrain(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	w.Events().Push(Event{Type: "collide_feet", Entity: e})
	w.Events().Push(Event{Type: "stuck", Entity: e})
	assert.Equal(t, 2, w.Events().Len())

	evts := w.Events().Drain()
	require.Len(t, evts, 2)
	assert.Equal(t, "collide_feet", evts[0].Type)
	assert.Equal(t, "stuck", evts[1].Type)
	assert.Nil(t, w.Events().Drain())

	var nilQueue *EventQueue
	nilQueue.Push(Event{Type: "x"})
	assert.Zero(t, nilQueue.Len())
}

func TestSchedulerOrder(t *testing.T) {
	var order []string
	s := NewScheduler(SystemFunc(func(*World) { order = append(order, "a") }))
	s.Add(SystemFunc(func(*World) { order = append(order, "b") }))
	s.Add(nil)
	s.Update(NewWorld())
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Len(t, s.Systems(), 2)
}
