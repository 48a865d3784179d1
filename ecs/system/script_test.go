package system

import (
	"errors"
	"testing"

	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const walkerScript = `
on_process := func(engine, evt, state) {
	engine.set_underwater(true)
}

on_collide_feet := func(engine, evt, state) {
	engine.set_walk_stairs(1)
	engine.fall_through(evt.surface_damage + 5)
}
`

func TestScriptHandlers(t *testing.T) {
	f := newFixture(t)
	e := f.spawn(0, 0, boxFrame(t, 16, 16), component.PhysicsBody{}, component.MovementKinematic)
	require.NoError(t, ecs.Add(f.w, e, component.ScriptComponent, &component.Script{Path: "walker.tengo"}))

	ss := NewScriptSystem(f.sim)
	loads := 0
	ss.Load = func(path string) ([]byte, error) {
		loads++
		assert.Equal(t, "walker.tengo", path)
		return []byte(walkerScript), nil
	}
	var seen []string
	ss.OnEvent = func(evt ecs.Event) { seen = append(seen, evt.Type) }

	f.w.Events().Push(ecs.Event{Type: EventCollideFeet, Entity: e, Data: CollisionEvent{Damage: 2}})
	f.w.Events().Push(ecs.Event{Type: EventCollideHead, Entity: e})
	ss.Update(f.w)

	state, ok := ecs.Get(f.w, e, component.MovementStateComponent)
	require.True(t, ok)
	assert.True(t, state.Underwater)
	assert.Equal(t, 1, state.WalkStairs)
	assert.Equal(t, 7, state.FallThrough)
	assert.Equal(t, []string{EventCollideFeet, EventCollideHead}, seen)
	assert.Equal(t, 0, f.w.Events().Len())

	ss.Update(f.w)
	assert.Equal(t, 1, loads, "compiled scripts are cached per entity")
}

func TestScriptLoadFailure(t *testing.T) {
	tests := []struct {
		name string
		load func(string) ([]byte, error)
	}{
		{name: "missing", load: func(string) ([]byte, error) { return nil, errors.New("no such script") }},
		{name: "bad syntax", load: func(string) ([]byte, error) { return []byte("on_process := func("), nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			e := f.spawn(0, 0, boxFrame(t, 16, 16), component.PhysicsBody{}, component.MovementKinematic)
			require.NoError(t, ecs.Add(f.w, e, component.ScriptComponent, &component.Script{Path: "broken.tengo"}))
			ss := NewScriptSystem(f.sim)
			ss.Load = tt.load

			assert.NotPanics(t, func() { ss.Update(f.w) })
			state, _ := ecs.Get(f.w, e, component.MovementStateComponent)
			assert.False(t, state != nil && state.Underwater)
		})
	}
}

func TestCompileScriptFindsHandlers(t *testing.T) {
	rt, err := compileScript("walker.tengo", []byte(walkerScript))
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"process": true, "collide_feet": true}, rt.handlers)
}

func TestScriptForgetRecompiles(t *testing.T) {
	f := newFixture(t)
	e := f.spawn(0, 0, boxFrame(t, 16, 16), component.PhysicsBody{}, component.MovementKinematic)
	require.NoError(t, ecs.Add(f.w, e, component.ScriptComponent, &component.Script{Path: "walker.tengo"}))

	ss := NewScriptSystem(f.sim)
	loads := 0
	ss.Load = func(string) ([]byte, error) {
		loads++
		return []byte(walkerScript), nil
	}
	ss.Update(f.w)
	ss.Forget("other.tengo")
	ss.Update(f.w)
	assert.Equal(t, 1, loads)

	ss.Forget("walker.tengo")
	ss.Update(f.w)
	assert.Equal(t, 2, loads)

	ss.Forget("")
	ss.Update(f.w)
	assert.Equal(t, 3, loads)
}
