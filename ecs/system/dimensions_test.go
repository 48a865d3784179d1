package system

import (
	"fmt"
	"testing"

	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimensionMasks(t *testing.T) {
	r := NewDimensionRegistry()
	strong, weak, err := r.Masks([]string{"main", "~ghost", " "})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), strong)
	assert.Equal(t, uint32(3), weak)
	assert.Equal(t, []string{"main", "~ghost"}, r.Describe(strong, weak))

	id, err := r.ID("ghost")
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	name, ok := r.Name(1)
	assert.True(t, ok)
	assert.Equal(t, "ghost", name)
	_, ok = r.Name(5)
	assert.False(t, ok)
}

func TestDimensionRegistryFull(t *testing.T) {
	r := NewDimensionRegistry()
	for i := 0; i < MaxDimensions; i++ {
		_, err := r.ID(fmt.Sprintf("d%d", i))
		require.NoError(t, err)
	}
	_, err := r.ID("one too many")
	assert.ErrorIs(t, err, ErrTooManyDimensions)
	_, err = r.ID("d3")
	assert.NoError(t, err, "known names still resolve")
}

func TestSetSolidDimensions(t *testing.T) {
	tests := []struct {
		name      string
		dims      []string
		notIn     bool
		want      bool
		wantLayer component.CollisionLayer
	}{
		{name: "separate dimension", dims: []string{"other"}, want: true, wantLayer: component.CollisionLayer{Solid: 4, WeakSolid: 4, Collide: 1, WeakCollide: 1}},
		{name: "back into main is reverted", dims: []string{"main"}, wantLayer: component.CollisionLayer{Solid: 2, WeakSolid: 2, Collide: 1, WeakCollide: 1}},
		{name: "weakly in main is reverted", dims: []string{"~main"}, wantLayer: component.CollisionLayer{Solid: 2, WeakSolid: 2, Collide: 1, WeakCollide: 1}},
		{name: "everything but main", dims: []string{"main", "~main"}, notIn: true, want: true, wantLayer: component.CollisionLayer{Solid: ^uint32(1), WeakSolid: ^uint32(1), Collide: 1, WeakCollide: 1}},
		{name: "still weakly in main", dims: []string{"main"}, notIn: true, wantLayer: component.CollisionLayer{Solid: 2, WeakSolid: 2, Collide: 1, WeakCollide: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.sim.Dimensions.ID("main")
			require.NoError(t, err)
			a := f.spawn(0, 0, boxFrame(t, 16, 16), component.PhysicsBody{}, component.MovementStatic)
			b := f.spawn(4, 0, boxFrame(t, 16, 16), component.PhysicsBody{}, component.MovementStatic)
			f.sim.Refresh()

			ok, err := SetSolidDimensions(f.sim, b, []string{"ghost"})
			require.NoError(t, err)
			require.True(t, ok)
			f.drain()

			if tt.notIn {
				ok, err = SetSolidDimensionsNotIn(f.sim, b, tt.dims)
			} else {
				ok, err = SetSolidDimensions(f.sim, b, tt.dims)
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)

			layer, _ := ecs.Get(f.w, b, component.CollisionLayerComponent)
			assert.Equal(t, tt.wantLayer, *layer)

			fails := eventsFor(f.drain(), b, EventChangeDimensionsFail)
			if tt.want {
				assert.Empty(t, fails)
				return
			}
			require.Len(t, fails, 1)
			assert.Equal(t, a, fails[0].CollideWith)
		})
	}
}

func TestSetCollideDimensions(t *testing.T) {
	f := newFixture(t)
	e := f.spawn(0, 0, boxFrame(t, 16, 16), component.PhysicsBody{}, component.MovementStatic)
	require.NoError(t, SetCollideDimensions(f.sim, e, []string{"hurt", "~attack"}))

	layer, _ := ecs.Get(f.w, e, component.CollisionLayerComponent)
	assert.Equal(t, uint32(1), layer.Collide)
	assert.Equal(t, uint32(3), layer.WeakCollide)
	assert.Equal(t, DefaultLayer.Solid, layer.Solid)

	require.True(t, ecs.DestroyEntity(f.w, e))
	assert.ErrorIs(t, SetCollideDimensions(f.sim, e, []string{"hurt"}), ecs.ErrEntityNotAlive)
}
