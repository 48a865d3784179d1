package scene

import (
	"testing"

	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/config"
	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
	"github.com/milk9111/tilephys/grid"
	"github.com/milk9111/tilephys/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadPlayground(t *testing.T) *Scene {
	t.Helper()
	lib, err := prefabs.LoadLibrary(nil)
	require.NoError(t, err)
	s, err := Load("playground", lib, config.Default(), nil)
	require.NoError(t, err)
	s.Sim.Fatal = func(msg string) { t.Errorf("fatal: %s", msg) }
	return s
}

func entityOfType(t *testing.T, s *Scene, typ string) ecs.Entity {
	t.Helper()
	for _, e := range s.Entities() {
		if anim, ok := ecs.Get(s.Sim.World, e, component.AnimationComponent); ok && anim.Type == typ {
			return e
		}
	}
	t.Fatalf("no %s in scene", typ)
	return 0
}

func TestLoadSpawnsLevelObjects(t *testing.T) {
	s := loadPlayground(t)
	assert.Len(t, s.Entities(), len(s.Level().Spawns))
	assert.False(t, s.Sim.Bounds.Empty())

	rock := entityOfType(t, s, "rock")
	tf, _ := ecs.Get(s.Sim.World, rock, component.TransformComponent)
	assert.True(t, tf.FaceLeft)
	_, ok := ecs.Get(s.Sim.World, rock, component.CollisionLayerComponent)
	assert.True(t, ok, "rock names solid dimensions")
}

func TestCrateSettlesOnFloor(t *testing.T) {
	s := loadPlayground(t)
	crate := entityOfType(t, s, "crate")
	for i := 0; i < 200; i++ {
		s.Tick()
	}
	tf, _ := ecs.Get(s.Sim.World, crate, component.TransformComponent)
	assert.Equal(t, 208, tf.PixelY(), "16 pixel crate on the floor at y=224")
	assert.Equal(t, 200, s.Ticks)

	got, ok := s.EntityAt(tf.PixelX()+8, tf.PixelY()+8)
	require.True(t, ok)
	assert.Equal(t, crate, got)
}

func TestSpawnUnknownType(t *testing.T) {
	s := loadPlayground(t)
	_, err := s.Spawn("dragon", 0, 0, false)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestFileChanges(t *testing.T) {
	s := loadPlayground(t)
	walker := entityOfType(t, s, "walker")
	body, _ := ecs.Get(s.Sim.World, walker, component.PhysicsBodyComponent)
	body.Friction = 1

	require.NoError(t, s.HandleFileChange("prefabs/walker.yaml"))
	body, _ = ecs.Get(s.Sim.World, walker, component.PhysicsBodyComponent)
	assert.Equal(t, 300, body.Friction, "traits come back from the prefab")

	assert.NoError(t, s.HandleFileChange("prefabs/scripts/walker.tengo"))
	assert.NoError(t, s.HandleFileChange("levels/other.json"), "other levels are ignored")
	assert.NoError(t, s.HandleFileChange("notes.txt"))

	require.NoError(t, s.HandleFileChange("levels/playground.json"))
	s.Rebuilder.Wait()
	s.Tick()
	assert.False(t, s.Rebuilder.InProgress())
	solid, _ := s.Sim.Level.SolidAt(0, 10)
	assert.True(t, solid)
}

func TestLoadMissingLevel(t *testing.T) {
	lib, err := prefabs.LoadLibrary(nil)
	require.NoError(t, err)
	_, err = Load("nowhere", lib, config.Default(), nil)
	assert.Error(t, err)
}

func TestRebuildRefreshesBounds(t *testing.T) {
	s := loadPlayground(t)
	before := s.Sim.Bounds
	s.Sim.Level.SetSolidArea(common.NewRect(-200, -200, 2, 2), true)

	var ground []grid.TilePlacement
	for _, tile := range s.Sim.Level.Tiles() {
		if tile.ZOrder == 0 {
			ground = append(ground, tile)
		}
	}
	require.NotEmpty(t, ground)
	far := ground[0]
	far.X = before.X2() + 320
	s.Rebuilder.SetLayer(grid.Layer{ZOrder: 0, Tiles: append(ground, far)})
	s.Rebuilder.Start([]int{0})
	s.Rebuilder.Wait()
	s.Tick()

	assert.Greater(t, s.Sim.Bounds.X2(), before.X2())
	assert.Equal(t, s.Sim.Level.Bounds(), s.Sim.Bounds)
	solid, _ := s.Sim.Level.SolidAt(-199, -199)
	assert.True(t, solid, "runtime edit kept across the rebuild")
}
