// Package scene runs one level: it builds the grid, spawns the level's
// objects from the prefab library and ticks the physics systems.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/config"
	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
	"github.com/milk9111/tilephys/ecs/system"
	"github.com/milk9111/tilephys/grid"
	"github.com/milk9111/tilephys/levels"
	"github.com/milk9111/tilephys/prefabs"
)

var ErrUnknownType = errors.New("scene: unknown object type")

type Scene struct {
	Name      string
	Sim       *system.Sim
	Rebuilder *grid.Rebuilder
	Scripts   *system.ScriptSystem
	Library   *prefabs.Library
	Ticks     int

	level *levels.Level
	sched *ecs.Scheduler
}

// LoadLevel reads a level by name. Names ending in .tmx are Tiled maps on
// disk; anything else is a JSON level.
func LoadLevel(name string) (*levels.Level, error) {
	if strings.EqualFold(filepath.Ext(name), ".tmx") {
		return levels.LoadTMX(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	}
	return levels.Load(name)
}

// Load builds the scene for a level and spawns its objects.
func Load(name string, lib *prefabs.Library, cfg config.Physics, log *slog.Logger) (*Scene, error) {
	if log == nil {
		log = slog.Default()
	}
	lvl, err := LoadLevel(name)
	if err != nil {
		return nil, err
	}
	g, layers, err := lvl.Build()
	if err != nil {
		return nil, err
	}

	sim := system.NewSim(ecs.NewWorld(), g, cfg, log)
	sim.Bounds = g.Bounds()
	s := &Scene{
		Name:      name,
		Sim:       sim,
		Rebuilder: grid.NewRebuilder(g, layers, log),
		Scripts:   system.NewScriptSystem(sim),
		Library:   lib,
		level:     lvl,
	}
	s.sched = ecs.NewScheduler(
		system.NewPlatformPathSystem(),
		system.NewMovementSystem(sim),
		system.NewInteractionSystem(sim),
		s.Scripts,
	)

	for _, sp := range lvl.Spawns {
		if _, err := s.Spawn(sp.Type, sp.X, sp.Y, sp.FaceLeft); err != nil {
			return nil, fmt.Errorf("scene: %s: spawn %s at %d,%d: %w", name, sp.Type, sp.X, sp.Y, err)
		}
	}
	log.Info("scene loaded", "level", name, "entities", len(ecs.Entities(sim.World)), "tiles", len(g.Tiles()))
	return s, nil
}

// Spawn creates an object and places it clear of the level. An object that
// cannot be placed stays where it was put.
func (s *Scene) Spawn(typ string, x, y int, faceLeft bool) (ecs.Entity, error) {
	t, ok := s.Library.Get(typ)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	e, err := t.Spawn(s.Sim.World, s.Sim.Dimensions, x, y, faceLeft, 0)
	if err != nil {
		return 0, err
	}
	if !system.PlaceInLevel(s.Sim, e) {
		s.Sim.Log.Warn("spawned object overlaps the level", "type", typ, "x", x, "y", y)
	}
	return e, nil
}

// Tick swaps in a finished grid rebuild and runs one simulation step. The
// level bounds follow the rebuilt grid.
func (s *Scene) Tick() {
	if s.Rebuilder.Complete() {
		if lvl := s.Rebuilder.Level(); lvl != s.Sim.Level {
			s.Sim.SetLevel(lvl)
			s.Sim.Bounds = lvl.Bounds()
		}
	}
	s.sched.Update(s.Sim.World)
	s.Ticks++
}

// HandleFileChange reloads whatever a changed file feeds: a prefab type, a
// script, or the current level's tiles.
func (s *Scene) HandleFileChange(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return s.ReloadPrefab(path)
	case ".tengo":
		s.Scripts.Forget(filepath.Base(path))
		s.Sim.Log.Info("script reloaded", "script", filepath.Base(path))
		return nil
	case ".json", ".tmx":
		if !strings.EqualFold(filepath.Base(path), filepath.Base(s.levelFile())) {
			return nil
		}
		return s.ReloadTiles()
	}
	return nil
}

func (s *Scene) levelFile() string {
	if filepath.Ext(s.Name) != "" {
		return s.Name
	}
	return s.Name + ".json"
}

// ReloadPrefab rebuilds a type and hands its frames and traits to every
// live instance. Positions and motion are kept.
func (s *Scene) ReloadPrefab(path string) error {
	t, err := s.Library.Reload(filepath.Base(path))
	if err != nil {
		return err
	}
	n := 0
	w := s.Sim.World
	ecs.ForEach2(w, component.AnimationComponent, component.PhysicsBodyComponent, func(e ecs.Entity, anim *component.Animation, body *component.PhysicsBody) {
		if anim.Type != t.Name {
			return
		}
		anim.Frames = t.Frames
		if _, ok := t.Frames[anim.Current]; !ok {
			anim.Current = t.DefaultFrame
		}
		*body = t.Body
		n++
	})
	s.Sim.Log.Info("prefab reloaded", "type", t.Name, "instances", n)
	return nil
}

// ReloadTiles re-reads the level file and rebuilds its tile layers in the
// background. Solid rects and spawns keep their loaded values.
func (s *Scene) ReloadTiles() error {
	lvl, err := LoadLevel(s.Name)
	if err != nil {
		return err
	}
	layers, err := lvl.GridLayers()
	if err != nil {
		return err
	}
	for _, l := range layers {
		s.Rebuilder.SetLayer(l)
	}
	s.level = lvl
	s.Rebuilder.Start(nil)
	return nil
}

// EntityAt returns an entity whose frame covers the pixel, preferring the
// last one visited.
func (s *Scene) EntityAt(x, y int) (ecs.Entity, bool) {
	var found ecs.Entity
	ecs.ForEach2(s.Sim.World, component.TransformComponent, component.AnimationComponent, func(e ecs.Entity, t *component.Transform, anim *component.Animation) {
		f := anim.Frame()
		if f == nil {
			return
		}
		if common.NewRect(t.PixelX(), t.PixelY(), f.Width, f.Height).Contains(x, y) {
			found = e
		}
	})
	return found, found.Valid()
}

// Entities returns the live entities.
func (s *Scene) Entities() []ecs.Entity {
	return ecs.Entities(s.Sim.World)
}

// Level returns the level description the scene was last built from.
func (s *Scene) Level() *levels.Level { return s.level }
