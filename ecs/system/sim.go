package system

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/config"
	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
	"github.com/milk9111/tilephys/grid"
)

// Sim is the state shared by the physics systems of one simulation. It
// owns the world, the level grid and the broadphase; nothing is global, so
// any number of simulations can run side by side.
type Sim struct {
	World  *ecs.World
	Level  *grid.Level
	Config config.Physics
	Log    *slog.Logger

	Dimensions *DimensionRegistry

	// Bounds are the declared level boundaries. Empty means unbounded.
	Bounds common.Rect

	// Editor marks the editing context: entities colliding at tick start
	// are frozen instead of failing.
	Editor bool

	// Fatal is called for states the simulation cannot continue from. The
	// default logs and panics.
	Fatal func(msg string)

	broad *broadphase
}

func NewSim(w *ecs.World, level *grid.Level, cfg config.Physics, log *slog.Logger) *Sim {
	if w == nil {
		w = ecs.NewWorld()
	}
	if level == nil {
		level = grid.NewLevel()
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Sim{
		World:      w,
		Level:      level,
		Config:     cfg,
		Log:        log,
		Dimensions: NewDimensionRegistry(),
		Editor:     cfg.Editor,
	}
	s.broad = newBroadphase(level.Bounds(), cfg.BroadphaseCell)
	return s
}

// SetLevel swaps in a new level grid, such as a finished rebuild.
func (s *Sim) SetLevel(level *grid.Level) {
	if level == nil || level == s.Level {
		return
	}
	s.Level = level
	s.broad.resize(level.Bounds())
}

func (s *Sim) fatal(msg string) {
	if s.Fatal != nil {
		s.Fatal(msg)
		return
	}
	s.Log.Error(msg)
	panic(msg)
}

// Emit queues a physics event for e.
func (s *Sim) Emit(typ string, e ecs.Entity, data CollisionEvent) {
	s.Log.Debug("physics event", "event", typ, "entity", e)
	s.World.Events().Push(ecs.Event{Type: typ, Entity: e, Data: data})
}

func (s *Sim) maxPlacementSteps() int {
	if s.Config.MaxPlacementSteps > 0 {
		return s.Config.MaxPlacementSteps
	}
	return config.Default().MaxPlacementSteps
}

func (s *Sim) describe(e ecs.Entity) string {
	a := s.actor(e)
	if a == nil {
		return e.String()
	}
	if a.anim != nil && a.anim.Type != "" {
		return fmt.Sprintf("%s %s at (%d,%d)", a.anim.Type, e, a.x(), a.y())
	}
	return fmt.Sprintf("%s at (%d,%d)", e, a.x(), a.y())
}

// bounds is what the broadphase indexes for an entity: everything another
// entity can touch.
func (a *actor) bounds() common.Rect {
	r := a.solidRect()
	if p := a.platformRect(); !p.Empty() {
		if f := a.frame(); f != nil && len(f.PlatformOffsets) > 0 {
			p.H += max(0, slices.Max(f.PlatformOffsets))
		}
		r = r.Union(p)
	}
	if a.kind.UsesImage() {
		r = r.Union(a.frameRect())
	}
	return r
}

// Refresh re-indexes every entity in the broadphase. Systems call it at the
// start of their update; callers moving entities by hand between updates
// call it before querying.
func (s *Sim) Refresh() {
	seen := make(map[ecs.Entity]bool)
	ecs.ForEach(s.World, component.TransformComponent, func(e ecs.Entity, _ *component.Transform) {
		if a := s.actor(e); a != nil {
			s.broad.update(e, a.bounds())
			seen[e] = true
		}
	})
	for e := range s.broad.objects {
		if !seen[e] {
			s.broad.remove(e)
		}
	}
}

func (s *Sim) reindex(a *actor) {
	s.broad.update(a.e, a.bounds())
}

// candidates returns the entities other than self whose bounds may overlap
// r, in ascending id order.
func (s *Sim) candidates(r common.Rect, self ecs.Entity) []*actor {
	var out []*actor
	for _, e := range s.broad.query(r) {
		if e == self || !ecs.IsAlive(s.World, e) {
			continue
		}
		if a := s.actor(e); a != nil {
			out = append(out, a)
		}
	}
	return out
}
