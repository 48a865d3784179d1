package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
)

// MaxDimensions is the number of distinct dimension names a simulation
// can hold.
const MaxDimensions = 32

var ErrTooManyDimensions = errors.New("dimensions: more than 32 names")

// DimensionRegistry assigns bit ids to dimension names in first-seen
// order. The first registered name gets bit 0, which is also the default
// layer, so registering a default dimension first keeps layers compatible.
type DimensionRegistry struct {
	ids   map[string]int
	names []string
}

func NewDimensionRegistry() *DimensionRegistry {
	return &DimensionRegistry{ids: make(map[string]int)}
}

// ID returns the bit id for name, assigning the next free one.
func (r *DimensionRegistry) ID(name string) (int, error) {
	if id, ok := r.ids[name]; ok {
		return id, nil
	}
	if len(r.names) >= MaxDimensions {
		return 0, fmt.Errorf("%w: %q", ErrTooManyDimensions, name)
	}
	id := len(r.names)
	r.ids[name] = id
	r.names = append(r.names, name)
	return id, nil
}

// Name returns the name registered for id.
func (r *DimensionRegistry) Name(id int) (string, bool) {
	if id < 0 || id >= len(r.names) {
		return "", false
	}
	return r.names[id], true
}

func (r *DimensionRegistry) Len() int { return len(r.names) }

// Masks turns dimension names into strong and weak bitmasks. A name
// prefixed with ~ sets only the weak bit. The weak mask always includes
// the strong one.
func (r *DimensionRegistry) Masks(names []string) (strong, weak uint32, err error) {
	strong, weak, err = r.rawMasks(names)
	return strong, weak | strong, err
}

func (r *DimensionRegistry) rawMasks(names []string) (strong, weak uint32, err error) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		isWeak := strings.HasPrefix(name, "~")
		id, err := r.ID(strings.TrimPrefix(name, "~"))
		if err != nil {
			return 0, 0, err
		}
		if isWeak {
			weak |= 1 << id
		} else {
			strong |= 1 << id
		}
	}
	return strong, weak, nil
}

// Describe lists the names in a mask pair, weak-only names prefixed ~.
func (r *DimensionRegistry) Describe(strong, weak uint32) []string {
	var out []string
	for id, name := range r.names {
		bit := uint32(1) << id
		switch {
		case strong&bit != 0:
			out = append(out, name)
		case weak&bit != 0:
			out = append(out, "~"+name)
		}
	}
	return out
}

func (s *Sim) layer(e ecs.Entity) (*component.CollisionLayer, error) {
	if l, ok := ecs.Get(s.World, e, component.CollisionLayerComponent); ok {
		return l, nil
	}
	l := new(component.CollisionLayer)
	*l = DefaultLayer
	if err := ecs.Add(s.World, e, component.CollisionLayerComponent, l); err != nil {
		return nil, fmt.Errorf("collision layer for %v: %w", e, err)
	}
	return l, nil
}

// SetSolidDimensions changes the solid dimensions of e. When the entity
// would then overlap something it is reverted and a
// change_solid_dimensions_fail event names what it hit.
func SetSolidDimensions(s *Sim, e ecs.Entity, names []string) (bool, error) {
	strong, weak, err := s.Dimensions.Masks(names)
	if err != nil {
		return false, err
	}
	return s.setSolidMasks(e, strong, weak), nil
}

// SetSolidDimensionsNotIn sets e solid in every dimension except names.
func SetSolidDimensionsNotIn(s *Sim, e ecs.Entity, names []string) (bool, error) {
	strong, weak, err := s.Dimensions.rawMasks(names)
	if err != nil {
		return false, err
	}
	strong, weak = ^strong, ^weak
	return s.setSolidMasks(e, strong, weak|strong), nil
}

func (s *Sim) setSolidMasks(e ecs.Entity, strong, weak uint32) bool {
	if !ecs.IsAlive(s.World, e) {
		return false
	}
	l, err := s.layer(e)
	if err != nil {
		s.Log.Warn("solid dimensions unchanged", "entity", s.describe(e), "err", err)
		return false
	}
	oldStrong, oldWeak := l.Solid, l.WeakSolid
	l.Solid, l.WeakSolid = strong, weak

	a := s.actor(e)
	if a == nil {
		return true
	}
	s.reindex(a)
	hit, info := s.entityCollides(a, common.DirNone)
	if !hit {
		return true
	}
	l.Solid, l.WeakSolid = oldStrong, oldWeak
	s.Log.Debug("solid dimension change reverted", "entity", s.describe(e), "collide_with", info.CollideWith)
	s.Emit(EventChangeDimensionsFail, e, collisionEvent(info))
	return false
}

// SetCollideDimensions changes the named-area interaction dimensions of e.
// Area interaction never blocks, so the change always applies.
func SetCollideDimensions(s *Sim, e ecs.Entity, names []string) error {
	strong, weak, err := s.Dimensions.Masks(names)
	if err != nil {
		return err
	}
	if !ecs.IsAlive(s.World, e) {
		return ecs.ErrEntityNotAlive
	}
	l, err := s.layer(e)
	if err != nil {
		return err
	}
	l.Collide, l.WeakCollide = strong, weak
	return nil
}
