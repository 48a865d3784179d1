package prefabs

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
	"github.com/milk9111/tilephys/solid"
)

var (
	ErrNoFrames     = errors.New("prefabs: type has no frames")
	ErrUnknownFrame = errors.New("prefabs: unknown frame")
)

// ImageLoader returns the decoded image for a prefab image path.
type ImageLoader func(name string) (image.Image, error)

// Masks resolves dimension names to strong and weak bitmasks.
type Masks interface {
	Masks(names []string) (strong, weak uint32, err error)
}

// Type is a built object type. Frames are shared by every instance.
type Type struct {
	Name         string
	Frames       map[string]*solid.Frame
	DefaultFrame string
	Body         component.PhysicsBody
	Kind         component.MovementKind

	SolidDimensions   []string
	CollideDimensions []string
	Script            string

	acceleration  *component.Acceleration
	velocity      *component.Velocity
	gravity       *component.GravityScale
	platform      *component.Platform
	path          *PlatformPathComponentSpec
	movementState *component.MovementState
	parent        *ParentComponentSpec
}

// BuildType turns a spec into a type. images may be nil when no frame
// references an image.
func BuildType(spec ObjectSpec, images ImageLoader) (*Type, error) {
	if len(spec.Frames) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFrames, spec.Name)
	}
	tr := spec.Traits
	t := &Type{
		Name:   spec.Name,
		Frames: make(map[string]*solid.Frame, len(spec.Frames)),
		Body: component.PhysicsBody{
			Friction:              tr.Friction,
			Traction:              tr.Traction,
			TractionInAir:         tr.TractionInAir,
			TractionInWater:       tr.TractionInWater,
			SurfaceFriction:       tr.SurfaceFriction,
			SurfaceTraction:       tr.SurfaceTraction,
			SurfaceDamage:         tr.SurfaceDamage,
			FeetWidth:             tr.FeetWidth,
			HasFeet:               tr.HasFeet,
			SolidPlatform:         tr.SolidPlatform,
			Passthrough:           tr.Passthrough,
			IgnoreCollide:         tr.IgnoreCollide,
			ObjectLevelCollisions: tr.ObjectLevelCollisions,
			IgnoreLevelCollisions: tr.IgnoreLevelCollisions,
			EditorForceStanding:   tr.EditorForceStanding,
		},
		SolidDimensions:   tr.SolidDimensions,
		CollideDimensions: tr.CollideDimensions,
		Script:            tr.Script,
	}
	switch {
	case tr.Static:
		t.Kind = component.MovementStatic
	case tr.UseImageForCollisions:
		t.Kind = component.MovementImage
	}

	for i, frameSpec := range spec.Frames {
		if frameSpec.Name == "" {
			frameSpec.Name = fmt.Sprintf("frame%d", i)
		}
		f, err := buildFrame(frameSpec, tr, images)
		if err != nil {
			return nil, fmt.Errorf("prefabs: %s: frame %q: %w", spec.Name, frameSpec.Name, err)
		}
		t.Frames[frameSpec.Name] = f
		if i == 0 {
			t.DefaultFrame = frameSpec.Name
		}
	}
	if spec.DefaultFrame != "" {
		if _, ok := t.Frames[spec.DefaultFrame]; !ok {
			return nil, fmt.Errorf("%w: %s: %q", ErrUnknownFrame, spec.Name, spec.DefaultFrame)
		}
		t.DefaultFrame = spec.DefaultFrame
	}

	if err := t.decodeComponents(spec.Components); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", spec.Name, err)
	}
	return t, nil
}

func buildFrame(spec FrameSpec, tr TraitsSpec, images ImageLoader) (*solid.Frame, error) {
	f := &solid.Frame{
		Name:            spec.Name,
		Width:           spec.Width,
		Height:          spec.Height,
		PlatformOffsets: spec.PlatformOffsets,
		FeetX:           spec.FeetX,
		FeetY:           spec.FeetY,
	}

	var img image.Image
	var src image.Rectangle
	if spec.Image != "" {
		if images == nil {
			return nil, fmt.Errorf("image %q: no image loader", spec.Image)
		}
		var err error
		if img, err = images(spec.Image); err != nil {
			return nil, fmt.Errorf("image %q: %w", spec.Image, err)
		}
		src = img.Bounds()
		if spec.ImageRect != nil {
			r := spec.ImageRect
			src = image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
		}
		if f.Width == 0 {
			f.Width = src.Dx() * 2
		}
		if f.Height == 0 {
			f.Height = src.Dy() * 2
		}
	}
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("size %dx%d: %w", f.Width, f.Height, solid.ErrEmptyArea)
	}
	if img != nil {
		f.SetAlphaFromImage(img, src, 2)
	}

	switch {
	case spec.SolidFromImage:
		if img == nil {
			return nil, errors.New("solid_from_image without an image")
		}
		info, err := solid.FromImage(spec.Name, img, src, true)
		if err != nil {
			return nil, err
		}
		f.Solid = info
	case spec.Solid != nil:
		info, err := solid.FromSpec(solid.RectSpec{
			Area:      spec.Solid.Common(),
			FeetWidth: tr.FeetWidth,
			HasFeet:   tr.HasFeet,
			Shape:     spec.SolidShape,
			Offsets:   spec.SolidOffsets,
		})
		if err != nil {
			return nil, err
		}
		f.Solid = info
	}

	if spec.Platform != nil {
		info, err := solid.PlatformFromArea(spec.Platform.Common())
		if err != nil {
			return nil, err
		}
		f.Platform = info
	}

	for _, a := range spec.Areas {
		f.Areas = append(f.Areas, solid.CollisionArea{Name: a.Name, Rect: a.Rect.Common(), NoAlphaCheck: a.NoAlphaCheck})
	}

	switch {
	case spec.Body != nil:
		f.Body = spec.Body.Common()
	case f.Solid != nil:
		f.Body = f.Solid.Area()
	default:
		f.Body = common.NewRect(0, 0, f.Width, f.Height)
	}

	if len(spec.Pivots) > 0 {
		f.Pivots = make(map[string]common.Point, len(spec.Pivots))
		for name, p := range spec.Pivots {
			f.Pivots[name] = common.Point(p)
		}
	}
	return f, nil
}

func (t *Type) decodeComponents(raw map[string]any) error {
	for name, v := range raw {
		var err error
		switch name {
		case "acceleration":
			var s AccelerationComponentSpec
			if s, err = DecodeComponentSpec[AccelerationComponentSpec](v); err == nil {
				t.acceleration = &component.Acceleration{X: s.X, Y: s.Y}
			}
		case "velocity":
			var s VelocityComponentSpec
			if s, err = DecodeComponentSpec[VelocityComponentSpec](v); err == nil {
				t.velocity = &component.Velocity{X: s.X, Y: s.Y}
			}
		case "gravity_scale":
			var s GravityScaleComponentSpec
			if s, err = DecodeComponentSpec[GravityScaleComponentSpec](v); err == nil {
				t.gravity = &component.GravityScale{Shift: s.Shift}
			}
		case "platform":
			var s PlatformComponentSpec
			if s, err = DecodeComponentSpec[PlatformComponentSpec](v); err == nil {
				t.platform = &component.Platform{MotionX: s.MotionX}
			}
		case "platform_path":
			var s PlatformPathComponentSpec
			if s, err = DecodeComponentSpec[PlatformPathComponentSpec](v); err == nil {
				if len(s.Points) < 2 {
					err = errors.New("needs at least two points")
				} else {
					t.path = &s
				}
			}
		case "movement_state":
			var s MovementStateComponentSpec
			if s, err = DecodeComponentSpec[MovementStateComponentSpec](v); err == nil {
				t.movementState = &component.MovementState{WalkStairs: s.WalkStairs, Underwater: s.Underwater}
			}
		case "parent":
			var s ParentComponentSpec
			if s, err = DecodeComponentSpec[ParentComponentSpec](v); err == nil {
				t.parent = &s
			}
		default:
			err = errors.New("unknown component")
		}
		if err != nil {
			return fmt.Errorf("component %q: %w", name, err)
		}
	}
	return nil
}

// Spawn creates an instance at the pixel position. dims may be nil when
// the type names no dimensions. A parent component is only added when
// parent is a live entity.
func (t *Type) Spawn(w *ecs.World, dims Masks, x, y int, faceLeft bool, parent ecs.Entity) (ecs.Entity, error) {
	var layer *component.CollisionLayer
	if len(t.SolidDimensions) > 0 || len(t.CollideDimensions) > 0 {
		if dims == nil {
			return 0, fmt.Errorf("prefabs: %s: dimensions without a registry", t.Name)
		}
		layer = &component.CollisionLayer{Solid: 1, WeakSolid: 1, Collide: 1, WeakCollide: 1}
		if len(t.SolidDimensions) > 0 {
			s, wk, err := dims.Masks(t.SolidDimensions)
			if err != nil {
				return 0, fmt.Errorf("prefabs: %s: %w", t.Name, err)
			}
			layer.Solid, layer.WeakSolid = s, wk
		}
		if len(t.CollideDimensions) > 0 {
			s, wk, err := dims.Masks(t.CollideDimensions)
			if err != nil {
				return 0, fmt.Errorf("prefabs: %s: %w", t.Name, err)
			}
			layer.Collide, layer.WeakCollide = s, wk
		}
	}

	e := ecs.CreateEntity(w)
	add := func(err error) error {
		if err != nil {
			ecs.DestroyEntity(w, e)
		}
		return err
	}
	body := t.Body
	tf := component.Transform{FaceLeft: faceLeft}
	tf.SetPixelX(x)
	tf.SetPixelY(y)
	if err := add(ecs.Add(w, e, component.TransformComponent, &tf)); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.AnimationComponent, &component.Animation{Type: t.Name, Frames: t.Frames, Current: t.DefaultFrame})); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.PhysicsBodyComponent, &body)); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.MovementComponent, &component.Movement{Kind: t.Kind})); err != nil {
		return 0, err
	}
	if layer != nil {
		if err := add(ecs.Add(w, e, component.CollisionLayerComponent, layer)); err != nil {
			return 0, err
		}
	}
	if t.Script != "" {
		if err := add(ecs.Add(w, e, component.ScriptComponent, &component.Script{Path: t.Script})); err != nil {
			return 0, err
		}
	}
	if t.acceleration != nil {
		if err := add(ecs.Add(w, e, component.AccelerationComponent, clone(t.acceleration))); err != nil {
			return 0, err
		}
	}
	if t.velocity != nil {
		if err := add(ecs.Add(w, e, component.VelocityComponent, clone(t.velocity))); err != nil {
			return 0, err
		}
	}
	if t.gravity != nil {
		if err := add(ecs.Add(w, e, component.GravityScaleComponent, clone(t.gravity))); err != nil {
			return 0, err
		}
	}
	if t.platform != nil {
		if err := add(ecs.Add(w, e, component.PlatformComponent, clone(t.platform))); err != nil {
			return 0, err
		}
	}
	if t.movementState != nil {
		if err := add(ecs.Add(w, e, component.MovementStateComponent, clone(t.movementState))); err != nil {
			return 0, err
		}
	}
	if t.path != nil {
		pts := make([]common.Point, len(t.path.Points))
		for i, p := range t.path.Points {
			pts[i] = common.Point{X: x + p.X, Y: y + p.Y}
		}
		pp := component.PlatformPath{Points: pts, Ticks: t.path.Ticks, Loop: t.path.Loop}
		if err := add(ecs.Add(w, e, component.PlatformPathComponent, &pp)); err != nil {
			return 0, err
		}
	}
	if t.parent != nil && ecs.IsAlive(w, parent) {
		p := component.Parent{Entity: uint64(parent), Pivot: t.parent.Pivot, RelX: t.parent.RelX, RelY: t.parent.RelY}
		if err := add(ecs.Add(w, e, component.ParentComponent, &p)); err != nil {
			return 0, err
		}
	}
	return e, nil
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

// Library is the set of types built from the embedded prefabs, with disk
// overrides.
type Library struct {
	types  map[string]*Type
	images ImageLoader
}

// LoadLibrary builds every embedded prefab. A nil images uses LoadImage.
func LoadLibrary(images ImageLoader) (*Library, error) {
	if images == nil {
		images = LoadImage
	}
	names, err := fs.Glob(PrefabsFS, "*.yaml")
	if err != nil {
		return nil, err
	}
	lib := &Library{types: make(map[string]*Type, len(names)), images: images}
	for _, name := range names {
		if _, err := lib.Reload(name); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// Reload rebuilds one prefab file and replaces the type it defines.
func (l *Library) Reload(filename string) (*Type, error) {
	spec, err := LoadObjectSpec(filename)
	if err != nil {
		return nil, err
	}
	if spec.Name == "" {
		base := path.Base(cleanPrefabPath(filename))
		spec.Name = strings.TrimSuffix(base, path.Ext(base))
	}
	t, err := BuildType(spec, l.images)
	if err != nil {
		return nil, err
	}
	l.types[t.Name] = t
	return t, nil
}

func (l *Library) Get(name string) (*Type, bool) {
	t, ok := l.types[name]
	return t, ok
}

// Names returns the type names in sorted order.
func (l *Library) Names() []string {
	out := make([]string, 0, len(l.types))
	for name := range l.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
