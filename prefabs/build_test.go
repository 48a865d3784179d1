package prefabs

import (
	"errors"
	"image"
	"testing"

	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
	"github.com/milk9111/tilephys/solid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDims map[string]uint32

func (d fakeDims) Masks(names []string) (uint32, uint32, error) {
	var strong, weak uint32
	for _, n := range names {
		if len(n) > 0 && n[0] == '~' {
			bit, ok := d[n[1:]]
			if !ok {
				return 0, 0, errors.New("unknown dimension " + n)
			}
			weak |= bit
			continue
		}
		bit, ok := d[n]
		if !ok {
			return 0, 0, errors.New("unknown dimension " + n)
		}
		strong |= bit
	}
	return strong, weak | strong, nil
}

func buildEmbedded(t *testing.T, name string) *Type {
	t.Helper()
	spec, err := LoadObjectSpec(name + ".yaml")
	require.NoError(t, err)
	typ, err := BuildType(spec, LoadImage)
	require.NoError(t, err)
	return typ
}

func TestBuildWalker(t *testing.T) {
	typ := buildEmbedded(t, "walker")
	assert.Equal(t, "walk", typ.DefaultFrame)
	assert.Equal(t, component.MovementKinematic, typ.Kind)
	assert.True(t, typ.Body.HasFeet)
	assert.Equal(t, 900, typ.Body.Traction)
	assert.Equal(t, "walker.tengo", typ.Script)

	walk := typ.Frames["walk"]
	require.NotNil(t, walk)
	assert.Equal(t, common.NewRect(4, 4, 8, 20), walk.Solid.Area())
	assert.Equal(t, walk.Solid.Area(), walk.Body)
	require.Len(t, walk.Solid.Maps(), 2, "body and legs")
	hand, ok := walk.Pivot("hand")
	assert.True(t, ok)
	assert.Equal(t, common.Point{X: 12, Y: 10}, hand)
	assert.Equal(t, []solid.CollisionArea{{Name: "hurt", Rect: common.NewRect(4, 4, 8, 20)}}, walk.Areas)

	assert.Contains(t, typ.Frames, "crouch")
}

func TestBuildImageFrames(t *testing.T) {
	crate := buildEmbedded(t, "crate")
	f := crate.Frames["idle"]
	require.NotNil(t, f)
	assert.Equal(t, 16, f.Width)
	assert.Equal(t, 16, f.Height)
	require.True(t, f.HasAlpha())
	assert.True(t, f.IsAlpha(1, 1, true), "transparent corner covers two frame pixels")
	assert.False(t, f.IsAlpha(2, 2, true))
	assert.True(t, f.IsAlpha(14, 0, false), "mirrored")

	rock := buildEmbedded(t, "rock")
	assert.Equal(t, component.MovementImage, rock.Kind)
	require.NotNil(t, rock.Frames["idle"].Solid)
	assert.Equal(t, 16, rock.Frames["idle"].Solid.Area().W)
}

func TestBuildPlatforms(t *testing.T) {
	ramp := buildEmbedded(t, "ramp")
	f := ramp.Frames["idle"]
	assert.Equal(t, component.MovementStatic, ramp.Kind)
	assert.Nil(t, f.Solid)
	assert.Equal(t, common.NewRect(0, 0, 64, 1), f.Platform.Area())
	assert.Equal(t, []int{12, 8, 4, 0}, f.PlatformOffsets)
	assert.Equal(t, common.NewRect(0, 0, 64, 16), f.Body)
}

func TestBuildTypeErrors(t *testing.T) {
	frame := FrameSpec{Name: "a", Width: 8, Height: 8}
	tests := []struct {
		name   string
		spec   ObjectSpec
		images ImageLoader
		is     error
	}{
		{name: "no frames", spec: ObjectSpec{Name: "x"}, is: ErrNoFrames},
		{name: "unknown default", spec: ObjectSpec{Name: "x", DefaultFrame: "b", Frames: []FrameSpec{frame}}, is: ErrUnknownFrame},
		{name: "empty frame", spec: ObjectSpec{Name: "x", Frames: []FrameSpec{{Name: "a"}}}, is: solid.ErrEmptyArea},
		{name: "empty solid", spec: ObjectSpec{Name: "x", Frames: []FrameSpec{{Name: "a", Width: 8, Height: 8, Solid: &Rect{W: 0, H: 2}}}}, is: solid.ErrEmptyArea},
		{name: "bad offsets", spec: ObjectSpec{Name: "x", Frames: []FrameSpec{{Name: "a", Width: 8, Height: 8, Solid: &Rect{W: 2, H: 2}, SolidOffsets: []int{1}}}}, is: solid.ErrBadOffsets},
		{name: "image without loader", spec: ObjectSpec{Name: "x", Frames: []FrameSpec{{Name: "a", Image: "crate.png"}}}},
		{name: "image load fails", spec: ObjectSpec{Name: "x", Frames: []FrameSpec{{Name: "a", Image: "nope.png"}}}, images: LoadImage},
		{name: "solid from nothing", spec: ObjectSpec{Name: "x", Frames: []FrameSpec{{Name: "a", Width: 8, Height: 8, SolidFromImage: true}}}},
		{name: "unknown component", spec: ObjectSpec{Name: "x", Frames: []FrameSpec{frame}, Components: map[string]any{"jetpack": map[string]any{}}}},
		{name: "short path", spec: ObjectSpec{Name: "x", Frames: []FrameSpec{frame}, Components: map[string]any{"platform_path": map[string]any{"points": [][]int{{0, 0}}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildType(tt.spec, tt.images)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestBuildWithCustomLoader(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	spec := ObjectSpec{Name: "tiny", Frames: []FrameSpec{{Image: "any", ImageRect: &Rect{X: 0, Y: 0, W: 2, H: 2}}}}
	typ, err := BuildType(spec, func(name string) (image.Image, error) {
		assert.Equal(t, "any", name)
		return img, nil
	})
	require.NoError(t, err)
	f := typ.Frames["frame0"]
	require.NotNil(t, f)
	assert.Equal(t, 4, f.Width)
	assert.True(t, f.IsAlpha(0, 0, true), "zero image is transparent")
}

func TestSpawn(t *testing.T) {
	w := ecs.NewWorld()
	lift := buildEmbedded(t, "lift")

	a, err := lift.Spawn(w, nil, 100, 50, false, 0)
	require.NoError(t, err)
	b, err := lift.Spawn(w, nil, 0, 0, true, 0)
	require.NoError(t, err)

	tf, ok := ecs.Get(w, a, component.TransformComponent)
	require.True(t, ok)
	assert.Equal(t, component.Transform{X: 10000, Y: 5000}, *tf)

	anim, _ := ecs.Get(w, a, component.AnimationComponent)
	assert.Equal(t, "lift", anim.Type)
	assert.Equal(t, "idle", anim.Current)
	assert.NotNil(t, anim.Frame())

	path, ok := ecs.Get(w, a, component.PlatformPathComponent)
	require.True(t, ok)
	assert.Equal(t, []common.Point{{X: 100, Y: 50}, {X: 100, Y: -46}, {X: 164, Y: -46}}, path.Points)
	assert.Equal(t, 120, path.Ticks)
	assert.True(t, path.Loop)

	grav, _ := ecs.Get(w, a, component.GravityScaleComponent)
	grav.Shift = 7
	other, _ := ecs.Get(w, b, component.GravityScaleComponent)
	assert.Equal(t, -1000, other.Shift, "instances do not share components")

	assert.False(t, ecs.Has(w, a, component.CollisionLayerComponent))
	assert.False(t, ecs.Has(w, a, component.ScriptComponent))
}

func TestSpawnDimensions(t *testing.T) {
	w := ecs.NewWorld()
	rock := buildEmbedded(t, "rock")

	_, err := rock.Spawn(w, nil, 0, 0, false, 0)
	assert.Error(t, err)
	_, err = rock.Spawn(w, fakeDims{"main": 1}, 0, 0, false, 0)
	assert.Error(t, err, "background is unknown")
	assert.Empty(t, ecs.Entities(w), "failed spawns leave nothing behind")

	e, err := rock.Spawn(w, fakeDims{"main": 1, "background": 4}, 0, 0, false, 0)
	require.NoError(t, err)
	layer, ok := ecs.Get(w, e, component.CollisionLayerComponent)
	require.True(t, ok)
	assert.Equal(t, component.CollisionLayer{Solid: 1, WeakSolid: 5, Collide: 1, WeakCollide: 1}, *layer)
}

func TestSpawnParent(t *testing.T) {
	w := ecs.NewWorld()
	spec := ObjectSpec{
		Name:       "lamp",
		Frames:     []FrameSpec{{Width: 4, Height: 4}},
		Components: map[string]any{"parent": map[string]any{"pivot": "hand", "rel_x": 2, "rel_y": -3}},
	}
	typ, err := BuildType(spec, nil)
	require.NoError(t, err)

	holder := ecs.CreateEntity(w)
	e, err := typ.Spawn(w, nil, 0, 0, false, holder)
	require.NoError(t, err)
	p, ok := ecs.Get(w, e, component.ParentComponent)
	require.True(t, ok)
	assert.Equal(t, component.Parent{Entity: uint64(holder), Pivot: "hand", RelX: 2, RelY: -3}, *p)

	orphan, err := typ.Spawn(w, nil, 0, 0, false, 0)
	require.NoError(t, err)
	assert.False(t, ecs.Has(w, orphan, component.ParentComponent))
}

func TestLibrary(t *testing.T) {
	lib, err := LoadLibrary(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"crate", "lift", "ramp", "rock", "walker"}, lib.Names())

	walker, ok := lib.Get("walker")
	require.True(t, ok)
	again, err := lib.Reload("prefabs/walker.yaml")
	require.NoError(t, err)
	assert.NotSame(t, walker, again)
	got, _ := lib.Get("walker")
	assert.Same(t, again, got)

	_, ok = lib.Get("dragon")
	assert.False(t, ok)
}
