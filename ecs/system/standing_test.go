package system

import (
	"image"
	"image/color"
	"testing"

	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
	"github.com/milk9111/tilephys/grid"
	"github.com/milk9111/tilephys/solid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rockFrame is a 16x16 image frame whose lower half is opaque.
func rockFrame() *solid.Frame {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 8; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.NRGBA{R: 0x80, A: 0xff})
		}
	}
	f := &solid.Frame{Name: "rock", Width: 16, Height: 16}
	f.SetAlphaFromImage(img, img.Bounds(), 1)
	return f
}

func TestPointStandableOnEntities(t *testing.T) {
	f := newFixture(t)
	f.level().AddSolidRect(0, 0, 32, 32, grid.SurfaceInfo{Traction: 700})
	rockBody := component.PhysicsBody{SurfaceFriction: 200, SurfaceTraction: 900}
	rock := f.spawn(100, 0, rockFrame(), rockBody, component.MovementImage)
	ghostBody := rockBody
	ghostBody.Passthrough = true
	f.spawn(200, 0, rockFrame(), ghostBody, component.MovementImage)
	platform := f.spawn(300, 0, platformFrame(t), component.PhysicsBody{}, component.MovementStatic)
	walker := f.spawn(-100, -100, legsFrame(t), walkerBody(), component.MovementKinematic)
	f.sim.Refresh()

	tests := []struct {
		name         string
		x, y         int
		want         bool
		wantWith     ecs.Entity
		wantTraction int
		wantPlatform bool
	}{
		{name: "solid tile", x: 8, y: 0, want: true, wantTraction: 700},
		{name: "opaque image", x: 104, y: 8, want: true, wantWith: rock, wantTraction: 900},
		{name: "transparent image", x: 104, y: 4},
		{name: "passthrough body", x: 204, y: 8},
		{name: "platform", x: 308, y: 0, want: true, wantWith: platform, wantPlatform: true},
		{name: "empty space", x: 60, y: -40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, info := PointStandable(f.sim, walker, tt.x, tt.y, SolidAndPlatforms)
			require.Equal(t, tt.want, ok)
			if !tt.want {
				return
			}
			assert.Equal(t, tt.wantWith, info.CollideWith)
			assert.Equal(t, tt.wantTraction, info.Traction)
			assert.Equal(t, tt.wantPlatform, info.Platform)
			assert.Equal(t, 0, info.AdjustY)
		})
	}
}

func TestIsStandable(t *testing.T) {
	f := newFixture(t)
	rock := f.spawn(100, 0, rockFrame(), component.PhysicsBody{SurfaceFriction: 200}, component.MovementImage)
	ghost := f.spawn(200, 0, rockFrame(), component.PhysicsBody{Passthrough: true}, component.MovementImage)
	platform := f.spawn(300, 0, platformFrame(t), component.PhysicsBody{SurfaceTraction: 500}, component.MovementStatic)

	tests := []struct {
		name       string
		e          ecs.Entity
		x, y       int
		want       bool
		wantResult StandableResult
	}{
		{name: "top of the image", e: rock, x: 104, y: 8, want: true, wantResult: StandableResult{Friction: 200}},
		{name: "above the image", e: rock, x: 104, y: 7},
		{name: "passthrough body", e: ghost, x: 204, y: 8},
		{name: "platform top", e: platform, x: 308, y: 0, want: true, wantResult: StandableResult{Traction: 500}},
		{name: "beside the platform", e: platform, x: 290, y: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, res := IsStandable(f.sim, tt.e, tt.x, tt.y)
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, tt.wantResult, res)
			}
		})
	}
}
