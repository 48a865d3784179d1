package system

import (
	"math"

	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/component"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// PlatformPathSystem steers path-following entities by setting their
// velocity toward the current tween position. The movement system does the
// moving, so riders see the platform's motion through their support.
type PlatformPathSystem struct{}

func NewPlatformPathSystem() *PlatformPathSystem { return &PlatformPathSystem{} }

func (ps *PlatformPathSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.TransformComponent, component.PlatformPathComponent, func(e ecs.Entity, t *component.Transform, p *component.PlatformPath) {
		vel, err := ensure(w, e, component.VelocityComponent)
		if err != nil {
			return
		}
		if p.Done || len(p.Points) < 2 {
			vel.X, vel.Y = 0, 0
			return
		}
		if p.TweenX == nil || p.TweenY == nil {
			startLeg(t, p)
		}
		x, doneX := p.TweenX.Update(1)
		y, doneY := p.TweenY.Update(1)
		vel.X = toCenti(x) - t.X
		vel.Y = toCenti(y) - t.Y
		if doneX && doneY {
			nextLeg(p)
		}
	})
}

func toCenti(v float32) int {
	return int(math.Round(float64(v) * common.CentiPerPixel))
}

// startLeg tweens from the current position to the end of the leg.
func startLeg(t *component.Transform, p *component.PlatformPath) {
	to := p.Points[(p.Leg+1)%len(p.Points)]
	ticks := float32(max(p.Ticks, 1))
	fromX := float32(t.X) / common.CentiPerPixel
	fromY := float32(t.Y) / common.CentiPerPixel
	p.TweenX = gween.New(fromX, float32(to.X), ticks, ease.InOutQuad)
	p.TweenY = gween.New(fromY, float32(to.Y), ticks, ease.InOutQuad)
}

func nextLeg(p *component.PlatformPath) {
	p.TweenX, p.TweenY = nil, nil
	p.Leg++
	last := len(p.Points) - 1
	if p.Loop {
		last = len(p.Points)
	}
	if p.Leg >= last {
		if p.Loop {
			p.Leg = 0
			return
		}
		p.Done = true
	}
}
