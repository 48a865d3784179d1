package system

import (
	"testing"

	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/ecs"
	"github.com/stretchr/testify/assert"
)

func TestBroadphaseQuery(t *testing.T) {
	w := ecs.NewWorld()
	near, far, outside := ecs.CreateEntity(w), ecs.CreateEntity(w), ecs.CreateEntity(w)

	b := newBroadphase(common.NewRect(0, 0, 64, 64), 32)
	b.update(near, common.NewRect(0, 0, 10, 10))
	b.update(far, common.NewRect(40, 40, 10, 10))
	b.update(outside, common.NewRect(-5000, 0, 10, 10))

	tests := []struct {
		name string
		r    common.Rect
		want []ecs.Entity
	}{
		{name: "near corner", r: common.NewRect(0, 0, 20, 20), want: []ecs.Entity{near, outside}},
		{name: "far corner", r: common.NewRect(45, 45, 1, 1), want: []ecs.Entity{far, outside}},
		{name: "empty rect", r: common.Rect{}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.query(tt.r))
		})
	}

	b.remove(near)
	b.update(outside, common.Rect{})
	assert.Empty(t, b.query(common.NewRect(0, 0, 20, 20)))
}

func TestBroadphaseResize(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	b := newBroadphase(common.Rect{}, 0)
	assert.Equal(t, 64, b.cell)

	b.update(e, common.NewRect(10, 10, 4, 4))
	b.resize(common.NewRect(0, 0, 640, 640))
	assert.Empty(t, b.query(common.NewRect(10, 10, 4, 4)), "resize drops entries until the next sync")

	b.update(e, common.NewRect(600, 600, 4, 4))
	assert.Equal(t, []ecs.Entity{e}, b.query(common.NewRect(598, 598, 8, 8)))
}
