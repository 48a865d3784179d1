package system

import "github.com/milk9111/tilephys/ecs"

// Physics event types pushed to the world event queue.
const (
	EventCollideFeet           = "collide_feet"
	EventCollideHead           = "collide_head"
	EventCollideSide           = "collide_side"
	EventCollideDamage         = "collide_damage"
	EventJumpedOn              = "jumped_on"
	EventChangeDimensionsFail  = "change_solid_dimensions_fail"
	EventStuck                 = "stuck"
	EventCollideLevel          = "collide_level"
	EventCollideObject         = "collide_object"
	EventOutsideLevel          = "outside_level"
	eventCollideObjectAreaPref = "collide_object_"
)

// CollideObjectEvent is the area specific variant of collide_object.
func CollideObjectEvent(area string) string {
	return eventCollideObjectAreaPref + area
}

// CollisionEvent is the payload of every physics event. Fields that do
// not apply to an event are zero.
type CollisionEvent struct {
	// CollideWith is the other entity, zero for the level.
	CollideWith ecs.Entity
	// Area and CollideWithArea are the hit shape or named area ids.
	Area            string
	CollideWithArea string
	Friction        int
	Traction        int
	Damage          int
	SurfaceInfo     string
	// Index orders the hits of one named-area pair.
	Index int
	// JumpedOnBy is set on jumped_on events.
	JumpedOnBy ecs.Entity
}

func collisionEvent(info CollisionInfo) CollisionEvent {
	return CollisionEvent{
		CollideWith:     info.CollideWith,
		Area:            info.AreaID,
		CollideWithArea: info.CollideWithAreaID,
		Friction:        info.Friction,
		Traction:        info.Traction,
		Damage:          info.Damage,
		SurfaceInfo:     info.SurfaceInfo,
	}
}
