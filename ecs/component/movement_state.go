package component

// MovementState is per-entity state and intent read by the movement
// pipeline.
type MovementState struct {
	// PreviousY is the pixel y at the start of the last tick.
	PreviousY int
	// FallThrough counts down ticks during which platforms are ignored.
	FallThrough int
	// WalkStairs is the stair intent: positive steps down through
	// stand-only stairs, negative climbs them, zero walks under them.
	WalkStairs int
	Underwater bool
}

var MovementStateComponent = NewComponent[MovementState]()
