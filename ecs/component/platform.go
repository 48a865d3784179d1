package component

// Platform carries horizontal conveyor motion, in centipixels per tick,
// given to entities standing on it.
type Platform struct {
	MotionX int
}

var PlatformComponent = NewComponent[Platform]()
