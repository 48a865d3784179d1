package component

// Velocity is in centipixels per tick.
type Velocity struct {
	X, Y int
}

var VelocityComponent = NewComponent[Velocity]()
