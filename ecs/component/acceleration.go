package component

// Acceleration is the entity's own push in centipixels per tick squared.
// X is scaled by traction and facing; Y by gravity shift.
type Acceleration struct {
	X, Y int
}

var AccelerationComponent = NewComponent[Acceleration]()
