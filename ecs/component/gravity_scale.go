package component

// GravityScale shifts vertical acceleration. Shift is added to the per
// mille factor, so 0 is normal gravity and -1000 cancels it.
type GravityScale struct {
	Shift int
}

var GravityScaleComponent = NewComponent[GravityScale]()
