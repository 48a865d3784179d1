package component

// PhysicsBody holds the per-type traits of an entity. Friction and traction
// values are per mille.
type PhysicsBody struct {
	Friction        int
	Traction        int
	TractionInAir   int
	TractionInWater int

	// Surface values are what an entity standing on this one receives.
	SurfaceFriction int
	SurfaceTraction int
	SurfaceDamage   int

	FeetWidth int
	HasFeet   bool
	// SolidPlatform platforms are stood on even by entities falling through.
	SolidPlatform bool
	// Passthrough bodies can be walked through and never stood on.
	Passthrough bool

	IgnoreCollide         bool
	ObjectLevelCollisions bool
	IgnoreLevelCollisions bool
	EditorForceStanding   bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
