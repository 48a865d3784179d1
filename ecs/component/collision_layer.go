package component

// CollisionLayer holds dimension bitmasks. Two solids block each other
// when one's weak mask meets the other's solid mask; collide masks do the
// same for named-area interaction. Weak masks always include the strong
// ones.
type CollisionLayer struct {
	Solid       uint32
	WeakSolid   uint32
	Collide     uint32
	WeakCollide uint32
}

var CollisionLayerComponent = NewComponent[CollisionLayer]()

// SolidWith reports whether the two layers block each other physically.
func (l CollisionLayer) SolidWith(o CollisionLayer) bool {
	return l.WeakSolid&o.Solid != 0 || l.Solid&o.WeakSolid != 0
}

// CollidesWith reports whether the two layers interact through areas.
func (l CollisionLayer) CollidesWith(o CollisionLayer) bool {
	return l.WeakCollide&o.Collide != 0 || l.Collide&o.WeakCollide != 0
}
