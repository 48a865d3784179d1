package component

// MovementKind selects how the movement system treats an entity.
type MovementKind uint8

const (
	// MovementKinematic entities run the full resolution pipeline.
	MovementKinematic MovementKind = iota
	// MovementStatic entities only keep their bookkeeping current.
	MovementStatic
	// MovementImage entities collide by image alpha and never move.
	MovementImage
)

func (k MovementKind) String() string {
	switch k {
	case MovementStatic:
		return "static"
	case MovementImage:
		return "image"
	default:
		return "kinematic"
	}
}

type Movement struct {
	Kind MovementKind
}

var MovementComponent = NewComponent[Movement]()

// UsesImage reports whether collisions use the frame's alpha mask.
func (k MovementKind) UsesImage() bool { return k == MovementImage }
