package component

// Support is the entity currently bearing our weight. On is an ecs.Entity
// handle; zero means airborne.
type Support struct {
	On uint64
	// PrevFeetX and PrevFeetY are the support's feet when last seen.
	PrevFeetX, PrevFeetY int
}

var SupportComponent = NewComponent[Support]()
