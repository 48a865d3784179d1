package component

// Invulnerable counts down the ticks left before damage applies again.
type Invulnerable struct {
	Ticks int
}

var InvulnerableComponent = NewComponent[Invulnerable]()
