package system

import "github.com/milk9111/tilephys/common"

const (
	maxSlopeClimb = 4
	stairSearch   = 2
	stairTries    = 2
)

// moveHorizontal runs the optimistic pass and falls back to the precise
// pass when the optimistic result overlaps something.
func (r *resolution) moveHorizontal() {
	if r.evx == 0 {
		return
	}
	a := r.a
	backupX, backupY := a.t.X, a.t.Y
	r.optimisticPass()
	collide := false
	if r.collides(common.DirNone) {
		a.t.X, a.t.Y = backupX, backupY
		collide = r.precisePass()
	}

	if !collide && !r.horizontalLanded {
		return
	}
	typ := EventCollideFeet
	if collide {
		typ = EventCollideSide
	}
	r.s.Emit(typ, a.e, collisionEvent(r.collideInfo))
	r.firedFeet = true
	if r.collideInfo.Damage != 0 {
		r.s.Emit(EventCollideDamage, a.e, CollisionEvent{Damage: r.collideInfo.Damage})
	}
}

// optimisticPass walks the terrain without collision tests.
func (r *resolution) optimisticPass() {
	r.stepHorizontal(false)
}

// precisePass walks again testing every step, and reports whether it
// stopped against something.
func (r *resolution) precisePass() bool {
	return r.stepHorizontal(true)
}

func (r *resolution) stepHorizontal(precise bool) bool {
	s, a := r.s, r.a
	dir, side := 1, common.DirRight
	if r.evx < 0 {
		dir, side = -1, common.DirLeft
	}
	for left := common.Abs(r.evx); left > 0 && !a.body.IgnoreCollide; left -= common.CentiPerPixel {
		r.checkLevelContact()
		prevStanding, _ := s.isStanding(a)
		origY := a.t.Y
		amount := min(left, common.CentiPerPixel)
		if !a.t.Move(amount*dir, 0) {
			break
		}

		standing, _ := s.isStanding(a)
		target, onPlatform := 0, false
		if r.onSupportPlatform() {
			target, onPlatform = r.supportTarget()
		}
		switch {
		case onPlatform:
			r.stepToSupport(target, precise)
		case prevStanding != NotStanding && standing < prevStanding:
			r.findStair(prevStanding, origY, precise)
		case standing != NotStanding:
			if !r.verticalLanded && !r.startedStanding && r.on == nil {
				r.horizontalLanded = true
			}
			r.climbSlope(origY, precise)
		}

		if precise {
			probe := side
			if a.t.Y != origY {
				probe = common.DirNone
			}
			if hit, info := s.entityCollides(a, probe); hit {
				r.collideInfo = info
				a.t.Move(-dir*amount, 0)
				a.t.Y = origY
				return true
			}
		}
	}
	return false
}

// findStair looks a couple of pixels up or down for footing as firm as
// before the step. Stair intent picks the direction tried first.
func (r *resolution) findStair(prev StandingStatus, origY int, precise bool) {
	a := r.a
	dir, probe := -1, common.DirUp
	if a.state.WalkStairs > 0 {
		dir, probe = 1, common.DirDown
	}
	for try := 0; try < stairTries; try++ {
		for n := 0; n < stairSearch; n++ {
			a.t.Move(0, dir*common.CentiPerPixel)
			if precise && r.collides(probe) {
				break
			}
			if st, _ := r.s.isStanding(a); st >= prev {
				return
			}
		}
		dir = -dir
		if probe == common.DirUp {
			probe = common.DirDown
		} else {
			probe = common.DirUp
		}
		a.t.Y = origY
	}
}

// climbSlope raises the entity while it is still standing, up to a few
// pixels. Stand-only surfaces lift by at most one pixel unless stair
// intent says to keep off them.
func (r *resolution) climbSlope(origY int, precise bool) {
	s, a := r.s, r.a
	const up = -common.CentiPerPixel
	collideHead := false
	steps := maxSlopeClimb + 1
	for {
		steps--
		if steps == 0 {
			break
		}
		st, info := s.isStanding(a)
		if st == NotStanding {
			break
		}
		if info.Platform && a.state.WalkStairs >= 0 {
			if steps == maxSlopeClimb {
				a.t.Move(0, up)
				if precise && r.collides(common.DirUp) {
					collideHead = true
				}
			}
			break
		}
		a.t.Move(0, up)
		if precise && r.collides(common.DirUp) {
			collideHead = true
			break
		}
	}
	if steps == 0 || collideHead {
		a.t.Y = origY
	} else {
		a.t.Move(0, -up)
	}

	if a.state.WalkStairs > 0 {
		if _, info := s.isStanding(a); info.Platform {
			a.t.Move(0, -up)
			if st, _ := s.isStanding(a); st == NotStanding || (precise && r.collides(common.DirDown)) {
				a.t.Move(0, up)
			}
		}
	}
}
