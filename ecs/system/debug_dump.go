package system

import (
	"fmt"
	"strings"

	"github.com/milk9111/tilephys/ecs"
)

// DebugSolidityDump draws the solid rect of e plus a one pixel border as
// text: X where the entity and the level are both solid, L for the level
// only, C for the entity only and - for neither.
func DebugSolidityDump(s *Sim, e ecs.Entity) string {
	a := s.actor(e)
	if a == nil {
		return ""
	}
	r := a.solidRect()
	if r.Empty() {
		r = a.frameRect()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s solid rect (%d,%d %dx%d)\n", s.describe(e), r.X, r.Y, r.W, r.H)
	for y := r.Y - 1; y <= r.Y2(); y++ {
		for x := r.X - 1; x <= r.X2(); x++ {
			level, _ := s.Level.SolidAt(x, y)
			own := false
			if a.isSolid() && r.Contains(x, y) {
				own, _ = a.solidAtWorld(x, y)
			}
			switch {
			case level && own:
				b.WriteByte('X')
			case level:
				b.WriteByte('L')
			case own:
				b.WriteByte('C')
			default:
				b.WriteByte('-')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
