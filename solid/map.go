package solid

import (
	"fmt"
	"strings"

	"github.com/milk9111/tilephys/common"
)

// Map is an immutable bitmap of locally solid pixels together with the
// boundary point sets used for one pixel movement tests.
type Map struct {
	id    string
	area  common.Rect
	bits  []bool
	sides [common.DirectionCount][]common.Point
}

func newMap(id string, area common.Rect, fill bool) *Map {
	m := &Map{id: id, area: area}
	if area.W > 0 && area.H > 0 {
		m.bits = make([]bool, area.W*area.H)
		if fill {
			for i := range m.bits {
				m.bits[i] = true
			}
		}
	}
	return m
}

// ParseMap builds a map from a picture where '#' marks a solid pixel and any
// other character an empty one. Rows must have equal widths. The area
// origin is placed at (x, y) in frame coordinates.
func ParseMap(id string, x, y int, picture string) (*Map, error) {
	rows := pictureRows(picture)
	if len(rows) == 0 {
		return nil, fmt.Errorf("solid: parse %q: %w", id, ErrEmptyArea)
	}
	w := len(rows[0])
	for i, r := range rows {
		if len(r) != w {
			return nil, fmt.Errorf("solid: parse %q: row %d has width %d, want %d", id, i, len(r), w)
		}
	}
	m := newMap(id, common.NewRect(x, y, w, len(rows)), false)
	for ry, r := range rows {
		for rx := 0; rx < w; rx++ {
			if r[rx] == '#' {
				m.set(rx, ry, true)
			}
		}
	}
	m.calculateSides(allDirections...)
	return m, nil
}

func pictureRows(picture string) []string {
	var rows []string
	for _, line := range strings.Split(picture, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	return rows
}

var allDirections = []common.Direction{common.DirNone, common.DirLeft, common.DirRight, common.DirUp, common.DirDown}

func (m *Map) ID() string { return m.id }

// Area is the map rectangle in frame coordinates.
func (m *Map) Area() common.Rect { return m.area }

// SolidAt reports whether the local point (relative to the area origin) is
// solid. Points outside the area are never solid.
func (m *Map) SolidAt(x, y int) bool {
	if m == nil || x < 0 || y < 0 || x >= m.area.W || y >= m.area.H {
		return false
	}
	return m.bits[y*m.area.W+x]
}

// Dir returns the boundary points to test for a one pixel step in d, in
// frame coordinates. DirNone returns every solid point.
func (m *Map) Dir(d common.Direction) []common.Point {
	if m == nil || int(d) >= len(m.sides) {
		return nil
	}
	return m.sides[d]
}

// Count returns the number of solid pixels.
func (m *Map) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

func (m *Map) set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.area.W || y >= m.area.H {
		return
	}
	m.bits[y*m.area.W+x] = v
}

// calculateSides fills the boundary sets for the given directions. A point
// belongs to a direction when it is solid and its neighbor that way is not.
func (m *Map) calculateSides(dirs ...common.Direction) {
	for _, d := range dirs {
		var pts []common.Point
		dx, dy := d.Delta()
		idx := 0
		for y := 0; y < m.area.H; y++ {
			for x := 0; x < m.area.W; x++ {
				solid := m.bits[idx]
				idx++
				if !solid {
					continue
				}
				if d != common.DirNone && m.SolidAt(x+dx, y+dy) {
					continue
				}
				pts = append(pts, common.Point{X: m.area.X + x, Y: m.area.Y + y})
			}
		}
		m.sides[d] = pts
	}
}

// applyOffsets clears the top rows of each column following a piecewise
// linear height profile. Offsets are in source pixels and doubled here.
func (m *Map) applyOffsets(offsets []int) {
	if len(offsets) <= 1 || m.area.W <= 0 {
		return
	}
	segWidth := (m.area.W * 1024) / (len(offsets) - 1)
	if segWidth <= 0 {
		return
	}
	for x := 0; x < m.area.W; x++ {
		pos := x * 1024
		segment := pos / segWidth
		if segment >= len(offsets)-1 {
			segment = len(offsets) - 2
		}
		partial := pos - segment*segWidth
		offset := (partial*offsets[segment+1]*2 + (segWidth-partial)*offsets[segment]*2) / segWidth
		for y := 0; y < offset; y++ {
			m.set(x, y, false)
		}
	}
}

// String renders the map as rows of '#' and '.'.
func (m *Map) String() string {
	var b strings.Builder
	for y := 0; y < m.area.H; y++ {
		for x := 0; x < m.area.W; x++ {
			if m.SolidAt(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
