package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/grid"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is the level geometry file. Layers place tiles from a character
// grid, keyed into Tiles; Solids are free rectangles in pixels.
type Level struct {
	Name     string              `json:"name"`
	TileSize int                 `json:"tile_size,omitempty"`
	Tiles    map[string]TileSpec `json:"tiles"`
	Layers   []Layer             `json:"layers"`
	Solids   []SolidSpec         `json:"solids,omitempty"`
	Spawns   []Spawn             `json:"spawns,omitempty"`
}

// TileSpec defines one tile graphic's solidity. Mask rows use '#' for
// solid pixels; Shapes names grid shapes. A spec with neither is
// decoration only.
type TileSpec struct {
	Width       int      `json:"width,omitempty"`
	Height      int      `json:"height,omitempty"`
	Mask        []string `json:"mask,omitempty"`
	Shapes      []string `json:"shapes,omitempty"`
	Passthrough bool     `json:"passthrough,omitempty"`
	Mirror      bool     `json:"mirror,omitempty"`
	Friction    int      `json:"friction,omitempty"`
	Traction    int      `json:"traction,omitempty"`
	Damage      int      `json:"damage,omitempty"`
	Info        string   `json:"info,omitempty"`
}

// Layer is a tile grid drawn at ZOrder. Each character of a row is a tile
// key; '.' and ' ' are empty. X and Y offset the grid in pixels.
type Layer struct {
	Name   string      `json:"name"`
	ZOrder int         `json:"zorder"`
	X      int         `json:"x,omitempty"`
	Y      int         `json:"y,omitempty"`
	Rows   []string    `json:"rows,omitempty"`
	Tiles  []Placement `json:"tiles,omitempty"`
}

// Placement puts one tile at a pixel position, outside the row grid.
type Placement struct {
	Tile     string `json:"tile"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	FaceLeft bool   `json:"face_left,omitempty"`
}

// SolidSpec is a solid rectangle given as [x1, y1, x2, y2], with x2 and y2
// exclusive.
type SolidSpec struct {
	Rect     [4]int `json:"rect"`
	Friction int    `json:"friction,omitempty"`
	Traction int    `json:"traction,omitempty"`
	Damage   int    `json:"damage,omitempty"`
	Info     string `json:"info,omitempty"`
}

type Spawn struct {
	Type     string `json:"type"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	FaceLeft bool   `json:"face_left,omitempty"`
}

// Parse decodes a JSON level.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal: %w", err)
	}
	return &lvl, nil
}

// Load reads a JSON level, preferring levels/<name> on disk over the
// embedded copy.
func Load(name string) (*Level, error) {
	clean := strings.TrimPrefix(filepath.ToSlash(name), "levels/")
	if path.Ext(clean) == "" {
		clean += ".json"
	}
	data, err := os.ReadFile(filepath.Join("levels", filepath.FromSlash(clean)))
	if err != nil {
		if data, err = fs.ReadFile(LevelsFS, clean); err != nil {
			return nil, fmt.Errorf("levels: read %s: %w", clean, err)
		}
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", clean, err)
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(clean, ".json")
	}
	return lvl, nil
}

// Names lists the embedded levels.
func Names() []string {
	matches, _ := fs.Glob(LevelsFS, "*.json")
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSuffix(m, ".json"))
	}
	sort.Strings(out)
	return out
}

func (l *Level) tileSize() int {
	if l.TileSize > 0 {
		return l.TileSize
	}
	return grid.TileSize
}

// TileDefs builds every tile definition, keyed like Tiles.
func (l *Level) TileDefs() (map[string]*grid.TileDef, error) {
	size := l.tileSize()
	defs := make(map[string]*grid.TileDef, len(l.Tiles))
	for key, spec := range l.Tiles {
		w, h := spec.Width, spec.Height
		if w == 0 {
			w = size
		}
		if h == 0 {
			h = size
		}
		surf := grid.SurfaceInfo{Friction: spec.Friction, Traction: spec.Traction, Damage: spec.Damage, Info: spec.Info}
		var (
			def *grid.TileDef
			err error
		)
		switch {
		case len(spec.Mask) > 0:
			def, err = grid.ParseTileDef(key, w, h, spec.Mask)
			if def != nil {
				def.Passthrough = spec.Passthrough
				def.Surface = surf
			}
		default:
			def, err = grid.ShapeTileDef(key, w, h, spec.Shapes, spec.Passthrough, surf)
		}
		if err != nil {
			return nil, fmt.Errorf("levels: %s: %w", l.Name, err)
		}
		defs[key] = def
	}
	return defs, nil
}

// GridLayers resolves every layer into tile placements, one grid layer per
// z-order.
func (l *Level) GridLayers() ([]grid.Layer, error) {
	defs, err := l.TileDefs()
	if err != nil {
		return nil, err
	}
	size := l.tileSize()
	byZ := map[int]*grid.Layer{}
	var order []int
	for _, layer := range l.Layers {
		gl, ok := byZ[layer.ZOrder]
		if !ok {
			gl = &grid.Layer{ZOrder: layer.ZOrder}
			byZ[layer.ZOrder] = gl
			order = append(order, layer.ZOrder)
		}
		place := func(key string, x, y int, faceLeft bool) error {
			def, ok := defs[key]
			if !ok {
				return fmt.Errorf("levels: %s: layer %q: unknown tile %q at %d,%d", l.Name, layer.Name, key, x, y)
			}
			mirror := l.Tiles[key].Mirror != faceLeft
			gl.Tiles = append(gl.Tiles, grid.TilePlacement{X: x, Y: y, ZOrder: layer.ZOrder, FaceRight: !mirror, Def: def})
			return nil
		}
		for row, line := range layer.Rows {
			for col, ch := range line {
				if ch == '.' || ch == ' ' {
					continue
				}
				if err := place(string(ch), layer.X+col*size, layer.Y+row*size, false); err != nil {
					return nil, err
				}
			}
		}
		for _, p := range layer.Tiles {
			if err := place(p.Tile, p.X, p.Y, p.FaceLeft); err != nil {
				return nil, err
			}
		}
	}
	sort.Ints(order)
	out := make([]grid.Layer, 0, len(order))
	for _, z := range order {
		out = append(out, *byZ[z])
	}
	return out, nil
}

// Build paints a fresh grid level and returns it with its tile layers,
// ready for a grid.Rebuilder.
func (l *Level) Build() (*grid.Level, []grid.Layer, error) {
	layers, err := l.GridLayers()
	if err != nil {
		return nil, nil, err
	}
	out := grid.NewLevel()
	for _, layer := range layers {
		for _, t := range layer.Tiles {
			out.AddTile(t)
		}
	}
	for _, s := range l.Solids {
		r := common.NewRect(s.Rect[0], s.Rect[1], s.Rect[2]-s.Rect[0], s.Rect[3]-s.Rect[1])
		if r.Empty() {
			return nil, nil, fmt.Errorf("levels: %s: empty solid %v", l.Name, s.Rect)
		}
		out.AddRect(grid.SolidRect{Rect: r, Surface: grid.SurfaceInfo{
			Friction: s.Friction, Traction: s.Traction, Damage: s.Damage, Info: s.Info,
		}})
	}
	return out, layers, nil
}
