package levels

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/lafriks/go-tiled"
)

// Object groups read from Tiled maps.
const (
	SolidsGroup = "solids"
	SpawnsGroup = "spawns"
)

// LoadTMX converts a Tiled map into a Level. Tiles are keyed by tileset
// name and local id. Tileset tile properties give the solidity: solid is a
// comma separated list of grid shapes, with passthrough, friction,
// traction, damage and info alongside. A layer's zorder property sets its
// z-order.
func LoadTMX(fsys fs.FS, name string) (*Level, error) {
	m, err := tiled.LoadFile(name, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("levels: load TMX %s: %w", name, err)
	}
	if m.TileWidth != m.TileHeight {
		return nil, fmt.Errorf("levels: %s: tiles must be square, got %dx%d", name, m.TileWidth, m.TileHeight)
	}

	base := path.Base(name)
	lvl := &Level{
		Name:     strings.TrimSuffix(base, path.Ext(base)),
		TileSize: m.TileWidth,
		Tiles:    map[string]TileSpec{},
	}

	for _, layer := range m.Layers {
		out := Layer{Name: layer.Name, ZOrder: layer.Properties.GetInt("zorder")}
		for i, t := range layer.Tiles {
			if t == nil || t.IsNil() || t.Tileset == nil {
				continue
			}
			key := fmt.Sprintf("%s:%d", t.Tileset.Name, t.ID)
			if _, ok := lvl.Tiles[key]; !ok {
				lvl.Tiles[key] = tmxTileSpec(t)
			}
			x := (i % m.Width) * m.TileWidth
			// Tiled anchors tiles taller than the grid at the bottom of the cell.
			y := (i/m.Width)*m.TileHeight + m.TileHeight - t.Tileset.TileHeight
			out.Tiles = append(out.Tiles, Placement{Tile: key, X: x, Y: y, FaceLeft: t.HorizontalFlip})
		}
		lvl.Layers = append(lvl.Layers, out)
	}

	for _, og := range m.ObjectGroups {
		switch og.Name {
		case SolidsGroup:
			for _, o := range og.Objects {
				x, y := int(o.X), int(o.Y)
				lvl.Solids = append(lvl.Solids, SolidSpec{
					Rect:     [4]int{x, y, x + int(o.Width), y + int(o.Height)},
					Friction: o.Properties.GetInt("friction"),
					Traction: o.Properties.GetInt("traction"),
					Damage:   o.Properties.GetInt("damage"),
					Info:     o.Properties.GetString("info"),
				})
			}
		case SpawnsGroup:
			for _, o := range og.Objects {
				typ := o.Properties.GetString("type")
				if typ == "" {
					typ = o.Name
				}
				lvl.Spawns = append(lvl.Spawns, Spawn{
					Type:     typ,
					X:        int(o.X),
					Y:        int(o.Y),
					FaceLeft: o.Properties.GetBool("face_left"),
				})
			}
		}
	}
	return lvl, nil
}

func tmxTileSpec(t *tiled.LayerTile) TileSpec {
	spec := TileSpec{Width: t.Tileset.TileWidth, Height: t.Tileset.TileHeight}
	tt, err := t.Tileset.GetTilesetTile(t.ID)
	if err != nil || tt == nil {
		return spec
	}
	p := tt.Properties
	for _, s := range strings.Split(p.GetString("solid"), ",") {
		switch s = strings.TrimSpace(s); s {
		case "":
		case "true":
			spec.Shapes = append(spec.Shapes, "solid")
		default:
			spec.Shapes = append(spec.Shapes, s)
		}
	}
	spec.Passthrough = p.GetBool("passthrough")
	spec.Friction = p.GetInt("friction")
	spec.Traction = p.GetInt("traction")
	spec.Damage = p.GetInt("damage")
	spec.Info = p.GetString("info")
	return spec
}
