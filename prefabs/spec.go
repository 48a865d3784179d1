package prefabs

import (
	"fmt"
	"strconv"

	"github.com/milk9111/tilephys/common"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// ObjectSpec is one object type. Traits sit at the top level next to the
// frames.
type ObjectSpec struct {
	Name         string         `yaml:"name"`
	Traits       TraitsSpec     `yaml:",inline"`
	DefaultFrame string         `yaml:"default_frame"`
	Frames       []FrameSpec    `yaml:"frames"`
	Components   map[string]any `yaml:"components"`
}

func LoadObjectSpec(filename string) (ObjectSpec, error) {
	return LoadSpec[ObjectSpec](filename)
}

// TraitsSpec holds the per-type physics traits. Friction and traction are
// per mille.
type TraitsSpec struct {
	Friction        int `yaml:"friction"`
	Traction        int `yaml:"traction"`
	TractionInAir   int `yaml:"traction_in_air"`
	TractionInWater int `yaml:"traction_in_water"`
	SurfaceFriction int `yaml:"surface_friction"`
	SurfaceTraction int `yaml:"surface_traction"`
	SurfaceDamage   int `yaml:"surface_damage"`

	FeetWidth     int  `yaml:"feet_width"`
	HasFeet       bool `yaml:"has_feet"`
	SolidPlatform bool `yaml:"solid_platform"`
	Passthrough   bool `yaml:"passthrough"`

	Static                bool `yaml:"static"`
	UseImageForCollisions bool `yaml:"use_image_for_collisions"`
	IgnoreCollide         bool `yaml:"ignore_collide"`
	ObjectLevelCollisions bool `yaml:"object_level_collisions"`
	IgnoreLevelCollisions bool `yaml:"ignore_level_collisions"`
	EditorForceStanding   bool `yaml:"editor_force_standing"`

	SolidDimensions   []string `yaml:"solid_dimensions"`
	CollideDimensions []string `yaml:"collide_dimensions"`
	Script            string   `yaml:"script"`
}

// FrameSpec is the geometry of one animation frame. Solid and platform
// areas are in source pixels and built at twice the size; everything else
// is in frame pixels.
type FrameSpec struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	Solid        *Rect  `yaml:"solid"`
	SolidShape   string `yaml:"solid_shape"`
	SolidOffsets []int  `yaml:"solid_offsets"`

	Platform        *Rect `yaml:"platform"`
	PlatformOffsets []int `yaml:"platform_offsets"`

	Areas  []AreaSpec       `yaml:"areas"`
	Body   *Rect            `yaml:"body"`
	FeetX  int              `yaml:"feet_x"`
	FeetY  int              `yaml:"feet_y"`
	Pivots map[string]Point `yaml:"pivots"`

	Image          string `yaml:"image"`
	ImageRect      *Rect  `yaml:"image_rect"`
	SolidFromImage bool   `yaml:"solid_from_image"`
}

type AreaSpec struct {
	Name         string `yaml:"name"`
	Rect         Rect   `yaml:"rect"`
	NoAlphaCheck bool   `yaml:"no_alpha_check"`
}

// Rect reads either [x, y, w, h] or a mapping with those keys.
type Rect common.Rect

func (r *Rect) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		v, err := intList(value, 4)
		if err != nil {
			return fmt.Errorf("rect: %w", err)
		}
		*r = Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}
		return nil
	case yaml.MappingNode:
		var m struct {
			X int `yaml:"x"`
			Y int `yaml:"y"`
			W int `yaml:"w"`
			H int `yaml:"h"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		*r = Rect{X: m.X, Y: m.Y, W: m.W, H: m.H}
		return nil
	}
	return fmt.Errorf("rect must be a list or a mapping (line %d)", value.Line)
}

func (r Rect) Common() common.Rect { return common.Rect(r) }

// Point reads [x, y].
type Point common.Point

func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("point must be a list (line %d)", value.Line)
	}
	v, err := intList(value, 2)
	if err != nil {
		return fmt.Errorf("point: %w", err)
	}
	*p = Point{X: v[0], Y: v[1]}
	return nil
}

func intList(value *yaml.Node, n int) ([]int, error) {
	if len(value.Content) != n {
		return nil, fmt.Errorf("want %d values, got %d (line %d)", n, len(value.Content), value.Line)
	}
	out := make([]int, n)
	for i, c := range value.Content {
		v, err := strconv.Atoi(c.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", c.Line, err)
		}
		out[i] = v
	}
	return out, nil
}
