package prefabs

import "gopkg.in/yaml.v3"

// DecodeComponentSpec re-decodes one entry of an object's components map
// into its typed spec.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// Values are centipixels per tick, or per tick squared for acceleration.
type AccelerationComponentSpec struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type VelocityComponentSpec struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type GravityScaleComponentSpec struct {
	Shift int `yaml:"shift"`
}

type PlatformComponentSpec struct {
	MotionX int `yaml:"motion_x"`
}

// PlatformPathComponentSpec points are pixel offsets from the spawn point.
type PlatformPathComponentSpec struct {
	Points []Point `yaml:"points"`
	Ticks  int     `yaml:"ticks"`
	Loop   bool    `yaml:"loop"`
}

type MovementStateComponentSpec struct {
	WalkStairs int  `yaml:"walk_stairs"`
	Underwater bool `yaml:"underwater"`
}

type ParentComponentSpec struct {
	Pivot string `yaml:"pivot"`
	RelX  int    `yaml:"rel_x"`
	RelY  int    `yaml:"rel_y"`
}
