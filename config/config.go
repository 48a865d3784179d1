package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Physics holds the simulation tunables. Resistances are per mille.
type Physics struct {
	AirResistance     int    `yaml:"air_resistance"`
	WaterResistance   int    `yaml:"water_resistance"`
	Editor            bool   `yaml:"editor"`
	LogLevel          string `yaml:"log_level"`
	MaxPlacementSteps int    `yaml:"max_placement_steps"`
	BroadphaseCell    int    `yaml:"broadphase_cell"`
}

func Default() Physics {
	return Physics{
		AirResistance:     20,
		WaterResistance:   100,
		LogLevel:          "info",
		MaxPlacementSteps: 1024,
		BroadphaseCell:    64,
	}
}

// Load reads a YAML config file over the defaults. A missing file yields
// the defaults.
func Load(path string) (Physics, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Physics{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Physics{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Keys left out keep their default.
func Parse(data []byte) (Physics, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Physics{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if cfg.MaxPlacementSteps <= 0 {
		cfg.MaxPlacementSteps = Default().MaxPlacementSteps
	}
	if cfg.BroadphaseCell <= 0 {
		cfg.BroadphaseCell = Default().BroadphaseCell
	}
	return cfg, nil
}

// Level maps LogLevel to a slog level. Unknown names are info.
func (p Physics) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(p.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger writing to w at the configured level.
func (p Physics) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: p.Level()}))
}
