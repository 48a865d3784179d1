package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "physics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("air_resistance: 5\neditor: true\nmax_placement_steps: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.AirResistance)
	assert.True(t, cfg.Editor)
	assert.Equal(t, 100, cfg.WaterResistance)
	assert.Equal(t, 1024, cfg.MaxPlacementSteps)
	assert.Equal(t, 64, cfg.BroadphaseCell)
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("air_resistance: [1"))
	require.Error(t, err)
}

func TestLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Physics{LogLevel: tt.name}.Level())
		})
	}
}
