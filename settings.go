package main

import (
	"encoding/json"
	"log"

	"github.com/milk9111/tilephys/ecs/system"
	"github.com/quasilyte/gdata"
)

const settingsKey = "viewer"

// savedSettings is the viewer state kept between runs.
type savedSettings struct {
	Level     string  `json:"level"`
	Tiles     bool    `json:"tiles"`
	Solids    bool    `json:"solids"`
	Platforms bool    `json:"platforms"`
	Areas     bool    `json:"areas"`
	Labels    bool    `json:"labels"`
	Zoom      float64 `json:"zoom"`
}

type settingsStore struct {
	m *gdata.Manager
}

// openSettings never fails; without storage the viewer just forgets.
func openSettings() *settingsStore {
	m, err := gdata.Open(gdata.Config{AppName: "tilephys"})
	if err != nil {
		log.Printf("Warning: settings storage unavailable: %v", err)
		return &settingsStore{}
	}
	return &settingsStore{m: m}
}

func (s *settingsStore) load() (savedSettings, bool) {
	if s == nil || s.m == nil {
		return savedSettings{}, false
	}
	data, err := s.m.LoadItem(settingsKey)
	if err != nil || data == nil {
		return savedSettings{}, false
	}
	var v savedSettings
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("Warning: could not parse saved settings: %v", err)
		return savedSettings{}, false
	}
	return v, true
}

func (s *settingsStore) save(v savedSettings) {
	if s == nil || s.m == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Warning: could not serialize settings: %v", err)
		return
	}
	if err := s.m.SaveItem(settingsKey, data); err != nil {
		log.Printf("Warning: could not save settings: %v", err)
	}
}

func (v savedSettings) apply(o *system.DebugOverlay) {
	o.Tiles, o.Solids, o.Platforms, o.Areas, o.Labels = v.Tiles, v.Solids, v.Platforms, v.Areas, v.Labels
	if v.Zoom > 0 {
		o.Zoom = v.Zoom
	}
}

func settingsFrom(level string, o *system.DebugOverlay) savedSettings {
	return savedSettings{
		Level:     level,
		Tiles:     o.Tiles,
		Solids:    o.Solids,
		Platforms: o.Platforms,
		Areas:     o.Areas,
		Labels:    o.Labels,
		Zoom:      o.Zoom,
	}
}
