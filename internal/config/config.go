// Package config provides YAML-based room configuration loading,
// validation and difficulty presets for the anomaly room.
package config

import (
	"github.com/vovakirdan/anomaly-exit/internal/anomaly"
	"github.com/vovakirdan/anomaly-exit/internal/existential"
)

// RoomConfig contains everything needed to build one playable room.
type RoomConfig struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Layout LayoutConfig `yaml:"layout"`
	Rules  RulesConfig  `yaml:"rules"`

	Slots   []SlotConfig            `yaml:"slots"`
	Prefabs map[string]PrefabConfig `yaml:"prefabs"`

	Existential existential.Config     `yaml:"existential"`
	Reactive    anomaly.ReactiveConfig `yaml:"reactive"`
}

// LayoutConfig places the room, its doors and the hallway.
// All x positions are in room units from the left wall; the floor is y=0.
type LayoutConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	HallwayWidth float64 `yaml:"hallway_width"`
	HallwayGap   float64 `yaml:"hallway_gap"` // Distance between the room and the hallway
	StartX       float64 `yaml:"start_x"`
	EntranceX    float64 `yaml:"entrance_x"`
	ExitX        float64 `yaml:"exit_x"`
}

// RulesConfig defines round progression.
type RulesConfig struct {
	MaxRounds            int     `yaml:"max_rounds"`
	MaxAnomaliesPerRound int     `yaml:"max_anomalies_per_round"`
	ChanceForNoAnomalies float64 `yaml:"chance_for_no_anomalies"`
	ExistentialChance    float64 `yaml:"existential_anomaly_chance"`
	ReactiveChance       float64 `yaml:"reactive_anomaly_chance"`
	InteractRange        float64 `yaml:"interact_range"`
	MaxStrikes           int     `yaml:"max_strikes"`
	StrikeCooldown       float64 `yaml:"strike_cooldown"`
}

// SlotConfig describes one anomaly slot.
type SlotConfig struct {
	ID       string          `yaml:"id"`
	X        float64         `yaml:"x"`
	Y        float64         `yaml:"y"`
	Normal   string          `yaml:"normal"`
	Variants []VariantConfig `yaml:"variants"`
}

// VariantConfig is one authored anomaly variant.
type VariantConfig struct {
	Prefab   string `yaml:"prefab"`
	Behavior string `yaml:"behavior"` // "", "existential" or "reactive"
}

// PrefabConfig is the ASCII art of one prefab, bottom row last.
type PrefabConfig struct {
	Art   []string `yaml:"art"`
	Color string   `yaml:"color"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch DifficultyPreset(s) {
	case "", DifficultyNormal:
		return DifficultyNormal, true
	case DifficultyEasy:
		return DifficultyEasy, true
	case DifficultyHard:
		return DifficultyHard, true
	}
	return DifficultyNormal, false
}
