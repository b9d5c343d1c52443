package config

import "math"

// ApplyPreset adjusts the round rules for a difficulty preset.
// Normal leaves the room as authored.
func ApplyPreset(cfg *RoomConfig, preset DifficultyPreset) {
	r := &cfg.Rules
	switch preset {
	case DifficultyEasy:
		r.MaxAnomaliesPerRound = 1
		r.ChanceForNoAnomalies = clampF(r.ChanceForNoAnomalies+0.1, 0, 1)
		r.ExistentialChance = clampF(r.ExistentialChance*0.5, 0, 1)
		r.MaxStrikes = r.MaxStrikes + 2
	case DifficultyHard:
		r.MaxAnomaliesPerRound++
		r.ChanceForNoAnomalies = clampF(r.ChanceForNoAnomalies*0.5, 0, 1)
		r.ExistentialChance = clampF(r.ExistentialChance*1.5, 0, 1)
		if r.MaxStrikes > 1 {
			r.MaxStrikes--
		}
	}
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
