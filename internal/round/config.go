package round

import (
	"github.com/vovakirdan/anomaly-exit/internal/anomaly"
	"github.com/vovakirdan/anomaly-exit/internal/core"
)

// Config holds the tunables of one room.
type Config struct {
	MaxRounds            int
	MaxAnomaliesPerRound int
	ChanceForNoAnomalies float64 // Never applied to round 1
	ExistentialChance    float64 // Probability of variant 0
	ReactiveChance       float64 // Probability of variant 1 when 0 was not drawn

	Start       core.Vec2 // Player spawn in the room
	Hallway     core.Vec2 // Player spawn in the hallway
	Entrance    core.Vec2
	Exit        core.Vec2
	HallwayDoor core.Vec2

	InteractRange  float64
	MaxStrikes     int
	StrikeCooldown float64 // Scaled seconds

	Reactive anomaly.ReactiveConfig
}

// DefaultConfig returns the stock room rules without geometry.
func DefaultConfig() Config {
	return Config{
		MaxRounds:            8,
		MaxAnomaliesPerRound: 2,
		ChanceForNoAnomalies: 0.2,
		ExistentialChance:    0.15,
		ReactiveChance:       0.25,
		InteractRange:        1.5,
		MaxStrikes:           3,
		StrikeCooldown:       0.75,
		Reactive:             anomaly.DefaultReactiveConfig(),
	}
}
