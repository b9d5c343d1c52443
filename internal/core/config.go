package core

// RuntimeConfig contains configuration passed to a room at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickSeconds returns the length of one simulation tick in seconds.
func (c RuntimeConfig) TickSeconds() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

// GameState is the status a room reports to the platform after each tick.
type GameState struct {
	Round    int  // Rounds cleared in the current playthrough
	Best     int  // Highest round reached this session
	Fixes    int  // Anomalies fixed in the current playthrough
	Strikes  int  // Invalid interactions since the last round start
	GameOver bool // Whether the playthrough has ended
	Won      bool // Whether the playthrough ended by clearing every round
	Paused   bool // Whether the room is paused
}

// StepResult is returned by Step() after each simulation tick.
type StepResult struct {
	State GameState
}
