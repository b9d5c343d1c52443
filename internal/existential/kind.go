// Package existential runs the room-wide effect set of an existential
// anomaly: a weighted number of distinct environmental distortions that run
// concurrently on a task scheduler and are reverted together.
package existential

import "strings"

// Kind identifies one effect in the catalog.
type Kind int

const (
	GravityIncrease Kind = iota
	GravityDecrease
	PlayerShrink
	PlayerGrow
	ObjectShake
	ObjectAvoid
	AnomalyGrow
	TimeAccelerate
	TimeSlow
	NoFriction
	MusicVariant
	ReverseControls
	PostProcessingIntensify
	PostProcessingVignette
	PostProcessingChromatic
	Desaturate
	EchoShadow
	HeartbeatCameraShake
	SlowBlink

	kindCount
)

// KindCount is the size of the catalog.
const KindCount = int(kindCount)

var kindNames = [...]string{
	GravityIncrease:         "gravity-increase",
	GravityDecrease:         "gravity-decrease",
	PlayerShrink:            "player-shrink",
	PlayerGrow:              "player-grow",
	ObjectShake:             "object-shake",
	ObjectAvoid:             "object-avoid",
	AnomalyGrow:             "anomaly-grow",
	TimeAccelerate:          "time-accelerate",
	TimeSlow:                "time-slow",
	NoFriction:              "no-friction",
	MusicVariant:            "music-variant",
	ReverseControls:         "reverse-controls",
	PostProcessingIntensify: "pp-intensify",
	PostProcessingVignette:  "pp-vignette",
	PostProcessingChromatic: "pp-chromatic",
	Desaturate:              "desaturate",
	EchoShadow:              "echo-shadow",
	HeartbeatCameraShake:    "heartbeat",
	SlowBlink:               "slow-blink",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind resolves a config name. Matching ignores case.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// AllKinds returns the catalog in declaration order.
func AllKinds() []Kind {
	out := make([]Kind, KindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Instant reports whether the effect is applied once at activation instead
// of running as a task.
func (k Kind) Instant() bool {
	switch k {
	case NoFriction, MusicVariant, ReverseControls:
		return true
	}
	return false
}
