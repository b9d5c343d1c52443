package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/anomaly-exit/internal/anomaly"
	"github.com/vovakirdan/anomaly-exit/internal/existential"
)

// ErrInvalidRoom is returned for room data that cannot be played.
var ErrInvalidRoom = errors.New("config: invalid room")

func invalid(id, format string, args ...any) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidRoom, id, fmt.Sprintf(format, args...))
}

// Validate checks the room for structural problems.
func (c RoomConfig) Validate() error {
	l := c.Layout
	switch {
	case l.Width <= 0 || l.Height <= 0 || l.HallwayWidth <= 0:
		return invalid(c.ID, "room and hallway dimensions must be positive")
	case l.HallwayGap < 0:
		return invalid(c.ID, "hallway gap must not be negative")
	case !within(l.StartX, l.Width) || !within(l.EntranceX, l.Width) || !within(l.ExitX, l.Width):
		return invalid(c.ID, "start and doors must lie inside the room")
	}

	r := c.Rules
	switch {
	case r.MaxRounds <= 0:
		return invalid(c.ID, "max_rounds must be positive, got %d", r.MaxRounds)
	case r.MaxAnomaliesPerRound < 1:
		return invalid(c.ID, "max_anomalies_per_round must be at least 1, got %d", r.MaxAnomaliesPerRound)
	case !probability(r.ChanceForNoAnomalies) || !probability(r.ExistentialChance) || !probability(r.ReactiveChance):
		return invalid(c.ID, "chances must lie in [0, 1]")
	case r.InteractRange <= 0:
		return invalid(c.ID, "interact_range must be positive")
	case r.MaxStrikes < 0 || r.StrikeCooldown < 0:
		return invalid(c.ID, "strike settings must not be negative")
	}

	if len(c.Slots) == 0 {
		return invalid(c.ID, "no slots")
	}
	seen := make(map[string]bool, len(c.Slots))
	for _, s := range c.Slots {
		if s.ID == "" {
			return invalid(c.ID, "slot without id")
		}
		if seen[s.ID] {
			return invalid(c.ID, "duplicate slot id %q", s.ID)
		}
		seen[s.ID] = true
		if s.Normal == "" {
			return invalid(c.ID, "slot %q has no normal prefab", s.ID)
		}
		if !within(s.X, l.Width) || s.Y < 0 || s.Y >= l.Height {
			return invalid(c.ID, "slot %q lies outside the room", s.ID)
		}
		for _, v := range s.Variants {
			if v.Prefab == "" {
				return invalid(c.ID, "slot %q has a variant without prefab", s.ID)
			}
			if _, ok := anomaly.ParseBehavior(v.Behavior); !ok {
				return invalid(c.ID, "slot %q: unknown behavior %q", s.ID, v.Behavior)
			}
		}
	}

	if f := c.Existential.Force; f != "" {
		if _, ok := existential.ParseKind(f); !ok {
			return invalid(c.ID, "unknown force_effect %q", f)
		}
	}
	if c.Existential.ActivationDelayMin < 0 || c.Existential.ActivationDelayMax < c.Existential.ActivationDelayMin {
		return invalid(c.ID, "activation delay range is empty")
	}
	return nil
}

func within(x, width float64) bool {
	return x >= 0 && x <= width
}

func probability(p float64) bool {
	return p >= 0 && p <= 1
}
