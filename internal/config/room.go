package config

import (
	"github.com/vovakirdan/anomaly-exit/internal/anomaly"
	"github.com/vovakirdan/anomaly-exit/internal/core"
	"github.com/vovakirdan/anomaly-exit/internal/round"
	"github.com/vovakirdan/anomaly-exit/internal/world"
)

// hallwayInset keeps the hallway spawn and door away from its walls.
const hallwayInset = 2

// WorldLayout converts the room geometry into world regions.
// The hallway sits to the right of the room, separated by HallwayGap.
func (c RoomConfig) WorldLayout() world.Layout {
	l := c.Layout
	hallMin := l.Width + l.HallwayGap
	return world.Layout{
		Room:    world.Region{Min: 0, Max: l.Width},
		Hallway: world.Region{Min: hallMin, Max: hallMin + l.HallwayWidth},
		Ceiling: l.Height,
	}
}

// RoundConfig converts rules and door positions into round machine settings.
func (c RoomConfig) RoundConfig() round.Config {
	layout := c.WorldLayout()
	r := c.Rules
	return round.Config{
		MaxRounds:            r.MaxRounds,
		MaxAnomaliesPerRound: r.MaxAnomaliesPerRound,
		ChanceForNoAnomalies: r.ChanceForNoAnomalies,
		ExistentialChance:    r.ExistentialChance,
		ReactiveChance:       r.ReactiveChance,

		Start:       core.V(c.Layout.StartX, 0),
		Hallway:     core.V(layout.Hallway.Min+hallwayInset, 0),
		Entrance:    core.V(c.Layout.EntranceX, 0),
		Exit:        core.V(c.Layout.ExitX, 0),
		HallwayDoor: core.V(layout.Hallway.Max-hallwayInset, 0),

		InteractRange:  r.InteractRange,
		MaxStrikes:     r.MaxStrikes,
		StrikeCooldown: r.StrikeCooldown,

		Reactive: c.Reactive,
	}
}

// SlotSpecs converts the slot list. Unknown behaviors are rejected by
// Validate, so they map to none here.
func (c RoomConfig) SlotSpecs() []anomaly.SlotSpec {
	specs := make([]anomaly.SlotSpec, 0, len(c.Slots))
	for _, s := range c.Slots {
		spec := anomaly.SlotSpec{
			ID:     s.ID,
			Home:   core.V(s.X, s.Y),
			Normal: anomaly.PrefabRef(s.Normal),
		}
		for _, v := range s.Variants {
			b, _ := anomaly.ParseBehavior(v.Behavior)
			spec.Authored = append(spec.Authored, anomaly.Authored{
				Prefab:   anomaly.PrefabRef(v.Prefab),
				Behavior: b,
			})
		}
		specs = append(specs, spec)
	}
	return specs
}

// Prefab returns the art for a prefab. Missing prefabs render as a single
// "?" so a typo stays visible instead of hiding the slot.
func (c RoomConfig) Prefab(ref anomaly.PrefabRef) ([]string, core.Color) {
	p, ok := c.Prefabs[string(ref)]
	if !ok || len(p.Art) == 0 {
		return []string{"?"}, core.ColorBrightMagenta
	}
	col, ok := core.ParseColor(p.Color)
	if !ok {
		col = core.ColorWhite
	}
	return p.Art, col
}
