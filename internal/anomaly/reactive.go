package anomaly

import (
	"math"

	"github.com/vovakirdan/anomaly-exit/internal/core"
	"github.com/vovakirdan/anomaly-exit/internal/rng"
	"github.com/vovakirdan/anomaly-exit/internal/task"
)

// ReactiveKind is the way a reactive variant responds to the player.
type ReactiveKind int

const (
	TeleportOnce ReactiveKind = iota
	ShakeWhileNearby
	FlickerWhileNearby

	reactiveKindCount
)

func (k ReactiveKind) String() string {
	switch k {
	case TeleportOnce:
		return "teleport-once"
	case ShakeWhileNearby:
		return "shake-nearby"
	case FlickerWhileNearby:
		return "flicker-nearby"
	default:
		return "unknown"
	}
}

// ReactiveConfig tunes reactive behaviors.
type ReactiveConfig struct {
	TriggerRadius   float64   `yaml:"trigger_radius"`
	TeleportOffset  core.Vec2 `yaml:"teleport_offset"`
	ShakeIntensity  float64   `yaml:"shake_intensity"`
	ShakeSpeed      float64   `yaml:"shake_speed"`
	FlickerInterval float64   `yaml:"flicker_interval"`
}

// DefaultReactiveConfig returns the stock tuning.
func DefaultReactiveConfig() ReactiveConfig {
	return ReactiveConfig{
		TriggerRadius:   2,
		TeleportOffset:  core.V(6, 0),
		ShakeIntensity:  0.1,
		ShakeSpeed:      20,
		FlickerInterval: 0.1,
	}
}

// PickReactiveKind draws one behavior uniformly.
func PickReactiveKind(src rng.Source) ReactiveKind {
	return ReactiveKind(src.IntN(int(reactiveKindCount)))
}

// Reactive drives a reactive variant's instance from player proximity.
// It only touches the instance's local transform and visibility, never the
// slot root, so it composes with room-wide effects.
type Reactive struct {
	kind ReactiveKind
	cfg  ReactiveConfig
	slot *Slot
	inst *Instance

	inside     bool
	teleported bool
	origin     core.Vec2
	clock      float64
	flicker    float64
}

// NewReactive binds a behavior to the slot's current instance.
func NewReactive(slot *Slot, kind ReactiveKind, cfg ReactiveConfig) *Reactive {
	return &Reactive{kind: kind, cfg: cfg, slot: slot, inst: slot.Instance()}
}

// Kind returns the chosen behavior.
func (r *Reactive) Kind() ReactiveKind {
	return r.kind
}

// Bound reports whether the slot still shows the instance this behavior
// was created for.
func (r *Reactive) Bound() bool {
	return r.inst != nil && r.slot.Instance() == r.inst
}

// Update reacts to the player's position for one frame.
func (r *Reactive) Update(f task.Frame, player core.Vec2) {
	if !r.Bound() {
		return
	}
	r.clock += f.Delta

	near := player.Sub(r.slot.Position()).Len() <= r.cfg.TriggerRadius
	switch {
	case near && !r.inside:
		r.inside = true
		r.enter()
	case !near && r.inside:
		r.inside = false
		r.exit()
	}

	if !r.inside {
		return
	}

	switch r.kind {
	case ShakeWhileNearby:
		r.inst.Local.Offset = r.origin.Add(core.V(
			math.Sin(r.clock*r.cfg.ShakeSpeed)*r.cfg.ShakeIntensity,
			math.Cos(r.clock*r.cfg.ShakeSpeed)*r.cfg.ShakeIntensity,
		))
	case FlickerWhileNearby:
		r.flicker += f.Delta
		if r.flicker >= r.cfg.FlickerInterval {
			r.flicker = 0
			r.inst.Visible = !r.inst.Visible
		}
	}
}

func (r *Reactive) enter() {
	switch r.kind {
	case TeleportOnce:
		if !r.teleported {
			r.inst.Local.Offset = r.cfg.TeleportOffset
			r.teleported = true
		}
	case ShakeWhileNearby:
		r.origin = r.inst.Local.Offset
	case FlickerWhileNearby:
		r.flicker = 0
		r.inst.Visible = !r.inst.Visible
	}
}

func (r *Reactive) exit() {
	switch r.kind {
	case ShakeWhileNearby:
		r.inst.Local.Offset = r.origin
	case FlickerWhileNearby:
		r.inst.Visible = true
	}
}
