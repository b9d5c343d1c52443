// Package world is the in-memory scene the room runs against: materialized
// slot visuals, global physics and time, the player body, camera and screen
// overlays. It implements every collaborator interface the anomaly, effect
// and round packages consume.
package world

import (
	"sort"

	"github.com/vovakirdan/anomaly-exit/internal/anomaly"
	"github.com/vovakirdan/anomaly-exit/internal/core"
	"github.com/vovakirdan/anomaly-exit/internal/existential"
)

// Default physics values.
const (
	DefaultGravity    = -9.81
	DefaultFixedDelta = 0.02
)

// Region is a horizontal walkable span.
type Region struct {
	Min, Max float64
}

// Contains reports whether x lies inside the span.
func (r Region) Contains(x float64) bool {
	return x >= r.Min && x <= r.Max
}

// Width returns the span length.
func (r Region) Width() float64 {
	return r.Max - r.Min
}

// Layout places the room and the hallway on one horizontal axis.
type Layout struct {
	Room    Region
	Hallway Region
	Ceiling float64 // Height of both areas; the floor is y=0
}

// World holds all mutable scene state.
type World struct {
	layout Layout

	gravity    core.Vec2
	timeScale  float64
	fixedDelta float64

	player *Body

	camera     core.Vec2
	vignette   float64
	chromatic  float64
	saturation float64
	blink      float64
	fade       float64

	nextInstance int
	instances    map[int]*anomaly.Instance

	nextGhost existential.GhostID
	ghosts    map[existential.GhostID]existential.Pose
}

// New creates a world with default physics and a player at start.
func New(layout Layout, start core.Vec2) *World {
	w := &World{
		layout:     layout,
		gravity:    core.V(0, DefaultGravity),
		timeScale:  1,
		fixedDelta: DefaultFixedDelta,
		instances:  make(map[int]*anomaly.Instance),
		ghosts:     make(map[existential.GhostID]existential.Pose),
	}
	w.player = NewBody(start)
	return w
}

// Layout returns the static geometry.
func (w *World) Layout() Layout {
	return w.layout
}

// Player returns the player body.
func (w *World) Player() *Body {
	return w.player
}

// Step advances player physics by one fixed step.
func (w *World) Step(in BodyInput) {
	region := w.layout.Room
	if w.layout.Hallway.Contains(w.player.pos.X) {
		region = w.layout.Hallway
	}
	w.player.Step(in, w.gravity.Y, w.fixedDelta, region, w.layout.Ceiling)
}

// InHallway reports whether the player stands in the hallway.
func (w *World) InHallway() bool {
	return w.layout.Hallway.Contains(w.player.pos.X)
}

// Spawn materializes a slot visual.
func (w *World) Spawn(prefab anomaly.PrefabRef, slotID string) *anomaly.Instance {
	w.nextInstance++
	inst := &anomaly.Instance{
		ID:      w.nextInstance,
		SlotID:  slotID,
		Prefab:  prefab,
		Local:   anomaly.Identity(),
		Visible: true,
	}
	w.instances[inst.ID] = inst
	return inst
}

// Destroy removes a slot visual. Unknown instances are ignored.
func (w *World) Destroy(inst *anomaly.Instance) {
	if inst == nil {
		return
	}
	delete(w.instances, inst.ID)
}

// Instances returns the live visuals ordered by id.
func (w *World) Instances() []*anomaly.Instance {
	out := make([]*anomaly.Instance, 0, len(w.instances))
	for _, inst := range w.instances {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// InstanceCount returns how many visuals are materialized for a slot.
func (w *World) InstanceCount(slotID string) int {
	n := 0
	for _, inst := range w.instances {
		if inst.SlotID == slotID {
			n++
		}
	}
	return n
}

func (w *World) Gravity() core.Vec2      { return w.gravity }
func (w *World) SetGravity(g core.Vec2)  { w.gravity = g }
func (w *World) TimeScale() float64      { return w.timeScale }
func (w *World) SetTimeScale(s float64)  { w.timeScale = s }
func (w *World) FixedDelta() float64     { return w.fixedDelta }
func (w *World) SetFixedDelta(d float64) { w.fixedDelta = d }
func (w *World) Offset() core.Vec2       { return w.camera }
func (w *World) SetOffset(o core.Vec2)   { w.camera = o }
func (w *World) Vignette() float64       { return w.vignette }
func (w *World) SetVignette(v float64)   { w.vignette = v }
func (w *World) Chromatic() float64      { return w.chromatic }
func (w *World) SetChromatic(v float64)  { w.chromatic = v }
func (w *World) Saturation() float64     { return w.saturation }
func (w *World) SetSaturation(v float64) { w.saturation = v }
func (w *World) BlinkAlpha() float64     { return w.blink }
func (w *World) SetBlinkAlpha(a float64) { w.blink = a }
func (w *World) FadeAlpha() float64      { return w.fade }
func (w *World) SetFadeAlpha(a float64)  { w.fade = a }

// SpawnGhost creates an echo ghost at p.
func (w *World) SpawnGhost(p existential.Pose) existential.GhostID {
	w.nextGhost++
	w.ghosts[w.nextGhost] = p
	return w.nextGhost
}

// MoveGhost updates a ghost pose.
func (w *World) MoveGhost(id existential.GhostID, p existential.Pose) {
	if _, ok := w.ghosts[id]; ok {
		w.ghosts[id] = p
	}
}

// DestroyGhost removes a ghost.
func (w *World) DestroyGhost(id existential.GhostID) {
	delete(w.ghosts, id)
}

// Ghosts returns the live ghost poses.
func (w *World) Ghosts() []existential.Pose {
	ids := make([]int, 0, len(w.ghosts))
	for id := range w.ghosts {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	out := make([]existential.Pose, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.ghosts[existential.GhostID(id)])
	}
	return out
}
