package anomaly

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/anomaly-exit/internal/core"
	"github.com/vovakirdan/anomaly-exit/internal/rng"
)

// ErrInvalidVariantIndex is returned by SetAnomaly for out-of-range indices.
var ErrInvalidVariantIndex = errors.New("anomaly: invalid variant index")

// Spawner materializes and destroys slot visuals.
type Spawner interface {
	Spawn(prefab PrefabRef, slotID string) *Instance
	Destroy(inst *Instance)
}

// SlotSpec is the static description of a slot.
type SlotSpec struct {
	ID       string
	Home     core.Vec2
	Normal   PrefabRef
	Authored []Authored
}

// Slot is a fixed room position hosting either its normal look or one
// anomaly variant. Exactly one instance is materialized at a time.
type Slot struct {
	spec    SlotSpec
	spawner Spawner
	rnd     rng.Source
	logger  *log.Logger

	position core.Vec2
	scale    core.Vec2

	current *Instance
	variant int // -1 while normal
	active  bool

	onFixed []func(*Slot)
}

// NewSlot creates a slot and materializes its normal variant.
func NewSlot(spec SlotSpec, spawner Spawner, src rng.Source, logger *log.Logger) *Slot {
	s := &Slot{
		spec:     spec,
		spawner:  spawner,
		rnd:      src,
		logger:   logger,
		position: spec.Home,
		scale:    core.V(1, 1),
		variant:  -1,
	}
	s.SetNormal()
	return s
}

// ID returns the stable slot identifier.
func (s *Slot) ID() string {
	return s.spec.ID
}

// Spec returns the static slot description.
func (s *Slot) Spec() SlotSpec {
	return s.spec
}

// VariantCount returns the authored count plus the procedural kinds, or 0
// when the slot has no authored content at all.
func (s *Slot) VariantCount() int {
	if len(s.spec.Authored) == 0 {
		return 0
	}
	return len(s.spec.Authored) + ProceduralCount
}

// Catalog lists every variant in index order: authored first, then
// procedural.
func (s *Slot) Catalog() []VariantSpec {
	n := s.VariantCount()
	out := make([]VariantSpec, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s.variantSpec(i))
	}
	return out
}

func (s *Slot) variantSpec(i int) VariantSpec {
	if i < len(s.spec.Authored) {
		a := s.spec.Authored[i]
		return VariantSpec{Kind: VariantAuthored, Prefab: a.Prefab, Behavior: a.Behavior}
	}
	return proceduralSpec(ProceduralKind(i - len(s.spec.Authored)))
}

// SetAnomaly replaces the current visual with variant i.
// Out-of-range indices are logged and leave the slot untouched.
func (s *Slot) SetAnomaly(i int) error {
	n := s.VariantCount()
	if i < 0 || i >= n {
		s.logger.Warn("variant index out of range", "slot", s.spec.ID, "index", i, "count", n)
		return fmt.Errorf("%w: %d not in [0, %d) for slot %s", ErrInvalidVariantIndex, i, n, s.spec.ID)
	}

	s.destroyCurrent()

	spec := s.variantSpec(i)
	prefab := spec.Prefab
	if spec.Kind == VariantProcedural {
		prefab = s.spec.Normal
	}

	inst := s.spawner.Spawn(prefab, s.spec.ID)
	inst.Variant = spec
	if spec.Kind == VariantProcedural {
		s.applyProcedural(inst, spec)
	}

	s.current = inst
	s.variant = i
	s.active = true
	s.logger.Debug("anomaly set", "slot", s.spec.ID, "index", i, "prefab", prefab)
	return nil
}

func (s *Slot) applyProcedural(inst *Instance, spec VariantSpec) {
	switch spec.Procedural {
	case SizeDown, SizeUp:
		inst.Local.Scale = inst.Local.Scale.Scale(spec.Magnitude)
	case Recolor:
		idx := s.rnd.IntN(len(Palette))
		inst.Tint = Palette[idx]
		inst.Tinted = true
		inst.Variant.Magnitude = float64(idx)
	case Rotate180:
		inst.Local.Rotation += spec.Magnitude
	}
}

// SetNormal replaces the current visual with the normal prefab.
func (s *Slot) SetNormal() {
	s.destroyCurrent()
	inst := s.spawner.Spawn(s.spec.Normal, s.spec.ID)
	inst.Variant = VariantSpec{Kind: VariantNormal, Prefab: s.spec.Normal}
	s.current = inst
	s.variant = -1
	s.active = false
}

func (s *Slot) destroyCurrent() {
	if s.current == nil {
		return
	}
	s.spawner.Destroy(s.current)
	s.current = nil
}

// IsActive reports whether the slot shows anything but its normal look.
func (s *Slot) IsActive() bool {
	return s.active
}

// Variant returns the current variant index, -1 while normal.
func (s *Slot) Variant() int {
	return s.variant
}

// Behavior returns the behavior of the materialized variant.
func (s *Slot) Behavior() Behavior {
	if !s.active || s.current == nil {
		return BehaviorNone
	}
	return s.current.Variant.Behavior
}

// Instance returns the materialized visual.
func (s *Slot) Instance() *Instance {
	return s.current
}

// OnFixed registers fn to run whenever an active anomaly is fixed.
func (s *Slot) OnFixed(fn func(*Slot)) {
	s.onFixed = append(s.onFixed, fn)
}

// FixAnomaly reverts an active slot to normal and notifies listeners.
// Returns false when there was nothing to fix.
func (s *Slot) FixAnomaly() bool {
	if !s.active {
		return false
	}
	s.logger.Debug("anomaly fixed", "slot", s.spec.ID, "index", s.variant)
	s.SetNormal()
	for _, fn := range s.onFixed {
		fn(s)
	}
	return true
}

// Position returns the live root position of the slot.
func (s *Slot) Position() core.Vec2 {
	return s.position
}

// VisualPosition returns where the current instance is drawn: the root
// plus the instance's local offset.
func (s *Slot) VisualPosition() core.Vec2 {
	if s.current == nil {
		return s.position
	}
	return s.position.Add(s.current.Local.Offset)
}

// SetPosition moves the slot root.
func (s *Slot) SetPosition(p core.Vec2) {
	s.position = p
}

// Scale returns the live root scale of the slot.
func (s *Slot) Scale() core.Vec2 {
	return s.scale
}

// SetScale rescales the slot root.
func (s *Slot) SetScale(v core.Vec2) {
	s.scale = v
}
