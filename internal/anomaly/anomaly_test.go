package anomaly

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/anomaly-exit/internal/core"
	"github.com/vovakirdan/anomaly-exit/internal/rng"
	"github.com/vovakirdan/anomaly-exit/internal/task"
)

// fakeSpawner tracks live instances per slot.
type fakeSpawner struct {
	next  int
	alive map[string]int
	total int
}

func newFakeSpawner() *fakeSpawner {
	return &fakeSpawner{alive: make(map[string]int)}
}

func (f *fakeSpawner) Spawn(prefab PrefabRef, slotID string) *Instance {
	f.next++
	f.alive[slotID]++
	f.total++
	return &Instance{ID: f.next, SlotID: slotID, Prefab: prefab, Local: Identity(), Visible: true}
}

func (f *fakeSpawner) Destroy(inst *Instance) {
	f.alive[inst.SlotID]--
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func twoVariantSpec(id string) SlotSpec {
	return SlotSpec{
		ID:     id,
		Home:   core.V(10, 0),
		Normal: "desk",
		Authored: []Authored{
			{Prefab: "desk_void", Behavior: BehaviorExistential},
			{Prefab: "desk_eyes", Behavior: BehaviorReactive},
		},
	}
}

func TestVariantCount(t *testing.T) {
	sp := newFakeSpawner()
	src := rng.New(1)

	withAuthored := NewSlot(twoVariantSpec("desk"), sp, src, quietLogger())
	if got := withAuthored.VariantCount(); got != 6 {
		t.Errorf("VariantCount() with 2 authored = %d, expected 6", got)
	}

	empty := NewSlot(SlotSpec{ID: "plant", Normal: "plant"}, sp, src, quietLogger())
	if got := empty.VariantCount(); got != 0 {
		t.Errorf("VariantCount() with no authored variants = %d, expected 0", got)
	}
	if err := empty.SetAnomaly(0); !errors.Is(err, ErrInvalidVariantIndex) {
		t.Errorf("SetAnomaly on empty slot err = %v, expected ErrInvalidVariantIndex", err)
	}
}

func TestCatalogIndexSpace(t *testing.T) {
	s := NewSlot(twoVariantSpec("desk"), newFakeSpawner(), rng.New(1), quietLogger())
	cat := s.Catalog()

	if len(cat) != 6 {
		t.Fatalf("catalog length = %d, expected 6", len(cat))
	}
	for i := 0; i < 2; i++ {
		if cat[i].Kind != VariantAuthored {
			t.Errorf("catalog[%d] kind = %v, expected authored", i, cat[i].Kind)
		}
	}
	for i, kind := range []ProceduralKind{SizeDown, SizeUp, Recolor, Rotate180} {
		if cat[2+i].Kind != VariantProcedural || cat[2+i].Procedural != kind {
			t.Errorf("catalog[%d] = %+v, expected procedural %v", 2+i, cat[2+i], kind)
		}
	}
}

func TestSetAnomalyOutOfRangeKeepsState(t *testing.T) {
	sp := newFakeSpawner()
	s := NewSlot(twoVariantSpec("desk"), sp, rng.New(1), quietLogger())
	before := s.Instance()

	for _, idx := range []int{-1, 6, 99} {
		err := s.SetAnomaly(idx)
		if !errors.Is(err, ErrInvalidVariantIndex) {
			t.Errorf("SetAnomaly(%d) err = %v, expected ErrInvalidVariantIndex", idx, err)
		}
	}
	if s.Instance() != before || s.IsActive() {
		t.Error("invalid SetAnomaly changed slot state")
	}
	if sp.total != 1 {
		t.Errorf("invalid SetAnomaly spawned instances, total = %d", sp.total)
	}
}

func TestSetAnomalyThenNormalKeepsOneInstance(t *testing.T) {
	for idx := 0; idx < 6; idx++ {
		sp := newFakeSpawner()
		s := NewSlot(twoVariantSpec("desk"), sp, rng.New(int64(idx)), quietLogger())

		if err := s.SetAnomaly(idx); err != nil {
			t.Fatalf("SetAnomaly(%d) failed: %v", idx, err)
		}
		if sp.alive["desk"] != 1 {
			t.Errorf("after SetAnomaly(%d) alive = %d, expected 1", idx, sp.alive["desk"])
		}
		if !s.IsActive() {
			t.Errorf("SetAnomaly(%d) should mark the slot active", idx)
		}

		s.SetNormal()
		if sp.alive["desk"] != 1 {
			t.Errorf("after SetNormal alive = %d, expected 1", sp.alive["desk"])
		}
		if s.IsActive() {
			t.Error("SetNormal should clear active")
		}
	}
}

func TestProceduralTransforms(t *testing.T) {
	tests := []struct {
		name  string
		index int
		check func(t *testing.T, inst *Instance)
	}{
		{"size down", 2, func(t *testing.T, inst *Instance) {
			if inst.Local.Scale != core.V(SizeDownFactor, SizeDownFactor) {
				t.Errorf("scale = %v", inst.Local.Scale)
			}
		}},
		{"size up", 3, func(t *testing.T, inst *Instance) {
			if inst.Local.Scale != core.V(SizeUpFactor, SizeUpFactor) {
				t.Errorf("scale = %v", inst.Local.Scale)
			}
		}},
		{"recolor", 4, func(t *testing.T, inst *Instance) {
			if !inst.Tinted || inst.Tint != Palette[3] {
				t.Errorf("tint = %v (tinted %v), expected palette[3]", inst.Tint, inst.Tinted)
			}
		}},
		{"rotate", 5, func(t *testing.T, inst *Instance) {
			if !inst.Local.Mirrored() {
				t.Errorf("rotation %f should mirror the visual", inst.Local.Rotation)
			}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := rng.NewScripted(nil, []int{3})
			s := NewSlot(twoVariantSpec("desk"), newFakeSpawner(), src, quietLogger())
			if err := s.SetAnomaly(tc.index); err != nil {
				t.Fatalf("SetAnomaly failed: %v", err)
			}
			inst := s.Instance()
			if inst.Prefab != "desk" {
				t.Errorf("procedural variant prefab = %q, expected the normal prefab", inst.Prefab)
			}
			tc.check(t, inst)
		})
	}
}

func TestBehaviorFollowsVariant(t *testing.T) {
	s := NewSlot(twoVariantSpec("desk"), newFakeSpawner(), rng.New(1), quietLogger())

	if s.Behavior() != BehaviorNone {
		t.Error("normal slot should have no behavior")
	}
	_ = s.SetAnomaly(0)
	if s.Behavior() != BehaviorExistential {
		t.Errorf("variant 0 behavior = %v, expected existential", s.Behavior())
	}
	_ = s.SetAnomaly(1)
	if s.Behavior() != BehaviorReactive {
		t.Errorf("variant 1 behavior = %v, expected reactive", s.Behavior())
	}
	_ = s.SetAnomaly(2)
	if s.Behavior() != BehaviorNone {
		t.Errorf("procedural behavior = %v, expected none", s.Behavior())
	}
}

func TestFixAnomaly(t *testing.T) {
	s := NewSlot(twoVariantSpec("desk"), newFakeSpawner(), rng.New(1), quietLogger())
	fixed := 0
	s.OnFixed(func(*Slot) { fixed++ })

	if s.FixAnomaly() {
		t.Error("FixAnomaly on a normal slot should be a no-op")
	}
	_ = s.SetAnomaly(3)
	if !s.FixAnomaly() {
		t.Error("FixAnomaly on an active slot should succeed")
	}
	if s.IsActive() {
		t.Error("fixed slot should be normal")
	}
	if fixed != 1 {
		t.Errorf("fixed listeners ran %d times, expected 1", fixed)
	}
}

func TestBagNoRepeatsUntilRefill(t *testing.T) {
	sp := newFakeSpawner()
	src := rng.New(99)
	slots := []*Slot{
		NewSlot(twoVariantSpec("a"), sp, src, quietLogger()),
		NewSlot(twoVariantSpec("b"), sp, src, quietLogger()),
		NewSlot(twoVariantSpec("c"), sp, src, quietLogger()),
		NewSlot(twoVariantSpec("d"), sp, src, quietLogger()),
	}

	bag := NewBag(src)
	for round := 0; round < 3; round++ {
		bag.Fill(slots)
		if bag.Count() != len(slots) {
			t.Fatalf("Count() after Fill = %d, expected %d", bag.Count(), len(slots))
		}

		seen := make(map[string]bool)
		for i := 0; i < len(slots); i++ {
			s, err := bag.Dequeue()
			if err != nil {
				t.Fatalf("Dequeue %d failed: %v", i, err)
			}
			if seen[s.ID()] {
				t.Fatalf("slot %s dequeued twice before refill", s.ID())
			}
			seen[s.ID()] = true
		}

		if !bag.IsEmpty() {
			t.Error("bag should be empty after N dequeues")
		}
		if _, err := bag.Dequeue(); !errors.Is(err, ErrEmptyBag) {
			t.Errorf("Dequeue on empty bag err = %v, expected ErrEmptyBag", err)
		}
	}
}

func TestBagFillDoesNotAliasInput(t *testing.T) {
	sp := newFakeSpawner()
	src := rng.New(5)
	slots := []*Slot{
		NewSlot(twoVariantSpec("a"), sp, src, quietLogger()),
		NewSlot(twoVariantSpec("b"), sp, src, quietLogger()),
	}
	bag := NewBag(src)
	bag.Fill(slots)
	_, _ = bag.Dequeue()

	if slots[0] == nil || slots[1] == nil {
		t.Error("Dequeue should not clear the caller's slice")
	}
}

func TestReactiveTeleportOnce(t *testing.T) {
	s := NewSlot(twoVariantSpec("desk"), newFakeSpawner(), rng.New(1), quietLogger())
	_ = s.SetAnomaly(1)
	cfg := DefaultReactiveConfig()
	r := NewReactive(s, TeleportOnce, cfg)
	frame := task.Frame{Delta: 0.125, Unscaled: 0.125}

	r.Update(frame, core.V(0, 0))
	if s.Instance().Local.Offset != (core.Vec2{}) {
		t.Fatal("teleport triggered with the player far away")
	}

	r.Update(frame, s.Position())
	if s.Instance().Local.Offset != cfg.TeleportOffset {
		t.Errorf("offset = %v, expected teleport offset %v", s.Instance().Local.Offset, cfg.TeleportOffset)
	}

	// Leaving and re-entering does not teleport again
	s.Instance().Local.Offset = core.V(1, 1)
	r.Update(frame, core.V(-50, 0))
	r.Update(frame, s.Position())
	if s.Instance().Local.Offset != core.V(1, 1) {
		t.Error("teleport fired twice")
	}
}

func TestReactiveFlickerRestoresVisibility(t *testing.T) {
	s := NewSlot(twoVariantSpec("desk"), newFakeSpawner(), rng.New(1), quietLogger())
	_ = s.SetAnomaly(1)
	r := NewReactive(s, FlickerWhileNearby, DefaultReactiveConfig())
	frame := task.Frame{Delta: 0.0625, Unscaled: 0.0625}

	r.Update(frame, s.Position())
	if s.Instance().Visible {
		t.Fatal("entering the trigger should toggle visibility")
	}
	r.Update(frame, core.V(-50, 0))
	if !s.Instance().Visible {
		t.Error("leaving the trigger should restore visibility")
	}
}

func TestReactiveShakeReturnsToOrigin(t *testing.T) {
	s := NewSlot(twoVariantSpec("desk"), newFakeSpawner(), rng.New(1), quietLogger())
	_ = s.SetAnomaly(1)
	r := NewReactive(s, ShakeWhileNearby, DefaultReactiveConfig())
	frame := task.Frame{Delta: 0.125, Unscaled: 0.125}

	for i := 0; i < 5; i++ {
		r.Update(frame, s.Position())
	}
	if s.Instance().Local.Offset == (core.Vec2{}) {
		t.Error("shake should displace the instance while the player is near")
	}
	r.Update(frame, core.V(-50, 0))
	if s.Instance().Local.Offset != (core.Vec2{}) {
		t.Errorf("offset after leaving = %v, expected origin", s.Instance().Local.Offset)
	}
}

func TestReactiveUnboundAfterVariantChange(t *testing.T) {
	s := NewSlot(twoVariantSpec("desk"), newFakeSpawner(), rng.New(1), quietLogger())
	_ = s.SetAnomaly(1)
	r := NewReactive(s, TeleportOnce, DefaultReactiveConfig())

	s.SetNormal()
	if r.Bound() {
		t.Error("reactive should unbind once the slot shows another instance")
	}
	r.Update(task.Frame{Delta: 0.1}, s.Position())
	if s.Instance().Local.Offset != (core.Vec2{}) {
		t.Error("unbound reactive touched the new instance")
	}
}
