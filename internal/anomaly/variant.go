// Package anomaly models the room slots that can host an anomaly: the
// variant catalog of each slot, the slot itself, the shuffle bag that picks
// slots each round, and the reactive behaviors some authored variants carry.
package anomaly

import (
	"github.com/vovakirdan/anomaly-exit/internal/core"
)

// PrefabRef names a visual the spawner knows how to materialize.
type PrefabRef string

// Behavior is extra logic an authored variant carries besides its looks.
type Behavior int

const (
	BehaviorNone Behavior = iota
	BehaviorExistential
	BehaviorReactive
)

// String returns the config name of the behavior.
func (b Behavior) String() string {
	switch b {
	case BehaviorExistential:
		return "existential"
	case BehaviorReactive:
		return "reactive"
	default:
		return "none"
	}
}

// ParseBehavior converts a config name into a Behavior.
func ParseBehavior(s string) (Behavior, bool) {
	switch s {
	case "", "none":
		return BehaviorNone, true
	case "existential":
		return BehaviorExistential, true
	case "reactive":
		return BehaviorReactive, true
	}
	return BehaviorNone, false
}

// VariantKind tags the VariantSpec union.
type VariantKind int

const (
	VariantNormal VariantKind = iota
	VariantAuthored
	VariantProcedural
)

// ProceduralKind enumerates the generated variants every non-empty slot offers.
type ProceduralKind int

const (
	SizeDown ProceduralKind = iota
	SizeUp
	Recolor
	Rotate180
)

// ProceduralCount is the number of procedural kinds appended after the
// authored variants.
const ProceduralCount = 4

// Scale factors applied by the size variants.
const (
	SizeDownFactor = 0.5
	SizeUpFactor   = 1.6
)

func (k ProceduralKind) String() string {
	switch k {
	case SizeDown:
		return "size-down"
	case SizeUp:
		return "size-up"
	case Recolor:
		return "recolor"
	case Rotate180:
		return "rotate-180"
	default:
		return "unknown"
	}
}

// Palette is the fixed, ordered set of recolor targets.
var Palette = []core.Color{
	core.ColorRed,
	core.ColorGreen,
	core.ColorYellow,
	core.ColorBlue,
	core.ColorMagenta,
	core.ColorCyan,
	core.ColorOrange,
	core.ColorPink,
	core.ColorTeal,
	core.ColorBrightRed,
	core.ColorBrightGreen,
	core.ColorBrightBlue,
}

// Authored is a designer-made anomaly variant.
type Authored struct {
	Prefab   PrefabRef
	Behavior Behavior
}

// VariantSpec describes one appearance a slot can materialize.
type VariantSpec struct {
	Kind       VariantKind
	Prefab     PrefabRef      // Authored and normal variants
	Behavior   Behavior       // Authored only
	Procedural ProceduralKind // Procedural only
	Magnitude  float64        // Scale factor or rotation in degrees
}

// proceduralSpec returns the spec of a generated variant.
func proceduralSpec(kind ProceduralKind) VariantSpec {
	spec := VariantSpec{Kind: VariantProcedural, Procedural: kind}
	switch kind {
	case SizeDown:
		spec.Magnitude = SizeDownFactor
	case SizeUp:
		spec.Magnitude = SizeUpFactor
	case Rotate180:
		spec.Magnitude = 180
	}
	return spec
}

// Transform is a local placement relative to the owning slot.
type Transform struct {
	Offset   core.Vec2
	Scale    core.Vec2
	Rotation float64 // Degrees about the local up axis
}

// Identity is the untransformed local placement.
func Identity() Transform {
	return Transform{Scale: core.V(1, 1)}
}

// Mirrored reports whether the rotation turns the visual around.
func (t Transform) Mirrored() bool {
	r := int(t.Rotation) % 360
	if r < 0 {
		r += 360
	}
	return r >= 90 && r < 270
}

// Instance is one materialized visual owned by a slot.
type Instance struct {
	ID      int
	SlotID  string
	Prefab  PrefabRef
	Variant VariantSpec
	Local   Transform
	Tint    core.Color
	Tinted  bool
	Visible bool
}
