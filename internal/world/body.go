package world

import (
	"github.com/vovakirdan/anomaly-exit/internal/core"
	"github.com/vovakirdan/anomaly-exit/internal/existential"
)

// Player movement tuning.
const (
	MoveSpeed         = 8.0
	JumpForce         = 12.0
	CoyoteTime        = 0.15
	JumpBufferTime    = 0.1
	FallMultiplier    = 4.0
	LowJumpMultiplier = 3.0
	FrictionDecel     = 60.0 // Horizontal slowdown per unit of friction
)

// DefaultMaterial is the player's stock surface.
var DefaultMaterial = existential.Material{Name: "default", Friction: 0.4}

// BodyInput is the movement intent for one physics step.
type BodyInput struct {
	Axis        float64 // -1..1
	JumpPressed bool
	JumpHeld    bool
}

// Body is the player's physical state.
type Body struct {
	pos      core.Vec2
	vel      core.Vec2
	scale    core.Vec2
	material existential.Material
	reversed bool
	flipX    bool

	coyote     float64
	jumpBuffer float64
}

// NewBody creates a grounded body at pos.
func NewBody(pos core.Vec2) *Body {
	return &Body{pos: pos, scale: core.V(1, 1), material: DefaultMaterial}
}

func (b *Body) Position() core.Vec2 {
	return b.pos
}

// SetPosition teleports the body and clears its momentum.
func (b *Body) SetPosition(p core.Vec2) {
	b.pos = p
	b.vel = core.Vec2{}
	b.jumpBuffer = 0
}

func (b *Body) Velocity() core.Vec2 {
	return b.vel
}

func (b *Body) Scale() core.Vec2 {
	return b.scale
}

func (b *Body) SetScale(s core.Vec2) {
	b.scale = s
}

func (b *Body) Material() existential.Material {
	return b.material
}

func (b *Body) SetMaterial(m existential.Material) {
	b.material = m
}

func (b *Body) ControlsReversed() bool {
	return b.reversed
}

func (b *Body) SetControlsReversed(r bool) {
	b.reversed = r
}

// Facing returns -1 when the body faces left, 1 otherwise.
func (b *Body) Facing() int {
	if b.flipX {
		return -1
	}
	return 1
}

// Pose snapshots the visual for echo trails.
func (b *Body) Pose() existential.Pose {
	return existential.Pose{Position: b.pos, Scale: b.scale, FlipX: b.flipX}
}

// Grounded reports whether the body rests on the floor.
func (b *Body) Grounded() bool {
	return b.pos.Y <= 0 && b.vel.Y <= 0
}

// Step integrates one fixed physics step inside region.
func (b *Body) Step(in BodyInput, gravityY, dt float64, region Region, ceiling float64) {
	if in.JumpPressed {
		b.jumpBuffer = JumpBufferTime
	}

	if b.Grounded() {
		b.coyote = CoyoteTime
	} else {
		b.coyote -= dt
	}
	if b.jumpBuffer > 0 {
		b.jumpBuffer -= dt
	}
	if b.jumpBuffer > 0 && b.coyote > 0 {
		b.vel.Y = JumpForce
		b.jumpBuffer = 0
		b.coyote = 0
	}

	axis := in.Axis
	if b.reversed {
		axis = -axis
	}
	if axis != 0 {
		b.vel.X = axis * MoveSpeed
		b.flipX = axis < 0
	} else {
		b.vel.X = core.MoveTowards(b.vel.X, 0, b.material.Friction*FrictionDecel*dt)
	}

	b.vel.Y += gravityY * dt
	switch {
	case b.vel.Y < 0:
		b.vel.Y += gravityY * (FallMultiplier - 1) * dt
	case b.vel.Y > 0 && !in.JumpHeld:
		b.vel.Y += gravityY * (LowJumpMultiplier - 1) * dt
	}

	b.pos = b.pos.Add(b.vel.Scale(dt))

	if b.pos.Y < 0 {
		b.pos.Y = 0
		b.vel.Y = 0
	}
	if height := b.scale.Y; ceiling > 0 && b.pos.Y+height > ceiling {
		b.pos.Y = ceiling - height
		if b.pos.Y < 0 {
			b.pos.Y = 0
		}
		if b.vel.Y > 0 {
			b.vel.Y = 0
		}
	}
	if b.pos.X < region.Min {
		b.pos.X = region.Min
		b.vel.X = 0
	}
	if b.pos.X > region.Max {
		b.pos.X = region.Max
		b.vel.X = 0
	}
}
