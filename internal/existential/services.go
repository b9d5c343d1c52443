package existential

import "github.com/vovakirdan/anomaly-exit/internal/core"

// Material is the player's contact surface.
type Material struct {
	Name     string
	Friction float64
}

// NoFrictionMaterial replaces the player's material under NoFriction.
var NoFrictionMaterial = Material{Name: "no-friction", Friction: 0}

// Pose is a snapshot of the player's visual used for echo trails.
type Pose struct {
	Position core.Vec2
	Scale    core.Vec2
	FlipX    bool
}

// GhostID identifies a spawned echo ghost.
type GhostID int

// Physics exposes the global gravity vector.
type Physics interface {
	Gravity() core.Vec2
	SetGravity(g core.Vec2)
}

// Clock exposes the global time scale and the fixed physics step.
type Clock interface {
	TimeScale() float64
	SetTimeScale(s float64)
	FixedDelta() float64
	SetFixedDelta(d float64)
}

// Player is the controllable body.
type Player interface {
	Position() core.Vec2
	Scale() core.Vec2
	SetScale(s core.Vec2)
	Material() Material
	SetMaterial(m Material)
	ControlsReversed() bool
	SetControlsReversed(reversed bool)
	Pose() Pose
}

// Peer is a room object whose root transform effects may move or scale.
type Peer interface {
	Position() core.Vec2
	SetPosition(p core.Vec2)
	Scale() core.Vec2
	SetScale(s core.Vec2)
}

// PostFX holds screen post-processing parameters.
type PostFX interface {
	Vignette() float64
	SetVignette(v float64)
	Chromatic() float64
	SetChromatic(v float64)
	Saturation() float64 // 0 is neutral, -100 is grayscale
	SetSaturation(v float64)
}

// Camera exposes the view offset used for shakes.
type Camera interface {
	Offset() core.Vec2
	SetOffset(o core.Vec2)
}

// Overlay is the full-screen blink layer.
type Overlay interface {
	BlinkAlpha() float64
	SetBlinkAlpha(a float64)
}

// Music plays named audio events.
type Music interface {
	Play(key string)
}

// Ghosts materializes echo trails.
type Ghosts interface {
	SpawnGhost(p Pose) GhostID
	MoveGhost(id GhostID, p Pose)
	DestroyGhost(id GhostID)
}

// Services are the collaborators the engine mutates. Every field is
// optional; effects whose collaborator is missing are skipped with a
// warning while the rest of the set still runs.
type Services struct {
	Physics Physics
	Clock   Clock
	Player  Player
	Peers   []Peer
	PostFX  PostFX
	Camera  Camera
	Overlay Overlay
	Music   Music
	Ghosts  Ghosts
}
