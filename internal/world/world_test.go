package world

import (
	"testing"

	"github.com/vovakirdan/anomaly-exit/internal/anomaly"
	"github.com/vovakirdan/anomaly-exit/internal/core"
	"github.com/vovakirdan/anomaly-exit/internal/existential"
	"github.com/vovakirdan/anomaly-exit/internal/task"
)

var (
	_ anomaly.Spawner     = (*World)(nil)
	_ existential.Physics = (*World)(nil)
	_ existential.Clock   = (*World)(nil)
	_ existential.PostFX  = (*World)(nil)
	_ existential.Camera  = (*World)(nil)
	_ existential.Overlay = (*World)(nil)
	_ existential.Ghosts  = (*World)(nil)
	_ existential.Player  = (*Body)(nil)
)

func testLayout() Layout {
	return Layout{
		Room:    Region{Min: 0, Max: 50},
		Hallway: Region{Min: 60, Max: 80},
		Ceiling: 10,
	}
}

func TestSpawnDestroy(t *testing.T) {
	w := New(testLayout(), core.V(4, 0))

	a := w.Spawn("desk", "desk")
	b := w.Spawn("lamp", "lamp")
	if a.ID == b.ID {
		t.Fatal("instances should get distinct ids")
	}
	if !a.Visible || a.Local.Scale != core.V(1, 1) {
		t.Errorf("spawned instance = %+v, expected visible identity", a)
	}
	if w.InstanceCount("desk") != 1 {
		t.Errorf("desk instances = %d, expected 1", w.InstanceCount("desk"))
	}

	w.Destroy(a)
	w.Destroy(a)
	w.Destroy(nil)
	if got := w.Instances(); len(got) != 1 || got[0] != b {
		t.Errorf("Instances() = %v, expected only the lamp", got)
	}
}

func stepN(w *World, n int, in BodyInput) {
	for i := 0; i < n; i++ {
		w.Step(in)
	}
}

func TestBodyWalksAndStopsAtWalls(t *testing.T) {
	w := New(testLayout(), core.V(4, 0))

	stepN(w, 10, BodyInput{Axis: 1})
	if x := w.Player().Position().X; x <= 4 {
		t.Fatalf("player did not move right, x = %v", x)
	}
	if w.Player().Facing() != 1 {
		t.Error("player should face right")
	}

	stepN(w, 1000, BodyInput{Axis: -1})
	if x := w.Player().Position().X; x != 0 {
		t.Errorf("player x = %v, expected clamp at the left wall", x)
	}
	if w.Player().Facing() != -1 {
		t.Error("player should face left")
	}
}

func TestBodyJumpsAndLands(t *testing.T) {
	w := New(testLayout(), core.V(4, 0))

	w.Step(BodyInput{JumpPressed: true, JumpHeld: true})
	if w.Player().Position().Y <= 0 {
		t.Fatal("jump should leave the floor")
	}

	stepN(w, 300, BodyInput{})
	if !w.Player().Grounded() {
		t.Errorf("player should land, pos = %v vel = %v", w.Player().Position(), w.Player().Velocity())
	}
}

func TestBodyCeilingClamp(t *testing.T) {
	layout := testLayout()
	layout.Ceiling = 2
	w := New(layout, core.V(4, 0))
	w.SetGravity(core.V(0, -0.5))

	w.Step(BodyInput{JumpPressed: true, JumpHeld: true})
	stepN(w, 50, BodyInput{JumpHeld: true})
	if top := w.Player().Position().Y + w.Player().Scale().Y; top > 2+1e-9 {
		t.Errorf("player top = %v, expected at most the ceiling", top)
	}
}

func TestFrictionStopsAndNoFrictionSlides(t *testing.T) {
	w := New(testLayout(), core.V(4, 0))
	stepN(w, 5, BodyInput{Axis: 1})
	stepN(w, 100, BodyInput{})
	if vx := w.Player().Velocity().X; vx != 0 {
		t.Errorf("velocity with friction = %v, expected 0", vx)
	}

	w = New(testLayout(), core.V(4, 0))
	w.Player().SetMaterial(existential.NoFrictionMaterial)
	stepN(w, 5, BodyInput{Axis: 1})
	stepN(w, 10, BodyInput{})
	if vx := w.Player().Velocity().X; vx != MoveSpeed {
		t.Errorf("velocity without friction = %v, expected %v", vx, MoveSpeed)
	}
}

func TestReversedControls(t *testing.T) {
	w := New(testLayout(), core.V(20, 0))
	w.Player().SetControlsReversed(true)

	stepN(w, 10, BodyInput{Axis: 1})
	if x := w.Player().Position().X; x >= 20 {
		t.Errorf("reversed right input should move left, x = %v", x)
	}
}

func TestHallwayRegion(t *testing.T) {
	w := New(testLayout(), core.V(4, 0))
	if w.InHallway() {
		t.Fatal("player starts in the room")
	}

	w.Player().SetPosition(core.V(65, 0))
	if !w.InHallway() {
		t.Fatal("player should be in the hallway")
	}
	stepN(w, 1000, BodyInput{Axis: -1})
	if x := w.Player().Position().X; x != 60 {
		t.Errorf("hallway clamp x = %v, expected 60", x)
	}
}

func TestFader(t *testing.T) {
	w := New(testLayout(), core.V(4, 0))
	f := NewFader(w)

	out := f.FadeOut()
	frame := task.Frame{Delta: 0.125, Unscaled: 0.125}
	out.Step(frame)
	if a := w.FadeAlpha(); a != 0.25 {
		t.Errorf("alpha after a quarter = %v, expected 0.25", a)
	}
	for !out.Step(frame) {
	}
	if w.FadeAlpha() != 1 {
		t.Errorf("alpha after fade out = %v, expected 1", w.FadeAlpha())
	}

	in := f.FadeIn()
	for !in.Step(frame) {
	}
	if w.FadeAlpha() != 0 {
		t.Errorf("alpha after fade in = %v, expected 0", w.FadeAlpha())
	}
}

func TestGhosts(t *testing.T) {
	w := New(testLayout(), core.V(4, 0))
	a := w.SpawnGhost(existential.Pose{Position: core.V(1, 0)})
	b := w.SpawnGhost(existential.Pose{Position: core.V(2, 0)})

	w.MoveGhost(a, existential.Pose{Position: core.V(3, 0)})
	w.MoveGhost(99, existential.Pose{})
	ghosts := w.Ghosts()
	if len(ghosts) != 2 || ghosts[0].Position.X != 3 || ghosts[1].Position.X != 2 {
		t.Errorf("ghosts = %+v", ghosts)
	}

	w.DestroyGhost(b)
	if len(w.Ghosts()) != 1 {
		t.Error("DestroyGhost should remove the ghost")
	}
}
