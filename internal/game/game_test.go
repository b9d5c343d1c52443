package game

import (
	"strings"
	"testing"

	"github.com/vovakirdan/anomaly-exit/internal/config"
	"github.com/vovakirdan/anomaly-exit/internal/core"
	"github.com/vovakirdan/anomaly-exit/internal/existential"
	"github.com/vovakirdan/anomaly-exit/internal/registry"
	"github.com/vovakirdan/anomaly-exit/internal/round"
	"github.com/vovakirdan/anomaly-exit/internal/world"
)

const testRoom = `
id: testroom
name: Test Room
layout: {width: 40, height: 10, hallway_width: 20, hallway_gap: 10, start_x: 5, entrance_x: 2, exit_x: 38}
rules:
  max_rounds: 2
  max_anomalies_per_round: 2
  chance_for_no_anomalies: 0
  existential_anomaly_chance: 0
  reactive_anomaly_chance: 0
  interact_range: 1.5
  max_strikes: 3
  strike_cooldown: 0.75
slots:
  - {id: a, x: 10, normal: box, variants: [{prefab: box_x, behavior: existential}, {prefab: box_y, behavior: reactive}]}
  - {id: b, x: 20, normal: box, variants: [{prefab: box_x, behavior: existential}, {prefab: box_y, behavior: reactive}]}
  - {id: c, x: 30, y: 2, normal: box, variants: [{prefab: box_x, behavior: existential}, {prefab: box_y, behavior: reactive}]}
prefabs:
  box:   {art: ["[]"], color: white}
  box_x: {art: ["[x]"], color: red}
existential:
  force_effect: gravity-increase
  activation_delay_min: 1
  activation_delay_max: 2
`

func newTestGame(t *testing.T, mutate func(*config.RoomConfig)) (*Game, *[]registry.RunSummary) {
	t.Helper()
	cfg, err := config.ParseRoom([]byte(testRoom), "testroom")
	if err != nil {
		t.Fatalf("ParseRoom failed: %v", err)
	}
	if mutate != nil {
		mutate(&cfg)
	}

	g := New(cfg, Options{})
	var runs []registry.RunSummary
	g.OnRunEnd(func(s registry.RunSummary) { runs = append(runs, s) })
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7})
	return g, &runs
}

func idle(g *Game) {
	g.Step(core.NewInputFrame())
}

func press(g *Game, actions ...core.Action) {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	g.Step(in)
}

// settle ticks until the door transition finishes.
func settle(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 3000 && g.Machine().Transitioning(); i++ {
		idle(g)
	}
	if g.Machine().Transitioning() {
		t.Fatal("transition did not finish")
	}
}

// returnFromHallway walks back in through the hallway door.
func returnFromHallway(t *testing.T, g *Game) {
	t.Helper()
	settle(t, g)
	if g.Machine().State() != round.InHallway {
		t.Fatalf("expected hallway, got %v", g.Machine().State())
	}
	door := g.Room().RoundConfig().HallwayDoor
	if got := g.TryInteractAt(door); got != round.InteractHallway {
		t.Fatalf("hallway door interaction = %v", got)
	}
	settle(t, g)
}

func passRound(t *testing.T, g *Game) {
	t.Helper()
	g.AttemptExitThroughExit()
	returnFromHallway(t, g)
}

func fixAll(t *testing.T, g *Game) {
	t.Helper()
	for _, s := range g.Slots() {
		if s.IsActive() {
			if got := g.TryInteractAt(s.VisualPosition()); got != round.InteractFixed {
				t.Fatalf("fixing slot %s = %v", s.ID(), got)
			}
		}
	}
}

func activeCount(g *Game) int {
	n := 0
	for _, s := range g.Slots() {
		if s.IsActive() {
			n++
		}
	}
	return n
}

func TestEmbeddedRoomsRegistered(t *testing.T) {
	for _, id := range config.EmbeddedRoomIDs() {
		if !registry.Exists(id) {
			t.Errorf("room %q not registered", id)
			continue
		}
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID() = %q, want %q", g.ID(), id)
		}
		if _, ok := g.(registry.RunReporter); !ok {
			t.Errorf("room %q does not report runs", id)
		}

		g.Reset(core.DefaultConfig())
		for i := 0; i < 120; i++ {
			g.Step(core.NewInputFrame())
		}
		if g.State().GameOver {
			t.Errorf("room %q over after idling", id)
		}
	}
}

func TestResetStartsCleanRoundZero(t *testing.T) {
	g, _ := newTestGame(t, nil)

	if g.CurrentRoundNumber() != 0 {
		t.Errorf("round = %d, want 0", g.CurrentRoundNumber())
	}
	if n := activeCount(g); n != 0 {
		t.Errorf("round zero has %d anomalies", n)
	}
	for _, s := range g.Slots() {
		if n := g.World().InstanceCount(s.ID()); n != 1 {
			t.Errorf("slot %s has %d instances", s.ID(), n)
		}
	}
	if g.IsGameOver() {
		t.Error("fresh room should not be over")
	}
}

func TestCleanRoundAdvances(t *testing.T) {
	g, runs := newTestGame(t, nil)

	passRound(t, g)

	if g.CurrentRoundNumber() != 1 {
		t.Fatalf("round = %d, want 1", g.CurrentRoundNumber())
	}
	if n := activeCount(g); n < 1 || n > 2 {
		t.Errorf("round one has %d anomalies, want 1..2", n)
	}
	if len(*runs) != 0 {
		t.Errorf("passing a round should not end the run: %+v", *runs)
	}
	if g.State().Best != 1 {
		t.Errorf("best = %d, want 1", g.State().Best)
	}
	if g.World().InHallway() {
		t.Error("player should be back in the room")
	}
}

func TestMissedAnomalyFailsRun(t *testing.T) {
	g, runs := newTestGame(t, nil)
	passRound(t, g)

	passRound(t, g)

	if g.CurrentRoundNumber() != 0 {
		t.Errorf("round = %d, want reset to 0", g.CurrentRoundNumber())
	}
	if len(*runs) != 1 {
		t.Fatalf("expected one finished run, got %d", len(*runs))
	}
	got := (*runs)[0]
	if got.Won || got.Rounds != 1 || got.Reason != string(round.ReasonAnomalyMissed) || got.RoomID != "testroom" {
		t.Errorf("unexpected run %+v", got)
	}
}

func TestEntranceWithoutAnomalyFails(t *testing.T) {
	g, runs := newTestGame(t, nil)

	g.AttemptExitThroughEntrance()
	returnFromHallway(t, g)

	if len(*runs) != 1 || (*runs)[0].Reason != string(round.ReasonEntranceMisused) || (*runs)[0].Rounds != 0 {
		t.Fatalf("unexpected runs %+v", *runs)
	}
	if g.CurrentRoundNumber() != 0 {
		t.Errorf("round = %d, want 0", g.CurrentRoundNumber())
	}
}

func TestWinAndRestart(t *testing.T) {
	g, runs := newTestGame(t, nil)
	passRound(t, g)

	fixAll(t, g)
	if g.State().Fixes == 0 {
		t.Error("fixes not counted")
	}
	passRound(t, g)

	if !g.IsGameOver() || !g.State().Won {
		t.Fatalf("expected a won game, state %+v", g.State())
	}
	if len(*runs) != 1 || !(*runs)[0].Won || (*runs)[0].Rounds != 2 {
		t.Fatalf("unexpected runs %+v", *runs)
	}

	// Doors do nothing once the game is over
	if got := g.TryInteractAt(g.Room().RoundConfig().Exit); got != round.InteractIgnored {
		t.Errorf("interaction after win = %v", got)
	}

	press(g, core.ActionRestart)
	if g.IsGameOver() || g.CurrentRoundNumber() != 0 {
		t.Errorf("restart did not reset: %+v", g.State())
	}
}

func existentialRoom(c *config.RoomConfig) {
	c.Rules.ExistentialChance = 1
	c.Rules.MaxRounds = 3
}

func TestEscapeExistentialThroughEntrance(t *testing.T) {
	g, runs := newTestGame(t, existentialRoom)
	passRound(t, g)

	if !g.Engine().Armed() {
		t.Fatal("existential variant should arm the engine")
	}
	base := g.World().Gravity()
	g.Engine().Activate()
	if eff := g.Engine().Effects(); len(eff) != 1 || eff[0] != existential.GravityIncrease {
		t.Fatalf("effects = %v", eff)
	}
	for i := 0; i < 60; i++ {
		idle(g)
	}
	if g.World().Gravity().Y >= base.Y {
		t.Fatalf("gravity %v should have increased from %v", g.World().Gravity(), base)
	}

	g.AttemptExitThroughEntrance()
	returnFromHallway(t, g)

	if g.CurrentRoundNumber() != 2 {
		t.Errorf("round = %d, want 2 after escaping", g.CurrentRoundNumber())
	}
	if g.Engine().Active() {
		t.Error("effects should be reverted")
	}
	if g.World().Gravity() != base {
		t.Errorf("gravity = %v, want %v", g.World().Gravity(), base)
	}
	if len(*runs) != 0 {
		t.Errorf("escape should not end the run: %+v", *runs)
	}
}

func TestExistentialWrongDoorFails(t *testing.T) {
	g, runs := newTestGame(t, existentialRoom)
	passRound(t, g)
	g.Engine().Activate()

	passRound(t, g)

	if len(*runs) != 1 || (*runs)[0].Reason != string(round.ReasonWrongDoor) {
		t.Fatalf("unexpected runs %+v", *runs)
	}
	if g.CurrentRoundNumber() != 0 {
		t.Errorf("round = %d, want 0", g.CurrentRoundNumber())
	}
	if g.World().Gravity() != (core.V(0, world.DefaultGravity)) {
		t.Errorf("gravity not restored: %v", g.World().Gravity())
	}
}

func TestStrikesFailRun(t *testing.T) {
	g, runs := newTestGame(t, nil)
	empty := core.V(25, 0)

	for i := 0; i < 3; i++ {
		if got := g.TryInteractAt(empty); got != round.InteractNothing {
			t.Fatalf("interaction = %v", got)
		}
		// Wait out the strike cooldown
		for j := 0; j < 60; j++ {
			idle(g)
		}
	}

	if len(*runs) != 1 || (*runs)[0].Reason != string(round.ReasonStrikes) {
		t.Fatalf("unexpected runs %+v", *runs)
	}
}

func TestMovementAndPause(t *testing.T) {
	g, _ := newTestGame(t, nil)
	start := g.World().Player().Position()

	for i := 0; i < 30; i++ {
		press(g, core.ActionRight)
	}
	moved := g.World().Player().Position()
	if moved.X <= start.X {
		t.Fatalf("player did not move right: %v -> %v", start, moved)
	}

	press(g, core.ActionPause)
	if !g.State().Paused {
		t.Fatal("expected pause")
	}
	for i := 0; i < 30; i++ {
		press(g, core.ActionRight)
	}
	if g.World().Player().Position() != moved {
		t.Error("player moved while paused")
	}

	press(g, core.ActionPause)
	if g.State().Paused {
		t.Error("expected resume")
	}
}

func TestJumpLeavesGround(t *testing.T) {
	g, _ := newTestGame(t, nil)

	press(g, core.ActionJump)
	peak := 0.0
	for i := 0; i < 30; i++ {
		idle(g)
		peak = max(peak, g.World().Player().Position().Y)
	}
	if peak <= 0 {
		t.Error("jump never left the ground")
	}
}

func TestRender(t *testing.T) {
	g, _ := newTestGame(t, nil)
	scr := core.NewScreen(80, 24)

	g.Render(scr)
	out := scr.String()
	for _, want := range []string{"Test Room", "Round 1/2", "EXIT", "IN", "[]", "@"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}

	g.AttemptExitThroughExit()
	settle(t, g)
	scr.Clear()
	g.Render(scr)
	if !strings.Contains(scr.String(), "BACK") {
		t.Errorf("hallway render missing door:\n%s", scr.String())
	}
}

func TestRenderTooSmall(t *testing.T) {
	g, _ := newTestGame(t, nil)
	scr := core.NewScreen(20, 6)
	g.Render(scr)
	if !strings.Contains(scr.String(), "too small") {
		t.Errorf("expected size warning:\n%s", scr.String())
	}
}

func TestTransformArt(t *testing.T) {
	tests := []struct {
		name    string
		art     []string
		scale   core.Vec2
		rotated bool
		want    []string
	}{
		{"identity", []string{"ab", "cd"}, core.V(1, 1), false, []string{"ab", "cd"}},
		{"double", []string{"ab"}, core.V(2, 2), false, []string{"aabb", "aabb"}},
		{"half", []string{"abcd", "efgh"}, core.V(0.5, 0.5), false, []string{"ac"}},
		{"rotated", []string{"ab", "cd"}, core.V(1, 1), true, []string{"dc", "ba"}},
		{"zero", []string{"ab"}, core.V(0, 1), false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transformArt(tt.art, tt.scale, tt.rotated)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("transformArt = %q, want %q", got, tt.want)
			}
		})
	}
}
