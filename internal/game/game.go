// Package game wires a room config into a playable room: world, slots,
// the existential effect engine and the round machine, driven one fixed
// tick at a time behind registry.Game.
package game

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/anomaly-exit/internal/anomaly"
	"github.com/vovakirdan/anomaly-exit/internal/audio"
	"github.com/vovakirdan/anomaly-exit/internal/config"
	"github.com/vovakirdan/anomaly-exit/internal/core"
	"github.com/vovakirdan/anomaly-exit/internal/existential"
	"github.com/vovakirdan/anomaly-exit/internal/registry"
	"github.com/vovakirdan/anomaly-exit/internal/rng"
	"github.com/vovakirdan/anomaly-exit/internal/round"
	"github.com/vovakirdan/anomaly-exit/internal/task"
	"github.com/vovakirdan/anomaly-exit/internal/world"
)

// Input tuning.
const (
	holdWindow      = 0.2 // Seconds a key press keeps a direction held
	maxPhysicsSteps = 8   // Per tick, to avoid a spiral after a stall
	messageDuration = 3.0
)

// Options are the collaborators of a room. Zero values are replaced by
// silent defaults.
type Options struct {
	Logger *log.Logger
	Sound  audio.Player
}

var (
	settingsMu       sync.RWMutex
	configPath       string
	difficultyPreset = config.DifficultyNormal
	defaultOptions   Options
)

// SetConfigPath sets a custom room file used by rooms created afterwards.
func SetConfigPath(path string) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	configPath = path
}

// SetDifficultyPreset sets the preset applied to rooms created afterwards.
// Unknown names fall back to normal.
func SetDifficultyPreset(preset string) {
	p, _ := config.ParsePreset(preset)
	settingsMu.Lock()
	defer settingsMu.Unlock()
	difficultyPreset = p
}

// SetDefaults sets the logger and sound used by registry-created rooms.
func SetDefaults(opts Options) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	defaultOptions = opts
}

// Game is one playable room.
type Game struct {
	room    config.RoomConfig
	runtime core.RuntimeConfig
	logger  *log.Logger
	sound   audio.Player

	world   *world.World
	slots   []*anomaly.Slot
	engine  *existential.Engine
	machine *round.Machine

	paused      bool
	accum       float64
	jumpLatched bool
	holdLeft    float64
	holdRight   float64
	holdJump    float64

	best      int
	message   string
	messageT  float64
	effects   []existential.Kind
	runEnders []func(registry.RunSummary)
}

// New creates a room from a validated config. Call Reset before Step.
func New(room config.RoomConfig, opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Sound == nil {
		opts.Sound = audio.Silent{}
	}
	return &Game{
		room:   room,
		logger: opts.Logger,
		sound:  opts.Sound,
	}
}

// load resolves a registered room with the current CLI settings.
func load(id string) *Game {
	settingsMu.RLock()
	path, preset, opts := configPath, difficultyPreset, defaultOptions
	settingsMu.RUnlock()

	cfg, err := config.LoadRoom(id, path)
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Warn("falling back to embedded room", "room", id, "err", err)
		}
		cfg, err = config.EmbeddedRoom(id)
		if err != nil {
			cfg = config.DefaultRoomConfig()
			cfg.ID = id
		}
	}
	config.ApplyPreset(&cfg, preset)
	return New(cfg, opts)
}

// ID returns the room id.
func (g *Game) ID() string {
	return g.room.ID
}

// Title returns the room name.
func (g *Game) Title() string {
	return g.room.Name
}

// Room returns the room config the game was built from.
func (g *Game) Room() config.RoomConfig {
	return g.room
}

// OnRunEnd registers fn to be called when a run ends in a win or a failure.
func (g *Game) OnRunEnd(fn func(registry.RunSummary)) {
	g.runEnders = append(g.runEnders, fn)
}

// Reset builds a fresh world and starts a new playthrough at round zero.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	src := rng.New(runtime.Seed)

	rc := g.room.RoundConfig()
	g.world = world.New(g.room.WorldLayout(), rc.Start)

	specs := g.room.SlotSpecs()
	g.slots = make([]*anomaly.Slot, 0, len(specs))
	peers := make([]existential.Peer, 0, len(specs))
	slotLog := g.logger.WithPrefix("slot")
	for _, spec := range specs {
		s := anomaly.NewSlot(spec, g.world, src, slotLog)
		g.slots = append(g.slots, s)
		peers = append(peers, s)
	}

	g.engine = existential.New(g.room.Existential, existential.Services{
		Physics: g.world,
		Clock:   g.world,
		Player:  g.world.Player(),
		Peers:   peers,
		PostFX:  g.world,
		Camera:  g.world,
		Overlay: g.world,
		Music:   g.sound,
		Ghosts:  g.world,
	}, src, g.logger.WithPrefix("existential"))
	g.engine.OnActivate(func(kinds []existential.Kind) {
		g.effects = kinds
	})

	g.machine = round.New(rc, round.Deps{
		Slots:  g.slots,
		Player: g.world.Player(),
		Engine: g.engine,
		Fader:  world.NewFader(g.world),
		Sound:  g.sound,
	}, src, g.logger.WithPrefix("room"))
	g.machine.Subscribe(round.ListenerFunc(g.roundEnded))

	g.paused = false
	g.accum = 0
	g.jumpLatched = false
	g.holdLeft, g.holdRight, g.holdJump = 0, 0, 0
	g.effects = nil
	g.message = ""
	g.messageT = 0

	g.machine.Begin()
}

// Step advances the room by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	dt := g.runtime.TickSeconds()

	if g.machine.IsGameOver() && in.Has(core.ActionRestart) {
		g.machine.Restart()
		g.say("A new night begins")
	}

	g.updateHolds(in, dt)
	if in.Has(core.ActionInteract) && !g.machine.IsGameOver() {
		g.TryInteractAt(g.world.Player().Position())
	}

	scaled := dt * g.world.TimeScale()
	g.stepPhysics(scaled)

	f := task.Frame{Delta: scaled, Unscaled: dt}
	g.engine.Tick(f)
	g.machine.Tick(f)

	if g.messageT > 0 {
		g.messageT -= dt
		if g.messageT <= 0 {
			g.message = ""
		}
	}

	return core.StepResult{State: g.State()}
}

// updateHolds turns discrete key presses into short held intents, since
// terminals report presses but not releases.
func (g *Game) updateHolds(in core.InputFrame, dt float64) {
	decay := func(v float64) float64 { return max(0, v-dt) }
	g.holdLeft, g.holdRight, g.holdJump = decay(g.holdLeft), decay(g.holdRight), decay(g.holdJump)

	if in.Has(core.ActionLeft) {
		g.holdLeft, g.holdRight = holdWindow, 0
	}
	if in.Has(core.ActionRight) {
		g.holdRight, g.holdLeft = holdWindow, 0
	}
	if in.Has(core.ActionJump) {
		g.jumpLatched = true
		g.holdJump = holdWindow
	}
}

func (g *Game) axis() float64 {
	switch {
	case g.holdLeft > 0:
		return -1
	case g.holdRight > 0:
		return 1
	}
	return 0
}

// stepPhysics runs fixed physics steps for the scaled time of one tick.
func (g *Game) stepPhysics(scaled float64) {
	fd := g.world.FixedDelta()
	if fd <= 0 {
		return
	}
	g.accum += scaled
	steps := 0
	for g.accum >= fd && steps < maxPhysicsSteps {
		g.world.Step(world.BodyInput{
			Axis:        g.axis(),
			JumpPressed: g.jumpLatched,
			JumpHeld:    g.holdJump > 0,
		})
		g.jumpLatched = false
		g.accum -= fd
		steps++
	}
	if steps == maxPhysicsSteps {
		g.accum = 0
	}
}

// TryInteractAt fixes an anomaly or uses a door near pos.
func (g *Game) TryInteractAt(pos core.Vec2) round.Interaction {
	strikes := g.machine.Strikes()
	res := g.machine.TryInteractAt(pos)
	switch res {
	case round.InteractFixed:
		g.say("Anomaly fixed")
	case round.InteractNothing:
		if g.machine.Strikes() > strikes {
			g.say(fmt.Sprintf("Nothing to fix here (%d/%d)", g.machine.Strikes(), g.room.Rules.MaxStrikes))
		}
	}
	return res
}

// AttemptExitThroughExit walks out through the exit door.
func (g *Game) AttemptExitThroughExit() {
	g.machine.OnPlayerTryExit()
}

// AttemptExitThroughEntrance walks back out through the entrance door.
func (g *Game) AttemptExitThroughEntrance() {
	g.machine.OnPlayerAttemptEntranceExit()
}

// CurrentRoundNumber returns the zero-based round in progress.
func (g *Game) CurrentRoundNumber() int {
	return g.machine.CurrentRound()
}

// IsGameOver reports whether every round has been cleared.
func (g *Game) IsGameOver() bool {
	return g.machine.IsGameOver()
}

// Machine exposes the round machine for inspection.
func (g *Game) Machine() *round.Machine {
	return g.machine
}

// Engine exposes the existential effect engine.
func (g *Game) Engine() *existential.Engine {
	return g.engine
}

// World exposes the scene state.
func (g *Game) World() *world.World {
	return g.world
}

// State returns the current status.
func (g *Game) State() core.GameState {
	if g.machine == nil {
		return core.GameState{Paused: g.paused}
	}
	return core.GameState{
		Round:    g.machine.CurrentRound(),
		Best:     g.best,
		Fixes:    g.machine.Fixes(),
		Strikes:  g.machine.Strikes(),
		GameOver: g.machine.IsGameOver(),
		Won:      g.machine.Won(),
		Paused:   g.paused,
	}
}

func (g *Game) say(msg string) {
	g.message = msg
	g.messageT = messageDuration
}

func (g *Game) roundEnded(r round.Result) {
	switch r.Outcome {
	case round.Passed:
		g.best = max(g.best, r.Round+1)
		if r.Reason == round.ReasonEscapedExistential {
			g.say(fmt.Sprintf("You escaped. Round %d cleared", r.Round+1))
		} else {
			g.say(fmt.Sprintf("Round %d cleared", r.Round+1))
		}
		return
	case round.Won:
		g.best = max(g.best, g.room.Rules.MaxRounds)
		g.say("Every round cleared")
		g.endRun(g.room.Rules.MaxRounds, true, r)
	case round.Failed:
		g.say(failMessage(r.Reason))
		g.endRun(r.Round, false, r)
	}
}

func (g *Game) endRun(rounds int, won bool, r round.Result) {
	sum := registry.RunSummary{
		RoomID:  g.room.ID,
		Rounds:  rounds,
		Won:     won,
		Reason:  string(r.Reason),
		Fixes:   r.Fixes,
		Strikes: r.Strikes,
	}
	for _, fn := range g.runEnders {
		fn(sum)
	}
}

func failMessage(reason round.Reason) string {
	switch reason {
	case round.ReasonWrongDoor:
		return "Something was wrong. You should have gone back. Round 0"
	case round.ReasonAnomalyMissed:
		return "You missed an anomaly. Back to round 0"
	case round.ReasonEntranceMisused:
		return "Nothing was wrong. Back to round 0"
	case round.ReasonStrikes:
		return "Too many mistakes. Back to round 0"
	default:
		return "Back to round 0"
	}
}

func init() {
	for _, id := range config.EmbeddedRoomIDs() {
		room, err := config.EmbeddedRoom(id)
		if err != nil {
			continue
		}
		roomID := id
		registry.Register(registry.GameInfo{
			ID:          room.ID,
			Title:       room.Name,
			Description: room.Description,
		}, func() registry.Game {
			return load(roomID)
		})
	}
}

var (
	_ registry.Game        = (*Game)(nil)
	_ registry.RunReporter = (*Game)(nil)
)
