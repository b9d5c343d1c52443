// Package round drives room progression: which slots get anomalies each
// round, door transitions between the room and the hallway, and the
// pass/fail judgment when the player comes back in.
package round

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/anomaly-exit/internal/anomaly"
	"github.com/vovakirdan/anomaly-exit/internal/core"
	"github.com/vovakirdan/anomaly-exit/internal/rng"
	"github.com/vovakirdan/anomaly-exit/internal/task"
)

// State is where the player currently is.
type State int

const (
	InRoom State = iota
	InHallway
	GameOver
)

func (s State) String() string {
	switch s {
	case InRoom:
		return "room"
	case InHallway:
		return "hallway"
	case GameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Audio event keys.
const (
	SoundAnomalyFixed = "anomaly_fixed"
	SoundDoor         = "door"
	SoundRoundSuccess = "round_success"
	SoundRoundFail    = "round_fail"
	SoundStrike       = "strike"
	SoundGameWon      = "game_won"
)

// Existential is the room-wide effect engine as seen by the machine.
type Existential interface {
	Active() bool
	Arm()
	Disarm()
	RevertAll()
}

// Mover places the player.
type Mover interface {
	Position() core.Vec2
	SetPosition(p core.Vec2)
}

// Fader darkens and clears the screen around door transitions.
type Fader interface {
	FadeOut() task.Task
	FadeIn() task.Task
}

// Sound plays named audio events.
type Sound interface {
	Play(key string)
}

// Deps are the collaborators a Machine drives. Engine, Fader and Sound
// are optional.
type Deps struct {
	Slots  []*anomaly.Slot
	Player Mover
	Engine Existential
	Fader  Fader
	Sound  Sound
}

// Machine is the round state machine of one room.
type Machine struct {
	cfg    Config
	deps   Deps
	rnd    rng.Source
	logger *log.Logger

	bag   *anomaly.Bag
	sched *task.Scheduler

	round              int
	state              State
	won                bool
	existentialPresent bool
	usedEntrance       bool
	transitioning      bool

	anomalies   int
	existential []*anomaly.Slot
	reactives   []*anomaly.Reactive

	clock      float64
	strikes    int
	lastStrike float64
	fixes      int

	listeners []Listener
}

// New creates a machine. Call Begin to fill the bag and start round 0.
func New(cfg Config, deps Deps, src rng.Source, logger *log.Logger) *Machine {
	m := &Machine{
		cfg:        cfg,
		deps:       deps,
		rnd:        src,
		logger:     logger,
		bag:        anomaly.NewBag(src),
		sched:      task.NewScheduler(),
		lastStrike: math.Inf(-1),
	}
	for _, s := range deps.Slots {
		s.OnFixed(m.slotFixed)
	}
	return m
}

// Subscribe registers a listener for round results.
func (m *Machine) Subscribe(l Listener) {
	m.listeners = append(m.listeners, l)
}

// Begin starts a fresh playthrough.
func (m *Machine) Begin() {
	m.FullReset()
}

// Tick advances door transitions and reactive variants by one frame.
func (m *Machine) Tick(f task.Frame) {
	m.clock += f.Delta
	m.sched.Tick(f)

	if m.deps.Player == nil {
		return
	}
	pos := m.deps.Player.Position()
	for _, r := range m.reactives {
		r.Update(f, pos)
	}
}

// StartNextRound resets every slot and injects this round's anomalies.
// Once the configured number of rounds has been played it ends the
// playthrough as won instead.
func (m *Machine) StartNextRound() {
	if m.round >= m.cfg.MaxRounds {
		if !m.won {
			m.won = true
			m.state = GameOver
			m.disarm()
			m.logger.Info("all rounds cleared", "rounds", m.round)
			m.play(SoundGameWon)
			m.notify(Result{Outcome: Won, Round: m.CurrentRound(), Reason: ReasonCleared, Fixes: m.fixes})
		}
		return
	}

	m.disarm()
	m.reactives = nil
	m.existential = nil
	for _, s := range m.deps.Slots {
		s.SetNormal()
	}

	n := m.rollCount()
	m.logger.Debug("starting round", "round", m.round, "anomalies", n, "bag", m.bag.Count())

	placed := 0
	for i := 0; i < n; i++ {
		slot, err := m.bag.Dequeue()
		if err != nil {
			m.logger.Warn("bag ran dry mid-round", "round", m.round, "placed", placed, "err", err)
			break
		}
		if m.place(slot) {
			placed++
		}
	}

	m.anomalies = placed
	m.round++
	m.state = InRoom
	m.strikes = 0
	m.lastStrike = math.Inf(-1)
	if m.deps.Player != nil {
		m.deps.Player.SetPosition(m.cfg.Start)
	}
}

// rollCount decides how many anomalies the round gets.
func (m *Machine) rollCount() int {
	if m.round == 0 {
		return 0
	}
	count := rng.Range(m.rnd, 1, m.cfg.MaxAnomaliesPerRound+1)
	if m.round != 1 && rng.Chance(m.rnd, m.cfg.ChanceForNoAnomalies) {
		count = 0
	}
	if left := m.bag.Count(); count > left {
		count = left
	}
	return count
}

// place materializes one anomaly variant in slot.
func (m *Machine) place(slot *anomaly.Slot) bool {
	n := slot.VariantCount()
	if n == 0 {
		m.logger.Debug("slot has no variants", "slot", slot.ID())
		return false
	}

	var idx int
	switch {
	case rng.Chance(m.rnd, m.cfg.ExistentialChance):
		idx = 0
	case rng.Chance(m.rnd, m.cfg.ReactiveChance):
		idx = 1
	default:
		idx = rng.Range(m.rnd, 2, n)
	}
	if err := slot.SetAnomaly(idx); err != nil {
		return false
	}

	switch slot.Behavior() {
	case anomaly.BehaviorExistential:
		m.existential = append(m.existential, slot)
		if m.deps.Engine != nil {
			m.deps.Engine.Arm()
		}
	case anomaly.BehaviorReactive:
		kind := anomaly.PickReactiveKind(m.rnd)
		m.reactives = append(m.reactives, anomaly.NewReactive(slot, kind, m.cfg.Reactive))
		m.logger.Debug("reactive anomaly", "slot", slot.ID(), "kind", kind)
	}
	return true
}

// FullReset refills the bag and restarts from round 0.
func (m *Machine) FullReset() {
	m.bag.Fill(m.deps.Slots)
	m.round = 0
	m.won = false
	m.existentialPresent = false
	m.usedEntrance = false
	m.fixes = 0
	m.StartNextRound()
}

// Restart leaves the game-over screen. No-op otherwise.
func (m *Machine) Restart() {
	if m.state != GameOver {
		return
	}
	m.logger.Info("restarting playthrough")
	m.FullReset()
}

// OnPlayerTryExit walks the player through the door they stand at: the
// exit while in the room, the room door while in the hallway.
func (m *Machine) OnPlayerTryExit() {
	if m.transitioning || m.state == GameOver {
		return
	}
	if m.state == InRoom && m.engineActive() {
		m.existentialPresent = true
	}
	m.beginTransition()
}

// OnPlayerAttemptEntranceExit leaves the room through the entrance.
// Ignored in the hallway.
func (m *Machine) OnPlayerAttemptEntranceExit() {
	if m.transitioning || m.state != InRoom {
		return
	}
	m.usedEntrance = true
	if m.engineActive() {
		m.existentialPresent = true
	}
	m.beginTransition()
}

func (m *Machine) beginTransition() {
	m.transitioning = true
	m.play(SoundDoor)

	steps := make([]task.Task, 0, 4)
	if m.deps.Fader != nil {
		steps = append(steps, m.deps.Fader.FadeOut())
	}
	steps = append(steps, task.Do(m.swap))
	if m.deps.Fader != nil {
		steps = append(steps, m.deps.Fader.FadeIn())
	}
	steps = append(steps, task.Do(func() {
		m.transitioning = false
		if m.state == InRoom {
			m.OnPlayerEnterRoom()
		}
	}))
	m.sched.Start(task.Seq(steps...))
}

func (m *Machine) swap() {
	if m.state == InRoom {
		m.state = InHallway
		m.movePlayer(m.cfg.Hallway)
		return
	}
	m.state = InRoom
	m.movePlayer(m.cfg.Start)
}

func (m *Machine) movePlayer(p core.Vec2) {
	if m.deps.Player != nil {
		m.deps.Player.SetPosition(p)
	}
}

// OnPlayerEnterRoom judges the round that just ended.
func (m *Machine) OnPlayerEnterRoom() {
	anyActive := false
	for _, s := range m.deps.Slots {
		if s.IsActive() {
			anyActive = true
			break
		}
	}

	switch {
	case m.existentialPresent && m.usedEntrance:
		m.revert()
		m.succeed(ReasonEscapedExistential)
	case m.existentialPresent:
		m.revert()
		m.fail(ReasonWrongDoor)
	case anyActive:
		m.fail(ReasonAnomalyMissed)
	case m.usedEntrance:
		m.fail(ReasonEntranceMisused)
	default:
		m.succeed(ReasonClean)
	}
}

func (m *Machine) succeed(reason Reason) {
	cleared := m.CurrentRound()
	m.logger.Debug("round passed", "round", cleared, "reason", reason)
	m.play(SoundRoundSuccess)
	m.existentialPresent = false
	m.usedEntrance = false
	m.notify(Result{Outcome: Passed, Round: cleared, Reason: reason, Fixes: m.fixes, Strikes: m.strikes})
	m.StartNextRound()
}

func (m *Machine) fail(reason Reason) {
	reached := m.CurrentRound()
	m.logger.Debug("round failed", "round", reached, "reason", reason)
	m.play(SoundRoundFail)
	m.disarm()
	m.notify(Result{Outcome: Failed, Round: reached, Reason: reason, Fixes: m.fixes, Strikes: m.strikes})
	m.FullReset()
}

// Interaction is what TryInteractAt did.
type Interaction int

const (
	InteractNothing  Interaction = iota // Invalid interaction, may strike
	InteractIgnored                     // Transition running or game over
	InteractFixed                       // Fixed an anomaly
	InteractExit                        // Used the exit door
	InteractEntrance                    // Used the entrance door
	InteractHallway                     // Used the hallway door back into the room
)

func (i Interaction) String() string {
	switch i {
	case InteractIgnored:
		return "ignored"
	case InteractFixed:
		return "fixed"
	case InteractExit:
		return "exit"
	case InteractEntrance:
		return "entrance"
	case InteractHallway:
		return "hallway"
	default:
		return "nothing"
	}
}

// TryInteractAt fixes the nearest active anomaly in reach or uses a door.
// Anything else counts as a strike; enough strikes fail the round.
func (m *Machine) TryInteractAt(pos core.Vec2) Interaction {
	if m.transitioning || m.state == GameOver {
		return InteractIgnored
	}

	reach := m.cfg.InteractRange
	if m.state == InHallway {
		if pos.Sub(m.cfg.HallwayDoor).Len() <= reach {
			m.OnPlayerTryExit()
			return InteractHallway
		}
		m.strike()
		return InteractNothing
	}

	var nearest *anomaly.Slot
	best := math.Inf(1)
	for _, s := range m.deps.Slots {
		if !s.IsActive() {
			continue
		}
		if d := pos.Sub(s.VisualPosition()).Len(); d <= reach && d < best {
			nearest, best = s, d
		}
	}
	if nearest != nil {
		nearest.FixAnomaly()
		return InteractFixed
	}

	if pos.Sub(m.cfg.Exit).Len() <= reach {
		m.OnPlayerTryExit()
		return InteractExit
	}
	if pos.Sub(m.cfg.Entrance).Len() <= reach {
		m.OnPlayerAttemptEntranceExit()
		return InteractEntrance
	}

	m.strike()
	return InteractNothing
}

func (m *Machine) strike() {
	if m.clock-m.lastStrike < m.cfg.StrikeCooldown {
		return
	}
	m.lastStrike = m.clock
	m.strikes++
	m.play(SoundStrike)
	m.logger.Debug("strike", "count", m.strikes, "max", m.cfg.MaxStrikes)

	if m.cfg.MaxStrikes > 0 && m.strikes >= m.cfg.MaxStrikes {
		m.logger.Info("too many invalid interactions", "round", m.CurrentRound())
		m.fail(ReasonStrikes)
	}
}

func (m *Machine) slotFixed(s *anomaly.Slot) {
	m.fixes++
	m.play(SoundAnomalyFixed)
	if len(m.existential) == 0 {
		return
	}
	for _, e := range m.existential {
		if e.IsActive() {
			return
		}
	}
	m.existential = nil
	m.disarm()
}

func (m *Machine) engineActive() bool {
	return m.deps.Engine != nil && m.deps.Engine.Active()
}

func (m *Machine) disarm() {
	if m.deps.Engine != nil {
		m.deps.Engine.Disarm()
	}
}

func (m *Machine) revert() {
	if m.deps.Engine != nil {
		m.deps.Engine.RevertAll()
	}
}

func (m *Machine) play(key string) {
	if m.deps.Sound != nil {
		m.deps.Sound.Play(key)
	}
}

func (m *Machine) notify(r Result) {
	for _, l := range m.listeners {
		l.RoundEnded(r)
	}
}

// CurrentRound returns the zero-based index of the round being played.
// Round 0 is always clean.
func (m *Machine) CurrentRound() int {
	if m.round == 0 {
		return 0
	}
	return m.round - 1
}

func (m *Machine) State() State {
	return m.state
}

// IsGameOver reports whether the playthrough ended.
func (m *Machine) IsGameOver() bool {
	return m.state == GameOver
}

// Won reports whether every round was cleared.
func (m *Machine) Won() bool {
	return m.won
}

// Transitioning reports whether a door transition is running.
func (m *Machine) Transitioning() bool {
	return m.transitioning
}

// ExistentialPresent reports whether the player left while existential
// effects were active this round.
func (m *Machine) ExistentialPresent() bool {
	return m.existentialPresent
}

// UsedEntrance reports whether the player left through the entrance.
func (m *Machine) UsedEntrance() bool {
	return m.usedEntrance
}

// Anomalies returns how many anomalies were placed this round.
func (m *Machine) Anomalies() int {
	return m.anomalies
}

// BagCount returns how many slots are left before the next refill.
func (m *Machine) BagCount() int {
	return m.bag.Count()
}

func (m *Machine) Strikes() int {
	return m.strikes
}

func (m *Machine) Fixes() int {
	return m.fixes
}

// Slots returns the room's slots.
func (m *Machine) Slots() []*anomaly.Slot {
	return m.deps.Slots
}

// Reactives returns the reactive behaviors of this round.
func (m *Machine) Reactives() []*anomaly.Reactive {
	return m.reactives
}
