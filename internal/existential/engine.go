package existential

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/anomaly-exit/internal/core"
	"github.com/vovakirdan/anomaly-exit/internal/rng"
	"github.com/vovakirdan/anomaly-exit/internal/task"
)

type peerState struct {
	position core.Vec2
	scale    core.Vec2
}

// baseline is everything RevertAll restores.
type baseline struct {
	gravity    core.Vec2
	timeScale  float64
	fixedDelta float64

	hasPlayer      bool
	playerScale    core.Vec2
	playerMaterial Material
	playerReversed bool

	peers []peerState

	vignette   float64
	chromatic  float64
	saturation float64
	camera     core.Vec2
	blink      float64
}

// Engine owns one existential effect set.
type Engine struct {
	cfg    Config
	svc    Services
	rnd    rng.Source
	logger *log.Logger

	sched *task.Scheduler

	force    Kind
	hasForce bool

	active  bool
	effects []Kind
	base    baseline
	ghosts  []GhostID

	arm    task.Handle
	armed  bool
	onFire []func([]Kind)
}

// New creates an inactive engine. An unknown forced effect name is logged
// and ignored.
func New(cfg Config, svc Services, src rng.Source, logger *log.Logger) *Engine {
	e := &Engine{
		cfg:    cfg,
		svc:    svc,
		rnd:    src,
		logger: logger,
		sched:  task.NewScheduler(),
	}
	if cfg.Force != "" {
		if k, ok := ParseKind(cfg.Force); ok {
			e.force, e.hasForce = k, true
		} else {
			logger.Warn("unknown forced effect, rolling normally", "force", cfg.Force)
		}
	}
	return e
}

// OnActivate registers fn to run with the chosen set each time the engine
// activates.
func (e *Engine) OnActivate(fn func([]Kind)) {
	e.onFire = append(e.onFire, fn)
}

// AttachPlayer binds a player that was not available at construction.
// While active, its current state becomes the player baseline.
func (e *Engine) AttachPlayer(p Player) {
	if p == nil || e.svc.Player != nil {
		return
	}
	e.svc.Player = p
	if e.active && !e.base.hasPlayer {
		e.capturePlayer()
	}
}

// Active reports whether effects are running.
func (e *Engine) Active() bool {
	return e.active
}

// Armed reports whether a delayed activation is pending.
func (e *Engine) Armed() bool {
	return e.armed && e.sched.Running(e.arm)
}

// Effects returns the current effect set.
func (e *Engine) Effects() []Kind {
	out := make([]Kind, len(e.effects))
	copy(out, e.effects)
	return out
}

// Tick advances every running effect by one frame.
func (e *Engine) Tick(f task.Frame) {
	e.sched.Tick(f)
}

// Arm schedules Activate after a random real-time delay.
func (e *Engine) Arm() {
	if e.active || e.Armed() {
		return
	}
	delay := rng.RangeF(e.rnd, e.cfg.ActivationDelayMin, e.cfg.ActivationDelayMax)
	e.logger.Debug("activation delayed", "seconds", delay)
	e.arm = e.sched.Start(task.Seq(
		task.WaitRealtime(delay),
		task.Do(func() {
			e.armed = false
			e.Activate()
		}),
	))
	e.armed = true
}

// Disarm cancels a pending activation and reverts running effects.
func (e *Engine) Disarm() {
	if e.armed {
		e.sched.Stop(e.arm)
		e.armed = false
	}
	e.RevertAll()
}

// Activate starts the effect set. No-op while already active.
func (e *Engine) Activate() {
	if e.active {
		return
	}
	if e.cfg.Rerandomize || len(e.effects) == 0 {
		e.effects = e.pick()
	}
	e.start()
}

// ActivateKinds starts an explicit effect set, ignoring duplicates.
// No-op while already active.
func (e *Engine) ActivateKinds(kinds ...Kind) {
	if e.active {
		return
	}
	seen := make(map[Kind]bool, len(kinds))
	e.effects = e.effects[:0]
	for _, k := range kinds {
		if k < 0 || k >= kindCount || seen[k] {
			continue
		}
		seen[k] = true
		e.effects = append(e.effects, k)
	}
	e.start()
}

func (e *Engine) start() {
	e.active = true
	e.capture()

	for _, k := range e.effects {
		e.run(k)
	}

	e.logger.Info("existential anomaly active", "effects", kindList(e.effects))
	for _, fn := range e.onFire {
		fn(e.Effects())
	}
}

// pick rolls a weighted count and draws that many distinct kinds.
func (e *Engine) pick() []Kind {
	if e.hasForce {
		e.logger.Debug("forced effect", "effect", e.force)
		return []Kind{e.force}
	}

	count := rng.Weighted(e.rnd, e.cfg.CountWeights) + 1
	if count < 1 {
		count = 1
	}
	pool := AllKinds()
	if count > len(pool) {
		count = len(pool)
	}

	out := make([]Kind, 0, count)
	for len(out) < count {
		i := e.rnd.IntN(len(pool))
		out = append(out, pool[i])
		pool = append(pool[:i], pool[i+1:]...)
	}
	e.logger.Debug("rolled effects", "count", count)
	return out
}

// RevertAll cancels every effect task and restores the baseline captured
// at activation. No-op while inactive.
func (e *Engine) RevertAll() {
	if !e.active {
		return
	}
	e.active = false
	e.sched.StopAll()
	e.armed = false

	if e.svc.Ghosts != nil {
		for _, id := range e.ghosts {
			e.svc.Ghosts.DestroyGhost(id)
		}
	}
	e.ghosts = nil

	b := e.base
	if e.svc.Physics != nil {
		e.svc.Physics.SetGravity(b.gravity)
	}
	if e.svc.Clock != nil {
		e.svc.Clock.SetTimeScale(b.timeScale)
		e.svc.Clock.SetFixedDelta(b.fixedDelta)
	}
	if p := e.svc.Player; p != nil && b.hasPlayer {
		p.SetScale(b.playerScale)
		p.SetMaterial(b.playerMaterial)
		p.SetControlsReversed(b.playerReversed)
	}
	for i, peer := range e.svc.Peers {
		if i >= len(b.peers) {
			break
		}
		peer.SetScale(b.peers[i].scale)
		peer.SetPosition(b.peers[i].position)
	}
	if fx := e.svc.PostFX; fx != nil {
		fx.SetVignette(b.vignette)
		fx.SetChromatic(b.chromatic)
		fx.SetSaturation(b.saturation)
	}
	if e.svc.Camera != nil {
		e.svc.Camera.SetOffset(b.camera)
	}
	if e.svc.Overlay != nil {
		e.svc.Overlay.SetBlinkAlpha(b.blink)
	}

	e.logger.Info("existential effects reverted", "effects", kindList(e.effects))
}

func (e *Engine) capture() {
	e.base = baseline{}
	if e.svc.Physics != nil {
		e.base.gravity = e.svc.Physics.Gravity()
	}
	if e.svc.Clock != nil {
		e.base.timeScale = e.svc.Clock.TimeScale()
		e.base.fixedDelta = e.svc.Clock.FixedDelta()
	}
	if e.svc.Player != nil {
		e.capturePlayer()
	}
	e.base.peers = make([]peerState, len(e.svc.Peers))
	for i, peer := range e.svc.Peers {
		e.base.peers[i] = peerState{position: peer.Position(), scale: peer.Scale()}
	}
	if fx := e.svc.PostFX; fx != nil {
		e.base.vignette = fx.Vignette()
		e.base.chromatic = fx.Chromatic()
		e.base.saturation = fx.Saturation()
	}
	if e.svc.Camera != nil {
		e.base.camera = e.svc.Camera.Offset()
	}
	if e.svc.Overlay != nil {
		e.base.blink = e.svc.Overlay.BlinkAlpha()
	}
}

func (e *Engine) capturePlayer() {
	p := e.svc.Player
	e.base.hasPlayer = true
	e.base.playerScale = p.Scale()
	e.base.playerMaterial = p.Material()
	e.base.playerReversed = p.ControlsReversed()
}

func kindList(kinds []Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ",")
}
