package existential

import (
	"math"

	"github.com/vovakirdan/anomaly-exit/internal/core"
	"github.com/vovakirdan/anomaly-exit/internal/rng"
	"github.com/vovakirdan/anomaly-exit/internal/task"
)

func (e *Engine) run(k Kind) {
	if k.Instant() {
		e.apply(k)
		return
	}

	var t task.Task
	switch k {
	case GravityIncrease:
		t = e.lerpGravity(k, e.cfg.GravityIncreaseTarget)
	case GravityDecrease:
		t = e.lerpGravity(k, e.cfg.GravityDecreaseTarget)
	case PlayerShrink:
		t = e.lerpPlayerScale(e.cfg.PlayerShrinkTarget)
	case PlayerGrow:
		t = e.lerpPlayerScale(e.cfg.PlayerGrowTarget)
	case ObjectShake:
		t = e.shakeObjects()
	case ObjectAvoid:
		t = e.avoidPlayer()
	case AnomalyGrow:
		t = e.growObjects()
	case TimeAccelerate:
		t = e.lerpTimeScale(k, e.cfg.TimeAccelTarget)
	case TimeSlow:
		t = e.lerpTimeScale(k, e.cfg.TimeSlowTarget)
	case PostProcessingIntensify:
		if e.svc.PostFX == nil {
			t = e.missing(k, "postfx")
			break
		}
		t = task.All(e.lerpVignette(), e.lerpChromatic())
	case PostProcessingVignette:
		t = e.lerpVignette()
	case PostProcessingChromatic:
		t = e.lerpChromatic()
	case Desaturate:
		t = e.desaturate()
	case EchoShadow:
		t = e.echoShadow()
	case HeartbeatCameraShake:
		t = e.heartbeat()
	case SlowBlink:
		t = e.slowBlink()
	}
	if t != nil {
		e.sched.Start(t)
	}
}

// apply performs a one-shot effect.
func (e *Engine) apply(k Kind) {
	switch k {
	case NoFriction:
		e.applyNoFriction()
	case MusicVariant:
		e.playMusicVariant()
	case ReverseControls:
		e.applyReverseControls()
	}
}

func (e *Engine) live() bool {
	return e.active
}

func (e *Engine) missing(k Kind, collaborator string) task.Task {
	e.logger.Warn("effect skipped, collaborator missing", "effect", k, "collaborator", collaborator)
	return nil
}

// tweenDuration is |target-start|/speed with a floor.
func tweenDuration(start, target, speed, floor float64) float64 {
	if speed <= 0 {
		return floor
	}
	return math.Max(math.Abs(target-start)/speed, floor)
}

func (e *Engine) lerpGravity(k Kind, targetY float64) task.Task {
	phys := e.svc.Physics
	if phys == nil {
		return e.missing(k, "physics")
	}
	return task.Defer(func() task.Task {
		startY := phys.Gravity().Y
		d := tweenDuration(startY, targetY, e.cfg.GravityLerpSpeed, minTweenDuration)
		e.logger.Debug("gravity tween", "from", startY, "to", targetY, "seconds", d)
		return task.Tween(d, false, func(t float64) {
			if !e.live() {
				return
			}
			g := phys.Gravity()
			g.Y = core.Lerp(startY, targetY, t)
			phys.SetGravity(g)
		})
	})
}

// waitForPlayer yields until a player is attached or the timeout passes.
func (e *Engine) waitForPlayer() task.Task {
	waited := 0.0
	return task.Func(func(f task.Frame) bool {
		if e.svc.Player != nil || !e.live() {
			return true
		}
		waited += f.Unscaled
		return waited >= playerWaitTimeout
	})
}

func (e *Engine) lerpPlayerScale(target float64) task.Task {
	return task.Seq(
		e.waitForPlayer(),
		task.Defer(func() task.Task {
			p := e.svc.Player
			if p == nil {
				e.logger.Warn("player scale skipped, no player")
				return nil
			}
			orig := e.base.playerScale
			if orig == (core.Vec2{}) {
				e.logger.Warn("player scale skipped, scale is zero")
				return nil
			}
			from := p.Scale()
			to := orig.Scale(target)
			d := tweenDuration(1, target, e.cfg.PlayerScaleLerpSpeed, minPlayerScaleDuration)
			return task.Tween(d, false, func(t float64) {
				if e.live() {
					p.SetScale(core.LerpVec(from, to, t))
				}
			})
		}),
	)
}

// shakeObjects jitters every peer around its live position. The previous
// jitter is removed before the next is added so other effects moving the
// same peer keep their progress.
func (e *Engine) shakeObjects() task.Task {
	if len(e.svc.Peers) == 0 {
		return e.missing(ObjectShake, "peers")
	}
	jitter := make([]core.Vec2, len(e.svc.Peers))
	interval := 1.0
	if e.cfg.ShakeSpeed > 0 {
		interval = 1 / e.cfg.ShakeSpeed
	}
	return task.Loop(e.live, func() task.Task {
		return task.Seq(
			task.Do(func() {
				for i, peer := range e.svc.Peers {
					next := rng.InsideUnitCircle(e.rnd).Scale(e.cfg.ShakeAmount)
					peer.SetPosition(peer.Position().Sub(jitter[i]).Add(next))
					jitter[i] = next
				}
			}),
			task.Wait(interval),
		)
	})
}

func (e *Engine) avoidPlayer() task.Task {
	if len(e.svc.Peers) == 0 {
		return e.missing(ObjectAvoid, "peers")
	}
	return task.While(e.live, func(f task.Frame) {
		p := e.svc.Player
		if p == nil {
			return
		}
		player := p.Position()
		for _, peer := range e.svc.Peers {
			away := peer.Position().Sub(player)
			dist := away.Len()
			if dist < e.cfg.AvoidRadius && dist > avoidDeadZone {
				peer.SetPosition(peer.Position().Add(away.Normalized().Scale(e.cfg.AvoidSpeed * f.Delta)))
			}
		}
	})
}

func (e *Engine) growObjects() task.Task {
	if len(e.svc.Peers) == 0 {
		return e.missing(AnomalyGrow, "peers")
	}
	return task.While(e.live, func(f task.Frame) {
		for i, peer := range e.svc.Peers {
			if i >= len(e.base.peers) {
				break
			}
			target := e.base.peers[i].scale.Scale(e.cfg.AnomalyGrowTarget)
			peer.SetScale(core.LerpVec(peer.Scale(), target, e.cfg.AnomalyGrowSpeed*f.Delta))
		}
	})
}

func (e *Engine) lerpTimeScale(k Kind, target float64) task.Task {
	clock := e.svc.Clock
	if clock == nil {
		return e.missing(k, "clock")
	}
	return task.Defer(func() task.Task {
		start := clock.TimeScale()
		d := tweenDuration(start, target, e.cfg.TimeLerpSpeed, minTweenDuration)
		e.logger.Debug("time scale tween", "from", start, "to", target, "seconds", d)
		return task.Tween(d, true, func(t float64) {
			if !e.live() {
				return
			}
			s := core.Lerp(start, target, t)
			clock.SetTimeScale(s)
			clock.SetFixedDelta(e.cfg.FixedDeltaBase * s)
		})
	})
}

func (e *Engine) applyNoFriction() {
	if e.svc.Player == nil {
		e.missing(NoFriction, "player")
		return
	}
	e.svc.Player.SetMaterial(NoFrictionMaterial)
}

func (e *Engine) playMusicVariant() {
	if e.svc.Music == nil || len(e.cfg.MusicKeys) == 0 {
		e.missing(MusicVariant, "music")
		return
	}
	key := e.cfg.MusicKeys[e.rnd.IntN(len(e.cfg.MusicKeys))]
	e.logger.Debug("music variant", "key", key)
	e.svc.Music.Play(key)
}

func (e *Engine) applyReverseControls() {
	if e.svc.Player == nil {
		e.missing(ReverseControls, "player")
		return
	}
	e.svc.Player.SetControlsReversed(true)
}

func (e *Engine) postFXDuration() float64 {
	if e.cfg.PostFXLerpSpeed <= 0 {
		return minTweenDuration
	}
	return math.Max(1/e.cfg.PostFXLerpSpeed, minTweenDuration)
}

func (e *Engine) lerpVignette() task.Task {
	fx := e.svc.PostFX
	if fx == nil {
		return e.missing(PostProcessingVignette, "postfx")
	}
	from := e.base.vignette
	return task.Tween(e.postFXDuration(), false, func(t float64) {
		if e.live() {
			fx.SetVignette(core.Lerp(from, e.cfg.VignetteTarget, t))
		}
	})
}

func (e *Engine) lerpChromatic() task.Task {
	fx := e.svc.PostFX
	if fx == nil {
		return e.missing(PostProcessingChromatic, "postfx")
	}
	from := e.base.chromatic
	return task.Tween(e.postFXDuration(), false, func(t float64) {
		if e.live() {
			fx.SetChromatic(core.Lerp(from, e.cfg.ChromaticTarget, t))
		}
	})
}

func (e *Engine) desaturate() task.Task {
	fx := e.svc.PostFX
	if fx == nil {
		return e.missing(Desaturate, "postfx")
	}
	target := e.cfg.DesaturateTarget
	return task.Func(func(f task.Frame) bool {
		if !e.live() {
			return true
		}
		next := core.MoveTowards(fx.Saturation(), target, e.cfg.DesaturateRate*f.Delta)
		fx.SetSaturation(next)
		return next == target
	})
}

// echoShadow trails a ghost behind the player by a fixed time lag.
func (e *Engine) echoShadow() task.Task {
	if e.svc.Ghosts == nil {
		return e.missing(EchoShadow, "ghosts")
	}
	return task.Seq(
		e.waitForPlayer(),
		task.Defer(func() task.Task {
			p := e.svc.Player
			if p == nil {
				e.logger.Warn("echo shadow skipped, no player")
				return nil
			}
			id := e.svc.Ghosts.SpawnGhost(p.Pose())
			e.ghosts = append(e.ghosts, id)
			var history []Pose
			return task.While(e.live, func(f task.Frame) {
				history = append(history, p.Pose())
				limit := int(math.Max(1, math.Round(e.cfg.EchoLag/math.Max(f.Delta, minGhostDelta))))
				if over := len(history) - limit; over > 0 {
					history = history[over:]
				}
				e.svc.Ghosts.MoveGhost(id, history[0])
			})
		}),
	)
}

func (e *Engine) heartbeat() task.Task {
	cam := e.svc.Camera
	if cam == nil {
		return e.missing(HeartbeatCameraShake, "camera")
	}
	beat := func() task.Task {
		return task.Defer(func() task.Task {
			origin := cam.Offset()
			return task.Seq(
				task.Tween(e.cfg.HeartbeatBeatTime, false, func(t float64) {
					if !e.live() {
						return
					}
					intensity := math.Sin(t*math.Pi) * e.cfg.HeartbeatIntensity
					cam.SetOffset(origin.Add(rng.InsideUnitCircle(e.rnd).Scale(intensity)))
				}),
				task.Do(func() {
					if e.live() {
						cam.SetOffset(origin)
					}
				}),
				task.Wait(e.cfg.HeartbeatGap),
			)
		})
	}
	return task.Loop(e.live, func() task.Task {
		beats := make([]task.Task, 0, e.cfg.HeartbeatBeats+1)
		for i := 0; i < e.cfg.HeartbeatBeats; i++ {
			beats = append(beats, beat())
		}
		beats = append(beats, task.Defer(func() task.Task {
			return task.Wait(rng.RangeF(e.rnd, e.cfg.HeartbeatRestMin, e.cfg.HeartbeatRestMax))
		}))
		return task.Seq(beats...)
	})
}

func (e *Engine) slowBlink() task.Task {
	overlay := e.svc.Overlay
	if overlay == nil {
		return e.missing(SlowBlink, "overlay")
	}
	half := e.cfg.BlinkDuration / 2
	fade := func(from, to float64) task.Task {
		return task.Tween(half, true, func(t float64) {
			if e.live() {
				overlay.SetBlinkAlpha(core.Lerp(from, to, t))
			}
		})
	}
	return task.Loop(e.live, func() task.Task {
		return task.Seq(
			task.Defer(func() task.Task {
				return task.WaitRealtime(rng.RangeF(e.rnd, e.cfg.BlinkIntervalMin, e.cfg.BlinkIntervalMax))
			}),
			fade(0, 1),
			fade(1, 0),
		)
	})
}
