package game

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/anomaly-exit/internal/core"
	"github.com/vovakirdan/anomaly-exit/internal/round"
)

// ErrStalled is returned when the autopilot runs out of ticks.
var ErrStalled = errors.New("game: autopilot stalled")

// RoundLog is one judged round seen by the autopilot.
type RoundLog struct {
	round.Result
	Anomalies int    // Anomalies placed in the round
	Exit      string // "exit" or "entrance"
	Ticks     int    // Ticks spent in the room
}

// Autopilot plays a room without mistakes through its public surface:
// it fixes every anomaly and leaves through the exit, except when an
// existential anomaly is present, where it waits for the effects and
// escapes through the entrance.
type Autopilot struct {
	g        *Game
	maxTicks int
	ticks    int
	log      []RoundLog
	pending  *RoundLog
}

// NewAutopilot drives g, which must already be Reset. maxTicks bounds
// the whole session; zero means a generous default.
func NewAutopilot(g *Game, maxTicks int) *Autopilot {
	if maxTicks <= 0 {
		maxTicks = 200_000
	}
	a := &Autopilot{g: g, maxTicks: maxTicks}
	g.machine.Subscribe(round.ListenerFunc(a.judged))
	return a
}

func (a *Autopilot) judged(r round.Result) {
	entry := RoundLog{Result: r}
	if a.pending != nil {
		entry.Anomalies = a.pending.Anomalies
		entry.Exit = a.pending.Exit
		entry.Ticks = a.pending.Ticks
	}
	a.log = append(a.log, entry)
	a.pending = nil
}

// Ticks returns how many ticks the autopilot has stepped.
func (a *Autopilot) Ticks() int {
	return a.ticks
}

// Log returns every judged round so far.
func (a *Autopilot) Log() []RoundLog {
	out := make([]RoundLog, len(a.log))
	copy(out, a.log)
	return out
}

// Play runs until rounds rounds were judged or the playthrough is won.
// rounds <= 0 plays until the win.
func (a *Autopilot) Play(rounds int) ([]RoundLog, error) {
	start := len(a.log)
	for !a.g.IsGameOver() && (rounds <= 0 || len(a.log)-start < rounds) {
		if err := a.playRound(); err != nil {
			return a.log[start:], err
		}
	}
	return a.log[start:], nil
}

// playRound plays from inside the room until the round is judged.
func (a *Autopilot) playRound() error {
	m := a.g.machine
	judged := len(a.log)

	if err := a.waitTransition(); err != nil {
		return err
	}
	if m.State() == round.InHallway {
		a.g.TryInteractAt(a.g.room.RoundConfig().HallwayDoor)
		if err := a.waitTransition(); err != nil {
			return err
		}
	}
	if m.State() != round.InRoom {
		return nil
	}

	entry := &RoundLog{Anomalies: m.Anomalies()}
	a.pending = entry
	startTicks := a.ticks

	if a.g.engine.Armed() || a.g.engine.Active() {
		for !a.g.engine.Active() {
			if err := a.tick(); err != nil {
				return err
			}
		}
		entry.Exit = "entrance"
		entry.Ticks = a.ticks - startTicks
		a.g.AttemptExitThroughEntrance()
	} else {
		for _, s := range a.g.slots {
			if s.IsActive() {
				a.g.TryInteractAt(s.VisualPosition())
			}
		}
		entry.Exit = "exit"
		entry.Ticks = a.ticks - startTicks
		a.g.AttemptExitThroughExit()
	}

	// The hallway leg ends with the judgment.
	if err := a.waitTransition(); err != nil {
		return err
	}
	if m.State() == round.InHallway {
		a.g.TryInteractAt(a.g.room.RoundConfig().HallwayDoor)
		if err := a.waitTransition(); err != nil {
			return err
		}
	}
	if len(a.log) == judged {
		return fmt.Errorf("%w: round %d was not judged", ErrStalled, m.CurrentRound())
	}
	return nil
}

func (a *Autopilot) waitTransition() error {
	for a.g.machine.Transitioning() {
		if err := a.tick(); err != nil {
			return err
		}
	}
	return nil
}

func (a *Autopilot) tick() error {
	if a.ticks >= a.maxTicks {
		return fmt.Errorf("%w after %d ticks", ErrStalled, a.ticks)
	}
	a.ticks++
	a.g.Step(core.NewInputFrame())
	return nil
}
