package world

import (
	"github.com/vovakirdan/anomaly-exit/internal/core"
	"github.com/vovakirdan/anomaly-exit/internal/task"
)

// DefaultFadeDuration is the length of one fade in scaled seconds.
const DefaultFadeDuration = 0.5

// Fader tweens the world's full-screen fade overlay.
type Fader struct {
	world    *World
	Duration float64
}

// NewFader creates a fader over w's fade overlay.
func NewFader(w *World) *Fader {
	return &Fader{world: w, Duration: DefaultFadeDuration}
}

// FadeOut darkens the screen.
func (f *Fader) FadeOut() task.Task {
	return f.fade(0, 1)
}

// FadeIn clears the screen.
func (f *Fader) FadeIn() task.Task {
	return f.fade(1, 0)
}

func (f *Fader) fade(from, to float64) task.Task {
	return task.Tween(f.Duration, false, func(t float64) {
		f.world.SetFadeAlpha(core.Lerp(from, to, t))
	})
}
