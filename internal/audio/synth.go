package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveTriangle
)

// toneStreamer returns an endless generator of the given shape.
func toneStreamer(wave Wave, freq float64) (beep.Streamer, error) {
	var (
		s   beep.Streamer
		err error
	)
	switch wave {
	case WaveSquare:
		s, err = generators.SquareTone(sampleRate, freq)
	case WaveTriangle:
		s, err = generators.TriangleTone(sampleRate, freq)
	default:
		s, err = generators.SineTone(sampleRate, freq)
	}
	if err != nil {
		return nil, fmt.Errorf("audio: tone %.2f Hz: %w", freq, err)
	}
	return s, nil
}

// shape cuts d of s and fades it in over attack and out over release.
func shape(s beep.Streamer, d, attack, release time.Duration) beep.Streamer {
	total := sampleRate.N(d)
	in := min(sampleRate.N(attack), total)
	out := min(sampleRate.N(release), total-in)

	parts := make([]beep.Streamer, 0, 3)
	if in > 0 {
		parts = append(parts, effects.Transition(beep.Take(in, s), in, 0, 1, effects.TransitionLinear))
	}
	if hold := total - in - out; hold > 0 {
		parts = append(parts, beep.Take(hold, s))
	}
	if out > 0 {
		parts = append(parts, effects.Transition(beep.Take(out, s), out, 1, 0, effects.TransitionLinear))
	}
	return beep.Seq(parts...)
}

// newVolume scales a stream linearly; vol <= 0 is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
