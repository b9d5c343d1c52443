package audio

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// tone is one note of a cue.
type tone struct {
	freq float64
	dur  time.Duration
	wave Wave
}

// cue is a short sequence of tones played as one event.
type cue struct {
	tones  []tone
	volume float64
}

var cues = map[string]cue{
	"anomaly_fixed": {volume: 0.35, tones: []tone{
		{660, 70 * time.Millisecond, WaveSine},
		{990, 120 * time.Millisecond, WaveSine},
	}},
	"door": {volume: 0.3, tones: []tone{
		{110, 180 * time.Millisecond, WaveTriangle},
	}},
	"round_success": {volume: 0.3, tones: []tone{
		{523.25, 90 * time.Millisecond, WaveSine},
		{659.25, 90 * time.Millisecond, WaveSine},
		{783.99, 160 * time.Millisecond, WaveSine},
	}},
	"round_fail": {volume: 0.3, tones: []tone{
		{220, 160 * time.Millisecond, WaveSquare},
		{164.81, 260 * time.Millisecond, WaveSquare},
	}},
	"strike": {volume: 0.25, tones: []tone{
		{140, 120 * time.Millisecond, WaveSquare},
	}},
	"game_won": {volume: 0.3, tones: []tone{
		{523.25, 100 * time.Millisecond, WaveTriangle},
		{659.25, 100 * time.Millisecond, WaveTriangle},
		{783.99, 100 * time.Millisecond, WaveTriangle},
		{1046.5, 300 * time.Millisecond, WaveTriangle},
	}},
	"music_variant_a": {volume: 0.2, tones: []tone{
		{233.08, 400 * time.Millisecond, WaveSine},
		{220, 400 * time.Millisecond, WaveSine},
		{207.65, 700 * time.Millisecond, WaveSine},
	}},
	"music_variant_b": {volume: 0.2, tones: []tone{
		{311.13, 300 * time.Millisecond, WaveTriangle},
		{293.66, 300 * time.Millisecond, WaveTriangle},
		{311.13, 600 * time.Millisecond, WaveTriangle},
	}},
	"music_variant_c": {volume: 0.2, tones: []tone{
		{92.5, 900 * time.Millisecond, WaveSine},
	}},
}

// Keys lists every event the bank can play, sorted.
func Keys() []string {
	keys := make([]string, 0, len(cues))
	for k := range cues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Streamer builds a fresh stream for a key.
func Streamer(key string) (beep.Streamer, bool) {
	c, ok := cues[key]
	if !ok {
		return nil, false
	}
	parts := make([]beep.Streamer, 0, len(c.tones))
	for _, t := range c.tones {
		gen, err := toneStreamer(t.wave, t.freq)
		if err != nil {
			return nil, false
		}
		parts = append(parts, shape(gen, t.dur, 5*time.Millisecond, t.dur/3))
	}
	return newVolume(beep.Seq(parts...), c.volume), true
}

// Bank plays cues through the system speaker.
type Bank struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	logger *log.Logger
	closed bool
}

// Open initializes the speaker and starts an empty mixer on it.
func Open(logger *log.Logger) (*Bank, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("audio: init speaker: %w", err)
	}
	b := &Bank{mixer: &beep.Mixer{}, logger: logger}
	speaker.Play(b.mixer)
	return b, nil
}

// Play mixes the cue for key into the output.
func (b *Bank) Play(key string) {
	s, ok := Streamer(key)
	if !ok {
		b.logger.Warn("unknown sound event", "key", key)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	speaker.Lock()
	b.mixer.Add(s)
	speaker.Unlock()
}

// Close silences the mixer and releases the speaker.
func (b *Bank) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	speaker.Clear()
	speaker.Close()
}
