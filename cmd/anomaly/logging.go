package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/anomaly-exit/internal/audio"
	"github.com/vovakirdan/anomaly-exit/internal/game"
)

// newLogger creates a logger at the --log-level level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}

// fileLogger logs to ~/.anomaly/anomaly.log, since the alt screen owns
// stdout while a room runs. Falls back to discarding logs.
func fileLogger() (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return newLogger(io.Discard, "anomaly"), func() {}
	}
	dir := filepath.Join(home, ".anomaly")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newLogger(io.Discard, "anomaly"), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "anomaly.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return newLogger(io.Discard, "anomaly"), func() {}
	}
	//nolint:errcheck // Best-effort close on exit
	return newLogger(f, "anomaly"), func() { f.Close() }
}

// setupRooms applies the room flags and opens the sound bank for rooms
// created afterwards. The returned func releases the speaker.
func setupRooms(logger *log.Logger, mute bool) func() {
	game.SetConfigPath(flagConfig)
	game.SetDifficultyPreset(flagDifficulty)

	opts := game.Options{Logger: logger, Sound: audio.Silent{}}
	release := func() {}
	if !mute {
		bank, err := audio.Open(logger.WithPrefix("audio"))
		if err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			opts.Sound = bank
			release = bank.Close
		}
	}
	game.SetDefaults(opts)
	return release
}
