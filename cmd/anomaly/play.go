package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/anomaly-exit/internal/config"
	"github.com/vovakirdan/anomaly-exit/internal/core"
	"github.com/vovakirdan/anomaly-exit/internal/platform/tui"
	"github.com/vovakirdan/anomaly-exit/internal/registry"
	"github.com/vovakirdan/anomaly-exit/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagMute       bool
)

var playCmd = &cobra.Command{
	Use:   "play <room>",
	Short: "Play a room",
	Long: `Start playing the specified room.

Controls:
  A/D, Left/Right  - Walk
  Space/W/Up       - Jump
  E/Enter          - Fix the anomaly in reach, or use a door
  P/Esc            - Pause
  R                - Restart (after clearing every round)
  B                - Back to menu (while paused)
  Ctrl+S           - Screenshot to ~/.anomaly/screenshots
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - One anomaly per round, more clean rounds, extra strikes
  normal - Room as authored
  hard   - More anomalies, fewer clean rounds, fewer strikes

Examples:
  anomaly play office
  anomaly play archive --difficulty easy
  anomaly play office --config ./my-office.yaml
  anomaly play office --mute`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	for _, cmd := range []*cobra.Command{playCmd, menuCmd} {
		cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom room YAML")
		cmd.Flags().StringVar(&flagDifficulty, "difficulty", envDefaults.Difficulty, "Difficulty preset: easy, normal, hard")
		cmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
	}
}

// terminalConfig builds a runtime config sized to the current terminal.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// checkDifficulty rejects unknown difficulty names before any room loads.
func checkDifficulty() {
	if _, ok := config.ParsePreset(flagDifficulty); !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q (want easy, normal or hard)\n", flagDifficulty)
		os.Exit(1)
	}
}

func runPlay(_ *cobra.Command, args []string) {
	roomID := args[0]

	if !registry.Exists(roomID) {
		fmt.Fprintf(os.Stderr, "Error: unknown room %q\n", roomID)
		fmt.Fprintln(os.Stderr, "Run 'anomaly rooms' to see available rooms.")
		os.Exit(1)
	}
	checkDifficulty()

	logger, closeLog := fileLogger()
	defer closeLog()
	release := setupRooms(logger, flagMute)
	defer release()

	room, err := registry.Create(roomID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating room: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run database: %v\n", err)
		// Continue without storage - the room still works
		store = nil
	}

	logger.Info("playing room", "room", roomID, "difficulty", flagDifficulty)
	_, runErr := tui.Run(room, store, terminalConfig(), logger)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running room: %v\n", runErr)
		os.Exit(1)
	}
}
