package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/anomaly-exit/internal/audio"
	"github.com/vovakirdan/anomaly-exit/internal/core"
	"github.com/vovakirdan/anomaly-exit/internal/game"
	"github.com/vovakirdan/anomaly-exit/internal/registry"
)

var (
	flagSimRounds   int
	flagSimMaxTicks int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <room>",
	Short: "Let a perfect player clear a room headless",
	Long: `Run a room without a terminal. A scripted player fixes every anomaly
and takes the exit, or escapes through the entrance when the room turns
existential. Prints one line per judged round.

Examples:
  anomaly simulate office
  anomaly simulate office --seed 42 --rounds 3
  anomaly simulate archive --difficulty hard --log-level debug`,
	Args: cobra.ExactArgs(1),
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimRounds, "rounds", 0, "Rounds to play (0 = until every round is cleared)")
	simulateCmd.Flags().IntVar(&flagSimMaxTicks, "max-ticks", 0, "Tick budget before giving up (0 = default)")
	simulateCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom room YAML")
	simulateCmd.Flags().StringVar(&flagDifficulty, "difficulty", envDefaults.Difficulty, "Difficulty preset: easy, normal, hard")
}

func runSimulate(_ *cobra.Command, args []string) {
	roomID := args[0]

	if !registry.Exists(roomID) {
		fmt.Fprintf(os.Stderr, "Error: unknown room %q\n", roomID)
		fmt.Fprintln(os.Stderr, "Run 'anomaly rooms' to see available rooms.")
		os.Exit(1)
	}
	checkDifficulty()

	logger := newLogger(os.Stderr, "simulate")
	game.SetConfigPath(flagConfig)
	game.SetDifficultyPreset(flagDifficulty)
	game.SetDefaults(game.Options{Logger: logger, Sound: audio.Silent{}})

	created, err := registry.Create(roomID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating room: %v\n", err)
		os.Exit(1)
	}
	room, ok := created.(*game.Game)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: room %q cannot be simulated\n", roomID)
		os.Exit(1)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = seed
	room.Reset(cfg)

	fmt.Printf("Simulating %s (seed %d, %d rounds)\n", room.Title(), seed, room.Room().Rules.MaxRounds)
	fmt.Println()
	fmt.Printf("  %-5s  %-6s  %-9s  %-8s  %-20s  %-5s  %s\n", "Round", "Placed", "Left via", "Outcome", "Reason", "Fixes", "Seconds")
	fmt.Printf("  %-5s  %-6s  %-9s  %-8s  %-20s  %-5s  %s\n", "-----", "------", "--------", "-------", "------", "-----", "-------")

	pilot := game.NewAutopilot(room, flagSimMaxTicks)
	entries, err := pilot.Play(flagSimRounds)
	for _, e := range entries {
		exit := e.Exit
		if exit == "" {
			exit = "-"
		}
		secs := float64(e.Ticks) * cfg.TickSeconds()
		fmt.Printf("  %-5d  %-6d  %-9s  %-8s  %-20s  %-5d  %.1f\n",
			e.Round, e.Anomalies, exit, e.Outcome, e.Reason, e.Fixes, secs)
	}

	fmt.Println()
	fmt.Printf("%d ticks (%.1f s simulated)\n", pilot.Ticks(), float64(pilot.Ticks())*cfg.TickSeconds())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if room.IsGameOver() {
		fmt.Println("Every round cleared.")
	}
}
