// anomaly is a terminal puzzle game: spot what changed in the room, fix it
// or leave the right way, and clear every round.
//
// Usage:
//
//	anomaly rooms              - List available rooms
//	anomaly play <room>        - Play a room
//	anomaly menu               - Pick rooms interactively
//	anomaly serve              - Start SSH server for remote play
//	anomaly history <room>     - Show the best runs of a room
//	anomaly simulate <room>    - Let a perfect player clear a room headless
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible rounds
//	--db <path>          - Set database path (default: ~/.anomaly/runs.db)
//	--log-level <level>  - debug, info, warn or error
//
// Every global flag also reads an ANOMALY_* environment variable.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/anomaly-exit/internal/config"

	// Register embedded rooms
	_ "github.com/vovakirdan/anomaly-exit/internal/game"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

// envDefaults seeds flag defaults from ANOMALY_* variables.
var envDefaults = loadEnvDefaults()

func loadEnvDefaults() config.Env {
	e, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return config.Env{
			DBPath:     "~/.anomaly/runs.db",
			FPS:        60,
			LogLevel:   "info",
			SSHAddr:    ":2222",
			Difficulty: string(config.DifficultyNormal),
		}
	}
	return e
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "anomaly",
	Short: "Anomaly Exit - find what changed, leave the right way",
	Long: `Anomaly Exit is a terminal puzzle game. Each round you walk into the
same room. Something may have changed: fix every anomaly and take the
exit. If the room itself turns against you, escape through the entrance.
One mistake sends you back to round 0.

Available commands:
  rooms     - Show all available rooms
  play      - Play a specific room
  menu      - Interactive room picker
  serve     - Start SSH server for remote play
  history   - View the best runs of a room
  simulate  - Watch a perfect player clear a room

Examples:
  anomaly rooms
  anomaly play office
  anomaly play archive --difficulty hard
  anomaly serve --ssh :2222
  anomaly simulate office --seed 42`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", envDefaults.FPS, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", envDefaults.Seed, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", envDefaults.DBPath, "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", envDefaults.LogLevel, "Log level: debug, info, warn, error")

	rootCmd.AddCommand(roomsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(simulateCmd)
}
