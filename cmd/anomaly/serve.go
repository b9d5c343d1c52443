package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/anomaly-exit/internal/audio"
	"github.com/vovakirdan/anomaly-exit/internal/config"
	"github.com/vovakirdan/anomaly-exit/internal/game"
	"github.com/vovakirdan/anomaly-exit/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServeLevel  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with a room picker. Runs are
stored per-server (all users share the same history). Sessions are silent.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.anomaly/host_key

Examples:
  anomaly serve                           # Listen on :2222 with auto-generated key
  anomaly serve --ssh :23234              # Listen on port 23234
  anomaly serve --host-key ./my_host_key  # Use specific host key
  anomaly serve --db ./runs.db            # Use specific database

Users can connect with:
  ssh localhost -p 2222`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", envDefaults.SSHAddr, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeLevel, "difficulty", envDefaults.Difficulty, "Difficulty preset for every session")
}

func runServe(_ *cobra.Command, _ []string) {
	if _, ok := config.ParsePreset(flagServeLevel); !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q\n", flagServeLevel)
		os.Exit(1)
	}

	logger := newLogger(os.Stderr, "ssh")
	game.SetDifficultyPreset(flagServeLevel)
	game.SetDefaults(game.Options{Logger: logger.WithPrefix("room"), Sound: audio.Silent{}})

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.TickRate = flagFPS
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Logger = logger

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting anomaly SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
