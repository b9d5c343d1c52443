package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/anomaly-exit/internal/platform/tui"
	"github.com/vovakirdan/anomaly-exit/internal/registry"
	"github.com/vovakirdan/anomaly-exit/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a room picker",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to pick a room, Tab for run
history. Pause a room and press B to come back to the menu.

Examples:
  anomaly menu
  anomaly menu --difficulty hard
  anomaly menu --db ./runs.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	checkDifficulty()

	logger, closeLog := fileLogger()
	defer closeLog()
	release := setupRooms(logger, flagMute)
	defer release()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run database: %v\n", err)
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	cfg := terminalConfig()
	for {
		result, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = result.Config

		switch {
		case result.Quit:
			return

		case result.WantsHistory:
			goBack, histErr := tui.RunHistory(store, "", cfg.ScreenW, cfg.ScreenH)
			if histErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", histErr)
			}
			if !goBack {
				return
			}
			continue
		}

		room, err := registry.Create(result.RoomID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating room: %v\n", err)
			continue
		}

		// Fresh seed for each room unless one was pinned
		roomCfg := cfg
		if roomCfg.Seed == 0 {
			roomCfg.Seed = time.Now().UnixNano()
		}

		logger.Info("playing room", "room", result.RoomID)
		back, err := tui.Run(room, store, roomCfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running room: %v\n", err)
		}
		if !back {
			return
		}
	}
}
