package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/anomaly-exit/internal/platform/tui"
	"github.com/vovakirdan/anomaly-exit/internal/registry"
	"github.com/vovakirdan/anomaly-exit/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryTUI   bool
	flagHistoryClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history <room>",
	Short: "Show the best runs of a room",
	Long: `Display the best finished runs for the specified room, ranked by
rounds cleared, then wins, then fewest strikes.

Examples:
  anomaly history office
  anomaly history office --limit 25
  anomaly history office --tui
  anomaly history office --clear`,
	Args: cobra.ExactArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of runs to show")
	historyCmd.Flags().BoolVar(&flagHistoryTUI, "tui", false, "Browse history in the interactive view")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete every recorded run of the room")
}

func runHistory(_ *cobra.Command, args []string) {
	roomID := args[0]

	if !registry.Exists(roomID) {
		fmt.Fprintf(os.Stderr, "Error: unknown room %q\n", roomID)
		fmt.Fprintln(os.Stderr, "Run 'anomaly rooms' to see available rooms.")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryClear {
		if err := store.ClearRuns(roomID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			return
		}
		fmt.Printf("Cleared run history of %s.\n", roomID)
		return
	}

	if flagHistoryTUI {
		cfg := terminalConfig()
		if _, err := tui.RunHistory(store, roomID, cfg.ScreenW, cfg.ScreenH); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	runs, err := store.BestRuns(roomID, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	title := roomID
	for _, r := range registry.List() {
		if r.ID == roomID {
			title = r.Title
		}
	}
	fmt.Printf("Best Runs - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'anomaly play %s' to make history!\n", roomID)
		return
	}

	fmt.Printf("  %-4s  %-6s  %-6s  %-20s  %-5s  %-7s  %s\n", "Rank", "Rounds", "Result", "Reason", "Fixes", "Strikes", "Date")
	fmt.Printf("  %-4s  %-6s  %-6s  %-20s  %-5s  %-7s  %s\n", "----", "------", "------", "------", "-----", "-------", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-6d  %-6s  %-20s  %-5d  %-7d  %s\n",
			i+1, r.Rounds, r.Result, r.Reason, r.Fixes, r.Strikes, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if stats, err := store.GetRoomStats(roomID); err == nil {
		fmt.Printf("Runs: %d  Wins: %d  Best round: %d  Anomalies fixed: %d\n",
			stats.Runs, stats.Wins, stats.BestRound, stats.TotalFixes)
	}
}
