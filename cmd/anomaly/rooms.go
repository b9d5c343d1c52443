package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/anomaly-exit/internal/registry"
)

var roomsCmd = &cobra.Command{
	Use:     "rooms",
	Aliases: []string{"list"},
	Short:   "List all available rooms",
	Long:    `Shows every room registered from the embedded room set.`,
	Run:     runRooms,
}

func runRooms(_ *cobra.Command, _ []string) {
	rooms := registry.List()

	if len(rooms) == 0 {
		fmt.Println("No rooms available.")
		return
	}

	fmt.Println("Available rooms:")
	fmt.Println()

	maxIDLen, maxTitleLen := 2, 5 // "ID", "Title" headers
	for _, r := range rooms {
		maxIDLen = max(maxIDLen, len(r.ID))
		maxTitleLen = max(maxTitleLen, len(r.Title))
	}

	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Description")
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "-----------")
	for _, r := range rooms {
		fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, r.ID, maxTitleLen, r.Title, r.Description)
	}

	fmt.Println()
	fmt.Println("Run 'anomaly play <id>' to play a room.")
}
