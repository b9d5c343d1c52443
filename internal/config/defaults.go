package config

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/vovakirdan/anomaly-exit/internal/anomaly"
	"github.com/vovakirdan/anomaly-exit/internal/existential"
)

//go:embed defaults/*.yaml
var defaultRooms embed.FS

// DefaultRoomConfig returns the base every room file is decoded over, so
// omitted fields keep sensible values.
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		Layout: LayoutConfig{
			Width:        64,
			Height:       12,
			HallwayWidth: 30,
			HallwayGap:   16,
			StartX:       6,
			EntranceX:    2,
			ExitX:        61,
		},
		Rules: RulesConfig{
			MaxRounds:            8,
			MaxAnomaliesPerRound: 2,
			ChanceForNoAnomalies: 0.2,
			ExistentialChance:    0.15,
			ReactiveChance:       0.25,
			InteractRange:        2.5,
			MaxStrikes:           3,
			StrikeCooldown:       0.75,
		},
		Prefabs:     map[string]PrefabConfig{},
		Existential: existential.DefaultConfig(),
		Reactive:    anomaly.DefaultReactiveConfig(),
	}
}

// EmbeddedRoomIDs lists the rooms shipped with the binary, sorted.
func EmbeddedRoomIDs() []string {
	entries, err := fs.ReadDir(defaultRooms, "defaults")
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != ".yaml" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".yaml"))
	}
	sort.Strings(ids)
	return ids
}

func embeddedRoom(id string) ([]byte, error) {
	return defaultRooms.ReadFile(path.Join("defaults", id+".yaml"))
}

// EmbeddedRoom parses a room shipped with the binary, ignoring user files.
func EmbeddedRoom(id string) (RoomConfig, error) {
	data, err := embeddedRoom(id)
	if err != nil {
		return RoomConfig{}, fmt.Errorf("%w: %q", ErrUnknownRoom, id)
	}
	return ParseRoom(data, id)
}
