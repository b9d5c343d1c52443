package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrUnknownRoom is returned when no file or embedded default matches an id.
var ErrUnknownRoom = errors.New("config: unknown room")

// LoadRoom loads and validates a room.
// Search order: customPath -> ~/.anomaly/rooms/<id>.yaml -> ./rooms/<id>.yaml -> embedded default
func LoadRoom(id, customPath string) (RoomConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return RoomConfig{}, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		return ParseRoom(data, id)
	}

	// Try user rooms directory
	if p := userRoomPath(id); p != "" {
		if data, err := os.ReadFile(p); err == nil {
			if cfg, err := ParseRoom(data, id); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local rooms directory
	if data, err := os.ReadFile(filepath.Join("rooms", id+".yaml")); err == nil {
		if cfg, err := ParseRoom(data, id); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	return EmbeddedRoom(id)
}

// ParseRoom decodes YAML over DefaultRoomConfig and validates the result.
// An empty id in the document is filled from fallbackID.
func ParseRoom(data []byte, fallbackID string) (RoomConfig, error) {
	cfg := DefaultRoomConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RoomConfig{}, fmt.Errorf("config: parse room %q: %w", fallbackID, err)
	}
	if cfg.ID == "" {
		cfg.ID = fallbackID
	}
	if cfg.Name == "" {
		cfg.Name = cfg.ID
	}
	if err := cfg.Validate(); err != nil {
		return RoomConfig{}, err
	}
	return cfg, nil
}

// userRoomPath returns the path to a user room file, or empty if home is unavailable.
func userRoomPath(id string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".anomaly", "rooms", id+".yaml")
}
