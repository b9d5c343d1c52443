// Package registry provides a global registry for room factories.
// Rooms register themselves in init() functions, allowing the platform
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/anomaly-exit/internal/core"
)

// Game is the core interface every playable room implements.
// Rooms contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns a unique identifier for this room (e.g., "office").
	// Used for CLI commands and run history.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset initializes the room for a fresh playthrough.
	// The RuntimeConfig provides the tick rate and RNG seed; rendering
	// follows whatever screen is passed to Render.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	// Input is abstracted to platform-level actions (Jump, Interact, etc.).
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into the provided screen buffer.
	Render(dst *core.Screen)

	// State returns the current state (round, fixes, game over, paused).
	State() core.GameState
}

// RunSummary describes a finished run: a win, or a failure that sent the
// player back to round zero.
type RunSummary struct {
	RoomID  string
	Rounds  int // Rounds cleared
	Won     bool
	Reason  string
	Fixes   int
	Strikes int
}

// RunReporter is implemented by games that report finished runs.
type RunReporter interface {
	OnRunEnd(fn func(RunSummary))
}

// GameInfo contains metadata about a registered room.
type GameInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory is a function that creates a new instance of a room.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]GameInfo)
	mu        sync.RWMutex
)

// Register adds a room factory to the registry.
// Typically called from an init() function.
// Panics if a room with the same ID is already registered.
func Register(info GameInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[info.ID]; exists {
		panic(fmt.Sprintf("registry: room %q already registered", info.ID))
	}
	if info.Title == "" {
		info.Title = info.ID
	}

	factories[info.ID] = f
	infos[info.ID] = info
}

// List returns information about all registered rooms, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new room by its ID.
// Returns an error if the room ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown room %q", id)
	}

	return f(), nil
}

// Exists checks if a room with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
