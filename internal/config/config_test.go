package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/anomaly-exit/internal/anomaly"
	"github.com/vovakirdan/anomaly-exit/internal/core"
)

func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestEmbeddedRoomIDs(t *testing.T) {
	got := EmbeddedRoomIDs()
	want := []string{"archive", "office"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EmbeddedRoomIDs() = %v, want %v", got, want)
	}
}

func TestLoadEmbeddedRooms(t *testing.T) {
	isolateHome(t)

	for _, id := range EmbeddedRoomIDs() {
		t.Run(id, func(t *testing.T) {
			cfg, err := LoadRoom(id, "")
			if err != nil {
				t.Fatalf("LoadRoom(%q) failed: %v", id, err)
			}
			if cfg.ID != id {
				t.Errorf("ID = %q, want %q", cfg.ID, id)
			}
			if len(cfg.Slots) == 0 {
				t.Error("expected slots")
			}
			for _, s := range cfg.Slots {
				if _, ok := cfg.Prefabs[s.Normal]; !ok {
					t.Errorf("slot %q: normal prefab %q has no art", s.ID, s.Normal)
				}
				for _, v := range s.Variants {
					if _, ok := cfg.Prefabs[v.Prefab]; !ok {
						t.Errorf("slot %q: variant prefab %q has no art", s.ID, v.Prefab)
					}
				}
			}
			for name, p := range cfg.Prefabs {
				if _, ok := core.ParseColor(p.Color); !ok {
					t.Errorf("prefab %q: unknown color %q", name, p.Color)
				}
			}
		})
	}
}

func TestLoadOfficeValues(t *testing.T) {
	isolateHome(t)

	cfg, err := LoadRoom("office", "")
	if err != nil {
		t.Fatalf("LoadRoom failed: %v", err)
	}
	if cfg.Rules.MaxRounds != 8 {
		t.Errorf("MaxRounds = %d, want 8", cfg.Rules.MaxRounds)
	}
	if cfg.Rules.MaxAnomaliesPerRound != 2 {
		t.Errorf("MaxAnomaliesPerRound = %d, want 2", cfg.Rules.MaxAnomaliesPerRound)
	}
	// Untouched existential tunables keep their defaults
	if cfg.Existential.EchoLag != 0.5 {
		t.Errorf("EchoLag = %v, want default 0.5", cfg.Existential.EchoLag)
	}
	if len(cfg.Existential.CountWeights) != 5 {
		t.Errorf("CountWeights = %v, want defaults", cfg.Existential.CountWeights)
	}
}

func TestLoadUnknownRoom(t *testing.T) {
	isolateHome(t)

	_, err := LoadRoom("does-not-exist", "")
	if !errors.Is(err, ErrUnknownRoom) {
		t.Errorf("expected ErrUnknownRoom, got %v", err)
	}
}

const minimalRoom = `
name: Closet
layout:
  width: 20
  exit_x: 18
slots:
  - id: broom
    x: 10
    normal: broom
    variants:
      - prefab: broom_upside
        behavior: reactive
prefabs:
  broom: { art: ["|"], color: yellow }
`

func TestLoadCustomPath(t *testing.T) {
	isolateHome(t)

	path := filepath.Join(t.TempDir(), "closet.yaml")
	if err := os.WriteFile(path, []byte(minimalRoom), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRoom("closet", path)
	if err != nil {
		t.Fatalf("LoadRoom failed: %v", err)
	}
	if cfg.ID != "closet" {
		t.Errorf("ID = %q, want fallback %q", cfg.ID, "closet")
	}
	if cfg.Name != "Closet" {
		t.Errorf("Name = %q, want Closet", cfg.Name)
	}
	if cfg.Layout.Width != 20 || cfg.Layout.Height != 12 {
		t.Errorf("layout = %+v, want width 20 and default height", cfg.Layout)
	}
	if cfg.Rules.MaxRounds != 8 {
		t.Errorf("MaxRounds = %d, want default 8", cfg.Rules.MaxRounds)
	}

	specs := cfg.SlotSpecs()
	if len(specs) != 1 || len(specs[0].Authored) != 1 {
		t.Fatalf("unexpected specs %+v", specs)
	}
	if specs[0].Authored[0].Behavior != anomaly.BehaviorReactive {
		t.Errorf("behavior = %v, want reactive", specs[0].Authored[0].Behavior)
	}
	if specs[0].Home != core.V(10, 0) {
		t.Errorf("home = %+v", specs[0].Home)
	}
}

func TestLoadCustomPathMissing(t *testing.T) {
	_, err := LoadRoom("x", filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing custom file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestLoadUserRoomOverridesEmbedded(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".anomaly", "rooms")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "office.yaml"), []byte(minimalRoom), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRoom("office", "")
	if err != nil {
		t.Fatalf("LoadRoom failed: %v", err)
	}
	if cfg.Name != "Closet" {
		t.Errorf("expected user file to win, got room %q", cfg.Name)
	}
}

func TestParseRoomBadYAML(t *testing.T) {
	if _, err := ParseRoom([]byte("slots: [:"), "bad"); err == nil {
		t.Error("expected parse error")
	}
}

func validRoom(t *testing.T) RoomConfig {
	t.Helper()
	cfg, err := ParseRoom([]byte(minimalRoom), "closet")
	if err != nil {
		t.Fatalf("ParseRoom failed: %v", err)
	}
	return cfg
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *RoomConfig)
	}{
		{"no slots", func(c *RoomConfig) { c.Slots = nil }},
		{"duplicate slot", func(c *RoomConfig) { c.Slots = append(c.Slots, c.Slots[0]) }},
		{"empty slot id", func(c *RoomConfig) { c.Slots[0].ID = "" }},
		{"slot without normal", func(c *RoomConfig) { c.Slots[0].Normal = "" }},
		{"slot outside room", func(c *RoomConfig) { c.Slots[0].X = 99 }},
		{"unknown behavior", func(c *RoomConfig) { c.Slots[0].Variants[0].Behavior = "haunted" }},
		{"variant without prefab", func(c *RoomConfig) { c.Slots[0].Variants[0].Prefab = "" }},
		{"zero rounds", func(c *RoomConfig) { c.Rules.MaxRounds = 0 }},
		{"zero anomalies", func(c *RoomConfig) { c.Rules.MaxAnomaliesPerRound = 0 }},
		{"negative chance", func(c *RoomConfig) { c.Rules.ChanceForNoAnomalies = -0.1 }},
		{"chance above one", func(c *RoomConfig) { c.Rules.ExistentialChance = 1.5 }},
		{"zero interact range", func(c *RoomConfig) { c.Rules.InteractRange = 0 }},
		{"zero width", func(c *RoomConfig) { c.Layout.Width = 0 }},
		{"exit outside", func(c *RoomConfig) { c.Layout.ExitX = 30 }},
		{"unknown force", func(c *RoomConfig) { c.Existential.Force = "levitate" }},
		{"inverted delay", func(c *RoomConfig) {
			c.Existential.ActivationDelayMin = 5
			c.Existential.ActivationDelayMax = 1
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validRoom(t)
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidRoom) {
				t.Errorf("expected ErrInvalidRoom, got %v", err)
			}
		})
	}
}

func TestValidateAcceptsForce(t *testing.T) {
	cfg := validRoom(t)
	cfg.Existential.Force = "slow-blink"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLayoutAndRoundConfig(t *testing.T) {
	cfg := validRoom(t)
	cfg.Layout.HallwayGap = 10
	cfg.Layout.HallwayWidth = 20

	layout := cfg.WorldLayout()
	if layout.Room.Max != 20 {
		t.Errorf("room max = %v, want 20", layout.Room.Max)
	}
	if layout.Hallway.Min != 30 || layout.Hallway.Max != 50 {
		t.Errorf("hallway = %+v, want [30, 50]", layout.Hallway)
	}

	rc := cfg.RoundConfig()
	if rc.Exit != core.V(18, 0) {
		t.Errorf("exit = %+v", rc.Exit)
	}
	if !layout.Hallway.Contains(rc.Hallway.X) || !layout.Hallway.Contains(rc.HallwayDoor.X) {
		t.Errorf("hallway anchors %+v / %+v outside hallway", rc.Hallway, rc.HallwayDoor)
	}
	if layout.Room.Contains(rc.Hallway.X) {
		t.Error("hallway spawn must not lie in the room")
	}
	if rc.MaxRounds != cfg.Rules.MaxRounds || rc.InteractRange != cfg.Rules.InteractRange {
		t.Errorf("rules not copied: %+v", rc)
	}
}

func TestPrefabFallback(t *testing.T) {
	cfg := validRoom(t)

	art, col := cfg.Prefab("broom")
	if len(art) != 1 || art[0] != "|" || col != core.ColorYellow {
		t.Errorf("broom = %v %v", art, col)
	}

	art, col = cfg.Prefab("missing")
	if len(art) != 1 || art[0] != "?" || col != core.ColorBrightMagenta {
		t.Errorf("missing prefab = %v %v", art, col)
	}
}

func TestApplyPreset(t *testing.T) {
	base := validRoom(t)

	easy := base
	ApplyPreset(&easy, DifficultyEasy)
	if easy.Rules.MaxAnomaliesPerRound != 1 {
		t.Errorf("easy max anomalies = %d, want 1", easy.Rules.MaxAnomaliesPerRound)
	}
	if easy.Rules.MaxStrikes <= base.Rules.MaxStrikes {
		t.Error("easy should allow more strikes")
	}
	if easy.Rules.ExistentialChance >= base.Rules.ExistentialChance {
		t.Error("easy should lower the existential chance")
	}

	hard := base
	ApplyPreset(&hard, DifficultyHard)
	if hard.Rules.MaxAnomaliesPerRound != base.Rules.MaxAnomaliesPerRound+1 {
		t.Errorf("hard max anomalies = %d", hard.Rules.MaxAnomaliesPerRound)
	}
	if hard.Rules.MaxStrikes != base.Rules.MaxStrikes-1 {
		t.Errorf("hard strikes = %d", hard.Rules.MaxStrikes)
	}

	normal := base
	ApplyPreset(&normal, DifficultyNormal)
	if !reflect.DeepEqual(normal.Rules, base.Rules) {
		t.Error("normal preset must not change rules")
	}

	for _, cfg := range []RoomConfig{easy, hard} {
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset produced invalid room: %v", err)
		}
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in   string
		want DifficultyPreset
		ok   bool
	}{
		{"", DifficultyNormal, true},
		{"easy", DifficultyEasy, true},
		{"hard", DifficultyHard, true},
		{"nightmare", DifficultyNormal, false},
	}
	for _, tt := range tests {
		got, ok := ParsePreset(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePreset(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLoadEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, k := range []string{"ANOMALY_DB", "ANOMALY_FPS", "ANOMALY_SEED", "ANOMALY_LOG_LEVEL", "ANOMALY_SSH_ADDR", "ANOMALY_DIFFICULTY"} {
			t.Setenv(k, "")
			os.Unsetenv(k) //nolint:errcheck
		}
		e, err := LoadEnv()
		if err != nil {
			t.Fatalf("LoadEnv failed: %v", err)
		}
		if e.FPS != 60 || e.LogLevel != "info" || e.SSHAddr != ":2222" || e.Difficulty != "normal" {
			t.Errorf("unexpected defaults %+v", e)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("ANOMALY_FPS", "30")
		t.Setenv("ANOMALY_SEED", "42")
		t.Setenv("ANOMALY_DB", "/tmp/runs.db")
		e, err := LoadEnv()
		if err != nil {
			t.Fatalf("LoadEnv failed: %v", err)
		}
		if e.FPS != 30 || e.Seed != 42 || e.DBPath != "/tmp/runs.db" {
			t.Errorf("overrides not applied: %+v", e)
		}
	})

	t.Run("bad value", func(t *testing.T) {
		t.Setenv("ANOMALY_FPS", "fast")
		_, err := LoadEnv()
		if err == nil {
			t.Fatal("expected parse error")
		}
		if !strings.HasPrefix(err.Error(), "config: parse env: ") {
			t.Errorf("error %q lacks the package prefix", err)
		}
	})
}

func TestEmbeddedRoomIgnoresUserFiles(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".anomaly", "rooms")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "office.yaml"), []byte(minimalRoom), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := EmbeddedRoom("office")
	if err != nil {
		t.Fatalf("EmbeddedRoom failed: %v", err)
	}
	if cfg.Name != "Night Office" {
		t.Errorf("Name = %q, want the embedded office", cfg.Name)
	}
	if _, err := EmbeddedRoom("closet"); !errors.Is(err, ErrUnknownRoom) {
		t.Errorf("expected ErrUnknownRoom, got %v", err)
	}
}
