package registry

import (
	"strings"
	"testing"

	"github.com/vovakirdan/anomaly-exit/internal/core"
)

type stubGame struct{ id string }

func (g stubGame) ID() string                           { return g.id }
func (g stubGame) Title() string                        { return strings.ToUpper(g.id) }
func (g stubGame) Reset(core.RuntimeConfig)             {}
func (g stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g stubGame) Render(*core.Screen)                  {}
func (g stubGame) State() core.GameState                { return core.GameState{} }

func TestRegisterCreateList(t *testing.T) {
	Register(GameInfo{ID: "zz-test-b"}, func() Game { return stubGame{"zz-test-b"} })
	Register(GameInfo{ID: "zz-test-a", Title: "A room"}, func() Game { return stubGame{"zz-test-a"} })

	if !Exists("zz-test-a") || !Exists("zz-test-b") {
		t.Fatal("registered rooms should exist")
	}
	if Exists("zz-test-missing") {
		t.Error("unregistered room should not exist")
	}

	g, err := Create("zz-test-a")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if g.ID() != "zz-test-a" {
		t.Errorf("created %q", g.ID())
	}

	if _, err := Create("zz-test-missing"); err == nil {
		t.Error("expected error for unknown room")
	}

	var ids []string
	titles := map[string]string{}
	for _, info := range List() {
		if strings.HasPrefix(info.ID, "zz-test-") {
			ids = append(ids, info.ID)
			titles[info.ID] = info.Title
		}
	}
	if len(ids) != 2 || ids[0] != "zz-test-a" || ids[1] != "zz-test-b" {
		t.Errorf("List() not sorted or incomplete: %v", ids)
	}
	if titles["zz-test-b"] != "zz-test-b" {
		t.Errorf("empty title should default to id, got %q", titles["zz-test-b"])
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register(GameInfo{ID: "zz-test-dup"}, func() Game { return stubGame{"zz-test-dup"} })

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register(GameInfo{ID: "zz-test-dup"}, func() Game { return stubGame{"zz-test-dup"} })
}
