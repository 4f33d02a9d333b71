package config

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/multistate/domain/config"
	"github.com/felixgeelhaar/multistate/domain/model"
	"github.com/felixgeelhaar/multistate/domain/state"
)

func loadTestDefinition(t *testing.T) *config.Definition {
	t.Helper()
	def, err := NewLoader().LoadString(yamlDefinition, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	return def
}

func TestBuildModel(t *testing.T) {
	t.Parallel()

	m, err := BuildModel(loadTestDefinition(t))
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}

	if !m.HasState("login") || !m.HasState("workspace") || !m.HasState("dialog") {
		t.Error("states missing from built model")
	}
	if !m.Blocking().Equal(state.NewSet("dialog")) {
		t.Errorf("Blocking = %v", m.Blocking().Sorted())
	}
	if len(m.Occlusions()) != 1 {
		t.Errorf("occlusions = %d, want 1", len(m.Occlusions()))
	}

	tr, err := m.Transition("enter_workspace")
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if tr.Cost != 2.5 {
		t.Errorf("Cost = %v, want 2.5", tr.Cost)
	}
}

func TestBuildModel_GroupsSection(t *testing.T) {
	t.Parallel()

	content := `
version: 1
states:
  - id: nav
  - id: toolbar
groups:
  - id: panels
    members: [nav, toolbar]
transitions:
  - id: show_panels
    activate: [nav, toolbar]
`
	def, err := NewLoader().LoadString(content, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	m, err := BuildModel(def)
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}
	if m.GroupOf("nav") != "panels" || m.GroupOf("toolbar") != "panels" {
		t.Error("group memberships not built")
	}
}

func TestBuildModel_RejectsGroupSplit(t *testing.T) {
	t.Parallel()

	content := `
version: 1
states:
  - id: nav
    group: panels
  - id: toolbar
    group: panels
transitions:
  - id: show_nav
    activate: [nav]
`
	def, err := NewLoader().LoadString(content, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	_, err = BuildModel(def)
	if !errors.Is(err, model.ErrGroupAtomicity) {
		t.Errorf("err = %v, want ErrGroupAtomicity", err)
	}
}

func TestBuildManager(t *testing.T) {
	t.Parallel()

	mgr, err := BuildManager(loadTestDefinition(t))
	if err != nil {
		t.Fatalf("BuildManager: %v", err)
	}

	// Seeded from the definition's initial section.
	if !mgr.ActiveStates().Equal(state.NewSet("login")) {
		t.Errorf("active = %v, want [login]", mgr.ActiveStates().Sorted())
	}

	result, err := mgr.Execute(context.Background(), "enter_workspace")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.Committed {
		t.Fatalf("not committed: %v", result.Err)
	}
	if !mgr.IsActive("workspace") {
		t.Error("workspace not active")
	}
}

func TestManagerOptions_Settings(t *testing.T) {
	t.Parallel()

	content := `
version: 1
settings:
  success_policy: threshold
  threshold: 0.5
  default_visibility: "FALSE"
  combinator: max
  max_expansions: 500
states:
  - id: a
  - id: b
transitions:
  - id: go
    from: [a]
    activate: [b]
`
	def, err := NewLoader().LoadString(content, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if got := len(ManagerOptions(def)); got != 5 {
		t.Errorf("options = %d, want 5", got)
	}

	// The options must produce a working manager.
	mgr, err := BuildManager(def)
	if err != nil {
		t.Fatalf("BuildManager: %v", err)
	}
	if err := mgr.Seed("a"); err != nil {
		t.Fatal(err)
	}
	result, err := mgr.Execute(context.Background(), "go")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Committed {
		t.Fatalf("not committed: %v", result.Err)
	}
	// default_visibility FALSE removes the untouched from-state.
	if mgr.IsActive("a") {
		t.Error("from-state should be hidden under the FALSE default")
	}
}
