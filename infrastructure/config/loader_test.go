package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/multistate/domain/config"
)

const yamlDefinition = `
version: 1
states:
  - id: login
    name: Login
  - id: workspace
    name: Workspace
  - id: dialog
    name: Confirmation Dialog
    blocking: true
occlusions:
  - covering: dialog
    hidden: workspace
    probability: 1.0
    class: modal
transitions:
  - id: enter_workspace
    from: [login]
    activate: [workspace]
    exit: [login]
    cost: 2.5
initial: [login]
`

const jsonDefinition = `{
  "version": 1,
  "states": [
    {"id": "login"},
    {"id": "workspace"}
  ],
  "transitions": [
    {"id": "enter_workspace", "from": ["login"], "activate": ["workspace"], "exit": ["login"]}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoader_YAML(t *testing.T) {
	t.Parallel()

	def, err := NewLoader().LoadString(yamlDefinition, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if len(def.States) != 3 {
		t.Errorf("states = %d, want 3", len(def.States))
	}
	if !def.States[2].Blocking {
		t.Error("dialog should be blocking")
	}
	if len(def.Occlusions) != 1 || def.Occlusions[0].Class != "modal" {
		t.Errorf("occlusions = %+v", def.Occlusions)
	}
	if len(def.Transitions) != 1 {
		t.Fatalf("transitions = %d, want 1", len(def.Transitions))
	}
	if def.Transitions[0].Cost == nil || *def.Transitions[0].Cost != 2.5 {
		t.Errorf("cost = %v, want 2.5", def.Transitions[0].Cost)
	}
	if len(def.Initial) != 1 || def.Initial[0] != "login" {
		t.Errorf("initial = %v", def.Initial)
	}
}

func TestLoader_JSON(t *testing.T) {
	t.Parallel()

	def, err := NewLoader().LoadString(jsonDefinition, FormatJSON)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if len(def.States) != 2 || len(def.Transitions) != 1 {
		t.Errorf("definition = %+v", def)
	}
	// Unspecified cost stays nil for default resolution downstream.
	if def.Transitions[0].Cost != nil {
		t.Errorf("cost = %v, want nil", def.Transitions[0].Cost)
	}
}

func TestLoader_LoadFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "model.yaml", yamlDefinition)
	def, err := NewLoader().LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(def.States) != 3 {
		t.Errorf("states = %d, want 3", len(def.States))
	}
}

func TestLoader_FileMissing(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().LoadFile("/nonexistent/model.yaml")
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Errorf("err = %v, want ErrConfigNotFound", err)
	}
}

func TestLoader_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "model.toml", "version = 1")
	_, err := NewLoader().LoadFile(path)
	if !errors.Is(err, config.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoader_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().LoadString("version: [unclosed", FormatYAML)
	if !errors.Is(err, config.ErrInvalidFormat) {
		t.Errorf("err = %v, want ErrInvalidFormat", err)
	}
}

func TestLoader_ValidationFailure(t *testing.T) {
	t.Parallel()

	bad := `
version: 1
states:
  - id: a
transitions:
  - id: t
    activate: [missing]
`
	_, err := NewLoader().LoadString(bad, FormatYAML)
	if !errors.Is(err, config.ErrValidationFailed) {
		t.Errorf("err = %v, want ErrValidationFailed", err)
	}

	// Validation can be switched off.
	if _, err := NewLoaderWithOptions(WithValidation(false)).LoadString(bad, FormatYAML); err != nil {
		t.Errorf("unvalidated load: %v", err)
	}
}

func TestLoader_EnvExpansion(t *testing.T) {
	t.Setenv("MULTISTATE_TEST_STATE", "workspace")

	content := `
version: 1
states:
  - id: login
  - id: ${MULTISTATE_TEST_STATE}
transitions:
  - id: enter
    from: [login]
    activate: [${MULTISTATE_TEST_STATE}]
    exit: [login]
`
	def, err := NewLoader().LoadString(content, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if def.States[1].ID != "workspace" {
		t.Errorf("expanded state = %q, want workspace", def.States[1].ID)
	}
}

func TestFormatForPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"model.yaml", FormatYAML, false},
		{"model.yml", FormatYAML, false},
		{"model.YAML", FormatYAML, false},
		{"model.json", FormatJSON, false},
		{"model.toml", "", true},
		{"model", "", true},
	}
	for _, tt := range tests {
		got, err := FormatForPath(tt.path)
		if tt.wantErr {
			if err == nil {
				t.Errorf("FormatForPath(%q) succeeded, want error", tt.path)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("FormatForPath(%q) = %v, %v", tt.path, got, err)
		}
	}
}
