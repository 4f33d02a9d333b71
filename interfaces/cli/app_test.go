package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/multistate/domain/history"
	"github.com/felixgeelhaar/multistate/infrastructure/storage/sqlite"
)

const testDefinition = `
version: 1
states:
  - id: login
    name: Login
  - id: workspace
    name: Workspace
  - id: search
    name: Search
  - id: dialog
    name: Dialog
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
  - id: open_search
    from: [workspace]
    activate: [search]
initial: [login]
`

func writeDefinition(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)
	err := app.ExecuteWithArgs(context.Background(), args)
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	stdout, _, err := runApp(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(stdout, "multistate version") {
		t.Errorf("output = %q", stdout)
	}
}

func TestValidateCommand(t *testing.T) {
	t.Parallel()

	path := writeDefinition(t, testDefinition)
	stdout, _, err := runApp(t, "validate", "-f", path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(stdout, "Definition is valid") {
		t.Errorf("output = %q", stdout)
	}
	if !strings.Contains(stdout, "States: 4") {
		t.Errorf("output missing state count: %q", stdout)
	}
}

func TestValidateCommand_InvalidDefinition(t *testing.T) {
	t.Parallel()

	path := writeDefinition(t, `
version: 1
states:
  - id: a
transitions:
  - id: t
    activate: [ghost]
`)
	if _, _, err := runApp(t, "validate", "-f", path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidateCommand_MissingFlag(t *testing.T) {
	t.Parallel()

	if _, _, err := runApp(t, "validate"); err == nil {
		t.Fatal("expected error without -f")
	}
}

func TestPathCommand(t *testing.T) {
	t.Parallel()

	path := writeDefinition(t, testDefinition)
	stdout, _, err := runApp(t, "path", "-f", path, "-t", "search")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if !strings.Contains(stdout, "2 steps") {
		t.Errorf("output = %q", stdout)
	}
	if !strings.Contains(stdout, "enter_workspace") || !strings.Contains(stdout, "open_search") {
		t.Errorf("output missing steps: %q", stdout)
	}
}

func TestPathCommand_ExplicitFrom(t *testing.T) {
	t.Parallel()

	path := writeDefinition(t, testDefinition)
	stdout, _, err := runApp(t, "path", "-f", path, "--from", "workspace", "-t", "search")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if !strings.Contains(stdout, "1 steps") {
		t.Errorf("output = %q", stdout)
	}
}

func TestPathCommand_AlreadySatisfied(t *testing.T) {
	t.Parallel()

	path := writeDefinition(t, testDefinition)
	stdout, _, err := runApp(t, "path", "-f", path, "--from", "workspace", "-t", "workspace")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if !strings.Contains(stdout, "already satisfied") {
		t.Errorf("output = %q", stdout)
	}
}

func TestPathCommand_NoPath(t *testing.T) {
	t.Parallel()

	path := writeDefinition(t, testDefinition)
	stdout, _, err := runApp(t, "path", "-f", path, "--from", "workspace", "-t", "login")
	if err == nil {
		t.Fatal("expected no-path error")
	}
	if !strings.Contains(stdout, "No path") {
		t.Errorf("output = %q", stdout)
	}
}

func TestSimulateCommand_Sequence(t *testing.T) {
	t.Parallel()

	path := writeDefinition(t, testDefinition)
	stdout, _, err := runApp(t, "simulate", "-f", path,
		"-x", "enter_workspace", "-x", "open_search")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !strings.Contains(stdout, "enter_workspace") {
		t.Errorf("output = %q", stdout)
	}
	if !strings.Contains(stdout, "search") {
		t.Errorf("output missing final configuration: %q", stdout)
	}
}

func TestSimulateCommand_Navigate(t *testing.T) {
	t.Parallel()

	path := writeDefinition(t, testDefinition)
	stdout, _, err := runApp(t, "simulate", "-f", path, "-t", "search")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !strings.Contains(stdout, "search") {
		t.Errorf("output = %q", stdout)
	}
}

func TestSimulateCommand_HistoryDatabase(t *testing.T) {
	t.Parallel()

	path := writeDefinition(t, testDefinition)
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	if _, _, err := runApp(t, "simulate", "-f", path, "-t", "search", "--history", dbPath); err != nil {
		t.Fatalf("simulate: %v", err)
	}

	cfg := sqlite.DefaultConfig()
	cfg.DSN = "file:" + dbPath
	cfg.JournalMode = ""
	store, err := sqlite.NewHistoryStore(cfg)
	if err != nil {
		t.Fatalf("NewHistoryStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	count, err := store.Count(context.Background(), history.Filter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
}

func TestSimulateCommand_FlagConflicts(t *testing.T) {
	t.Parallel()

	path := writeDefinition(t, testDefinition)
	if _, _, err := runApp(t, "simulate", "-f", path); err == nil {
		t.Fatal("expected error without -t or -x")
	}
	if _, _, err := runApp(t, "simulate", "-f", path, "-t", "search", "-x", "open_search"); err == nil {
		t.Fatal("expected error with both -t and -x")
	}
}

func TestInspectCommand(t *testing.T) {
	t.Parallel()

	path := writeDefinition(t, testDefinition)
	stdout, _, err := runApp(t, "inspect", "-f", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"login", "workspace", "dialog", "enter_workspace"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q: %q", want, stdout)
		}
	}
}
