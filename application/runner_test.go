package application

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/multistate/domain/execution"
	"github.com/felixgeelhaar/multistate/domain/state"
)

func TestExecutePath_Completes(t *testing.T) {
	t.Parallel()

	mgr, err := NewManager(workspaceModel(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := mgr.Seed("login"); err != nil {
		t.Fatal(err)
	}

	path, err := mgr.FindPath(context.Background(), "search")
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}

	run := mgr.ExecutePath(context.Background(), path)
	if !run.Completed {
		t.Fatalf("run incomplete: %v", run.Err)
	}
	if run.FailedStep != -1 {
		t.Errorf("FailedStep = %d, want -1", run.FailedStep)
	}
	if len(run.Results) != path.Len() {
		t.Errorf("results = %d, want %d", len(run.Results), path.Len())
	}
	for i, r := range run.Results {
		if !r.Committed {
			t.Errorf("step %d not committed", i)
		}
	}
}

func TestExecutePath_StopsOnFailure(t *testing.T) {
	t.Parallel()

	// open_search's entry action fails; enter_workspace commits first
	// and stays committed.
	cb := execution.CallbackFuncs{
		Entry: func(_ context.Context, id state.ID) error {
			if id == "search" {
				return errors.New("search backend down")
			}
			return nil
		},
	}

	mgr, err := NewManager(workspaceModel(t), WithCallbacks(cb))
	if err != nil {
		t.Fatal(err)
	}
	if err := mgr.Seed("login"); err != nil {
		t.Fatal(err)
	}

	path, err := mgr.FindPath(context.Background(), "search")
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}

	run := mgr.ExecutePath(context.Background(), path)
	if run.Completed {
		t.Fatal("run should not complete")
	}
	if run.FailedStep != 1 {
		t.Errorf("FailedStep = %d, want 1", run.FailedStep)
	}
	if !errors.Is(run.Err, ErrPathInterrupted) {
		t.Errorf("Err = %v, want ErrPathInterrupted", run.Err)
	}
	if !errors.Is(run.Err, execution.ErrIncomingActionFailed) {
		t.Errorf("Err = %v, want wrapped ErrIncomingActionFailed", run.Err)
	}
	if len(run.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(run.Results))
	}

	// The committed prefix stands: workspace active, search rolled back.
	if !mgr.IsActive("workspace") {
		t.Error("workspace should remain active")
	}
	if mgr.IsActive("search") {
		t.Error("search should have rolled back")
	}
}

func TestExecutePath_ContextCancelled(t *testing.T) {
	t.Parallel()

	mgr, err := NewManager(workspaceModel(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := mgr.Seed("login"); err != nil {
		t.Fatal(err)
	}

	path, err := mgr.FindPath(context.Background(), "search")
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run := mgr.ExecutePath(ctx, path)
	if run.Completed {
		t.Fatal("cancelled run should not complete")
	}
	if !errors.Is(run.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", run.Err)
	}
	if len(run.Results) != 0 {
		t.Errorf("results = %d, want 0 (cancelled before first step)", len(run.Results))
	}
	if mgr.IsActive("workspace") {
		t.Error("no step should have executed")
	}
}

func TestExecutePath_EmptyPath(t *testing.T) {
	t.Parallel()

	mgr, err := NewManager(workspaceModel(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := mgr.Seed("workspace"); err != nil {
		t.Fatal(err)
	}

	// Target already satisfied: the path is empty and the run completes
	// without executing anything.
	run, err := mgr.Navigate(context.Background(), "workspace")
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if !run.Completed || len(run.Results) != 0 {
		t.Errorf("run = %+v, want completed with no steps", run)
	}
}
