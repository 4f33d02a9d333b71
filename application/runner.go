package application

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/multistate/domain/execution"
	"github.com/felixgeelhaar/multistate/domain/pathfinding"
	"github.com/felixgeelhaar/multistate/domain/state"
	"github.com/felixgeelhaar/multistate/infrastructure/logging"
)

// ErrPathInterrupted is returned when a path stops before completing
// because a step failed to commit.
var ErrPathInterrupted = errors.New("path interrupted")

// RunResult reports the outcome of executing a path step by step.
type RunResult struct {
	// Results holds one entry per attempted step, in order. Committed
	// steps stay committed even when a later step fails.
	Results []execution.Result

	// Completed reports whether every step committed.
	Completed bool

	// FailedStep is the index of the first non-committed step, or -1.
	FailedStep int

	// Err is nil on completion, otherwise wraps the failing step's error.
	Err error
}

// ExecutePath runs the path's transitions in order, stopping at the
// first step that does not commit. Earlier steps are not undone; each
// execution is atomic on its own, the path as a whole is not.
func (mgr *Manager) ExecutePath(ctx context.Context, path pathfinding.Path) RunResult {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	run := RunResult{FailedStep: -1}
	for i, t := range path.Transitions {
		if err := ctx.Err(); err != nil {
			run.FailedStep = i
			run.Err = err
			return run
		}

		result := mgr.execute(ctx, t)
		run.Results = append(run.Results, result)

		if !result.Committed {
			run.FailedStep = i
			run.Err = errors.Join(ErrPathInterrupted, result.Err)
			logging.Warn().
				Add(logging.TransitionID(t.ID)).
				Add(logging.Steps(i)).
				Add(logging.ErrorField(result.Err)).
				Msg("path execution stopped")
			return run
		}
	}

	run.Completed = true
	return run
}

// Navigate finds a path to the targets and executes it. When a step
// fails partway, the returned RunResult reports the committed prefix;
// callers may call Navigate again to replan from the new configuration.
func (mgr *Manager) Navigate(ctx context.Context, targets ...state.ID) (RunResult, error) {
	path, err := mgr.FindPath(ctx, targets...)
	if err != nil {
		return RunResult{FailedStep: -1}, err
	}
	return mgr.ExecutePath(ctx, path), nil
}
