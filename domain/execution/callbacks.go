package execution

import (
	"context"

	"github.com/felixgeelhaar/multistate/domain/state"
)

// Callbacks is the caller-supplied action interface. OnExit runs during
// the OUTGOING phase for every active from-state; OnEntry runs during
// the INCOMING phase for every state newly activated by the transition.
// Each is invoked exactly once per state per execution. The executor
// waits for the callback to return before proceeding to the next phase.
type Callbacks interface {
	// OnExit performs the exit action for a state. An error aborts the
	// transition before any mutation.
	OnExit(ctx context.Context, id state.ID) error

	// OnEntry performs the entry action for a newly activated state. An
	// error triggers rollback of the activation.
	OnEntry(ctx context.Context, id state.ID) error
}

// CallbackFuncs adapts plain functions to the Callbacks interface.
// Nil fields are treated as no-ops.
type CallbackFuncs struct {
	Exit  func(ctx context.Context, id state.ID) error
	Entry func(ctx context.Context, id state.ID) error
}

// OnExit implements Callbacks.
func (c CallbackFuncs) OnExit(ctx context.Context, id state.ID) error {
	if c.Exit == nil {
		return nil
	}
	return c.Exit(ctx, id)
}

// OnEntry implements Callbacks.
func (c CallbackFuncs) OnEntry(ctx context.Context, id state.ID) error {
	if c.Entry == nil {
		return nil
	}
	return c.Entry(ctx, id)
}

// NopCallbacks performs no actions and never fails.
var NopCallbacks Callbacks = CallbackFuncs{}
