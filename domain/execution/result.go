package execution

import "github.com/felixgeelhaar/multistate/domain/state"

// PhaseResult records the outcome of one phase.
type PhaseResult struct {
	// Phase identifies the protocol step.
	Phase Phase

	// OK reports whether the phase succeeded.
	OK bool

	// Err holds the failure cause when OK is false.
	Err error

	// Detail is a short human-readable note for observability.
	Detail string

	// Activated lists states newly added in the ACTIVATE phase.
	Activated []state.ID

	// Deactivated lists states removed in the EXIT phase.
	Deactivated []state.ID

	// Shown lists from-states the VISIBILITY phase kept active.
	Shown []state.ID

	// Hidden lists from-states the VISIBILITY phase removed.
	Hidden []state.ID
}

// Result is the structured outcome of one transition execution.
type Result struct {
	// TransitionID identifies the executed transition.
	TransitionID string

	// Final is the terminal phase reached: PhaseCommitted,
	// PhaseRolledBack, or the phase whose failure aborted the run
	// before any mutation.
	Final Phase

	// Committed reports whether the transition fully committed.
	Committed bool

	// RolledBack reports whether a state mutation was undone. Only an
	// INCOMING failure sets this; pre-mutation aborts leave it false.
	RolledBack bool

	// Phases holds the per-phase results in execution order.
	Phases []PhaseResult

	// Activated is the set of states newly activated (empty unless
	// committed).
	Activated state.Set

	// Deactivated is the set of states removed (exit plus hidden;
	// empty unless committed).
	Deactivated state.Set

	// Err is the first failure encountered, nil on commit.
	Err error
}

// FailedPhase returns the phase of the first failed PhaseResult, or
// empty when every phase succeeded.
func (r Result) FailedPhase() Phase {
	for _, pr := range r.Phases {
		if !pr.OK {
			return pr.Phase
		}
	}
	return ""
}
