package execution

import "errors"

// Execution errors. Precondition errors mean no mutation occurred;
// ErrIncomingActionFailed means the activation was rolled back and the
// configuration is unchanged from before the call.
var (
	// ErrPreconditionNotMet indicates a from-state that is not active.
	ErrPreconditionNotMet = errors.New("precondition not met")

	// ErrBlockedByModal indicates a new activation precluded by an
	// active blocking state the transition does not exit.
	ErrBlockedByModal = errors.New("blocked by modal state")

	// ErrOutgoingActionFailed indicates an exit-action callback failure.
	// No mutation has occurred; the transition simply aborted.
	ErrOutgoingActionFailed = errors.New("outgoing action failed")

	// ErrIncomingActionFailed indicates an entry-action callback
	// failure. The activation was undone.
	ErrIncomingActionFailed = errors.New("incoming action failed")

	// ErrExecutorBusy indicates a second transition was started against
	// the same store before the first reached a terminal phase.
	ErrExecutorBusy = errors.New("transition already in flight")
)
