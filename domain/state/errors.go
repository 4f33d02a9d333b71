package state

import "errors"

// Domain errors shared by the model registry.
var (
	// ErrDuplicateID indicates a conflicting registration under an
	// already-used ID. Re-registering an identical definition is a no-op
	// and does not produce this error.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrInvalidState indicates a state definition that fails its
	// intrinsic invariants, such as an empty ID.
	ErrInvalidState = errors.New("invalid state")

	// ErrUnknownState indicates a reference to a state that is not
	// registered in the model.
	ErrUnknownState = errors.New("unknown state")

	// ErrInvalidGroup indicates an invalid group definition, such as a
	// member that already belongs to another group or an empty member set.
	ErrInvalidGroup = errors.New("invalid group")
)
