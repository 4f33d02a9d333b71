package transition

import "errors"

// Errors raised by transition construction and serialization.
var (
	// ErrMissingID indicates a transition without an ID.
	ErrMissingID = errors.New("transition id is required")

	// ErrNegativeCost indicates a pathfinding cost below zero.
	ErrNegativeCost = errors.New("transition cost must be >= 0")

	// ErrActivateExitOverlap indicates a state present in both the
	// activate and exit sets.
	ErrActivateExitOverlap = errors.New("activate and exit sets must be disjoint")

	// ErrInvalidVisibility indicates a stays_visible value outside
	// NONE, TRUE, FALSE.
	ErrInvalidVisibility = errors.New("invalid stays_visible value")
)
