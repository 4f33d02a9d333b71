package model

import "errors"

// Registration errors. All are raised at registration time, never during
// execution, and are recoverable by correcting the registration.
var (
	// ErrInvalidTransition indicates a transition that fails its
	// intrinsic invariants or references unknown states.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrGroupAtomicity indicates a transition whose activate or exit
	// set contains part of a group but not all of it.
	ErrGroupAtomicity = errors.New("group atomicity violation")

	// ErrUnknownTransition indicates a reference to a transition that is
	// not registered in the model.
	ErrUnknownTransition = errors.New("unknown transition")
)
