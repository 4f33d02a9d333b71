// Package pathfinding finds minimum-cost transition sequences whose
// cumulative effect makes an arbitrary target set active. The search
// space is keyed by (configuration, remaining-targets) pairs, so the
// exponential term is driven by the target set, not the state set.
package pathfinding

import (
	"errors"

	"github.com/felixgeelhaar/multistate/domain/state"
	"github.com/felixgeelhaar/multistate/domain/transition"
)

// ErrNoPathFound reports that no transition sequence reaches the target
// set within the search bound. It is a normal result, not a failure of
// the engine; callers distinguish it with errors.Is.
var ErrNoPathFound = errors.New("no path found")

// ErrSearchExhausted reports that the expansion bound was hit before the
// search space was exhausted.
var ErrSearchExhausted = errors.New("search bound exhausted")

// Path is an ordered transition sequence plus its total cost. Immutable
// once returned by the finder.
type Path struct {
	// Transitions in execution order. Empty when the targets were
	// already satisfied at search start.
	Transitions []transition.Transition

	// Targets is the requested target set.
	Targets state.Set

	// Cost is the sum of the member transition costs.
	Cost float64
}

// Len returns the number of transitions in the path.
func (p Path) Len() int {
	return len(p.Transitions)
}

// Apply returns the configuration after executing the whole path from
// the given start, ignoring callbacks.
func (p Path) Apply(start state.Set) state.Set {
	active := start.Clone()
	for _, t := range p.Transitions {
		active = t.Apply(active)
	}
	return active
}
