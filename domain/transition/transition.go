// Package transition provides the transition model: the declarative
// description of an atomic multi-state change, its visibility policy,
// and its serialized form.
package transition

import (
	"github.com/felixgeelhaar/multistate/domain/state"
)

// Kind distinguishes declared transitions from ones synthesized at run time.
type Kind string

const (
	// KindDeclared is a transition registered in the model.
	KindDeclared Kind = "declared"

	// KindReveal is a synthesized transition restoring states occluded by
	// a covering state the path is about to exit.
	KindReveal Kind = "reveal"

	// KindSelf is a synthesized zero-cost no-op used when a pathfinding
	// target set is already satisfied.
	KindSelf Kind = "self"

	// KindDiscovery is a synthesized combination of declared transitions
	// covering several targets at once.
	KindDiscovery Kind = "discovery"
)

// Transition describes an atomic change to the active configuration:
// activate every state in Activate, exit every state in Exit, guarded by
// the precondition that every state in From is active.
type Transition struct {
	// ID uniquely identifies the transition.
	ID string

	// Name is a human-readable name.
	Name string

	// From is the precondition set. Empty means always enabled.
	From state.Set

	// Activate is the set of states activated by this transition.
	Activate state.Set

	// Exit is the set of states deactivated by this transition.
	// Activate and Exit are disjoint.
	Exit state.Set

	// Cost is the pathfinding cost, >= 0. Defaults to 1.
	Cost float64

	// StaysVisible controls whether From states remain active after the
	// transition fires.
	StaysVisible Visibility

	// Kind records how the transition came to exist. Declared unless the
	// dynamic generator synthesized it.
	Kind Kind
}

// New creates a declared transition with default cost and visibility.
func New(id, name string, from, activate, exit state.Set) Transition {
	return Transition{
		ID:           id,
		Name:         name,
		From:         ensure(from),
		Activate:     ensure(activate),
		Exit:         ensure(exit),
		Cost:         DefaultCost,
		StaysVisible: VisibilityNone,
		Kind:         KindDeclared,
	}
}

// DefaultCost is the pathfinding cost of a transition that does not
// declare one.
const DefaultCost = 1.0

func ensure(s state.Set) state.Set {
	if s == nil {
		return state.NewSet()
	}
	return s
}

// Validate checks the transition's intrinsic invariants: disjoint
// activate/exit sets and a non-negative cost. Model-level checks
// (unknown states, group atomicity) happen at registration.
func (t Transition) Validate() error {
	if t.ID == "" {
		return ErrMissingID
	}
	if t.Cost < 0 {
		return ErrNegativeCost
	}
	if t.Activate.Intersects(t.Exit) {
		return ErrActivateExitOverlap
	}
	return nil
}

// EnabledIn reports whether the precondition holds in the given
// configuration: every From state is active. Transitions with an empty
// From set are always enabled.
func (t Transition) EnabledIn(active state.Set) bool {
	return t.From.SubsetOf(active)
}

// Apply returns the configuration resulting from firing the transition
// in the given one, ignoring callbacks and visibility. Used by the
// pathfinder to simulate execution.
func (t Transition) Apply(active state.Set) state.Set {
	return active.Union(t.Activate).Difference(t.Exit)
}

// References returns every state ID the transition mentions.
func (t Transition) References() state.Set {
	return t.From.Union(t.Activate).Union(t.Exit)
}

// Equal reports whether two transitions have identical definitions.
func (t Transition) Equal(other Transition) bool {
	return t.ID == other.ID &&
		t.Name == other.Name &&
		t.Cost == other.Cost &&
		t.StaysVisible == other.StaysVisible &&
		t.Kind == other.Kind &&
		t.From.Equal(other.From) &&
		t.Activate.Equal(other.Activate) &&
		t.Exit.Equal(other.Exit)
}
