// Package state provides the core domain model for multistate: states,
// state groups, and the set type the rest of the engine operates on.
package state

// ID uniquely identifies a state within a model.
type ID string

// String returns the string representation of the ID.
func (id ID) String() string {
	return string(id)
}

// State is a single abstract state. Multiple states may be active at the
// same time; the engine never interprets what a state means.
type State struct {
	// ID uniquely identifies the state.
	ID ID `json:"id" yaml:"id"`

	// Name is a human-readable name.
	Name string `json:"name" yaml:"name"`

	// Blocking marks the state as occluding: while active it precludes
	// new activations unless the same transition exits it.
	Blocking bool `json:"blocking,omitempty" yaml:"blocking,omitempty"`

	// Group is the ID of the group this state belongs to, or empty.
	// A state belongs to at most one group.
	Group string `json:"group,omitempty" yaml:"group,omitempty"`
}

// Equal reports whether two states have identical definitions.
// Used for idempotent re-registration checks.
func (s State) Equal(other State) bool {
	return s.ID == other.ID &&
		s.Name == other.Name &&
		s.Blocking == other.Blocking &&
		s.Group == other.Group
}

// Group is a set of states that activate and deactivate atomically:
// every transition must include either all members or none of them in its
// activate and exit sets.
type Group struct {
	// ID uniquely identifies the group.
	ID string `json:"id" yaml:"id"`

	// Name is a human-readable name.
	Name string `json:"name" yaml:"name"`

	// Members are the IDs of the states in the group. A group has at
	// least one member.
	Members []ID `json:"members" yaml:"members"`
}

// MemberSet returns the group's members as a Set.
func (g Group) MemberSet() Set {
	return NewSet(g.Members...)
}

// Equal reports whether two groups have identical definitions,
// ignoring member order.
func (g Group) Equal(other Group) bool {
	if g.ID != other.ID || g.Name != other.Name {
		return false
	}
	return g.MemberSet().Equal(other.MemberSet())
}
