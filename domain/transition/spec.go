package transition

import (
	"fmt"

	"github.com/felixgeelhaar/multistate/domain/state"
)

// Spec is the serialized form of a transition. It round-trips id, name,
// from, activate, exit, cost and stays_visible, and preserves group
// membership of any grouped states it references.
type Spec struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name" yaml:"name"`
	From         []state.ID        `json:"from,omitempty" yaml:"from,omitempty"`
	Activate     []state.ID        `json:"activate,omitempty" yaml:"activate,omitempty"`
	Exit         []state.ID        `json:"exit,omitempty" yaml:"exit,omitempty"`
	// Cost holds the pathfinding cost. Nil means "not specified" and
	// decodes to DefaultCost; an explicit zero survives the round trip.
	Cost         *float64          `json:"cost,omitempty" yaml:"cost,omitempty"`
	StaysVisible Visibility        `json:"stays_visible" yaml:"stays_visible"`
	Groups       map[state.ID]string `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// GroupLookup resolves a state's group membership. It returns the group
// ID, or empty for ungrouped states.
type GroupLookup func(state.ID) string

// ToSpec converts a transition to its serialized form. groupOf may be nil
// when group memberships are not needed.
func ToSpec(t Transition, groupOf GroupLookup) Spec {
	cost := t.Cost
	s := Spec{
		ID:           t.ID,
		Name:         t.Name,
		From:         t.From.Sorted(),
		Activate:     t.Activate.Sorted(),
		Exit:         t.Exit.Sorted(),
		Cost:         &cost,
		StaysVisible: t.StaysVisible,
	}
	if s.StaysVisible == "" {
		s.StaysVisible = VisibilityNone
	}
	if groupOf != nil {
		for _, id := range t.References().Sorted() {
			if g := groupOf(id); g != "" {
				if s.Groups == nil {
					s.Groups = make(map[state.ID]string)
				}
				s.Groups[id] = g
			}
		}
	}
	return s
}

// Transition converts the serialized form back to an operational
// transition, validating the decoded fields.
func (s Spec) Transition() (Transition, error) {
	vis := s.StaysVisible
	if vis == "" {
		vis = VisibilityNone
	}
	if !vis.IsValid() {
		return Transition{}, fmt.Errorf("%w: %q", ErrInvalidVisibility, s.StaysVisible)
	}

	cost := DefaultCost
	if s.Cost != nil {
		cost = *s.Cost
	}

	t := Transition{
		ID:           s.ID,
		Name:         s.Name,
		From:         state.NewSet(s.From...),
		Activate:     state.NewSet(s.Activate...),
		Exit:         state.NewSet(s.Exit...),
		Cost:         cost,
		StaysVisible: vis,
		Kind:         KindDeclared,
	}
	if t.Name == "" {
		t.Name = t.ID
	}
	if err := t.Validate(); err != nil {
		return Transition{}, err
	}
	return t, nil
}
