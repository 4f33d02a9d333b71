// Package model provides the registry for states, groups, transitions and
// occlusion relations, together with the validation invariants enforced
// at registration time. A Model is read-only from the executor's and
// pathfinder's perspective; callers may extend it between path
// computations, which bumps its revision.
package model

import (
	"fmt"
	"sync"

	"github.com/felixgeelhaar/multistate/domain/occlusion"
	"github.com/felixgeelhaar/multistate/domain/state"
	"github.com/felixgeelhaar/multistate/domain/transition"
)

// Model holds the registered definitions. All registration methods are
// idempotency-checked: re-registering an identical definition is a no-op,
// a conflicting one is an error. No registration has side effects beyond
// the model itself.
type Model struct {
	mu sync.RWMutex

	states      map[state.ID]state.State
	groups      map[string]state.Group
	memberOf    map[state.ID]string
	transitions map[string]transition.Transition
	// order preserves transition insertion order for deterministic
	// pathfinding successor enumeration.
	order      []string
	occlusions []occlusion.Relation

	revision uint64
}

// New creates an empty model.
func New() *Model {
	return &Model{
		states:      make(map[state.ID]state.State),
		groups:      make(map[string]state.Group),
		memberOf:    make(map[state.ID]string),
		transitions: make(map[string]transition.Transition),
	}
}

// Revision returns a counter that increases on every successful
// mutation. Anything cached against the model must be discarded when the
// revision changes.
func (m *Model) Revision() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revision
}

// AddState registers a state. If the state names a group, the state is
// added to it; the group is created implicitly when it does not exist
// yet.
func (m *Model) AddState(s state.State) error {
	if s.ID == "" {
		return fmt.Errorf("%w: id is required", state.ErrInvalidState)
	}
	if s.Name == "" {
		s.Name = string(s.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.states[s.ID]; ok {
		if existing.Equal(s) {
			return nil
		}
		return fmt.Errorf("%w: state %q", state.ErrDuplicateID, s.ID)
	}
	if g, ok := m.memberOf[s.ID]; ok && s.Group != "" && g != s.Group {
		return fmt.Errorf("%w: state %q already belongs to group %q", state.ErrInvalidGroup, s.ID, g)
	}

	if s.Group != "" {
		g, ok := m.groups[s.Group]
		if !ok {
			g = state.Group{ID: s.Group, Name: s.Group}
		}
		g.Members = append(g.Members, s.ID)
		m.groups[s.Group] = g
		m.memberOf[s.ID] = s.Group
	}

	m.states[s.ID] = s
	m.revision++
	return nil
}

// AddGroup registers a group. Every member must already be registered
// and must not belong to a different group.
func (m *Model) AddGroup(g state.Group) error {
	if g.ID == "" {
		return fmt.Errorf("%w: group id is required", state.ErrInvalidGroup)
	}
	if len(g.Members) == 0 {
		return fmt.Errorf("%w: group %q has no members", state.ErrInvalidGroup, g.ID)
	}
	if g.Name == "" {
		g.Name = g.ID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.groups[g.ID]; ok {
		if existing.Equal(g) {
			return nil
		}
		return fmt.Errorf("%w: group %q", state.ErrDuplicateID, g.ID)
	}

	for _, id := range g.Members {
		if _, ok := m.states[id]; !ok {
			return fmt.Errorf("%w: group %q member %q", state.ErrUnknownState, g.ID, id)
		}
		if owner, ok := m.memberOf[id]; ok && owner != g.ID {
			return fmt.Errorf("%w: state %q already belongs to group %q", state.ErrInvalidGroup, id, owner)
		}
	}

	for _, id := range g.Members {
		m.memberOf[id] = g.ID
		s := m.states[id]
		s.Group = g.ID
		m.states[id] = s
	}
	m.groups[g.ID] = g
	m.revision++
	return nil
}

// AddTransition registers a transition after checking its intrinsic
// invariants, that every referenced state exists, and that no group is
// split across the activate or exit sets.
func (m *Model) AddTransition(t transition.Transition) error {
	if t.Name == "" {
		t.Name = t.ID
	}
	if t.Kind == "" {
		t.Kind = transition.KindDeclared
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTransition, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.transitions[t.ID]; ok {
		if existing.Equal(t) {
			return nil
		}
		return fmt.Errorf("%w: transition %q", state.ErrDuplicateID, t.ID)
	}

	for _, id := range t.References().Sorted() {
		if _, ok := m.states[id]; !ok {
			return fmt.Errorf("%w: transition %q references %q: %s",
				ErrInvalidTransition, t.ID, id, state.ErrUnknownState)
		}
	}

	if err := m.checkGroupAtomicity(t); err != nil {
		return err
	}

	m.transitions[t.ID] = t
	m.order = append(m.order, t.ID)
	m.revision++
	return nil
}

// checkGroupAtomicity verifies that for every group, the activate set and
// the exit set each contain either all members or none.
// Caller holds the lock.
func (m *Model) checkGroupAtomicity(t transition.Transition) error {
	for _, set := range []struct {
		name string
		ids  state.Set
	}{
		{"activate", t.Activate},
		{"exit", t.Exit},
	} {
		seen := make(map[string]bool)
		for id := range set.ids {
			gid, ok := m.memberOf[id]
			if !ok || seen[gid] {
				continue
			}
			seen[gid] = true
			if !m.groups[gid].MemberSet().SubsetOf(set.ids) {
				return fmt.Errorf("%w: transition %q %s set splits group %q",
					ErrGroupAtomicity, t.ID, set.name, gid)
			}
		}
	}
	return nil
}

// AddOcclusion registers an occlusion relation between two known states.
func (m *Model) AddOcclusion(r occlusion.Relation) error {
	if err := r.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range []state.ID{r.Covering, r.Hidden} {
		if _, ok := m.states[id]; !ok {
			return fmt.Errorf("%w: occlusion references %q", state.ErrUnknownState, id)
		}
	}
	for _, existing := range m.occlusions {
		if existing.Covering == r.Covering && existing.Hidden == r.Hidden {
			if existing.Equal(r) {
				return nil
			}
			return fmt.Errorf("%w: occlusion %s covers %s", state.ErrDuplicateID, r.Covering, r.Hidden)
		}
	}

	m.occlusions = append(m.occlusions, r)
	m.revision++
	return nil
}

// State returns the state with the given ID.
func (m *Model) State(id state.ID) (state.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[id]
	if !ok {
		return state.State{}, fmt.Errorf("%w: %q", state.ErrUnknownState, id)
	}
	return s, nil
}

// HasState reports whether a state is registered.
func (m *Model) HasState(id state.ID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.states[id]
	return ok
}

// States returns every registered state, sorted by ID.
func (m *Model) States() []state.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]state.ID, 0, len(m.states))
	for id := range m.states {
		ids = append(ids, id)
	}
	set := state.NewSet(ids...)
	out := make([]state.State, 0, len(ids))
	for _, id := range set.Sorted() {
		out = append(out, m.states[id])
	}
	return out
}

// Group returns the group with the given ID.
func (m *Model) Group(id string) (state.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.groups[id]
	if !ok {
		return state.Group{}, fmt.Errorf("%w: group %q", state.ErrUnknownState, id)
	}
	return g, nil
}

// GroupOf returns the ID of the group the state belongs to, or empty.
func (m *Model) GroupOf(id state.ID) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.memberOf[id]
}

// Transition returns the transition with the given ID.
func (m *Model) Transition(id string) (transition.Transition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.transitions[id]
	if !ok {
		return transition.Transition{}, fmt.Errorf("%w: transition %q", ErrUnknownTransition, id)
	}
	return t, nil
}

// Transitions returns every registered transition in insertion order.
func (m *Model) Transitions() []transition.Transition {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]transition.Transition, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.transitions[id])
	}
	return out
}

// Occlusions returns the declared occlusion relations.
func (m *Model) Occlusions() []occlusion.Relation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]occlusion.Relation, len(m.occlusions))
	copy(out, m.occlusions)
	return out
}

// DerivedOcclusions returns the transitive closure of the declared
// relations under the given combinator.
func (m *Model) DerivedOcclusions(combine occlusion.Combinator) []occlusion.Relation {
	return occlusion.Closure(m.Occlusions(), combine)
}

// Blocking returns the IDs of all blocking states.
func (m *Model) Blocking() state.Set {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := state.NewSet()
	for id, s := range m.states {
		if s.Blocking {
			out.Add(id)
		}
	}
	return out
}

// GroupClosure expands the given set so that any group with a member in
// the set is fully included. Used by direct activation to stay
// group-atomic.
func (m *Model) GroupClosure(ids state.Set) state.Set {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := ids.Clone()
	for id := range ids {
		if gid, ok := m.memberOf[id]; ok {
			for _, member := range m.groups[gid].Members {
				out.Add(member)
			}
		}
	}
	return out
}
