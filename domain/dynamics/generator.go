// Package dynamics synthesizes transitions at run time from the model's
// occlusion declarations and the current configuration: reveal
// transitions when a blocking cover exits, zero-cost self transitions,
// and discovery combinations of declared transitions. Generation is a
// pure function of (model, configuration); nothing here mutates state.
package dynamics

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/felixgeelhaar/multistate/domain/model"
	"github.com/felixgeelhaar/multistate/domain/occlusion"
	"github.com/felixgeelhaar/multistate/domain/state"
	"github.com/felixgeelhaar/multistate/domain/transition"
)

// Generator produces candidate transitions for a configuration. The
// pathfinder calls it lazily while expanding successors. Safe for
// concurrent use; searches may run in parallel.
type Generator struct {
	model   *model.Model
	combine occlusion.Combinator

	// cached closure, invalidated by model revision.
	mu         sync.Mutex
	closureRev uint64
	closure    []occlusion.Relation
}

// GeneratorOption configures the generator.
type GeneratorOption func(*Generator)

// WithCombinator sets the occlusion probability combinator used when
// deriving transitive relations.
func WithCombinator(c occlusion.Combinator) GeneratorOption {
	return func(g *Generator) {
		g.combine = c
	}
}

// NewGenerator creates a generator bound to a model.
func NewGenerator(m *model.Model, opts ...GeneratorOption) *Generator {
	g := &Generator{model: m, combine: occlusion.CombineProduct}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// relations returns the transitive occlusion closure, recomputing it when
// the model changed since the last call.
func (g *Generator) relations() []occlusion.Relation {
	rev := g.model.Revision()

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closure == nil || g.closureRev != rev {
		g.closure = g.model.DerivedOcclusions(g.combine)
		g.closureRev = rev
	}
	return g.closure
}

// Reveals synthesizes a reveal transition for every active blocking
// state that occludes at least one other active state: exiting the cover
// re-exposes the hidden states, at no cost.
func (g *Generator) Reveals(active state.Set) []transition.Transition {
	relations := g.relations()
	blocking := g.model.Blocking()

	var out []transition.Transition
	for _, cover := range active.Sorted() {
		if !blocking.Contains(cover) {
			continue
		}
		hidden := occlusion.HiddenBy(relations, cover, active)
		if hidden.IsEmpty() {
			continue
		}
		out = append(out, revealTransition(cover, hidden))
	}
	return out
}

func revealTransition(cover state.ID, hidden state.Set) transition.Transition {
	ids := hidden.Sorted()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return transition.Transition{
		ID:           fmt.Sprintf("reveal:%s:%s", cover, strings.Join(parts, "+")),
		Name:         fmt.Sprintf("reveal states under %s", cover),
		From:         state.NewSet(cover),
		Activate:     hidden,
		Exit:         state.NewSet(cover),
		Cost:         0,
		StaysVisible: transition.VisibilityNone,
		Kind:         transition.KindReveal,
	}
}

// Self returns the zero-cost stay-put transition. The pathfinder offers
// it only when the target set is already satisfied.
func (g *Generator) Self() transition.Transition {
	return transition.Transition{
		ID:           "self",
		Name:         "stay put",
		From:         state.NewSet(),
		Activate:     state.NewSet(),
		Exit:         state.NewSet(),
		Cost:         0,
		StaysVisible: transition.VisibilityNone,
		Kind:         transition.KindSelf,
	}
}

// Discoveries combines pairs of enabled declared transitions whose joint
// activate sets cover more uncovered targets than either alone. Only
// non-conflicting pairs are combined: the transitions must not exit each
// other's preconditions or undo each other's activations. Generated
// lazily per configuration, never precomputed exhaustively.
func (g *Generator) Discoveries(active, uncovered state.Set) []transition.Transition {
	if uncovered.Len() < 2 {
		return nil
	}

	var enabled []transition.Transition
	for _, t := range g.model.Transitions() {
		if t.EnabledIn(active) && t.Activate.Intersects(uncovered) {
			enabled = append(enabled, t)
		}
	}

	var out []transition.Transition
	for i := 0; i < len(enabled); i++ {
		for j := i + 1; j < len(enabled); j++ {
			a, b := enabled[i], enabled[j]
			if conflicts(a, b) {
				continue
			}
			joint := a.Activate.Union(b.Activate).Intersect(uncovered)
			if joint.Len() <= a.Activate.Intersect(uncovered).Len() &&
				joint.Len() <= b.Activate.Intersect(uncovered).Len() {
				continue
			}
			out = append(out, combined(a, b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// conflicts reports whether the pair cannot fire as one step: one exits
// what the other needs or activates, or their activate/exit sets overlap.
func conflicts(a, b transition.Transition) bool {
	return a.Exit.Intersects(b.From) || b.Exit.Intersects(a.From) ||
		a.Exit.Intersects(b.Activate) || b.Exit.Intersects(a.Activate)
}

func combined(a, b transition.Transition) transition.Transition {
	first, second := a, b
	if second.ID < first.ID {
		first, second = second, first
	}
	return transition.Transition{
		ID:           fmt.Sprintf("discover:%s+%s", first.ID, second.ID),
		Name:         fmt.Sprintf("%s with %s", first.Name, second.Name),
		From:         first.From.Union(second.From),
		Activate:     first.Activate.Union(second.Activate),
		Exit:         first.Exit.Union(second.Exit),
		Cost:         first.Cost + second.Cost,
		StaysVisible: transition.VisibilityNone,
		Kind:         transition.KindDiscovery,
	}
}

// Candidates returns every dynamic transition for the configuration:
// reveals, discoveries for the uncovered targets, and the self
// transition when nothing remains uncovered.
func (g *Generator) Candidates(active, uncovered state.Set) []transition.Transition {
	var out []transition.Transition
	out = append(out, g.Reveals(active)...)
	out = append(out, g.Discoveries(active, uncovered)...)
	if uncovered.IsEmpty() {
		out = append(out, g.Self())
	}
	return out
}
