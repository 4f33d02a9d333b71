package pathfinding

import (
	"container/heap"
	"fmt"

	"github.com/felixgeelhaar/multistate/domain/dynamics"
	"github.com/felixgeelhaar/multistate/domain/model"
	"github.com/felixgeelhaar/multistate/domain/state"
	"github.com/felixgeelhaar/multistate/domain/transition"
)

// CostFunc returns the pathfinding cost of a transition. The default
// uses the declared cost; a reliability tracker can substitute a
// failure-adjusted one. Dynamic transitions always keep their intrinsic
// cost.
type CostFunc func(transition.Transition) float64

// DefaultMaxExpansions bounds the search. The memoized node-key space is
// O(|configurations| * 2^|targets|); the bound keeps a degenerate model
// from expanding it fully.
const DefaultMaxExpansions = 100_000

// Finder searches the transition graph, augmented with dynamically
// generated transitions, for minimum-cost multi-target paths.
type Finder struct {
	model         *model.Model
	generator     *dynamics.Generator
	cost          CostFunc
	maxExpansions int
}

// FinderOption configures the finder.
type FinderOption func(*Finder)

// WithCost sets the transition cost function.
func WithCost(fn CostFunc) FinderOption {
	return func(f *Finder) {
		f.cost = fn
	}
}

// WithMaxExpansions bounds the number of node expansions.
func WithMaxExpansions(n int) FinderOption {
	return func(f *Finder) {
		f.maxExpansions = n
	}
}

// WithGenerator sets the dynamic transition generator. Without one the
// finder searches declared transitions only.
func WithGenerator(g *dynamics.Generator) FinderOption {
	return func(f *Finder) {
		f.generator = g
	}
}

// NewFinder creates a finder bound to a model.
func NewFinder(m *model.Model, opts ...FinderOption) *Finder {
	f := &Finder{
		model:         m,
		maxExpansions: DefaultMaxExpansions,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.cost == nil {
		f.cost = func(t transition.Transition) float64 { return t.Cost }
	}
	return f
}

// node is one search-tree entry: a configuration plus the targets still
// uncovered on the way here. Two paths reaching the same configuration
// with different coverage histories are distinct nodes.
type node struct {
	active    state.Set
	uncovered state.Set
	via       transition.Transition
	parent    *node
	cost      float64
	steps     int
	seq       int // insertion order, final tie-break
	index     int // heap bookkeeping
}

func (n *node) key() string {
	return n.active.Key() + "\x00" + n.uncovered.Key()
}

// visit records the best arrival at a node key.
type visit struct {
	cost  float64
	steps int
}

// beats reports whether the recorded arrival strictly dominates one
// with the given cost and steps.
func (v visit) beats(cost float64, steps int) bool {
	return cost > v.cost || (cost == v.cost && steps > v.steps)
}

// improves reports whether the node is a better arrival than the
// recorded one: cheaper, or equally cheap in fewer transitions.
func (n *node) improves(v visit) bool {
	return n.cost < v.cost || (n.cost == v.cost && n.steps < v.steps)
}

// priorityQueue orders nodes by cost, then fewer steps, then insertion
// order, which makes results reproducible.
type priorityQueue []*node

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	a, b := pq[i], pq[j]
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if a.steps != b.steps {
		return a.steps < b.steps
	}
	return a.seq < b.seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	n := x.(*node)
	n.index = len(*pq)
	*pq = append(*pq, n)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	*pq = old[:last]
	return n
}

// Find returns a minimum-cost path from the current configuration to a
// superset of targets. An empty path means the targets are already
// satisfied. Unreachable targets yield ErrNoPathFound; every target must
// at least be a registered state.
func (f *Finder) Find(current state.Set, targets state.Set) (Path, error) {
	for id := range targets {
		if !f.model.HasState(id) {
			return Path{}, fmt.Errorf("%w: target %q", state.ErrUnknownState, id)
		}
	}

	start := &node{
		active:    current.Clone(),
		uncovered: targets.Difference(current),
	}
	if start.uncovered.IsEmpty() {
		return Path{Targets: targets.Clone()}, nil
	}

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, start)

	// best-known (cost, steps) per (configuration, uncovered) key; bounds
	// the explored space and prevents re-expansion. Steps participate so
	// an equal-cost path with fewer transitions still supersedes.
	best := map[string]visit{start.key(): {}}

	seq := 0
	expansions := 0

	for pq.Len() > 0 {
		n := heap.Pop(pq).(*node)

		if v, ok := best[n.key()]; ok && v.beats(n.cost, n.steps) {
			continue // superseded entry
		}

		if n.uncovered.IsEmpty() {
			return f.reconstruct(n, targets), nil
		}

		expansions++
		if expansions > f.maxExpansions {
			return Path{}, fmt.Errorf("%w after %d expansions", ErrSearchExhausted, f.maxExpansions)
		}

		for _, t := range f.successors(n) {
			next := t.Apply(n.active)
			uncovered := n.uncovered.Difference(next)

			cost := n.cost + f.edgeCost(t)
			seq++
			child := &node{
				active:    next,
				uncovered: uncovered,
				via:       t,
				parent:    n,
				cost:      cost,
				steps:     n.steps + 1,
				seq:       seq,
			}

			key := child.key()
			if known, ok := best[key]; ok && !child.improves(known) {
				continue
			}
			best[key] = visit{cost: cost, steps: child.steps}
			heap.Push(pq, child)
		}
	}

	return Path{}, fmt.Errorf("%w: targets %v", ErrNoPathFound, targets.Sorted())
}

// successors enumerates every transition applicable in the node's
// configuration: declared transitions whose precondition holds, then the
// dynamic generator's candidates. Transitions the executor would reject
// as modal-blocked are filtered out so a found path cannot fail
// validation for a reason known at search time.
func (f *Finder) successors(n *node) []transition.Transition {
	blocking := f.model.Blocking()

	var out []transition.Transition
	for _, t := range f.model.Transitions() {
		if t.EnabledIn(n.active) && !f.blocked(t, n.active, blocking) {
			out = append(out, t)
		}
	}
	if f.generator != nil {
		for _, t := range f.generator.Candidates(n.active, n.uncovered) {
			if !f.blocked(t, n.active, blocking) {
				out = append(out, t)
			}
		}
	}
	return out
}

// blocked mirrors the executor's VALIDATE rule: an active blocking state
// precludes new activations unless the transition exits the blocker.
func (f *Finder) blocked(t transition.Transition, active, blocking state.Set) bool {
	if t.Activate.Difference(active).IsEmpty() {
		return false
	}
	for id := range blocking {
		if active.Contains(id) && !t.Exit.Contains(id) {
			return true
		}
	}
	return false
}

// edgeCost prices an edge. Synthesized reveal/self transitions keep
// their intrinsic cost (zero): they are consequences, not choices.
func (f *Finder) edgeCost(t transition.Transition) float64 {
	switch t.Kind {
	case transition.KindReveal, transition.KindSelf:
		return t.Cost
	default:
		return f.cost(t)
	}
}

// reconstruct walks parent links back to the start node.
func (f *Finder) reconstruct(end *node, targets state.Set) Path {
	var transitions []transition.Transition
	for n := end; n.parent != nil; n = n.parent {
		transitions = append(transitions, n.via)
	}
	for i, j := 0, len(transitions)-1; i < j; i, j = i+1, j-1 {
		transitions[i], transitions[j] = transitions[j], transitions[i]
	}
	return Path{
		Transitions: transitions,
		Targets:     targets.Clone(),
		Cost:        end.cost,
	}
}
