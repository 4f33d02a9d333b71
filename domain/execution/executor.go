package execution

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/multistate/domain/model"
	"github.com/felixgeelhaar/multistate/domain/state"
	"github.com/felixgeelhaar/multistate/domain/transition"
)

// SuccessPolicy decides when the INCOMING phase counts as successful.
type SuccessPolicy string

const (
	// PolicyStrict requires every entry action to succeed. This is the
	// default and the only policy that guarantees rollback safety for
	// any single failure.
	PolicyStrict SuccessPolicy = "strict"

	// PolicyLenient accepts the activation regardless of entry-action
	// failures.
	PolicyLenient SuccessPolicy = "lenient"

	// PolicyThreshold accepts the activation when at least the
	// configured fraction of entry actions succeeded.
	PolicyThreshold SuccessPolicy = "threshold"
)

// Executor drives one transition through the phased protocol against a
// store. It is not reentrant: a second Execute against the same store
// before the first reaches a terminal phase fails with ErrExecutorBusy.
type Executor struct {
	model             *model.Model
	policy            SuccessPolicy
	threshold         float64
	defaultVisibility transition.Visibility
}

// ExecutorOption configures the executor.
type ExecutorOption func(*Executor)

// WithSuccessPolicy sets the incoming-phase success policy.
func WithSuccessPolicy(p SuccessPolicy) ExecutorOption {
	return func(e *Executor) {
		e.policy = p
	}
}

// WithThreshold sets the fraction of entry actions that must succeed
// under PolicyThreshold.
func WithThreshold(fraction float64) ExecutorOption {
	return func(e *Executor) {
		e.threshold = fraction
	}
}

// WithDefaultVisibility sets the policy applied when a transition
// declares VisibilityNone.
func WithDefaultVisibility(v transition.Visibility) ExecutorOption {
	return func(e *Executor) {
		e.defaultVisibility = v
	}
}

// NewExecutor creates an executor bound to a model.
func NewExecutor(m *model.Model, opts ...ExecutorOption) *Executor {
	e := &Executor{
		model:             m,
		policy:            PolicyStrict,
		threshold:         0.8,
		defaultVisibility: transition.VisibilityTrue,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the full phase sequence for one transition. The returned
// result always reports the terminal phase reached and every per-phase
// outcome; Err is nil iff the transition committed.
func (e *Executor) Execute(ctx context.Context, store *Store, t transition.Transition, cb Callbacks) Result {
	if cb == nil {
		cb = NopCallbacks
	}

	result := Result{
		TransitionID: t.ID,
		Activated:    state.NewSet(),
		Deactivated:  state.NewSet(),
	}

	if !store.begin() {
		result.Phases = append(result.Phases, PhaseResult{
			Phase: PhaseValidate, Err: ErrExecutorBusy, Detail: ErrExecutorBusy.Error(),
		})
		result.Final = PhaseValidate
		result.Err = ErrExecutorBusy
		return result
	}
	defer store.end()

	pre := store.Snapshot()

	// VALIDATE
	if err := e.validate(t, pre); err != nil {
		result.Phases = append(result.Phases, PhaseResult{
			Phase: PhaseValidate, Err: err, Detail: err.Error(),
		})
		result.Final = PhaseValidate
		result.Err = err
		return result
	}
	result.Phases = append(result.Phases, PhaseResult{
		Phase: PhaseValidate, OK: true, Detail: "preconditions satisfied",
	})

	// OUTGOING: exit actions for every active from-state. No mutation
	// has happened yet, so a failure is a plain abort.
	for _, id := range t.From.Intersect(pre).Sorted() {
		if err := cb.OnExit(ctx, id); err != nil {
			wrapped := fmt.Errorf("%w: state %q: %v", ErrOutgoingActionFailed, id, err)
			result.Phases = append(result.Phases, PhaseResult{
				Phase: PhaseOutgoing, Err: wrapped, Detail: wrapped.Error(),
			})
			result.Final = PhaseOutgoing
			result.Err = wrapped
			return result
		}
	}
	result.Phases = append(result.Phases, PhaseResult{
		Phase: PhaseOutgoing, OK: true,
		Detail: fmt.Sprintf("%d exit actions completed", t.From.Intersect(pre).Len()),
	})

	// ACTIVATE: pure set union, no error path.
	delta := t.Activate.Difference(pre)
	store.union(t.Activate)
	result.Phases = append(result.Phases, PhaseResult{
		Phase: PhaseActivate, OK: true,
		Detail:    fmt.Sprintf("%d states newly active", delta.Len()),
		Activated: delta.Sorted(),
	})

	// INCOMING: entry actions for the delta only. Failure per policy
	// rolls the union back.
	var failed []state.ID
	var firstErr error
	for _, id := range delta.Sorted() {
		if err := cb.OnEntry(ctx, id); err != nil {
			failed = append(failed, id)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if !e.incomingOK(delta.Len(), len(failed)) {
		store.restore(pre)
		wrapped := fmt.Errorf("%w: %d of %d entry actions failed: %v",
			ErrIncomingActionFailed, len(failed), delta.Len(), firstErr)
		result.Phases = append(result.Phases, PhaseResult{
			Phase: PhaseIncoming, Err: wrapped, Detail: wrapped.Error(),
		})
		result.Final = PhaseRolledBack
		result.RolledBack = true
		result.Err = wrapped
		return result
	}
	result.Phases = append(result.Phases, PhaseResult{
		Phase: PhaseIncoming, OK: true,
		Detail: fmt.Sprintf("%d/%d entry actions succeeded", delta.Len()-len(failed), delta.Len()),
	})

	// EXIT: pure set difference, no error path.
	exited := t.Exit.Intersect(pre)
	store.difference(t.Exit)
	result.Phases = append(result.Phases, PhaseResult{
		Phase: PhaseExit, OK: true,
		Detail:      fmt.Sprintf("%d states exited", exited.Len()),
		Deactivated: exited.Sorted(),
	})

	// VISIBILITY: resolve stays_visible for from-states not exited.
	shown, hidden := e.resolveVisibility(t)
	if !hidden.IsEmpty() {
		store.difference(hidden)
	}
	result.Phases = append(result.Phases, PhaseResult{
		Phase: PhaseVisibility, OK: true,
		Detail: fmt.Sprintf("policy %s resolved", e.effectiveVisibility(t)),
		Shown:  shown.Sorted(),
		Hidden: hidden.Sorted(),
	})

	// CLEANUP: note whether blocking-state membership changed, which
	// invalidates any occlusion-derived candidates cached upstream.
	blocking := e.model.Blocking()
	detail := "no bookkeeping to release"
	if t.Activate.Intersects(blocking) || t.Exit.Intersects(blocking) {
		detail = "blocking membership changed; occlusion candidates stale"
	}
	result.Phases = append(result.Phases, PhaseResult{
		Phase: PhaseCleanup, OK: true, Detail: detail,
	})

	result.Final = PhaseCommitted
	result.Committed = true
	result.Activated = delta
	result.Deactivated = exited.Union(hidden)
	return result
}

// validate checks the precondition set and blocking states against the
// pre-execution snapshot.
func (e *Executor) validate(t transition.Transition, pre state.Set) error {
	if !t.From.IsEmpty() && !t.From.SubsetOf(pre) {
		missing := t.From.Difference(pre)
		return fmt.Errorf("%w: transition %q requires %v", ErrPreconditionNotMet, t.ID, missing.Sorted())
	}

	if err := e.checkGroups(t); err != nil {
		return err
	}

	// A blocking state precludes new activations unless this transition
	// exits the blocker.
	newlyActive := t.Activate.Difference(pre)
	if newlyActive.IsEmpty() {
		return nil
	}
	for id := range e.model.Blocking() {
		if pre.Contains(id) && !t.Exit.Contains(id) {
			return fmt.Errorf("%w: state %q blocks activation of %v",
				ErrBlockedByModal, id, newlyActive.Sorted())
		}
	}
	return nil
}

// checkGroups re-checks group atomicity before activation. Registration
// already enforced it; the model may have gained groups since.
func (e *Executor) checkGroups(t transition.Transition) error {
	for _, set := range []state.Set{t.Activate, t.Exit} {
		for id := range set {
			gid := e.model.GroupOf(id)
			if gid == "" {
				continue
			}
			g, err := e.model.Group(gid)
			if err != nil {
				continue
			}
			if !g.MemberSet().SubsetOf(set) {
				return fmt.Errorf("%w: transition %q splits group %q",
					model.ErrGroupAtomicity, t.ID, gid)
			}
		}
	}
	return nil
}

// incomingOK applies the success policy to the entry-action outcomes.
func (e *Executor) incomingOK(total, failed int) bool {
	if total == 0 || failed == 0 {
		return true
	}
	switch e.policy {
	case PolicyLenient:
		return true
	case PolicyThreshold:
		rate := float64(total-failed) / float64(total)
		return rate >= e.threshold
	default: // PolicyStrict
		return false
	}
}

// effectiveVisibility resolves VisibilityNone to the executor default.
func (e *Executor) effectiveVisibility(t transition.Transition) transition.Visibility {
	if t.StaysVisible == transition.VisibilityNone || t.StaysVisible == "" {
		return e.defaultVisibility
	}
	return t.StaysVisible
}

// resolveVisibility computes which from-states stay active and which are
// additionally removed. From-states the transition exits or re-activates
// are out of scope here.
func (e *Executor) resolveVisibility(t transition.Transition) (shown, hidden state.Set) {
	remaining := t.From.Difference(t.Exit).Difference(t.Activate)
	if e.effectiveVisibility(t) == transition.VisibilityFalse {
		return state.NewSet(), remaining
	}
	return remaining, state.NewSet()
}
