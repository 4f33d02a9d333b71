// Package application provides the application layer for the multistate
// engine. The Manager composes the model, the active-state store, the
// transition executor, the dynamic transition generator, and the
// pathfinder behind one façade.
package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/multistate/domain/dynamics"
	"github.com/felixgeelhaar/multistate/domain/execution"
	"github.com/felixgeelhaar/multistate/domain/history"
	"github.com/felixgeelhaar/multistate/domain/model"
	"github.com/felixgeelhaar/multistate/domain/occlusion"
	"github.com/felixgeelhaar/multistate/domain/pathfinding"
	"github.com/felixgeelhaar/multistate/domain/reliability"
	"github.com/felixgeelhaar/multistate/domain/state"
	"github.com/felixgeelhaar/multistate/domain/transition"
	"github.com/felixgeelhaar/multistate/infrastructure/logging"
	"github.com/felixgeelhaar/multistate/infrastructure/telemetry"
)

// Manager is the main orchestration service for the multistate engine.
// All execution goes through the manager, which serializes transitions
// so at most one runs at a time.
type Manager struct {
	mu        sync.Mutex
	model     *model.Model
	store     *execution.Store
	executor  *execution.Executor
	generator *dynamics.Generator
	finder    *pathfinding.Finder

	callbacks execution.Callbacks
	combine   occlusion.Combinator
	tracker   *reliability.Tracker
	history   history.Store
	metrics   telemetry.Metrics
}

// NewManager creates a manager around the given model. A nil model
// starts empty.
func NewManager(m *model.Model, opts ...Option) (*Manager, error) {
	if m == nil {
		m = model.New()
	}

	cfg := managerConfig{
		callbacks: execution.NopCallbacks,
		combine:   occlusion.CombineProduct,
		metrics:   &telemetry.NoopMetricsProvider{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.callbacks == nil {
		cfg.callbacks = execution.NopCallbacks
	}
	if cfg.combine == nil {
		cfg.combine = occlusion.CombineProduct
	}
	if cfg.metrics == nil {
		cfg.metrics = &telemetry.NoopMetricsProvider{}
	}

	var execOpts []execution.ExecutorOption
	if cfg.policy != "" {
		execOpts = append(execOpts, execution.WithSuccessPolicy(cfg.policy))
	}
	if cfg.threshold > 0 {
		execOpts = append(execOpts, execution.WithThreshold(cfg.threshold))
	}
	if cfg.defaultVisibility != "" {
		if !cfg.defaultVisibility.IsValid() {
			return nil, fmt.Errorf("%w: %q", transition.ErrInvalidVisibility, cfg.defaultVisibility)
		}
		execOpts = append(execOpts, execution.WithDefaultVisibility(cfg.defaultVisibility))
	}

	gen := dynamics.NewGenerator(m, dynamics.WithCombinator(cfg.combine))

	cost := cfg.cost
	if cost == nil && cfg.tracker != nil {
		tracker := cfg.tracker
		cost = func(t transition.Transition) float64 {
			return tracker.DynamicCost(t.ID, t.Cost)
		}
	}

	finderOpts := []pathfinding.FinderOption{pathfinding.WithGenerator(gen)}
	if cost != nil {
		finderOpts = append(finderOpts, pathfinding.WithCost(cost))
	}
	if cfg.maxExpansions > 0 {
		finderOpts = append(finderOpts, pathfinding.WithMaxExpansions(cfg.maxExpansions))
	}

	return &Manager{
		model:     m,
		store:     execution.NewStore(),
		executor:  execution.NewExecutor(m, execOpts...),
		generator: gen,
		finder:    pathfinding.NewFinder(m, finderOpts...),
		callbacks: cfg.callbacks,
		combine:   cfg.combine,
		tracker:   cfg.tracker,
		history:   cfg.historyStore,
		metrics:   cfg.metrics,
	}, nil
}

// Model returns the underlying model for registration and queries.
func (mgr *Manager) Model() *model.Model {
	return mgr.model
}

// ActiveStates returns a snapshot of the active configuration.
func (mgr *Manager) ActiveStates() state.Set {
	return mgr.store.Snapshot()
}

// IsActive reports whether the state is currently active.
func (mgr *Manager) IsActive(id state.ID) bool {
	return mgr.store.IsActive(id)
}

// Seed replaces the active configuration without running any transition.
// Partial group activations are completed so group atomicity holds in
// the seeded configuration. Intended for initialization and tests.
func (mgr *Manager) Seed(ids ...state.ID) error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	set := state.NewSet(ids...)
	for id := range set {
		if !mgr.model.HasState(id) {
			return fmt.Errorf("%w: %q", state.ErrUnknownState, id)
		}
	}
	mgr.store.Seed(mgr.model.GroupClosure(set))
	return nil
}

// Clear deactivates every state without running transitions.
func (mgr *Manager) Clear() {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	mgr.store.Seed(nil)
}

// Execute runs the registered transition with the given ID through the
// full phase sequence.
func (mgr *Manager) Execute(ctx context.Context, transitionID string) (execution.Result, error) {
	t, err := mgr.model.Transition(transitionID)
	if err != nil {
		return execution.Result{}, err
	}
	return mgr.ExecuteTransition(ctx, t), nil
}

// ExecuteTransition runs an arbitrary transition, registered or
// generated, through the full phase sequence. The result reports the
// terminal phase reached and the configuration deltas.
func (mgr *Manager) ExecuteTransition(ctx context.Context, t transition.Transition) execution.Result {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	return mgr.execute(ctx, t)
}

// execute runs one transition under the manager lock and records the
// outcome to reliability, history, and metrics.
func (mgr *Manager) execute(ctx context.Context, t transition.Transition) execution.Result {
	before := mgr.store.Snapshot()
	started := time.Now()

	result := mgr.executor.Execute(ctx, mgr.store, t, mgr.callbacks)

	elapsed := time.Since(started)
	after := mgr.store.Snapshot()

	if mgr.tracker != nil && t.Kind == transition.KindDeclared {
		if result.Committed {
			mgr.tracker.RecordSuccess(t.ID, elapsed)
		} else {
			mgr.tracker.RecordFailure(t.ID, elapsed)
		}
	}

	mgr.metrics.RecordExecution(ctx, t.ID, string(result.Final), result.Committed, elapsed)
	if result.Committed {
		mgr.metrics.RecordActiveDelta(ctx, int64(after.Len())-int64(before.Len()))
	}

	if mgr.history != nil {
		rec := history.Record{
			ID:           uuid.NewString(),
			TransitionID: t.ID,
			Final:        result.Final,
			Committed:    result.Committed,
			Before:       before.Sorted(),
			After:        after.Sorted(),
			StartedAt:    started,
			Duration:     elapsed,
		}
		if result.Err != nil {
			rec.Error = result.Err.Error()
		}
		if err := mgr.history.Append(ctx, rec); err != nil {
			logging.Warn().
				Add(logging.TransitionID(t.ID)).
				Add(logging.ErrorField(err)).
				Msg("failed to record execution history")
		}
	}

	event := logging.Info()
	if !result.Committed {
		event = logging.Warn()
	}
	event.
		Add(logging.TransitionID(t.ID)).
		Add(logging.PhaseField(result.Final)).
		Add(logging.Committed(result.Committed)).
		Add(logging.States("before", before)).
		Add(logging.States("after", after)).
		Add(logging.Duration(elapsed)).
		Add(logging.ErrorField(result.Err)).
		Msg("transition executed")

	return result
}

// FindPath searches for a minimum-cost transition sequence from the
// current configuration to one that contains every target.
func (mgr *Manager) FindPath(ctx context.Context, targets ...state.ID) (pathfinding.Path, error) {
	started := time.Now()
	current := mgr.store.Snapshot()

	path, err := mgr.finder.Find(current, state.NewSet(targets...))

	elapsed := time.Since(started)
	mgr.metrics.RecordSearch(ctx, len(targets), err == nil, path.Cost, path.Len(), elapsed)
	logging.Debug().
		Add(logging.Targets(len(targets))).
		Add(logging.Cost(path.Cost)).
		Add(logging.Steps(path.Len())).
		Add(logging.Duration(elapsed)).
		Add(logging.ErrorField(err)).
		Msg("path search finished")

	return path, err
}

// Occluded returns the states currently hidden by an active covering
// state, per the transitive occlusion closure.
func (mgr *Manager) Occluded() state.Set {
	active := mgr.store.Snapshot()
	hidden := state.NewSet()
	for _, r := range mgr.model.DerivedOcclusions(mgr.combine) {
		if active.Contains(r.Covering) && active.Contains(r.Hidden) {
			hidden.Add(r.Hidden)
		}
	}
	return hidden
}

// Reliability returns the reliability tracker, or nil when tracking is
// disabled.
func (mgr *Manager) Reliability() *reliability.Tracker {
	return mgr.tracker
}

// History returns the history store, or nil when recording is disabled.
func (mgr *Manager) History() history.Store {
	return mgr.history
}
