package application

import (
	"github.com/felixgeelhaar/multistate/domain/execution"
	"github.com/felixgeelhaar/multistate/domain/history"
	"github.com/felixgeelhaar/multistate/domain/occlusion"
	"github.com/felixgeelhaar/multistate/domain/pathfinding"
	"github.com/felixgeelhaar/multistate/domain/reliability"
	"github.com/felixgeelhaar/multistate/domain/transition"
	"github.com/felixgeelhaar/multistate/infrastructure/telemetry"
)

// Option configures a Manager.
type Option func(*managerConfig)

type managerConfig struct {
	callbacks         execution.Callbacks
	policy            execution.SuccessPolicy
	threshold         float64
	defaultVisibility transition.Visibility
	combine           occlusion.Combinator
	tracker           *reliability.Tracker
	historyStore      history.Store
	metrics           telemetry.Metrics
	maxExpansions     int
	cost              pathfinding.CostFunc
}

// WithCallbacks sets the entry and exit action callbacks invoked during
// transition execution.
func WithCallbacks(cb execution.Callbacks) Option {
	return func(c *managerConfig) {
		c.callbacks = cb
	}
}

// WithSuccessPolicy sets how incoming action failures are judged.
func WithSuccessPolicy(p execution.SuccessPolicy) Option {
	return func(c *managerConfig) {
		c.policy = p
	}
}

// WithThreshold sets the required incoming success fraction for the
// threshold policy.
func WithThreshold(fraction float64) Option {
	return func(c *managerConfig) {
		c.threshold = fraction
	}
}

// WithDefaultVisibility sets the visibility applied when a transition
// leaves it unspecified.
func WithDefaultVisibility(v transition.Visibility) Option {
	return func(c *managerConfig) {
		c.defaultVisibility = v
	}
}

// WithCombinator sets how occlusion probabilities compose along chains.
func WithCombinator(combine occlusion.Combinator) Option {
	return func(c *managerConfig) {
		c.combine = combine
	}
}

// WithReliability enables reliability tracking. Execution outcomes feed
// the tracker and pathfinding costs scale with observed failure rates.
func WithReliability(t *reliability.Tracker) Option {
	return func(c *managerConfig) {
		c.tracker = t
	}
}

// WithHistory records every execution to the given store.
func WithHistory(s history.Store) Option {
	return func(c *managerConfig) {
		c.historyStore = s
	}
}

// WithMetrics enables metrics recording.
func WithMetrics(m telemetry.Metrics) Option {
	return func(c *managerConfig) {
		c.metrics = m
	}
}

// WithMaxExpansions bounds pathfinding search effort.
func WithMaxExpansions(n int) Option {
	return func(c *managerConfig) {
		c.maxExpansions = n
	}
}

// WithCost overrides the pathfinding cost function. It takes precedence
// over reliability-adjusted costs.
func WithCost(fn pathfinding.CostFunc) Option {
	return func(c *managerConfig) {
		c.cost = fn
	}
}
