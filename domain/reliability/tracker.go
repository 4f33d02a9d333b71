// Package reliability tracks per-transition execution outcomes and derives
// dynamic pathfinding costs from them. Transitions that fail often become
// more expensive to route through, so the pathfinder steers around them
// without any change to the declared model.
package reliability

import (
	"sort"
	"sync"
	"time"
)

// Stats holds the execution record of a single transition.
type Stats struct {
	TransitionID string        `json:"transition_id"`
	Successes    int           `json:"successes"`
	Failures     int           `json:"failures"`
	TotalTime    time.Duration `json:"total_time"`
	LastSuccess  time.Time     `json:"last_success,omitzero"`
	LastFailure  time.Time     `json:"last_failure,omitzero"`
	BaseCost     float64       `json:"base_cost"`
}

// Attempts returns the total number of recorded executions.
func (s Stats) Attempts() int {
	return s.Successes + s.Failures
}

// SuccessRate returns the fraction of successful executions, or 1.0 when
// nothing has been recorded yet so untried transitions carry no penalty.
func (s Stats) SuccessRate() float64 {
	if s.Attempts() == 0 {
		return 1.0
	}
	return float64(s.Successes) / float64(s.Attempts())
}

// FailureRate returns 1 minus the success rate.
func (s Stats) FailureRate() float64 {
	return 1.0 - s.SuccessRate()
}

// AverageTime returns the mean execution duration across all attempts.
func (s Stats) AverageTime() time.Duration {
	if s.Attempts() == 0 {
		return 0
	}
	return s.TotalTime / time.Duration(s.Attempts())
}

// Summary aggregates outcomes across every tracked transition.
type Summary struct {
	Transitions int     `json:"transitions"`
	Attempts    int     `json:"attempts"`
	Successes   int     `json:"successes"`
	Failures    int     `json:"failures"`
	SuccessRate float64 `json:"success_rate"`
}

// Tracker records transition outcomes and computes reliability-adjusted
// costs. It is safe for concurrent use.
type Tracker struct {
	mu    sync.RWMutex
	stats map[string]*Stats

	failureMultiplier float64
	minMultiplier     float64
	maxMultiplier     float64
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithFailureMultiplier sets the cost multiplier reached at a 100% failure
// rate. The default of 2.0 doubles the cost of a transition that always
// fails.
func WithFailureMultiplier(m float64) Option {
	return func(t *Tracker) {
		if m >= 1.0 {
			t.failureMultiplier = m
		}
	}
}

// WithMultiplierBounds clamps the computed multiplier to [min, max].
func WithMultiplierBounds(min, max float64) Option {
	return func(t *Tracker) {
		if min > 0 && max >= min {
			t.minMultiplier = min
			t.maxMultiplier = max
		}
	}
}

// NewTracker creates a reliability tracker with the given options.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		stats:             make(map[string]*Stats),
		failureMultiplier: 2.0,
		minMultiplier:     1.0,
		maxMultiplier:     10.0,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RecordSuccess records a successful execution of the transition.
func (t *Tracker) RecordSuccess(transitionID string, elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.get(transitionID)
	s.Successes++
	s.TotalTime += elapsed
	s.LastSuccess = time.Now()
}

// RecordFailure records a failed execution of the transition.
func (t *Tracker) RecordFailure(transitionID string, elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.get(transitionID)
	s.Failures++
	s.TotalTime += elapsed
	s.LastFailure = time.Now()
}

// get returns the stats entry for the transition, creating one on first
// use. Callers must hold the lock.
func (t *Tracker) get(transitionID string) *Stats {
	s, ok := t.stats[transitionID]
	if !ok {
		s = &Stats{TransitionID: transitionID}
		t.stats[transitionID] = s
	}
	return s
}

// Stats returns a copy of the record for the transition. The zero value
// is returned for transitions with no history.
func (t *Tracker) Stats(transitionID string) Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if s, ok := t.stats[transitionID]; ok {
		return *s
	}
	return Stats{TransitionID: transitionID}
}

// DynamicCost scales the base cost by the transition's failure rate:
//
//	multiplier = 1 + failureRate * (failureMultiplier - 1)
//	cost       = base * clamp(multiplier, min, max)
//
// A transition with no history keeps its base cost.
func (t *Tracker) DynamicCost(transitionID string, base float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.get(transitionID)
	s.BaseCost = base
	if s.Attempts() == 0 {
		return base
	}

	m := 1.0 + s.FailureRate()*(t.failureMultiplier-1.0)
	if m < t.minMultiplier {
		m = t.minMultiplier
	}
	if m > t.maxMultiplier {
		m = t.maxMultiplier
	}
	return base * m
}

// Summary aggregates outcomes across all tracked transitions.
func (t *Tracker) Summary() Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	sum := Summary{Transitions: len(t.stats)}
	for _, s := range t.stats {
		sum.Attempts += s.Attempts()
		sum.Successes += s.Successes
		sum.Failures += s.Failures
	}
	if sum.Attempts > 0 {
		sum.SuccessRate = float64(sum.Successes) / float64(sum.Attempts)
	}
	return sum
}

// LeastReliable returns up to limit transitions with recorded attempts,
// ordered by ascending success rate. Ties break by transition ID so the
// ordering is stable.
func (t *Tracker) LeastReliable(limit int) []Stats {
	return t.ranked(limit, func(a, b Stats) bool {
		if a.SuccessRate() != b.SuccessRate() {
			return a.SuccessRate() < b.SuccessRate()
		}
		return a.TransitionID < b.TransitionID
	})
}

// MostReliable returns up to limit transitions with recorded attempts,
// ordered by descending success rate.
func (t *Tracker) MostReliable(limit int) []Stats {
	return t.ranked(limit, func(a, b Stats) bool {
		if a.SuccessRate() != b.SuccessRate() {
			return a.SuccessRate() > b.SuccessRate()
		}
		return a.TransitionID < b.TransitionID
	})
}

func (t *Tracker) ranked(limit int, less func(a, b Stats) bool) []Stats {
	t.mu.RLock()
	out := make([]Stats, 0, len(t.stats))
	for _, s := range t.stats {
		if s.Attempts() > 0 {
			out = append(out, *s)
		}
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Reset discards recorded statistics for one transition, or for all
// transitions when transitionID is empty.
func (t *Tracker) Reset(transitionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if transitionID == "" {
		t.stats = make(map[string]*Stats)
		return
	}
	delete(t.stats, transitionID)
}
