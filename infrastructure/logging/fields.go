package logging

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/multistate/domain/execution"
	"github.com/felixgeelhaar/multistate/domain/state"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Common field constructors for state machine logging.

// TransitionID adds a transition ID field.
func TransitionID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("transition_id", id)
	}
}

// StateID adds a state field.
func StateID(id state.ID) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("state", string(id))
	}
}

// States adds a sorted, comma-joined configuration under the given key.
func States(key string, set state.Set) Field {
	return func(e *bolt.Event) *bolt.Event {
		ids := set.Sorted()
		ss := make([]string, len(ids))
		for i, id := range ids {
			ss[i] = string(id)
		}
		return e.Str(key, strings.Join(ss, ","))
	}
}

// PhaseField adds the current execution phase.
func PhaseField(p execution.Phase) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("phase", string(p))
	}
}

// Cost adds a pathfinding cost field.
func Cost(c float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Float64("cost", c)
	}
}

// Float64 adds an arbitrary float field.
func Float64(key string, v float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Float64(key, v)
	}
}

// Steps adds a path length field.
func Steps(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("steps", n)
	}
}

// Expansions adds a search expansion count field.
func Expansions(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("expansions", n)
	}
}

// Targets adds a target count field.
func Targets(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("targets", n)
	}
}

// Committed adds an execution outcome field.
func Committed(ok bool) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Bool("committed", ok)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}
