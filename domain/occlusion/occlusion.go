// Package occlusion models the relation "an active state hides another
// active state without deactivating it", and derives its transitive
// closure. The engine uses occlusion only to synthesize reveal
// transitions; it never mutates the active configuration from here.
package occlusion

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/multistate/domain/state"
)

// Class tags the nature of an occlusion relation. Each class constrains
// the admissible probability range.
type Class string

const (
	// ClassModal is full occlusion by a modal surface; probability is
	// always 1.
	ClassModal Class = "modal"

	// ClassSpatial is physical overlap; probability in [0.5, 0.9].
	ClassSpatial Class = "spatial"

	// ClassLogical is application-defined precedence; probability in
	// [0.7, 1.0].
	ClassLogical Class = "logical"
)

// IsValid reports whether c is a defined class.
func (c Class) IsValid() bool {
	switch c {
	case ClassModal, ClassSpatial, ClassLogical:
		return true
	default:
		return false
	}
}

// bounds returns the admissible probability range for the class.
func (c Class) bounds() (lo, hi float64) {
	switch c {
	case ClassModal:
		return 1.0, 1.0
	case ClassSpatial:
		return 0.5, 0.9
	case ClassLogical:
		return 0.7, 1.0
	default:
		return 0, 1
	}
}

// Errors raised by relation validation.
var (
	// ErrInvalidClass indicates an unrecognized occlusion class.
	ErrInvalidClass = errors.New("invalid occlusion class")

	// ErrProbabilityOutOfRange indicates a probability outside the
	// class's admissible range.
	ErrProbabilityOutOfRange = errors.New("occlusion probability out of range")

	// ErrSelfOcclusion indicates a state declared to occlude itself.
	ErrSelfOcclusion = errors.New("state cannot occlude itself")
)

// Relation is an ordered pair: while Covering is active, Hidden is
// occluded with the given probability.
type Relation struct {
	Covering    state.ID `json:"covering" yaml:"covering"`
	Hidden      state.ID `json:"hidden" yaml:"hidden"`
	Probability float64  `json:"probability" yaml:"probability"`
	Class       Class    `json:"class" yaml:"class"`
}

// Validate checks the relation's class and probability bounds.
func (r Relation) Validate() error {
	if r.Covering == r.Hidden {
		return fmt.Errorf("%w: %s", ErrSelfOcclusion, r.Covering)
	}
	if !r.Class.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidClass, r.Class)
	}
	lo, hi := r.Class.bounds()
	if r.Probability < lo || r.Probability > hi {
		return fmt.Errorf("%w: %s must be in [%.2f, %.2f], got %.2f",
			ErrProbabilityOutOfRange, r.Class, lo, hi, r.Probability)
	}
	return nil
}

// Equal reports whether two relations are identical.
func (r Relation) Equal(other Relation) bool {
	return r == other
}
