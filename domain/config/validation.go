package config

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/multistate/domain/occlusion"
	"github.com/felixgeelhaar/multistate/domain/state"
)

// ValidationError represents a definition validation error.
type ValidationError struct {
	// Path is the path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates model definitions.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the definition and returns any errors. It checks
// identifier uniqueness and referential integrity; semantic rules such
// as group atomicity are enforced by the model on registration.
func (v *Validator) Validate(def *Definition) ValidationErrors {
	v.errors = nil

	if def.Version != 1 {
		v.addError("version", fmt.Sprintf("unsupported version %d", def.Version))
	}

	known := v.validateStates(def)
	v.validateGroups(def, known)
	v.validateOcclusions(def, known)
	v.validateTransitions(def, known)
	v.validateSettings(def)
	v.validateInitial(def, known)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateStates(def *Definition) map[state.ID]bool {
	known := make(map[state.ID]bool, len(def.States))
	if len(def.States) == 0 {
		v.addError("states", "at least one state is required")
	}
	for i, s := range def.States {
		path := fmt.Sprintf("states[%d]", i)
		if s.ID == "" {
			v.addError(path+".id", "id is required")
			continue
		}
		if known[s.ID] {
			v.addError(path+".id", fmt.Sprintf("duplicate state %q", s.ID))
		}
		known[s.ID] = true
	}
	return known
}

func (v *Validator) validateGroups(def *Definition, known map[state.ID]bool) {
	seen := make(map[string]bool, len(def.Groups))
	memberOf := make(map[state.ID]string)
	for i, g := range def.Groups {
		path := fmt.Sprintf("groups[%d]", i)
		if g.ID == "" {
			v.addError(path+".id", "id is required")
			continue
		}
		if seen[g.ID] {
			v.addError(path+".id", fmt.Sprintf("duplicate group %q", g.ID))
		}
		seen[g.ID] = true

		if len(g.Members) == 0 {
			v.addError(path+".members", "at least one member is required")
		}
		for _, m := range g.Members {
			if !known[m] {
				v.addError(path+".members", fmt.Sprintf("unknown state %q", m))
				continue
			}
			if prev, ok := memberOf[m]; ok && prev != g.ID {
				v.addError(path+".members", fmt.Sprintf("state %q already in group %q", m, prev))
			}
			memberOf[m] = g.ID
		}
	}
}

func (v *Validator) validateOcclusions(def *Definition, known map[state.ID]bool) {
	for i, o := range def.Occlusions {
		path := fmt.Sprintf("occlusions[%d]", i)
		if !known[o.Covering] {
			v.addError(path+".covering", fmt.Sprintf("unknown state %q", o.Covering))
		}
		if !known[o.Hidden] {
			v.addError(path+".hidden", fmt.Sprintf("unknown state %q", o.Hidden))
		}
		rel := occlusion.Relation{
			Covering:    o.Covering,
			Hidden:      o.Hidden,
			Probability: o.Probability,
			Class:       occlusion.Class(o.Class),
		}
		if err := rel.Validate(); err != nil {
			v.addError(path, err.Error())
		}
	}
}

func (v *Validator) validateTransitions(def *Definition, known map[state.ID]bool) {
	if len(def.Transitions) == 0 {
		v.addError("transitions", "at least one transition is required")
	}
	seen := make(map[string]bool, len(def.Transitions))
	for i, spec := range def.Transitions {
		path := fmt.Sprintf("transitions[%d]", i)
		if spec.ID == "" {
			v.addError(path+".id", "id is required")
			continue
		}
		if seen[spec.ID] {
			v.addError(path+".id", fmt.Sprintf("duplicate transition %q", spec.ID))
		}
		seen[spec.ID] = true

		if _, err := spec.Transition(); err != nil {
			v.addError(path, err.Error())
		}
		for _, id := range append(append(append([]state.ID{}, spec.From...), spec.Activate...), spec.Exit...) {
			if !known[id] {
				v.addError(path, fmt.Sprintf("unknown state %q", id))
			}
		}
	}
}

func (v *Validator) validateSettings(def *Definition) {
	switch def.Settings.SuccessPolicy {
	case "", "strict", "lenient", "threshold":
	default:
		v.addError("settings.success_policy", fmt.Sprintf("unknown policy %q", def.Settings.SuccessPolicy))
	}
	switch def.Settings.Combinator {
	case "", "product", "max":
	default:
		v.addError("settings.combinator", fmt.Sprintf("unknown combinator %q", def.Settings.Combinator))
	}
	if def.Settings.Threshold < 0 || def.Settings.Threshold > 1 {
		v.addError("settings.threshold", "threshold must be in [0, 1]")
	}
	if dv := def.Settings.DefaultVisibility; dv != "" && !dv.IsValid() {
		v.addError("settings.default_visibility", fmt.Sprintf("invalid visibility %q", dv))
	}
	if def.Settings.MaxExpansions < 0 {
		v.addError("settings.max_expansions", "max_expansions must not be negative")
	}
}

func (v *Validator) validateInitial(def *Definition, known map[state.ID]bool) {
	for _, id := range def.Initial {
		if !known[id] {
			v.addError("initial", fmt.Sprintf("unknown state %q", id))
		}
	}
}
