package config

import (
	"fmt"

	"github.com/felixgeelhaar/multistate/application"
	"github.com/felixgeelhaar/multistate/domain/config"
	"github.com/felixgeelhaar/multistate/domain/execution"
	"github.com/felixgeelhaar/multistate/domain/model"
	"github.com/felixgeelhaar/multistate/domain/occlusion"
	"github.com/felixgeelhaar/multistate/domain/state"
)

// BuildModel constructs a model from the definition. Groups declared
// inline on states and in the groups section are merged; registration
// order follows the definition so pathfinding tie-breaks are stable.
func BuildModel(def *config.Definition) (*model.Model, error) {
	m := model.New()

	for _, s := range def.States {
		st := state.State{
			ID:       s.ID,
			Name:     s.Name,
			Blocking: s.Blocking,
			Group:    s.Group,
		}
		if st.Name == "" {
			st.Name = string(st.ID)
		}
		if err := m.AddState(st); err != nil {
			return nil, fmt.Errorf("state %q: %w", s.ID, err)
		}
	}

	for _, g := range def.Groups {
		grp := state.Group{ID: g.ID, Name: g.Name, Members: g.Members}
		if grp.Name == "" {
			grp.Name = grp.ID
		}
		if err := m.AddGroup(grp); err != nil {
			return nil, fmt.Errorf("group %q: %w", g.ID, err)
		}
	}

	for i, o := range def.Occlusions {
		rel := occlusion.Relation{
			Covering:    o.Covering,
			Hidden:      o.Hidden,
			Probability: o.Probability,
			Class:       occlusion.Class(o.Class),
		}
		if err := m.AddOcclusion(rel); err != nil {
			return nil, fmt.Errorf("occlusion %d: %w", i, err)
		}
	}

	for _, spec := range def.Transitions {
		t, err := spec.Transition()
		if err != nil {
			return nil, fmt.Errorf("transition %q: %w", spec.ID, err)
		}
		if err := m.AddTransition(t); err != nil {
			return nil, fmt.Errorf("transition %q: %w", spec.ID, err)
		}
	}

	return m, nil
}

// ManagerOptions derives manager options from the definition's settings.
func ManagerOptions(def *config.Definition) []application.Option {
	var opts []application.Option

	switch def.Settings.SuccessPolicy {
	case "lenient":
		opts = append(opts, application.WithSuccessPolicy(execution.PolicyLenient))
	case "threshold":
		opts = append(opts, application.WithSuccessPolicy(execution.PolicyThreshold))
	case "strict":
		opts = append(opts, application.WithSuccessPolicy(execution.PolicyStrict))
	}
	if def.Settings.Threshold > 0 {
		opts = append(opts, application.WithThreshold(def.Settings.Threshold))
	}
	if def.Settings.DefaultVisibility != "" {
		opts = append(opts, application.WithDefaultVisibility(def.Settings.DefaultVisibility))
	}
	if def.Settings.Combinator == "max" {
		opts = append(opts, application.WithCombinator(occlusion.CombineMax))
	}
	if def.Settings.MaxExpansions > 0 {
		opts = append(opts, application.WithMaxExpansions(def.Settings.MaxExpansions))
	}

	return opts
}

// BuildManager constructs a fully wired manager from the definition and
// seeds the initial configuration.
func BuildManager(def *config.Definition, extra ...application.Option) (*application.Manager, error) {
	m, err := BuildModel(def)
	if err != nil {
		return nil, err
	}

	opts := append(ManagerOptions(def), extra...)
	mgr, err := application.NewManager(m, opts...)
	if err != nil {
		return nil, err
	}

	if len(def.Initial) > 0 {
		if err := mgr.Seed(def.Initial...); err != nil {
			return nil, err
		}
	}
	return mgr, nil
}
