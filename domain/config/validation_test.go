package config

import (
	"strings"
	"testing"

	"github.com/felixgeelhaar/multistate/domain/state"
	"github.com/felixgeelhaar/multistate/domain/transition"
)

func validDefinition() *Definition {
	cost := 1.0
	return &Definition{
		Version: 1,
		States: []StateDef{
			{ID: "login", Name: "Login"},
			{ID: "workspace", Name: "Workspace"},
			{ID: "dialog", Name: "Dialog", Blocking: true},
		},
		Occlusions: []OcclusionDef{
			{Covering: "dialog", Hidden: "workspace", Probability: 1.0, Class: "modal"},
		},
		Transitions: []transition.Spec{
			{
				ID:       "enter_workspace",
				From:     []state.ID{"login"},
				Activate: []state.ID{"workspace"},
				Exit:     []state.ID{"login"},
				Cost:     &cost,
			},
		},
		Initial: []state.ID{"login"},
	}
}

func TestValidator_ValidDefinition(t *testing.T) {
	t.Parallel()

	errs := NewValidator().Validate(validDefinition())
	if errs.HasErrors() {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestValidator_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*Definition)
		wantPath string
	}{
		{
			name:     "wrong version",
			mutate:   func(d *Definition) { d.Version = 2 },
			wantPath: "version",
		},
		{
			name:     "no states",
			mutate:   func(d *Definition) { d.States = nil },
			wantPath: "states",
		},
		{
			name: "duplicate state",
			mutate: func(d *Definition) {
				d.States = append(d.States, StateDef{ID: "login"})
			},
			wantPath: "states[3].id",
		},
		{
			name: "state without id",
			mutate: func(d *Definition) {
				d.States = append(d.States, StateDef{Name: "anonymous"})
			},
			wantPath: "states[3].id",
		},
		{
			name: "group with unknown member",
			mutate: func(d *Definition) {
				d.Groups = []GroupDef{{ID: "g", Members: []state.ID{"ghost"}}}
			},
			wantPath: "groups[0].members",
		},
		{
			name: "group with no members",
			mutate: func(d *Definition) {
				d.Groups = []GroupDef{{ID: "g"}}
			},
			wantPath: "groups[0].members",
		},
		{
			name: "state in two groups",
			mutate: func(d *Definition) {
				d.Groups = []GroupDef{
					{ID: "g1", Members: []state.ID{"login"}},
					{ID: "g2", Members: []state.ID{"login"}},
				}
			},
			wantPath: "groups[1].members",
		},
		{
			name: "occlusion with unknown state",
			mutate: func(d *Definition) {
				d.Occlusions[0].Hidden = "ghost"
			},
			wantPath: "occlusions[0].hidden",
		},
		{
			name: "occlusion probability out of class range",
			mutate: func(d *Definition) {
				d.Occlusions[0].Probability = 0.5
			},
			wantPath: "occlusions[0]",
		},
		{
			name:     "no transitions",
			mutate:   func(d *Definition) { d.Transitions = nil },
			wantPath: "transitions",
		},
		{
			name: "duplicate transition",
			mutate: func(d *Definition) {
				d.Transitions = append(d.Transitions, d.Transitions[0])
			},
			wantPath: "transitions[1].id",
		},
		{
			name: "transition references unknown state",
			mutate: func(d *Definition) {
				d.Transitions[0].Activate = []state.ID{"ghost"}
			},
			wantPath: "transitions[0]",
		},
		{
			name: "transition with overlapping sets",
			mutate: func(d *Definition) {
				d.Transitions[0].Exit = d.Transitions[0].Activate
			},
			wantPath: "transitions[0]",
		},
		{
			name: "unknown success policy",
			mutate: func(d *Definition) {
				d.Settings.SuccessPolicy = "optimistic"
			},
			wantPath: "settings.success_policy",
		},
		{
			name: "unknown combinator",
			mutate: func(d *Definition) {
				d.Settings.Combinator = "sum"
			},
			wantPath: "settings.combinator",
		},
		{
			name: "threshold out of range",
			mutate: func(d *Definition) {
				d.Settings.Threshold = 1.5
			},
			wantPath: "settings.threshold",
		},
		{
			name: "invalid default visibility",
			mutate: func(d *Definition) {
				d.Settings.DefaultVisibility = "SOMETIMES"
			},
			wantPath: "settings.default_visibility",
		},
		{
			name: "unknown initial state",
			mutate: func(d *Definition) {
				d.Initial = []state.ID{"ghost"}
			},
			wantPath: "initial",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			def := validDefinition()
			tt.mutate(def)

			errs := NewValidator().Validate(def)
			if !errs.HasErrors() {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, e := range errs {
				if e.Path == tt.wantPath {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("no error at path %q in %v", tt.wantPath, errs)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Parallel()

	var none ValidationErrors
	if none.HasErrors() {
		t.Error("empty collection reports errors")
	}

	one := ValidationErrors{{Path: "states", Message: "required"}}
	if one.Error() != "states: required" {
		t.Errorf("single error = %q", one.Error())
	}

	two := ValidationErrors{
		{Path: "a", Message: "x"},
		{Path: "b", Message: "y"},
	}
	msg := two.Error()
	if !strings.Contains(msg, "2 validation errors") ||
		!strings.Contains(msg, "a: x") || !strings.Contains(msg, "b: y") {
		t.Errorf("combined message = %q", msg)
	}
}
