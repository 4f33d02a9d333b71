// Package config defines the declarative model definition schema.
// A Definition describes states, groups, occlusions, and transitions in
// a form suitable for YAML or JSON files.
package config

import (
	"github.com/felixgeelhaar/multistate/domain/state"
	"github.com/felixgeelhaar/multistate/domain/transition"
)

// Definition is the root of a model definition file.
type Definition struct {
	// Version is the schema version. Currently 1.
	Version int `json:"version" yaml:"version"`

	// Settings tune execution and pathfinding behavior.
	Settings Settings `json:"settings,omitempty" yaml:"settings,omitempty"`

	// States declares the abstract states.
	States []StateDef `json:"states" yaml:"states"`

	// Groups declares atomic activation groups.
	Groups []GroupDef `json:"groups,omitempty" yaml:"groups,omitempty"`

	// Occlusions declares covering relationships between states.
	Occlusions []OcclusionDef `json:"occlusions,omitempty" yaml:"occlusions,omitempty"`

	// Transitions declares the transitions between configurations.
	Transitions []transition.Spec `json:"transitions" yaml:"transitions"`

	// Initial seeds the active configuration on startup.
	Initial []state.ID `json:"initial,omitempty" yaml:"initial,omitempty"`
}

// Settings tune execution and pathfinding behavior.
type Settings struct {
	// SuccessPolicy is strict, lenient, or threshold. Empty means strict.
	SuccessPolicy string `json:"success_policy,omitempty" yaml:"success_policy,omitempty"`

	// Threshold is the required incoming success fraction for the
	// threshold policy.
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`

	// DefaultVisibility applies when a transition leaves stays_visible
	// unspecified. NONE here means the engine default.
	DefaultVisibility transition.Visibility `json:"default_visibility,omitempty" yaml:"default_visibility,omitempty"`

	// Combinator is product or max. Empty means product.
	Combinator string `json:"combinator,omitempty" yaml:"combinator,omitempty"`

	// MaxExpansions bounds pathfinding search effort. Zero means the
	// engine default.
	MaxExpansions int `json:"max_expansions,omitempty" yaml:"max_expansions,omitempty"`
}

// StateDef declares one state.
type StateDef struct {
	ID       state.ID `json:"id" yaml:"id"`
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Blocking bool     `json:"blocking,omitempty" yaml:"blocking,omitempty"`
	Group    string   `json:"group,omitempty" yaml:"group,omitempty"`
}

// GroupDef declares one atomic activation group.
type GroupDef struct {
	ID      string     `json:"id" yaml:"id"`
	Name    string     `json:"name,omitempty" yaml:"name,omitempty"`
	Members []state.ID `json:"members" yaml:"members"`
}

// OcclusionDef declares one covering relationship.
type OcclusionDef struct {
	Covering    state.ID `json:"covering" yaml:"covering"`
	Hidden      state.ID `json:"hidden" yaml:"hidden"`
	Probability float64  `json:"probability" yaml:"probability"`
	Class       string   `json:"class" yaml:"class"`
}
