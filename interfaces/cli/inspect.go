package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/multistate/domain/occlusion"
	"github.com/felixgeelhaar/multistate/domain/state"
	"github.com/felixgeelhaar/multistate/domain/transition"
	infraconfig "github.com/felixgeelhaar/multistate/infrastructure/config"
)

// inspectOptions holds options for the inspect command.
type inspectOptions struct {
	definitionPath string
	asJSON         bool
	combinator     string
}

// newInspectCmd creates the inspect command.
func (a *App) newInspectCmd() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect a model definition",
		Long: `Load a model definition and print its states, groups, transitions,
and occlusion relationships including the transitive closure.

Examples:
  # Inspect a definition
  multistate inspect -f model.yaml

  # Machine-readable output
  multistate inspect -f model.yaml --json

  # Chain occlusions with the max combinator
  multistate inspect -f model.yaml --combinator max`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.inspectDefinition(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.definitionPath, "file", "f", "", "Path to model definition file")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print as JSON")
	cmd.Flags().StringVar(&opts.combinator, "combinator", "product", "Occlusion chain combinator (product or max)")

	return cmd
}

// inspectDefinition loads and prints the model.
func (a *App) inspectDefinition(opts *inspectOptions) error {
	if opts.definitionPath == "" {
		return fmt.Errorf("definition file path is required (-f flag)")
	}

	combine, err := combinatorFor(opts.combinator)
	if err != nil {
		return err
	}

	loader := infraconfig.NewLoader()
	def, err := loader.LoadFile(opts.definitionPath)
	if err != nil {
		return err
	}
	m, err := infraconfig.BuildModel(def)
	if err != nil {
		return err
	}

	derived := m.DerivedOcclusions(combine)

	if opts.asJSON {
		groupOf := func(id state.ID) string { return m.GroupOf(id) }
		specs := make([]transition.Spec, 0, len(m.Transitions()))
		for _, t := range m.Transitions() {
			specs = append(specs, transition.ToSpec(t, groupOf))
		}
		out := struct {
			States      []state.State        `json:"states"`
			Transitions []transition.Spec    `json:"transitions"`
			Occlusions  []occlusion.Relation `json:"occlusions"`
		}{m.States(), specs, derived}

		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(a.stdout, "States (%d):\n", len(m.States()))
	for _, s := range m.States() {
		var notes []string
		if s.Blocking {
			notes = append(notes, "blocking")
		}
		if g := m.GroupOf(s.ID); g != "" {
			notes = append(notes, "group="+g)
		}
		suffix := ""
		if len(notes) > 0 {
			suffix = " (" + strings.Join(notes, ", ") + ")"
		}
		fmt.Fprintf(a.stdout, "  %s%s\n", s.ID, suffix)
	}

	fmt.Fprintf(a.stdout, "\nTransitions (%d):\n", len(m.Transitions()))
	for _, t := range m.Transitions() {
		fmt.Fprintf(a.stdout, "  %s: %s -> activate %s", t.ID, formatSet(t.From), formatSet(t.Activate))
		if !t.Exit.IsEmpty() {
			fmt.Fprintf(a.stdout, ", exit %s", formatSet(t.Exit))
		}
		fmt.Fprintf(a.stdout, " (cost %g)\n", t.Cost)
	}

	if len(derived) > 0 {
		fmt.Fprintf(a.stdout, "\nOcclusions with closure (%d):\n", len(derived))
		for _, r := range derived {
			fmt.Fprintf(a.stdout, "  %s hides %s (p=%.2f, %s)\n", r.Covering, r.Hidden, r.Probability, r.Class)
		}
	}

	return nil
}

// combinatorFor resolves a combinator name.
func combinatorFor(name string) (occlusion.Combinator, error) {
	switch name {
	case "", "product":
		return occlusion.CombineProduct, nil
	case "max":
		return occlusion.CombineMax, nil
	default:
		return nil, fmt.Errorf("unknown combinator %q", name)
	}
}

// formatSet renders a configuration as {a, b, c}.
func formatSet(s state.Set) string {
	ids := s.Sorted()
	ss := make([]string, len(ids))
	for i, id := range ids {
		ss[i] = string(id)
	}
	return "{" + strings.Join(ss, ", ") + "}"
}
