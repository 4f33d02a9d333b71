package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	infraconfig "github.com/felixgeelhaar/multistate/infrastructure/config"
)

// validateOptions holds options for the validate command.
type validateOptions struct {
	definitionPath string
	strict         bool
}

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a model definition file",
		Long: `Validate a model definition file for correctness.

This command checks:
  - File format (YAML or JSON)
  - Identifier uniqueness for states, groups, and transitions
  - Referential integrity of groups, occlusions, and transitions
  - Group atomicity of every declared transition
  - Environment variable references (in strict mode)

Examples:
  # Validate a definition file
  multistate validate -f model.yaml

  # Strict validation (fail on missing env vars)
  multistate validate -f model.yaml --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validateDefinition(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.definitionPath, "file", "f", "", "Path to model definition file")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Enable strict validation (fail on missing env vars)")

	return cmd
}

// validateDefinition validates the definition file.
func (a *App) validateDefinition(opts *validateOptions) error {
	if opts.definitionPath == "" {
		return fmt.Errorf("definition file path is required (-f flag)")
	}

	loaderOpts := []infraconfig.LoaderOption{
		infraconfig.WithValidation(true),
	}
	if opts.strict {
		loaderOpts = append(loaderOpts, infraconfig.WithStrictEnv(true))
	}

	loader := infraconfig.NewLoaderWithOptions(loaderOpts...)
	def, err := loader.LoadFile(opts.definitionPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	// Registration enforces the semantic rules schema validation cannot,
	// group atomicity in particular.
	if _, err := infraconfig.BuildModel(def); err != nil {
		return fmt.Errorf("model build failed: %w", err)
	}

	fmt.Fprintf(a.stdout, "✓ Definition is valid\n")
	fmt.Fprintf(a.stdout, "  States: %d\n", len(def.States))
	if len(def.Groups) > 0 {
		fmt.Fprintf(a.stdout, "  Groups: %d\n", len(def.Groups))
	}
	if len(def.Occlusions) > 0 {
		fmt.Fprintf(a.stdout, "  Occlusions: %d\n", len(def.Occlusions))
	}
	fmt.Fprintf(a.stdout, "  Transitions: %d\n", len(def.Transitions))
	if len(def.Initial) > 0 {
		fmt.Fprintf(a.stdout, "  Initial states: %d\n", len(def.Initial))
	}

	return nil
}
