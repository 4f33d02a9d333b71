package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/multistate/domain/pathfinding"
	"github.com/felixgeelhaar/multistate/domain/state"
	infraconfig "github.com/felixgeelhaar/multistate/infrastructure/config"
)

// pathOptions holds options for the path command.
type pathOptions struct {
	definitionPath string
	from           []string
	targets        []string
}

// newPathCmd creates the path command.
func (a *App) newPathCmd() *cobra.Command {
	opts := &pathOptions{}

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Find a minimum-cost path to target states",
		Long: `Search for the cheapest transition sequence from a starting
configuration to one containing every target state.

Examples:
  # Path from the definition's initial states
  multistate path -f model.yaml -t search -t properties

  # Path from an explicit configuration
  multistate path -f model.yaml --from login -t workspace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.findPath(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.definitionPath, "file", "f", "", "Path to model definition file")
	cmd.Flags().StringSliceVar(&opts.from, "from", nil, "Starting states (default: definition's initial states)")
	cmd.Flags().StringSliceVarP(&opts.targets, "target", "t", nil, "Target states (repeatable)")

	return cmd
}

// findPath loads the model and searches for a path.
func (a *App) findPath(ctx context.Context, opts *pathOptions) error {
	if opts.definitionPath == "" {
		return fmt.Errorf("definition file path is required (-f flag)")
	}
	if len(opts.targets) == 0 {
		return fmt.Errorf("at least one target state is required (-t flag)")
	}

	def, err := infraconfig.NewLoader().LoadFile(opts.definitionPath)
	if err != nil {
		return err
	}
	if len(opts.from) > 0 {
		def.Initial = toIDs(opts.from)
	}

	mgr, err := infraconfig.BuildManager(def)
	if err != nil {
		return err
	}

	path, err := mgr.FindPath(ctx, toIDs(opts.targets)...)
	if errors.Is(err, pathfinding.ErrNoPathFound) {
		fmt.Fprintf(a.stdout, "No path from %s to targets %v\n", formatSet(mgr.ActiveStates()), opts.targets)
		return err
	}
	if err != nil {
		return err
	}

	if path.Len() == 0 {
		fmt.Fprintf(a.stdout, "Targets already satisfied by %s\n", formatSet(mgr.ActiveStates()))
		return nil
	}

	fmt.Fprintf(a.stdout, "Path (%d steps, cost %g):\n", path.Len(), path.Cost)
	for i, t := range path.Transitions {
		fmt.Fprintf(a.stdout, "  %d. %s (cost %g)\n", i+1, t.ID, t.Cost)
	}
	return nil
}

// toIDs converts flag values to state IDs.
func toIDs(ss []string) []state.ID {
	ids := make([]state.ID, len(ss))
	for i, s := range ss {
		ids[i] = state.ID(s)
	}
	return ids
}
