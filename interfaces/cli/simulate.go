package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/multistate/application"
	"github.com/felixgeelhaar/multistate/domain/execution"
	"github.com/felixgeelhaar/multistate/domain/state"
	infraconfig "github.com/felixgeelhaar/multistate/infrastructure/config"
	"github.com/felixgeelhaar/multistate/infrastructure/storage/sqlite"
)

// simulateOptions holds options for the simulate command.
type simulateOptions struct {
	definitionPath string
	historyPath    string
	from           []string
	targets        []string
	transitions    []string
}

// newSimulateCmd creates the simulate command.
func (a *App) newSimulateCmd() *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Execute transitions against a model definition",
		Long: `Run transitions through the full phase protocol with no-op entry
and exit actions, printing the configuration after each step.

Either an explicit transition sequence or a set of targets can be
given; with targets, a path is planned first and then executed.

Examples:
  # Execute two transitions in order
  multistate simulate -f model.yaml -x login_to_workspace -x open_search

  # Plan and execute a path to targets
  multistate simulate -f model.yaml -t search -t properties

  # Persist execution history to a SQLite database
  multistate simulate -f model.yaml -t search --history runs.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.simulate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.definitionPath, "file", "f", "", "Path to model definition file")
	cmd.Flags().StringSliceVar(&opts.from, "from", nil, "Starting states (default: definition's initial states)")
	cmd.Flags().StringSliceVarP(&opts.targets, "target", "t", nil, "Target states to navigate to (repeatable)")
	cmd.Flags().StringSliceVarP(&opts.transitions, "execute", "x", nil, "Transition IDs to execute in order (repeatable)")
	cmd.Flags().StringVar(&opts.historyPath, "history", "", "SQLite database file to record execution history in")

	return cmd
}

// simulate executes transitions and reports each outcome.
func (a *App) simulate(ctx context.Context, opts *simulateOptions) error {
	if opts.definitionPath == "" {
		return fmt.Errorf("definition file path is required (-f flag)")
	}
	if len(opts.targets) == 0 && len(opts.transitions) == 0 {
		return fmt.Errorf("either targets (-t) or transitions (-x) are required")
	}
	if len(opts.targets) > 0 && len(opts.transitions) > 0 {
		return fmt.Errorf("targets (-t) and transitions (-x) are mutually exclusive")
	}

	def, err := infraconfig.NewLoader().LoadFile(opts.definitionPath)
	if err != nil {
		return err
	}
	if len(opts.from) > 0 {
		def.Initial = toIDs(opts.from)
	}

	var mgrOpts []application.Option
	if opts.historyPath != "" {
		cfg := sqlite.DefaultConfig()
		cfg.DSN = "file:" + opts.historyPath
		store, err := sqlite.NewHistoryStore(cfg)
		if err != nil {
			return fmt.Errorf("opening history database: %w", err)
		}
		defer store.Close()
		mgrOpts = append(mgrOpts, application.WithHistory(store))
	}

	mgr, err := infraconfig.BuildManager(def, mgrOpts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Starting configuration: %s\n", formatSet(mgr.ActiveStates()))

	if len(opts.targets) > 0 {
		return a.simulateNavigate(ctx, mgr, toIDs(opts.targets))
	}
	return a.simulateSequence(ctx, mgr, opts.transitions)
}

func (a *App) simulateNavigate(ctx context.Context, mgr *application.Manager, targets []state.ID) error {
	run, err := mgr.Navigate(ctx, targets...)
	if err != nil {
		return err
	}
	for i, result := range run.Results {
		fmt.Fprintf(a.stdout, "  %d. %s: %s\n", i+1, result.TransitionID, outcome(result.Committed, result.Final))
	}
	if !run.Completed {
		fmt.Fprintf(a.stdout, "Stopped at step %d: %v\n", run.FailedStep+1, run.Err)
	}
	fmt.Fprintf(a.stdout, "Final configuration: %s\n", formatSet(mgr.ActiveStates()))
	if !run.Completed {
		return run.Err
	}
	return nil
}

func (a *App) simulateSequence(ctx context.Context, mgr *application.Manager, ids []string) error {
	for i, id := range ids {
		result, err := mgr.Execute(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "  %d. %s: %s\n", i+1, id, outcome(result.Committed, result.Final))
		if !result.Committed {
			fmt.Fprintf(a.stdout, "Stopped: %v\n", result.Err)
			fmt.Fprintf(a.stdout, "Final configuration: %s\n", formatSet(mgr.ActiveStates()))
			return result.Err
		}
	}
	fmt.Fprintf(a.stdout, "Final configuration: %s\n", formatSet(mgr.ActiveStates()))
	return nil
}

func outcome(committed bool, final execution.Phase) string {
	if committed {
		return "committed"
	}
	return "failed in " + string(final)
}
