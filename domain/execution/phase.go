package execution

// Phase is one step of the transition execution protocol. Phases run in
// the declared order with no skipping; a failure either aborts before
// mutation (VALIDATE, OUTGOING) or rolls the mutation back (INCOMING).
type Phase string

const (
	// PhaseValidate checks preconditions and blocking states.
	PhaseValidate Phase = "validate"

	// PhaseOutgoing runs exit-action callbacks for active from-states.
	PhaseOutgoing Phase = "outgoing"

	// PhaseActivate unions the activate set into the configuration.
	// Cannot fail.
	PhaseActivate Phase = "activate"

	// PhaseIncoming runs entry-action callbacks for newly active states.
	// The only phase whose failure triggers rollback.
	PhaseIncoming Phase = "incoming"

	// PhaseExit subtracts the exit set from the configuration.
	// Cannot fail.
	PhaseExit Phase = "exit"

	// PhaseVisibility resolves the stays-visible policy. Cannot fail.
	PhaseVisibility Phase = "visibility"

	// PhaseCleanup releases per-execution bookkeeping. Cannot fail.
	PhaseCleanup Phase = "cleanup"

	// PhaseCommitted is the terminal phase of a successful execution.
	PhaseCommitted Phase = "committed"

	// PhaseRolledBack is the terminal phase after an incoming-action
	// failure undid the activation.
	PhaseRolledBack Phase = "rolled_back"
)

// IsTerminal reports whether the phase ends the protocol.
func (p Phase) IsTerminal() bool {
	return p == PhaseCommitted || p == PhaseRolledBack
}

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// Sequence returns the seven ordered protocol phases, excluding the
// terminal ones.
func Sequence() []Phase {
	return []Phase{
		PhaseValidate,
		PhaseOutgoing,
		PhaseActivate,
		PhaseIncoming,
		PhaseExit,
		PhaseVisibility,
		PhaseCleanup,
	}
}
