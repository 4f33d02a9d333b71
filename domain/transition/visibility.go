package transition

// Visibility controls whether a transition's From states remain active
// after the transition fires.
type Visibility string

const (
	// VisibilityNone defers to the manager-level default policy.
	VisibilityNone Visibility = "NONE"

	// VisibilityTrue keeps From states active.
	VisibilityTrue Visibility = "TRUE"

	// VisibilityFalse removes From states that the transition did not
	// already exit.
	VisibilityFalse Visibility = "FALSE"
)

// IsValid reports whether v is one of the three defined policies.
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityNone, VisibilityTrue, VisibilityFalse:
		return true
	default:
		return false
	}
}

// String returns the string representation of the policy.
func (v Visibility) String() string {
	return string(v)
}
