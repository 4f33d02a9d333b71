// Package multistate provides the version information for multistate.
package multistate

// Version is the current version of multistate.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
