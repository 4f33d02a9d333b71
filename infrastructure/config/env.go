package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	domainconfig "github.com/felixgeelhaar/multistate/domain/config"
)

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*|:\?[^}]*)?\}`)

// expandEnv expands environment variable references in the input.
// Supported patterns:
//   - ${VAR} - expands to the value of VAR, empty when unset
//   - ${VAR:-default} - expands to VAR or "default" if unset or empty
//   - ${VAR:?message} - fails with message if VAR is unset or empty
//
// In strict mode a plain ${VAR} referencing an unset variable is an
// error instead of an empty string.
func expandEnv(input string, strict bool) (string, error) {
	var missing []string

	result := envPattern.ReplaceAllStringFunc(input, func(match string) string {
		inner := match[2 : len(match)-1]

		parts := strings.SplitN(inner, ":", 2)
		name := parts[0]
		var modifier string
		if len(parts) > 1 {
			modifier = parts[1]
		}

		value, exists := os.LookupEnv(name)

		switch {
		case strings.HasPrefix(modifier, "-"):
			if !exists || value == "" {
				return modifier[1:]
			}
		case strings.HasPrefix(modifier, "?"):
			if !exists || value == "" {
				missing = append(missing, fmt.Sprintf("%s: %s", name, modifier[1:]))
				return match
			}
		default:
			if !exists {
				if strict {
					missing = append(missing, name)
				}
				return ""
			}
		}

		return value
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", domainconfig.ErrMissingEnvVar, strings.Join(missing, ", "))
	}
	return result, nil
}
