package featureflags

import (
	"os"
	"strings"
)

// Enabled reports whether a named flag is turned on. Flags come from the
// environment as FLAG_<NAME>=true/1/yes/on (case-insensitive), so ops can
// toggle behavior like log-only mail delivery without a redeploy.
func Enabled(name string) bool {
	v := os.Getenv("FLAG_" + strings.ToUpper(name))
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
