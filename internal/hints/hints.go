// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and creating a config in ~/.config/kiwimark/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/kiwimark") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForOrgMode lists the accepted org mode values.
func ForOrgMode() string {
	return format("valid values: auto, on, off")
}

// ForUnterminatedCode explains how to close a code block.
func ForUnterminatedCode() string {
	return format("close code blocks with a line containing only :code")
}

// ForBaseURL returns hints for an unusable --base-url value.
func ForBaseURL() string {
	return format("use an absolute URL such as https://example.com/docs/")
}

// ForStyle lists the styles that can be requested.
func ForStyle(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return format("available styles: " + strings.Join(names, ", "))
}

// ForAddrInUse returns hints when the server cannot bind its address.
// Mentions KIWIMARK_ADDR only when the address did not come from it.
func ForAddrInUse() string {
	hints := []string{"pick another address with --addr"}
	if os.Getenv("KIWIMARK_ADDR") == "" {
		hints = append(hints, "set KIWIMARK_ADDR for a persistent default")
	}
	return formatHints(hints)
}

// ForExtensions lists the extensions searched during discovery.
func ForExtensions(exts []string) string {
	if len(exts) == 0 {
		return ""
	}
	return format("searched extensions: " + strings.Join(exts, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
