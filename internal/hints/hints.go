// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-nb2edx/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-nb2edx") {
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

// ForMultipleComponents returns a hint for a cell displaying two components.
func ForMultipleComponents() string {
	return format("split the cell so each one displays a single edX component")
}

// ForInvalidComponent returns a hint for component markup that is not XML.
func ForInvalidComponent() string {
	return format("components must be a single well-formed XML element")
}

// ForNoScheduledSections returns hints when every section lacks a release date.
func ForNoScheduledSections() string {
	return formatHints([]string{"add releaseDates to the config", "use --all to compile every section"})
}

// ForScriptLoad returns a hint for a resizer script download failure.
func ForScriptLoad() string {
	return format("set iframe.scriptURL or NB2EDX_SCRIPT_URL to a local file when offline")
}

// ForMalformedSyllabus returns a hint describing the expected outline.
func ForMalformedSyllabus() string {
	return format(`list "* **Section**" and "  * [Title](path.ipynb)" lines below the first heading, in the same cell`)
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
