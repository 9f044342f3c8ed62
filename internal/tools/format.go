package tools

import (
	"fmt"

	"flexsim-mcp/internal/engine"
)

// FormatTime renders a simulation clock value with unit scaling: seconds
// under a minute, minutes under an hour, hours beyond.
func FormatTime(seconds float64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.2fs", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%.2fm", seconds/60)
	default:
		return fmt.Sprintf("%.2fh", seconds/3600)
	}
}

// FormatError renders an engine failure as the one-line, category-prefixed
// message tools return instead of raising.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch engine.Classify(err) {
	case engine.CategoryNotFound:
		return fmt.Sprintf("Not found: %s", msg)
	case engine.CategorySyntax:
		return fmt.Sprintf("FlexScript syntax error: %s", msg)
	case engine.CategoryLicense:
		return fmt.Sprintf("License error: %s", msg)
	case engine.CategoryPermission:
		return fmt.Sprintf("Permission denied: %s", msg)
	default:
		return fmt.Sprintf("Error: %s", msg)
	}
}
