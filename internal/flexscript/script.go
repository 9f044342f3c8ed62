// Package flexscript builds the FlexScript snippets the tools send to the
// engine. All user-supplied paths and values pass through Quote so they
// land in the script as string literals, never as raw splices.
package flexscript

import (
	"fmt"
	"strconv"
	"strings"
)

// Quote renders s as a FlexScript string literal with backslashes, quotes
// and control characters escaped.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Literal renders a tool argument as a FlexScript literal. Strings are
// quoted; numbers and booleans pass through in numeric form.
func Literal(value any) string {
	switch v := value.(type) {
	case nil:
		return "0"
	case string:
		return Quote(v)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return Quote(fmt.Sprint(v))
	}
}

// GetValue reads a tree node's value.
func GetValue(nodePath string) string {
	return fmt.Sprintf("getvalue(node(%s))", Quote(nodePath))
}

// SetValue writes a tree node's value.
func SetValue(nodePath string, value any) string {
	return fmt.Sprintf("setvalue(node(%s), %s)", Quote(nodePath), Literal(value))
}

// SaveModel saves to an explicit path, or the current location when path
// is empty.
func SaveModel(path string) string {
	if strings.TrimSpace(path) == "" {
		return "savemodel()"
	}
	return fmt.Sprintf("savemodel(%s)", Quote(path))
}

// SetStopTime arms the engine's stop time for real-time runs.
func SetStopTime(target float64) string {
	return fmt.Sprintf("setstoptime(%s)", strconv.FormatFloat(target, 'f', -1, 64))
}

// Step advances a single event.
func Step() string {
	return "step()"
}

// NewModel discards the current model.
func NewModel() string {
	return "newmodel()"
}

// CompileModel type-checks the model's FlexScript.
func CompileModel() string {
	return "compilemodel()"
}

// Export renders the export call for the given format; csv is the default
// for unrecognized formats at the validation layer, so only the three
// known names reach here.
func Export(path, format string) string {
	switch strings.ToLower(format) {
	case "xlsx":
		return fmt.Sprintf("exportexcel(%s)", Quote(path))
	case "json":
		return fmt.Sprintf("exportjson(%s)", Quote(path))
	default:
		return fmt.Sprintf("exporttable(%s)", Quote(path))
	}
}

// Statistics bundles the fixed metric set into one expression so the
// engine evaluates it atomically.
func Statistics() string {
	return `{
	"time": getmodeltime(),
	"run_speed": get(runspeed()),
	"objects": Model.subnodes.length,
	"events": geteventsprocessed()
}`
}
