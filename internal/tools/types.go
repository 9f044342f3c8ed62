package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"flexsim-mcp/internal/logger"
	"flexsim-mcp/internal/session"
)

// HandlerFunc executes one tool call. A ValidationError rejects the
// request before any engine access; an ExecutionError carries an engine
// failure the transport reports as a flagged tool result.
type HandlerFunc func(ctx context.Context, rt *Runtime, args json.RawMessage) (string, error)

// Definition declares one tool: wire name, description for the model, the
// JSON schema of its input object, and the handler.
type Definition struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     HandlerFunc
}

// Runtime carries the shared dependencies handlers need.
type Runtime struct {
	Sessions *session.Holder
	Log      *logger.LogEntry

	// sleep is the poll interval hook; tests replace it.
	sleep func(time.Duration)
}

// NewRuntime wires a runtime around the session holder.
func NewRuntime(sessions *session.Holder) *Runtime {
	return &Runtime{
		Sessions: sessions,
		Log:      logger.Named("tools"),
		sleep:    time.Sleep,
	}
}

// ValidationError rejects a request before any engine access.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ExecutionError carries an engine failure already rendered for the user.
// The call itself succeeded at the protocol level, so the transport
// answers with the text and isError set instead of a JSON-RPC error.
type ExecutionError struct {
	Text string
}

func (e *ExecutionError) Error() string { return e.Text }

func engineFailure(err error) error {
	return &ExecutionError{Text: FormatError(err)}
}
