package agent

import (
	"context"
	"errors"
)

type StreamEventType string

const (
	StreamEventTextDelta StreamEventType = "text_delta"
	StreamEventToolCall  StreamEventType = "tool_call"
	StreamEventCompleted StreamEventType = "completed"
)

// StreamEvent is one increment of a streamed model turn. Text deltas arrive
// first; tool calls surface once their arguments are fully assembled.
type StreamEvent struct {
	Type StreamEventType
	Text string
	Call *ToolCall
}

// ModelClient abstracts a chat model provider.
type ModelClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
	Stream(ctx context.Context, prompt Prompt, onEvent func(StreamEvent)) error
}

// Unconfigured stands in when no API key is available. Every call fails
// with the same hint so the chat surface can keep working for direct tool
// invocation.
type Unconfigured struct {
	Hint string
}

var _ ModelClient = Unconfigured{}

func (u Unconfigured) message() string {
	if u.Hint != "" {
		return u.Hint
	}
	return "no model API key configured"
}

func (u Unconfigured) Complete(context.Context, Prompt) (string, error) {
	return "", errors.New(u.message())
}

func (u Unconfigured) Stream(context.Context, Prompt, func(StreamEvent)) error {
	return errors.New(u.message())
}
