package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"flexsim-mcp/internal/agent"
	"flexsim-mcp/internal/logger"
	"flexsim-mcp/internal/mcp"
)

// maxToolRounds bounds one user turn; a model that keeps calling tools
// past this is cut off with whatever text it produced.
const maxToolRounds = 8

// ToolBroker is the slice of the MCP client the chat needs: tool
// execution during a turn, tool surface refresh for /connect.
type ToolBroker interface {
	CallTool(name string, arguments json.RawMessage) (string, bool, error)
	ListTools() ([]mcp.ToolDescriptor, error)
}

type TurnEventKind int

const (
	TurnChunk TurnEventKind = iota
	TurnToolCall
	TurnToolResult
	TurnDone
	TurnFailed
)

// TurnEvent is one increment of a running user turn, delivered in order.
type TurnEvent struct {
	Kind    TurnEventKind
	Text    string
	Call    *agent.ToolCall
	Result  *agent.ToolResult
	History []agent.Message
	Err     error
}

// Turn runs the model loop for one user input: stream text, execute any
// tool calls through the broker, feed results back, repeat until the
// model answers without tools.
type Turn struct {
	events chan TurnEvent
}

// StartTurn launches the loop on its own goroutine. history must already
// end with the new user message.
func StartTurn(ctx context.Context, client agent.ModelClient, broker ToolBroker, specs []agent.ToolSpec, model string, history []agent.Message) *Turn {
	t := &Turn{events: make(chan TurnEvent, 16)}
	go t.run(ctx, client, broker, specs, model, history)
	return t
}

// Events yields turn progress; the channel closes after TurnDone or
// TurnFailed.
func (t *Turn) Events() <-chan TurnEvent {
	return t.events
}

func (t *Turn) run(ctx context.Context, client agent.ModelClient, broker ToolBroker, specs []agent.ToolSpec, model string, history []agent.Message) {
	defer close(t.events)
	log := logger.Named("chat")

	for round := 0; round < maxToolRounds; round++ {
		var text strings.Builder
		var calls []agent.ToolCall

		err := client.Stream(ctx, agent.Prompt{Model: model, Messages: history, Tools: specs}, func(ev agent.StreamEvent) {
			switch ev.Type {
			case agent.StreamEventTextDelta:
				text.WriteString(ev.Text)
				t.events <- TurnEvent{Kind: TurnChunk, Text: ev.Text}
			case agent.StreamEventToolCall:
				if ev.Call != nil {
					calls = append(calls, *ev.Call)
				}
			}
		})
		if err != nil {
			t.events <- TurnEvent{Kind: TurnFailed, History: history, Err: err}
			return
		}

		history = append(history, agent.AssistantMessage(text.String(), calls...))
		if len(calls) == 0 {
			t.events <- TurnEvent{Kind: TurnDone, History: history}
			return
		}

		for i := range calls {
			call := calls[i]
			log.WithField("tool", call.Name).Debug("tool call")
			t.events <- TurnEvent{Kind: TurnToolCall, Call: &call}

			result := executeCall(broker, call)
			history = append(history, agent.ToolResultMessage(result.CallID, result.Content, result.IsError))
			t.events <- TurnEvent{Kind: TurnToolResult, Call: &call, Result: &result}
		}
	}

	t.events <- TurnEvent{Kind: TurnDone, History: history}
}

func executeCall(broker ToolBroker, call agent.ToolCall) agent.ToolResult {
	content, isErr, err := broker.CallTool(call.Name, call.Arguments)
	if err != nil {
		return agent.ToolResult{
			CallID:  call.ID,
			Content: fmt.Sprintf("Tool error: %v", err),
			IsError: true,
		}
	}
	return agent.ToolResult{CallID: call.ID, Content: content, IsError: isErr}
}

// SpecsFromDescriptors converts the server's advertised tool surface into
// the provider-neutral specs the model clients consume.
func SpecsFromDescriptors(descriptors []mcp.ToolDescriptor) []agent.ToolSpec {
	specs := make([]agent.ToolSpec, 0, len(descriptors))
	for _, d := range descriptors {
		params := d.InputSchema
		if params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		specs = append(specs, agent.ToolSpec{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  params,
		})
	}
	return specs
}
