// Package openai adapts the OpenAI chat completions API to the agent
// model client contract, including streamed tool calls.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"flexsim-mcp/internal/agent"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
}

type Client struct {
	api   *openai.Client
	model string
}

var _ agent.ModelClient = (*Client)(nil)

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("missing OpenAI API key")
	}
	cfg := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg = append(cfg, option.WithBaseURL(strings.TrimRight(normalizeBaseURL(base), "/")))
	}
	client := openai.NewClient(cfg...)
	return &Client{
		api:   &client,
		model: strings.TrimSpace(opts.Model),
	}, nil
}

func (c *Client) resolveModel(model string) string {
	if strings.TrimSpace(model) != "" {
		return model
	}
	return c.model
}

func (c *Client) Complete(ctx context.Context, prompt agent.Prompt) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, c.buildParams(prompt))
	if err != nil {
		return "", wrapHTTPError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) Stream(ctx context.Context, prompt agent.Prompt, onEvent func(agent.StreamEvent)) error {
	stream := c.api.Chat.Completions.NewStreaming(ctx, c.buildParams(prompt))
	collector := newToolCallCollector()

	for stream.Next() {
		chunk := stream.Current()
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				onEvent(agent.StreamEvent{Type: agent.StreamEventTextDelta, Text: choice.Delta.Content})
			}
			for _, call := range choice.Delta.ToolCalls {
				collector.Add(call.ID, call.Function.Name, call.Function.Arguments)
			}
			if choice.FinishReason == "tool_calls" {
				for _, call := range collector.Flush() {
					onEvent(agent.StreamEvent{Type: agent.StreamEventToolCall, Call: call})
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return wrapHTTPError(err)
	}
	for _, call := range collector.Flush() {
		onEvent(agent.StreamEvent{Type: agent.StreamEventToolCall, Call: call})
	}
	onEvent(agent.StreamEvent{Type: agent.StreamEventCompleted})
	return nil
}

func (c *Client) buildParams(prompt agent.Prompt) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.resolveModel(prompt.Model)),
		Messages: toChatMessages(agent.WithSystem(prompt.Messages)),
	}
	if len(prompt.Tools) > 0 {
		params.Tools = toChatTools(prompt.Tools)
		params.ParallelToolCalls = openai.Bool(false)
	}
	return params
}

func toChatMessages(msgs []agent.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case agent.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case agent.RoleAssistant:
			assistant := openai.ChatCompletionAssistantMessageParam{}
			if msg.Content != "" {
				assistant.Content.OfString = openai.String(msg.Content)
			}
			for _, call := range msg.ToolCalls {
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: call.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      call.Name,
							Arguments: string(call.Arguments),
						},
					},
				})
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		case agent.RoleTool:
			if msg.ToolResult == nil {
				continue
			}
			out = append(out, openai.ToolMessage(msg.ToolResult.Content, msg.ToolResult.CallID))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

func toChatTools(specs []agent.ToolSpec) []openai.ChatCompletionToolUnionParam {
	tools := make([]openai.ChatCompletionToolUnionParam, 0, len(specs))
	for _, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			continue
		}
		fn := shared.FunctionDefinitionParam{
			Name:       name,
			Parameters: spec.Parameters,
		}
		if desc := strings.TrimSpace(spec.Description); desc != "" {
			fn.Description = openai.String(desc)
		}
		tools = append(tools, openai.ChatCompletionToolUnionParam{
			OfFunction: &openai.ChatCompletionFunctionToolParam{
				Function: fn,
			},
		})
	}
	return tools
}

func wrapHTTPError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr != nil {
		raw := strings.TrimSpace(apiErr.RawJSON())
		if raw != "" {
			return fmt.Errorf("http_%d: %s", apiErr.StatusCode, raw)
		}
		return fmt.Errorf("http_%d: %v", apiErr.StatusCode, err)
	}
	return err
}

// toolCallCollector assembles streamed tool call fragments keyed by call
// id; the arguments arrive as partial JSON across many deltas.
type toolCallCollector struct {
	order []string
	calls map[string]*pendingToolCall
}

type pendingToolCall struct {
	id   string
	name string
	args strings.Builder
}

func newToolCallCollector() *toolCallCollector {
	return &toolCallCollector{calls: make(map[string]*pendingToolCall)}
}

func (c *toolCallCollector) Add(id, name, args string) {
	if strings.TrimSpace(id) == "" && strings.TrimSpace(name) == "" && args == "" {
		return
	}
	callID := id
	if callID == "" && len(c.order) > 0 {
		// Argument fragments without an id continue the latest call.
		callID = c.order[len(c.order)-1]
	}
	if callID == "" {
		callID = fmt.Sprintf("call-%d", len(c.order)+1)
	}
	entry := c.calls[callID]
	if entry == nil {
		entry = &pendingToolCall{id: callID}
		c.calls[callID] = entry
		c.order = append(c.order, callID)
	}
	if name != "" {
		entry.name = name
	}
	if args != "" {
		entry.args.WriteString(args)
	}
}

func (c *toolCallCollector) Flush() []*agent.ToolCall {
	if len(c.order) == 0 {
		return nil
	}
	out := make([]*agent.ToolCall, 0, len(c.order))
	for _, id := range c.order {
		call := c.calls[id]
		if call == nil || strings.TrimSpace(call.name) == "" {
			continue
		}
		args := strings.TrimSpace(call.args.String())
		if args == "" {
			args = "{}"
		}
		out = append(out, &agent.ToolCall{
			ID:        call.id,
			Name:      call.name,
			Arguments: json.RawMessage(args),
		})
	}
	c.order = nil
	c.calls = make(map[string]*pendingToolCall)
	return out
}
