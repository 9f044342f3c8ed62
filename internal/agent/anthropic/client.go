// Package anthropic adapts the Anthropic messages API to the agent model
// client contract, including streamed tool use.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"flexsim-mcp/internal/agent"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const maxTokens = 2048

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
}

type Client struct {
	api   *anthropic.Client
	model string
}

var _ agent.ModelClient = (*Client)(nil)

func New(opts Options) (*Client, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, errors.New("missing Anthropic API key")
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(key),
	}
	if base := normalizeBaseURL(opts.BaseURL); base != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(base))
	}
	client := anthropic.NewClient(reqOpts...)
	return &Client{
		api:   &client,
		model: strings.TrimSpace(opts.Model),
	}, nil
}

// The SDK wants the account root, not the /v1 path people tend to paste.
func normalizeBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	base = strings.TrimRight(base, "/")
	if strings.HasSuffix(base, "/v1") {
		base = strings.TrimRight(strings.TrimSuffix(base, "/v1"), "/")
	}
	return base
}

func (c *Client) resolveModel(m string) anthropic.Model {
	if strings.TrimSpace(m) != "" {
		return anthropic.Model(strings.TrimSpace(m))
	}
	return anthropic.Model(c.model)
}

func (c *Client) Complete(ctx context.Context, prompt agent.Prompt) (string, error) {
	params := buildMessageParams(prompt, c.resolveModel(prompt.Model))
	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(extractText(msg.Content)), nil
}

func (c *Client) Stream(ctx context.Context, prompt agent.Prompt, onEvent func(agent.StreamEvent)) error {
	params := buildMessageParams(prompt, c.resolveModel(prompt.Model))
	stream := c.api.Messages.NewStreaming(ctx, params)

	pending := make(map[int64]*pendingToolUse)
	for stream.Next() {
		event := stream.Current()
		switch v := event.AsAny().(type) {
		case anthropic.ContentBlockStartEvent:
			switch b := v.ContentBlock.AsAny().(type) {
			case anthropic.ToolUseBlock:
				pending[v.Index] = &pendingToolUse{id: b.ID, name: b.Name}
			}
		case anthropic.ContentBlockDeltaEvent:
			switch d := v.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if d.Text != "" {
					onEvent(agent.StreamEvent{Type: agent.StreamEventTextDelta, Text: d.Text})
				}
			case anthropic.InputJSONDelta:
				if p := pending[v.Index]; p != nil {
					p.input.WriteString(d.PartialJSON)
				}
			}
		case anthropic.ContentBlockStopEvent:
			if p := pending[v.Index]; p != nil {
				onEvent(agent.StreamEvent{Type: agent.StreamEventToolCall, Call: p.toCall()})
				delete(pending, v.Index)
			}
		case anthropic.MessageStopEvent:
			onEvent(agent.StreamEvent{Type: agent.StreamEventCompleted})
			return nil
		}
	}
	if err := stream.Err(); err != nil {
		return err
	}
	onEvent(agent.StreamEvent{Type: agent.StreamEventCompleted})
	return nil
}

type pendingToolUse struct {
	id    string
	name  string
	input strings.Builder
}

func (p *pendingToolUse) toCall() *agent.ToolCall {
	args := strings.TrimSpace(p.input.String())
	if args == "" {
		args = "{}"
	}
	return &agent.ToolCall{ID: p.id, Name: p.name, Arguments: json.RawMessage(args)}
}

func buildMessageParams(prompt agent.Prompt, model anthropic.Model) anthropic.MessageNewParams {
	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam

	for _, msg := range agent.WithSystem(prompt.Messages) {
		switch msg.Role {
		case agent.RoleSystem:
			if text := strings.TrimSpace(msg.Content); text != "" {
				system = append(system, anthropic.TextBlockParam{Text: text})
			}
		case agent.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if text := strings.TrimSpace(msg.Content); text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(text))
			}
			for _, call := range msg.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, call.Arguments, call.Name))
			}
			if len(blocks) > 0 {
				messages = append(messages, anthropic.NewAssistantMessage(blocks...))
			}
		case agent.RoleTool:
			if msg.ToolResult == nil {
				continue
			}
			res := msg.ToolResult
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(res.CallID, res.Content, res.IsError),
			))
		default:
			if text := strings.TrimSpace(msg.Content); text != "" {
				messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
			}
		}
	}

	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  messages,
	}
	if len(system) > 0 {
		params.System = system
	}
	if len(prompt.Tools) > 0 {
		params.Tools = toTools(prompt.Tools)
	}
	return params
}

func toTools(specs []agent.ToolSpec) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, 0, len(specs))
	for _, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			continue
		}
		tool := anthropic.ToolParam{
			Name:        name,
			InputSchema: toInputSchema(spec.Parameters),
		}
		if desc := strings.TrimSpace(spec.Description); desc != "" {
			tool.Description = anthropic.String(desc)
		}
		tools = append(tools, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return tools
}

func toInputSchema(parameters map[string]any) anthropic.ToolInputSchemaParam {
	schema := anthropic.ToolInputSchemaParam{}
	if props, ok := parameters["properties"]; ok {
		schema.Properties = props
	}
	if raw, ok := parameters["required"].([]any); ok {
		required := make([]string, 0, len(raw))
		for _, v := range raw {
			if s, ok := v.(string); ok {
				required = append(required, s)
			}
		}
		schema.Required = required
	}
	return schema
}

func extractText(blocks []anthropic.ContentBlockUnion) string {
	var sb strings.Builder
	for _, block := range blocks {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			sb.WriteString(v.Text)
		}
	}
	return sb.String()
}
