package anthropic

import (
	"encoding/json"
	"testing"

	"flexsim-mcp/internal/agent"
)

func TestNormalizeBaseURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"https://api.example.com/", "https://api.example.com"},
		{"https://api.example.com/v1", "https://api.example.com"},
		{"https://api.example.com/v1/", "https://api.example.com"},
	}
	for _, tc := range cases {
		if got := normalizeBaseURL(tc.in); got != tc.want {
			t.Fatalf("normalizeBaseURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestBuildMessageParams_SplitsSystemAndToolTurns(t *testing.T) {
	prompt := agent.Prompt{
		Messages: []agent.Message{
			agent.UserMessage("reset the model"),
			agent.AssistantMessage("", agent.ToolCall{
				ID:        "toolu_1",
				Name:      "flexsim_reset",
				Arguments: json.RawMessage(`{}`),
			}),
			agent.ToolResultMessage("toolu_1", "✓ Simulation reset to time 0", false),
		},
		Tools: []agent.ToolSpec{{
			Name:        "flexsim_reset",
			Description: "Reset the simulation clock.",
			Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		}},
	}

	params := buildMessageParams(prompt, "claude-sonnet-4-5")
	if len(params.System) != 1 || params.System[0].Text != agent.SystemPrompt {
		t.Fatalf("system = %+v", params.System)
	}
	// user, assistant tool use, user tool result
	if len(params.Messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(params.Messages))
	}
	if len(params.Tools) != 1 {
		t.Fatalf("tools = %d, want 1", len(params.Tools))
	}
}

func TestToInputSchema_ExtractsRequired(t *testing.T) {
	schema := toInputSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"model_path": map[string]any{"type": "string"},
		},
		"required": []any{"model_path"},
	})
	if schema.Properties == nil {
		t.Fatalf("properties missing")
	}
	if len(schema.Required) != 1 || schema.Required[0] != "model_path" {
		t.Fatalf("required = %v", schema.Required)
	}
}

func TestPendingToolUse_EmptyInputBecomesObject(t *testing.T) {
	p := &pendingToolUse{id: "toolu_2", name: "flexsim_run"}
	call := p.toCall()
	if string(call.Arguments) != "{}" {
		t.Fatalf("arguments = %s", call.Arguments)
	}
}
