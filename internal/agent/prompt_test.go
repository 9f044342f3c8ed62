package agent

import "testing"

func TestWithSystem_PrependsStandardPrompt(t *testing.T) {
	msgs := WithSystem([]Message{UserMessage("open the model")})
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if msgs[0].Role != RoleSystem || msgs[0].Content != SystemPrompt {
		t.Fatalf("msgs[0] = %+v", msgs[0])
	}
	if msgs[1].Content != "open the model" {
		t.Fatalf("msgs[1] = %+v", msgs[1])
	}
}

func TestWithSystem_KeepsExistingSystemTurn(t *testing.T) {
	in := []Message{
		{Role: RoleSystem, Content: "custom"},
		UserMessage("hi"),
	}
	msgs := WithSystem(in)
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if msgs[0].Content != "custom" {
		t.Fatalf("msgs[0] = %+v", msgs[0])
	}
}

func TestToolResultMessage(t *testing.T) {
	msg := ToolResultMessage("call-1", "Time: 45.00s (45.00s)", false)
	if msg.Role != RoleTool {
		t.Fatalf("role = %q", msg.Role)
	}
	if msg.ToolResult == nil || msg.ToolResult.CallID != "call-1" {
		t.Fatalf("result = %+v", msg.ToolResult)
	}
	if msg.ToolResult.IsError {
		t.Fatalf("unexpected error flag")
	}
}

func TestUnconfigured_RefusesWithHint(t *testing.T) {
	client := Unconfigured{Hint: "set chat.api_key"}
	if _, err := client.Complete(nil, Prompt{}); err == nil || err.Error() != "set chat.api_key" {
		t.Fatalf("err = %v", err)
	}
	if err := client.Stream(nil, Prompt{}, nil); err == nil {
		t.Fatalf("expected stream error")
	}
}
