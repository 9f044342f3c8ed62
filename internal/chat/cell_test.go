package chat

import (
	"encoding/json"
	"strings"
	"testing"

	"flexsim-mcp/internal/agent"
)

func TestWrapLineWords(t *testing.T) {
	lines := wrapLineWords("open the distribution center model", 12)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %v", lines)
	}
	for _, line := range lines {
		if len(line) > 12 {
			t.Fatalf("line %q exceeds width", line)
		}
	}
}

func TestWrapLineWords_ShortLineUntouched(t *testing.T) {
	lines := wrapLineWords("run", 80)
	if len(lines) != 1 || lines[0] != "run" {
		t.Fatalf("lines = %v", lines)
	}
}

func TestToolCallCell_RenderShowsArgs(t *testing.T) {
	cell := toolCallCell{call: agent.ToolCall{
		ID:        "call_1",
		Name:      "flexsim_run_to_time",
		Arguments: json.RawMessage(`{"target_time": 100}`),
	}}
	lines := cell.Render(120)
	if len(lines) != 1 {
		t.Fatalf("lines = %v", lines)
	}
	if !strings.Contains(lines[0], "flexsim_run_to_time") {
		t.Fatalf("missing tool name: %q", lines[0])
	}
	if !strings.Contains(lines[0], `"target_time":100`) {
		t.Fatalf("missing compact args: %q", lines[0])
	}
}

func TestToolResultCell_TruncatesLongOutput(t *testing.T) {
	body := strings.Repeat("row\n", maxToolOutputLines+20)
	cell := toolResultCell{callID: "call_2", name: "flexsim_get_statistics", content: body}
	lines := cell.Render(80)
	// header + capped body + ellipsis marker
	if len(lines) > maxToolOutputLines+2 {
		t.Fatalf("lines = %d, want at most %d", len(lines), maxToolOutputLines+2)
	}
}

func TestToolResultCell_ErrorStatus(t *testing.T) {
	cell := toolResultCell{callID: "c", name: "flexsim_evaluate", content: "Script error: ...", isError: true}
	lines := cell.Render(80)
	if !strings.Contains(lines[0], "failed") {
		t.Fatalf("header = %q", lines[0])
	}
}

func TestAssistantCell_AppendsChunks(t *testing.T) {
	cell := &assistantCell{id: "a1"}
	cell.Append("The run ")
	cell.Append("finished.")
	if cell.Text() != "The run finished." {
		t.Fatalf("text = %q", cell.Text())
	}
	if lines := cell.Render(80); len(lines) == 0 {
		t.Fatalf("no rendered lines")
	}
}

func TestCompactJSON_InvalidFallsBack(t *testing.T) {
	if got := compactJSON(json.RawMessage(" not json ")); got != "not json" {
		t.Fatalf("got %q", got)
	}
}
