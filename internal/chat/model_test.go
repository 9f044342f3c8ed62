package chat

import (
	"errors"
	"strings"
	"testing"

	"flexsim-mcp/internal/mcp"
)

func lastSystemText(t *testing.T, m *Model) string {
	t.Helper()
	for i := len(m.cells) - 1; i >= 0; i-- {
		if cell, ok := m.cells[i].(systemCell); ok {
			return cell.text
		}
	}
	t.Fatalf("no system cell in transcript")
	return ""
}

func TestRunCommand_ConnectRefreshesToolSurface(t *testing.T) {
	broker := &recordingBroker{descriptors: []mcp.ToolDescriptor{
		{Name: "flexsim_run", Description: "Start the run."},
		{Name: "flexsim_stop", Description: "Stop the run."},
	}}
	m := New(Options{
		Broker:     broker,
		ToolNames:  []string{"flexsim_run"},
		ServerInfo: mcp.Implementation{Name: "flexsim-mcp", Version: "0.1.0"},
	})

	m.runCommand(CommandConnect, "")

	if len(m.opts.ToolNames) != 2 || m.opts.ToolNames[1] != "flexsim_stop" {
		t.Fatalf("tool names = %v", m.opts.ToolNames)
	}
	if len(m.opts.Specs) != 2 {
		t.Fatalf("specs = %d, want 2", len(m.opts.Specs))
	}
	text := lastSystemText(t, m)
	if !strings.Contains(text, "✓ Connected to flexsim-mcp 0.1.0") {
		t.Fatalf("banner = %q", text)
	}
	if !strings.Contains(text, "Available tools (2)") {
		t.Fatalf("banner = %q", text)
	}
}

func TestRunCommand_ConnectReportsUnreachableServer(t *testing.T) {
	broker := &recordingBroker{listErr: errors.New("broken pipe")}
	m := New(Options{
		Broker:     broker,
		ToolNames:  []string{"flexsim_run"},
		ServerInfo: mcp.Implementation{Name: "flexsim-mcp", Version: "0.1.0"},
	})

	m.runCommand(CommandConnect, "")

	// The stale surface is kept; only the failure is reported.
	if len(m.opts.ToolNames) != 1 {
		t.Fatalf("tool names = %v", m.opts.ToolNames)
	}
	if !strings.Contains(lastSystemText(t, m), "Server unreachable: broken pipe") {
		t.Fatalf("missing failure notice")
	}
}
