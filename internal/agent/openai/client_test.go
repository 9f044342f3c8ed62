package openai

import (
	"testing"
)

func TestNormalizeBaseURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"https://api.example.com", "https://api.example.com/v1"},
		{"https://api.example.com/", "https://api.example.com/v1"},
		{"https://api.example.com/v1", "https://api.example.com/v1"},
		{"https://api.example.com/v1/chat/completions", "https://api.example.com/v1"},
		{"https://api.example.com/proxy/v1/", "https://api.example.com/proxy/v1"},
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
	if _, err := New(Options{APIKey: "sk-test", Model: "gpt-4o-mini"}); err != nil {
		t.Fatalf("New: %v", err)
	}
}

func TestToolCallCollector_AssemblesFragments(t *testing.T) {
	c := newToolCallCollector()
	c.Add("call_1", "flexsim_run_to_time", "")
	c.Add("", "", `{"target`)
	c.Add("", "", `_time":100}`)

	calls := c.Flush()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if calls[0].Name != "flexsim_run_to_time" {
		t.Fatalf("name = %q", calls[0].Name)
	}
	if string(calls[0].Arguments) != `{"target_time":100}` {
		t.Fatalf("arguments = %s", calls[0].Arguments)
	}
	if again := c.Flush(); again != nil {
		t.Fatalf("second flush = %v, want nil", again)
	}
}

func TestToolCallCollector_EmptyArgsDefaultToObject(t *testing.T) {
	c := newToolCallCollector()
	c.Add("call_9", "flexsim_reset", "")
	calls := c.Flush()
	if len(calls) != 1 || string(calls[0].Arguments) != "{}" {
		t.Fatalf("calls = %+v", calls)
	}
}

func TestToolCallCollector_PreservesOrder(t *testing.T) {
	c := newToolCallCollector()
	c.Add("call_a", "flexsim_reset", "{}")
	c.Add("call_b", "flexsim_run", "{}")
	calls := c.Flush()
	if len(calls) != 2 || calls[0].Name != "flexsim_reset" || calls[1].Name != "flexsim_run" {
		t.Fatalf("calls = %+v", calls)
	}
}

func TestToolCallCollector_DropsNamelessCalls(t *testing.T) {
	c := newToolCallCollector()
	c.Add("call_x", "", `{"orphan":true}`)
	if calls := c.Flush(); len(calls) != 0 {
		t.Fatalf("calls = %+v, want none", calls)
	}
}
