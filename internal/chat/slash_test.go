package chat

import "testing"

func TestResolveSubmit(t *testing.T) {
	cases := []struct {
		in       string
		wantCmd  Command
		wantArgs string
		wantOK   bool
	}{
		{"/tools", CommandTools, "", true},
		{"/connect", CommandConnect, "", true},
		{"/model gpt-4o", CommandModel, "gpt-4o", true},
		{"/QUIT", CommandQuit, "", true},
		{"/nope", "", "", false},
		{"hello", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range cases {
		cmd, args, ok := ResolveSubmit(tc.in)
		if ok != tc.wantOK || cmd != tc.wantCmd || args != tc.wantArgs {
			t.Fatalf("ResolveSubmit(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.in, cmd, args, ok, tc.wantCmd, tc.wantArgs, tc.wantOK)
		}
	}
}

func TestSlashState_OpensOnSlashPrefix(t *testing.T) {
	s := newSlashState()
	s.SyncInput("/")
	if !s.Open() {
		t.Fatalf("menu should open on /")
	}
	if len(s.View()) != len(builtinCommands()) {
		t.Fatalf("unfiltered menu = %d items", len(s.View()))
	}
	s.SyncInput("open the model")
	if s.Open() {
		t.Fatalf("menu should close on plain text")
	}
}

func TestSlashState_FuzzyFilters(t *testing.T) {
	s := newSlashState()
	s.SyncInput("/tl")
	if !s.Open() {
		t.Fatalf("menu should stay open while typing")
	}
	found := false
	for _, item := range s.View() {
		if item.Command == CommandTools {
			found = true
		}
		if item.Command == CommandQuit {
			t.Fatalf("quit should not match %q", "tl")
		}
	}
	if !found {
		t.Fatalf("tools should fuzzy-match %q: %v", "tl", s.View())
	}
}

func TestSlashState_ClosesAfterArgs(t *testing.T) {
	s := newSlashState()
	s.SyncInput("/model gpt")
	if s.Open() {
		t.Fatalf("menu should close once args start")
	}
}

func TestSlashState_MoveWraps(t *testing.T) {
	s := newSlashState()
	s.SyncInput("/")
	s.Move(-1)
	cmd, ok := s.Selected()
	if !ok {
		t.Fatalf("no selection")
	}
	last := builtinCommands()[len(builtinCommands())-1].Command
	if cmd != last {
		t.Fatalf("selected = %q, want %q", cmd, last)
	}
	s.Move(1)
	if cmd, _ := s.Selected(); cmd != builtinCommands()[0].Command {
		t.Fatalf("selected = %q after wrap forward", cmd)
	}
}
