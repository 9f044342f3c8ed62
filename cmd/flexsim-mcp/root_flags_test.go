package main

import "testing"

func TestParseRootArgs(t *testing.T) {
	root, rest, err := parseRootArgs([]string{
		"-config", "custom.toml",
		"-c", "flexsim.show_gui=false",
		"-c", "logging.level=debug",
		"serve", "-show-gui=false",
	})
	if err != nil {
		t.Fatalf("parseRootArgs: %v", err)
	}
	if root.cfgPath != "custom.toml" {
		t.Fatalf("cfgPath = %q", root.cfgPath)
	}
	if len(root.overrides) != 2 || root.overrides[1] != "logging.level=debug" {
		t.Fatalf("overrides = %v", root.overrides)
	}
	if len(rest) != 2 || rest[0] != "serve" {
		t.Fatalf("rest = %v", rest)
	}
}

func TestParseRootArgs_NoFlags(t *testing.T) {
	root, rest, err := parseRootArgs(nil)
	if err != nil {
		t.Fatalf("parseRootArgs: %v", err)
	}
	if root.cfgPath != "" || len(root.overrides) != 0 {
		t.Fatalf("root = %+v", root)
	}
	if len(rest) != 0 {
		t.Fatalf("rest = %v", rest)
	}
}
