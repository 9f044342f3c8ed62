package setup

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flexsim-mcp/internal/config"
)

func TestRegistrationJSON_ClaudeEnvelope(t *testing.T) {
	payload, err := RegistrationJSON("claude", `C:\tools\flexsim-mcp.exe`, []string{"serve"})
	if err != nil {
		t.Fatalf("RegistrationJSON: %v", err)
	}
	var doc map[string]map[string]struct {
		Command string   `json:"command"`
		Args    []string `json:"args"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	entry, ok := doc["mcpServers"][ServerKey]
	if !ok {
		t.Fatalf("missing %s entry: %s", ServerKey, payload)
	}
	if entry.Command != `C:\tools\flexsim-mcp.exe` {
		t.Fatalf("command = %q", entry.Command)
	}
	if len(entry.Args) != 1 || entry.Args[0] != "serve" {
		t.Fatalf("args = %v", entry.Args)
	}
}

func TestRegistrationJSON_GenericOmitsEnvelope(t *testing.T) {
	payload, err := RegistrationJSON("generic", "/usr/local/bin/flexsim-mcp", []string{"serve"})
	if err != nil {
		t.Fatalf("RegistrationJSON: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := doc["mcpServers"]; ok {
		t.Fatalf("generic target should not nest under mcpServers")
	}
	if _, ok := doc[ServerKey]; !ok {
		t.Fatalf("missing top-level %s entry", ServerKey)
	}
}

func TestRun_WritesRegistrationAndSummary(t *testing.T) {
	dir := t.TempDir()
	regPath := filepath.Join(dir, "mcp.json")
	var out bytes.Buffer

	cfg := config.Default()
	err := Run(Options{
		Config:     cfg,
		Target:     "cursor",
		Executable: filepath.Join(dir, "flexsim-mcp"),
		WritePath:  regPath,
		Out:        &out,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(regPath); err != nil {
		t.Fatalf("registration not written: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "Configuration summary") {
		t.Fatalf("missing summary:\n%s", text)
	}
	if !strings.Contains(text, "flexsim.install_path") {
		t.Fatalf("missing install path line:\n%s", text)
	}
}

func TestWriteStarterConfig_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flexsim-mcp.toml")
	cfg := config.Default()
	if err := WriteStarterConfig(path, cfg); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteStarterConfig(path, cfg); err == nil {
		t.Fatalf("expected refusal on existing file")
	}
	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("round trip load: %v", err)
	}
	if loaded.Server.Name != cfg.Server.Name {
		t.Fatalf("server name = %q, want %q", loaded.Server.Name, cfg.Server.Name)
	}
}
