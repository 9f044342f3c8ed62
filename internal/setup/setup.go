// Package setup prints the configuration summary and generates the MCP
// client registration that points hosts at this server.
package setup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"flexsim-mcp/internal/config"
	"flexsim-mcp/internal/engine"
)

// ServerKey is the entry name clients register the server under.
const ServerKey = "flexsim"

// Options control one setup invocation.
type Options struct {
	Config config.Config
	// Target selects the registration shape: claude, cursor or generic.
	Target string
	// Executable is the server binary path placed into the registration;
	// defaults to the running binary.
	Executable string
	// WritePath, when set, writes the registration JSON there instead of
	// stdout.
	WritePath string
	// InitConfigPath, when set, writes a starter TOML config there.
	InitConfigPath string
	Out            io.Writer
}

// Run prints the summary and emits the requested artifacts.
func Run(opts Options) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	exe := opts.Executable
	if exe == "" {
		resolved, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve own binary: %w", err)
		}
		exe = resolved
	}

	line := strings.Repeat("=", 70)
	fmt.Fprintln(out, line)
	fmt.Fprintln(out, "FlexSim MCP Server Setup")
	fmt.Fprintln(out, line)

	Summary(opts.Config, out)

	if opts.InitConfigPath != "" {
		if err := WriteStarterConfig(opts.InitConfigPath, opts.Config); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nWrote starter config to %s\n", opts.InitConfigPath)
	}

	payload, err := RegistrationJSON(opts.Target, exe, []string{"serve"})
	if err != nil {
		return err
	}

	if opts.WritePath != "" {
		if err := os.WriteFile(opts.WritePath, append(payload, '\n'), 0o644); err != nil {
			return fmt.Errorf("write registration: %w", err)
		}
		fmt.Fprintf(out, "\nWrote client registration to %s\n", opts.WritePath)
	} else {
		fmt.Fprintf(out, "\nClient registration (%s):\n%s\n", normalizeTarget(opts.Target), payload)
	}

	fmt.Fprintln(out, "\nNext steps")
	fmt.Fprintln(out, "----------")
	fmt.Fprintf(out, "1. Verify the tool surface: %s tools\n", filepath.Base(exe))
	fmt.Fprintf(out, "2. Add the registration above to your MCP client (%s).\n", registrationHint(opts.Target))
	fmt.Fprintf(out, "3. Try the terminal chat: %s chat\n", filepath.Base(exe))
	return nil
}

// Summary reports the effective configuration and whether the engine
// install it points at actually exists.
func Summary(cfg config.Config, w io.Writer) {
	fmt.Fprintln(w, "\nConfiguration summary")
	fmt.Fprintln(w, "---------------------")
	if cfg.Source != "" {
		fmt.Fprintf(w, "config file:          %s\n", cfg.Source)
	} else {
		fmt.Fprintln(w, "config file:          not found (using defaults)")
	}
	fmt.Fprintf(w, "flexsim.install_path: %s  (exists: %v)\n", cfg.FlexSim.InstallPath, dirExists(cfg.FlexSim.InstallPath))
	for _, fallback := range cfg.FlexSim.FallbackPaths {
		fmt.Fprintf(w, "fallback:             %s  (exists: %v)\n", fallback, dirExists(fallback))
	}
	if dir, err := engine.ResolveInstallDir(cfg.FlexSim.InstallPath, cfg.FlexSim.FallbackPaths); err == nil {
		fmt.Fprintf(w, "resolved install:     %s\n", dir)
	} else {
		fmt.Fprintf(w, "resolved install:     none (%v)\n", err)
	}
	fmt.Fprintf(w, "session.reuse_policy: %s\n", cfg.Session.ReusePolicy)
	fmt.Fprintf(w, "logging.level:        %s\n", cfg.Logging.Level)
	fmt.Fprintf(w, "chat.provider:        %s (%s)\n", cfg.Chat.Provider, cfg.Chat.Model)
}

// RegistrationJSON renders the client config block for the given target.
func RegistrationJSON(target, command string, args []string) ([]byte, error) {
	entry := map[string]any{
		"command": command,
		"args":    args,
	}
	var doc any
	switch normalizeTarget(target) {
	case "generic":
		doc = map[string]any{ServerKey: entry}
	default:
		// Claude Desktop and Cursor share the mcpServers envelope.
		doc = map[string]any{"mcpServers": map[string]any{ServerKey: entry}}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// WriteStarterConfig persists the current effective config as a starting
// point the user can edit.
func WriteStarterConfig(path string, cfg config.Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite existing %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func normalizeTarget(target string) string {
	switch strings.ToLower(strings.TrimSpace(target)) {
	case "cursor":
		return "cursor"
	case "generic":
		return "generic"
	default:
		return "claude"
	}
}

func registrationHint(target string) string {
	switch normalizeTarget(target) {
	case "cursor":
		return ".cursor/mcp.json"
	case "generic":
		return "any MCP host that spawns stdio servers"
	default:
		return "claude_desktop_config.json"
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
