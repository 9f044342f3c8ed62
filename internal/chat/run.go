// Package chat is the terminal front end: it spawns the tool server,
// drives it over MCP and loops a chat model over the tool surface.
package chat

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"flexsim-mcp/internal/agent"
	"flexsim-mcp/internal/agent/anthropic"
	"flexsim-mcp/internal/agent/openai"
	"flexsim-mcp/internal/config"
	"flexsim-mcp/internal/logger"
	"flexsim-mcp/internal/mcp"
)

// RunOptions describe how to reach the tool server.
type RunOptions struct {
	Config config.Config
	// ServerCommand and ServerArgs spawn the MCP server subprocess.
	// Defaults to re-invoking the current binary with "serve".
	ServerCommand string
	ServerArgs    []string
}

// Run connects to the server, builds the model client and blocks inside
// the UI until the user quits.
func Run(opts RunOptions) error {
	cfg := opts.Config
	log := logger.Named("chat")

	command := opts.ServerCommand
	args := opts.ServerArgs
	if command == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve own binary: %w", err)
		}
		command = exe
		args = []string{"serve"}
	}

	client, err := mcp.Connect(command, args, "")
	if err != nil {
		return fmt.Errorf("connect to server: %w", err)
	}
	defer client.Close()

	initResult, err := client.Initialize(mcp.Implementation{Name: "flexsim-chat", Version: cfg.Server.Version})
	if err != nil {
		return fmt.Errorf("initialize session: %w", err)
	}
	descriptors, err := client.ListTools()
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}
	log.WithField("tools", len(descriptors)).Info("connected")

	names := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		names = append(names, d.Name)
	}

	model := New(Options{
		Client:     newModelClient(cfg.Chat),
		Broker:     client,
		Specs:      SpecsFromDescriptors(descriptors),
		ToolNames:  names,
		ModelName:  cfg.Chat.Model,
		ServerInfo: initResult.ServerInfo,
		Banner:     connectBanner(initResult.ServerInfo, names),
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// newModelClient picks the provider from config, falling back to the
// usual environment keys. A missing key degrades to an Unconfigured
// client so direct tool commands keep working.
func newModelClient(cfg config.Chat) agent.ModelClient {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "anthropic":
		key := firstNonEmpty(cfg.APIKey, os.Getenv("ANTHROPIC_API_KEY"))
		client, err := anthropic.New(anthropic.Options{APIKey: key, BaseURL: cfg.BaseURL, Model: cfg.Model})
		if err != nil {
			return agent.Unconfigured{Hint: "Anthropic API not configured. Set chat.api_key or ANTHROPIC_API_KEY."}
		}
		return client
	default:
		key := firstNonEmpty(cfg.APIKey, os.Getenv("OPENAI_API_KEY"))
		client, err := openai.New(openai.Options{APIKey: key, BaseURL: cfg.BaseURL, Model: cfg.Model})
		if err != nil {
			return agent.Unconfigured{Hint: "OpenAI API not configured. Set chat.api_key or OPENAI_API_KEY."}
		}
		return client
	}
}

// connectBanner renders the post-handshake greeting with the tool list.
func connectBanner(info mcp.Implementation, names []string) string {
	return fmt.Sprintf("✓ Connected to %s %s\n\nAvailable tools (%d):\n%s",
		info.Name, info.Version, len(names), "  • "+strings.Join(names, "\n  • "))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
