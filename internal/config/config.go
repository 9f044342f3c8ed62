package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the config file searched for in the working directory
// and the install root.
const DefaultFileName = "flexsim-mcp.toml"

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "FLEXSIM_MCP_CONFIG"

// FlexSim holds engine install settings.
type FlexSim struct {
	InstallPath    string   `toml:"install_path"`
	FallbackPaths  []string `toml:"fallback_paths"`
	RuntimeVersion string   `toml:"runtime_version"`
	ShowGUI        bool     `toml:"show_gui"`
}

// Server identifies this MCP server during the initialize handshake.
type Server struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Session controls engine handle reuse. Only "singleton" is implemented;
// the key exists so configs stay forward compatible.
type Session struct {
	ReusePolicy string `toml:"reuse_policy"`
}

// Logging controls level and optional file sink.
type Logging struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Chat configures the demo chat client.
type Chat struct {
	Provider string `toml:"provider"` // openai|anthropic
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
}

// Config is the persisted config file schema.
type Config struct {
	FlexSim FlexSim `toml:"flexsim"`
	Server  Server  `toml:"server"`
	Session Session `toml:"session"`
	Logging Logging `toml:"logging"`
	Chat    Chat    `toml:"chat"`
	Source  string  `toml:"-"`
}

func Default() Config {
	return Config{
		FlexSim: FlexSim{
			InstallPath: `C:\Program Files\FlexSim 2024 Update 2\program`,
			FallbackPaths: []string{
				`C:\Program Files\FlexSim 2024\program`,
				`C:\Program Files\FlexSim 2023 Update 2\program`,
			},
			RuntimeVersion: "24.2",
			ShowGUI:        true,
		},
		Server: Server{
			Name:    "flexsim-mcp",
			Version: "0.1.0",
		},
		Session: Session{ReusePolicy: "singleton"},
		Logging: Logging{Level: "info"},
		Chat: Chat{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
	}
}

// Load resolves and reads the config. Precedence for the file location:
// explicit path > $FLEXSIM_MCP_CONFIG > ./flexsim-mcp.toml > install-root
// file > defaults. Environment overrides are applied after the file.
func Load(path string) (Config, error) {
	cfg := Default()
	resolved, err := resolvePath(path)
	if err != nil {
		return cfg, err
	}
	if resolved == "" {
		applyEnvOverrides(&cfg)
		return cfg, nil
	}
	cfg.Source = resolved

	content, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		return path, nil
	}
	if env := strings.TrimSpace(os.Getenv(EnvConfigPath)); env != "" {
		return env, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	cwdFile := filepath.Join(wd, DefaultFileName)
	if fileExists(cwdFile) {
		return cwdFile, nil
	}
	if exe, err := os.Executable(); err == nil {
		rootFile := filepath.Join(filepath.Dir(exe), DefaultFileName)
		if fileExists(rootFile) {
			return rootFile, nil
		}
	}
	return "", nil
}

func applyEnvOverrides(cfg *Config) {
	if env := strings.TrimSpace(os.Getenv("FLEXSIM_INSTALL_PATH")); env != "" {
		cfg.FlexSim.InstallPath = env
	}
	if env := strings.TrimSpace(os.Getenv("FLEXSIM_LOG_LEVEL")); env != "" {
		cfg.Logging.Level = env
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
