package config

import (
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides on top of the
// loaded config. Unknown keys are ignored.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "flexsim.install_path":
			cfg.FlexSim.InstallPath = val
		case "flexsim.fallback_paths":
			cfg.FlexSim.FallbackPaths = splitList(val)
		case "flexsim.runtime_version":
			cfg.FlexSim.RuntimeVersion = val
		case "flexsim.show_gui":
			cfg.FlexSim.ShowGUI = parseBool(val, cfg.FlexSim.ShowGUI)
		case "server.name":
			cfg.Server.Name = val
		case "server.version":
			cfg.Server.Version = val
		case "session.reuse_policy":
			cfg.Session.ReusePolicy = val
		case "logging.level":
			cfg.Logging.Level = val
		case "logging.file":
			cfg.Logging.File = val
		case "chat.provider":
			cfg.Chat.Provider = val
		case "chat.model":
			cfg.Chat.Model = val
		case "chat.base_url":
			cfg.Chat.BaseURL = val
		case "chat.api_key":
			cfg.Chat.APIKey = val
		}
	}
	return cfg
}

// listSeparator keeps Windows drive-letter paths intact.
const listSeparator = ";"

func splitList(val string) []string {
	parts := strings.Split(val, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseBool(val string, fallback bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "t", "yes", "y", "on":
		return true
	case "false", "0", "f", "no", "n", "off":
		return false
	}
	return fallback
}
