package main

import (
	"fmt"
	"os"

	"flexsim-mcp/internal/config"
	"flexsim-mcp/internal/logger"
)

const version = "0.1.0"

var log = logger.Named("cli")

func main() {
	logger.Configure()

	root, rest, err := parseRootArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("parse args: %v", err)
	}

	cfg, err := config.Load(root.cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg = config.ApplyKVOverrides(cfg, root.overrides)
	if root.logLevel != "" {
		cfg.Logging.Level = root.logLevel
	}
	logger.SetLevel(cfg.Logging.Level)

	logPath := cfg.Logging.File
	if logPath == "" {
		logPath = logger.DefaultLogPath
	}
	if logFile, _, err := logger.SetupFile(logPath); err != nil {
		log.Warnf("failed to initialize log file: %v", err)
	} else {
		defer logFile.Close()
	}

	command := "serve"
	if len(rest) > 0 {
		command = rest[0]
		rest = rest[1:]
	}

	switch command {
	case "serve":
		serveMain(cfg, rest)
	case "chat":
		chatMain(cfg, rest)
	case "tools":
		toolsMain(cfg, rest)
	case "setup":
		setupMain(cfg, rest)
	case "version":
		fmt.Printf("%s %s\n", cfg.Server.Name, version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`Usage: flexsim-mcp [flags] <command>

Commands:
  serve    Run the MCP tool server over stdio (default)
  chat     Open the terminal chat client against a local server
  tools    Print the tool surface
  setup    Show config summary and generate client registration
  version  Print the version

Flags:
  -config path      Config file (default ./flexsim-mcp.toml)
  -log-level level  Log level override
  -c key=value      Config override (repeatable)
`)
}
