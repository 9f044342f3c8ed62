package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"flexsim-mcp/internal/chat"
	"flexsim-mcp/internal/config"
	"flexsim-mcp/internal/engine"
	"flexsim-mcp/internal/logger"
	"flexsim-mcp/internal/mcp"
	"flexsim-mcp/internal/session"
	"flexsim-mcp/internal/setup"
	"flexsim-mcp/internal/tools"
)

// serveMain runs the stdio protocol loop. stdout is the wire; everything
// diagnostic goes to stderr and the log file.
func serveMain(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	showGUI := fs.Bool("show-gui", cfg.FlexSim.ShowGUI, "Keep the FlexSim window visible")
	evaluation := fs.Bool("evaluation-license", false, "Request the evaluation license")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse args: %v", err)
	}

	holder := session.NewHolder(func() (engine.Controller, error) {
		return engine.Launch(engine.Options{
			InstallPath:       cfg.FlexSim.InstallPath,
			FallbackPaths:     cfg.FlexSim.FallbackPaths,
			ShowGUI:           *showGUI,
			EvaluationLicense: *evaluation,
			Log:               logger.Named("engine"),
		})
	})
	defer holder.Shutdown()

	server := mcp.NewServer(
		mcp.Implementation{Name: cfg.Server.Name, Version: cfg.Server.Version},
		tools.Default(),
		tools.NewRuntime(holder),
		os.Stdin,
		os.Stdout,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("%s %s serving on stdio", cfg.Server.Name, cfg.Server.Version)
	if err := server.Serve(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("serve: %v", err)
	}
}

func chatMain(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	model := fs.String("model", "", "Chat model override")
	provider := fs.String("provider", "", "Chat provider override (openai|anthropic)")
	serverCmd := fs.String("server-cmd", "", "Server command (default: this binary with 'serve')")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse args: %v", err)
	}
	if *model != "" {
		cfg.Chat.Model = *model
	}
	if *provider != "" {
		cfg.Chat.Provider = *provider
	}

	opts := chat.RunOptions{Config: cfg}
	if *serverCmd != "" {
		opts.ServerCommand = *serverCmd
		opts.ServerArgs = fs.Args()
	}
	if err := chat.Run(opts); err != nil {
		log.Fatalf("chat: %v", err)
	}
}

// toolsMain prints the tool surface without touching the engine.
func toolsMain(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("tools", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Emit tool descriptors as JSON")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse args: %v", err)
	}

	defs := tools.Default().List()
	if *asJSON {
		descriptors := make([]mcp.ToolDescriptor, 0, len(defs))
		for _, def := range defs {
			descriptors = append(descriptors, mcp.ToolDescriptor{
				Name:        def.Name,
				Description: def.Description,
				InputSchema: def.InputSchema,
			})
		}
		payload, err := json.MarshalIndent(descriptors, "", "  ")
		if err != nil {
			log.Fatalf("encode tools: %v", err)
		}
		fmt.Println(string(payload))
		return
	}

	fmt.Printf("%s %s tools (%d):\n", cfg.Server.Name, cfg.Server.Version, len(defs))
	for _, def := range defs {
		fmt.Printf("  %-26s %s\n", def.Name, def.Description)
	}
}

func setupMain(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("setup", flag.ExitOnError)
	target := fs.String("target", "claude", "Registration target: claude|cursor|generic")
	write := fs.String("write", "", "Write the registration JSON to this file")
	initConfig := fs.String("init-config", "", "Write a starter config TOML to this file")
	exe := fs.String("exe", "", "Server binary path for the registration (default: this binary)")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse args: %v", err)
	}

	err := setup.Run(setup.Options{
		Config:         cfg,
		Target:         *target,
		Executable:     *exe,
		WritePath:      *write,
		InitConfigPath: *initConfig,
		Out:            os.Stdout,
	})
	if err != nil {
		log.Fatalf("setup: %v", err)
	}
}
