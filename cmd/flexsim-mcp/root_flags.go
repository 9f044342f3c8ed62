package main

import "flag"

type rootArgs struct {
	cfgPath   string
	logLevel  string
	overrides []string
}

// parseRootArgs pulls the shared flags off the front of the argument
// list; whatever follows names the subcommand.
func parseRootArgs(args []string) (rootArgs, []string, error) {
	fs := flag.NewFlagSet("flexsim-mcp", flag.ContinueOnError)
	var root rootArgs
	var overrides stringSlice
	fs.StringVar(&root.cfgPath, "config", "", "Path to config file (default ./flexsim-mcp.toml)")
	fs.StringVar(&root.logLevel, "log-level", "", "Log level override (debug|info|warn|error)")
	fs.Var(&overrides, "c", "Override config value key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return rootArgs{}, nil, err
	}
	root.overrides = overrides
	return root, fs.Args(), nil
}
